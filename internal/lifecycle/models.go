package lifecycle

import "time"

// Identity is the authenticated caller, resolved by the auth layer and
// passed explicitly into every service call. Ownership checks compare ID
// only; Role is used by the transport layer for route gating.
type Identity struct {
	ID       string
	Username string
	Role     string
}

// Application is one tracked job application. Status is mutated only
// through Transition; Owner, ID and CreatedAt never change.
type Application struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"ownerId"`
	CompanyName string     `json:"companyName"`
	JobTitle    string     `json:"jobTitle"`
	DateApplied time.Time  `json:"dateApplied"`
	Status      Status     `json:"status"`
	JobURL      *string    `json:"jobUrl"`
	Notes       *string    `json:"notes"`
	RemindAt    *time.Time `json:"remindAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// StatusChange is one immutable audit entry. Rows are created once and
// never updated or deleted while the parent application exists.
type StatusChange struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	OldStatus     Status    `json:"oldStatus"`
	NewStatus     Status    `json:"newStatus"`
	ActorID       string    `json:"actorId"`
	Reason        string    `json:"reason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Note is a free-text note attached to an application, independent of the
// status lifecycle.
type Note struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	AuthorID      string    `json:"authorId"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ApplicationInput carries the caller-mutable descriptive fields, used by
// both Create and Update. Any status supplied by a client is ignored:
// new applications always start at APPLIED and Update never touches
// status.
type ApplicationInput struct {
	CompanyName string    `json:"companyName"`
	JobTitle    string    `json:"jobTitle"`
	DateApplied time.Time `json:"dateApplied"`
	JobURL      *string   `json:"jobUrl"`
	Notes       *string   `json:"notes"`
}

// PageRequest selects a page of results. Page is zero-based. SortBy is
// matched against a whitelist by the store; unknown fields fall back to
// the default dateApplied descending.
type PageRequest struct {
	Page   int
	Size   int
	SortBy string
	Asc    bool
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Normalize clamps page and size into valid bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

// Offset returns the row offset for the page.
func (p PageRequest) Offset() int { return p.Page * p.Size }

// ApplicationPage is one page of applications plus the total row count
// for the query.
type ApplicationPage struct {
	Items []Application `json:"items"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
	Total int64         `json:"total"`
}
