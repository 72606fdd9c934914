package lifecycle

import (
	"context"
	"time"
)

// Store is the persistence collaborator for applications, their audit
// trail and their notes. Implementations must give atomic per-row
// read-modify-write semantics: ApplyTransition persists the new status and
// appends its audit entry in one transaction, and two concurrent
// transitions on the same id must serialize (the loser fails, it is never
// silently overwritten).
type Store interface {
	CreateApplication(ctx context.Context, ownerID string, in ApplicationInput) (*Application, error)
	GetApplication(ctx context.Context, id string) (*Application, error)
	// UpdateApplication replaces the descriptive fields only. Status,
	// owner, id and createdAt are never modified; updatedAt is refreshed.
	UpdateApplication(ctx context.Context, id string, in ApplicationInput) (*Application, error)
	// DeleteApplication removes the application and cascades to its
	// status history and notes.
	DeleteApplication(ctx context.Context, id string) error

	ListByOwner(ctx context.Context, ownerID string, page PageRequest) (*ApplicationPage, error)
	// SearchApplications filters by optional status and optional
	// case-insensitive company-name substring; a missing filter matches
	// all records for that field.
	SearchApplications(ctx context.Context, ownerID string, status *Status, company string, page PageRequest) (*ApplicationPage, error)
	ListByDateRange(ctx context.Context, ownerID string, from, to time.Time) ([]Application, error)
	CountByStatus(ctx context.Context, ownerID string) (map[Status]int64, error)

	// ApplyTransition atomically sets the new status and appends one
	// audit entry. It re-validates the transition against the row it
	// locked and returns a *TransitionError without writing anything if
	// the change is not legal at commit time.
	ApplyTransition(ctx context.Context, id string, next Status, actorID, reason string) (*Application, *StatusChange, error)
	// HistoryFor returns audit entries newest first, optionally limited
	// to a created-at range.
	HistoryFor(ctx context.Context, applicationID string, since, until *time.Time) ([]StatusChange, error)

	AddNote(ctx context.Context, applicationID, authorID, content string) (*Note, error)
	NotesFor(ctx context.Context, applicationID string) ([]Note, error)

	// SetReminder sets or clears (nil) the follow-up reminder timestamp.
	SetReminder(ctx context.Context, id string, at *time.Time) (*Application, error)
}

// Events receives domain events after a successful mutation. Publishing
// is best-effort: the service logs failures and never rolls back.
type Events interface {
	StatusChanged(ctx context.Context, app *Application, change *StatusChange) error
}
