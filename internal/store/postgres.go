// Package store implements the persistence layer on PostgreSQL via pgx.
//
// Status transitions use an explicit transaction: the application row is
// locked, the transition is re-validated against the locked status, and
// the status update plus its audit entry commit together. Concurrent
// transitions on one row serialize on the lock and the loser is rejected.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"apptracker/internal/lifecycle"
)

// Store provides application, status-history, note and user persistence.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store backed by the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const appColumns = `id, owner_id, company_name, job_title, date_applied, status,
	job_url, notes, remind_at, created_at, updated_at`

const changeColumns = `id, application_id, old_status, new_status, actor_id,
	COALESCE(reason, ''), created_at`

// sortColumns whitelists the caller-selectable sort fields for list
// queries. Unknown fields fall back to dateApplied.
var sortColumns = map[string]string{
	"dateApplied": "date_applied",
	"companyName": "company_name",
	"jobTitle":    "job_title",
	"status":      "status",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

// ─── Applications ────────────────────────────────────────────────────────────

// CreateApplication inserts a new application for ownerID. The status is
// hardwired to APPLIED: whatever a client sent never reaches this query.
func (s *Store) CreateApplication(ctx context.Context, ownerID string, in lifecycle.ApplicationInput) (*lifecycle.Application, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO applications (owner_id, company_name, job_title, date_applied, status, job_url, notes)
		 VALUES ($1, $2, $3, $4, 'APPLIED', $5, $6)
		 RETURNING `+appColumns,
		ownerID, in.CompanyName, in.JobTitle, in.DateApplied, in.JobURL, in.Notes,
	)
	app, err := scanApplication(row)
	if err != nil {
		return nil, fmt.Errorf("insert application: %w", err)
	}
	return app, nil
}

// GetApplication returns one application by id without owner filtering;
// the ownership guard in the service layer decides who may see it.
func (s *Store) GetApplication(ctx context.Context, id string) (*lifecycle.Application, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+appColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		if notFound(err) {
			return nil, lifecycle.ErrNotFound
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return app, nil
}

// UpdateApplication replaces the descriptive fields and refreshes
// updated_at. Status, owner_id and created_at are not in the SET list.
func (s *Store) UpdateApplication(ctx context.Context, id string, in lifecycle.ApplicationInput) (*lifecycle.Application, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE applications
		 SET company_name = $1, job_title = $2, date_applied = $3,
		     job_url = $4, notes = $5, updated_at = NOW()
		 WHERE id = $6
		 RETURNING `+appColumns,
		in.CompanyName, in.JobTitle, in.DateApplied, in.JobURL, in.Notes, id,
	)
	app, err := scanApplication(row)
	if err != nil {
		if notFound(err) {
			return nil, lifecycle.ErrNotFound
		}
		return nil, fmt.Errorf("update application: %w", err)
	}
	return app, nil
}

// DeleteApplication removes the row; history and notes go with it via
// ON DELETE CASCADE.
func (s *Store) DeleteApplication(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		if notFound(err) {
			return lifecycle.ErrNotFound
		}
		return fmt.Errorf("delete application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return lifecycle.ErrNotFound
	}
	return nil
}

// ListByOwner returns one page of the owner's applications.
func (s *Store) ListByOwner(ctx context.Context, ownerID string, page lifecycle.PageRequest) (*lifecycle.ApplicationPage, error) {
	return s.queryPage(ctx, page,
		`FROM applications WHERE owner_id = $1`, ownerID)
}

// SearchApplications filters by optional status and case-insensitive
// company substring. Missing filters match everything.
func (s *Store) SearchApplications(ctx context.Context, ownerID string, status *lifecycle.Status, company string, page lifecycle.PageRequest) (*lifecycle.ApplicationPage, error) {
	var statusArg *string
	if status != nil {
		v := string(*status)
		statusArg = &v
	}
	return s.queryPage(ctx, page,
		`FROM applications
		 WHERE owner_id = $1
		   AND ($2::text IS NULL OR status = $2)
		   AND ($3::text = '' OR company_name ILIKE '%' || $3 || '%')`,
		ownerID, statusArg, company)
}

// queryPage runs a COUNT plus a page SELECT over the given FROM/WHERE
// fragment. args feed both queries; LIMIT/OFFSET placeholders are
// appended after them.
func (s *Store) queryPage(ctx context.Context, page lifecycle.PageRequest, fromWhere string, args ...any) (*lifecycle.ApplicationPage, error) {
	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) `+fromWhere, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}

	col, ok := sortColumns[page.SortBy]
	if !ok {
		col = "date_applied"
		page.Asc = false
	}
	dir := "DESC"
	if page.Asc {
		dir = "ASC"
	}
	limitPos := len(args) + 1
	query := fmt.Sprintf(`SELECT %s %s ORDER BY %s %s, created_at DESC LIMIT $%d OFFSET $%d`,
		appColumns, fromWhere, col, dir, limitPos, limitPos+1)

	rows, err := s.pool.Query(ctx, query, append(args, page.Size, page.Offset())...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	items := make([]lifecycle.Application, 0, page.Size)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		items = append(items, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return &lifecycle.ApplicationPage{Items: items, Page: page.Page, Size: page.Size, Total: total}, nil
}

// ListByDateRange returns the owner's applications with date_applied in
// [from, to], newest first.
func (s *Store) ListByDateRange(ctx context.Context, ownerID string, from, to time.Time) ([]lifecycle.Application, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+appColumns+`
		 FROM applications
		 WHERE owner_id = $1 AND date_applied BETWEEN $2 AND $3
		 ORDER BY date_applied DESC, created_at DESC`,
		ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("date-range query: %w", err)
	}
	defer rows.Close()

	apps := make([]lifecycle.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("date-range scan: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// CountByStatus returns the owner's application count per status.
func (s *Store) CountByStatus(ctx context.Context, ownerID string) (map[lifecycle.Status]int64, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM applications WHERE owner_id = $1 GROUP BY status`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[lifecycle.Status]int64)
	for rows.Next() {
		var raw string
		var n int64
		if err := rows.Scan(&raw, &n); err != nil {
			return nil, fmt.Errorf("count scan: %w", err)
		}
		st, err := lifecycle.ParseStatus(raw)
		if err != nil {
			return nil, err
		}
		counts[st] = n
	}
	return counts, rows.Err()
}

// ─── Transitions & audit trail ───────────────────────────────────────────────

// ApplyTransition locks the application row, re-validates the transition
// against the locked status, then updates the status and appends the
// audit entry — all in one transaction. Either both writes commit or
// neither does.
func (s *Store) ApplyTransition(ctx context.Context, id string, next lifecycle.Status, actorID, reason string) (*lifecycle.Application, *lifecycle.StatusChange, error) {
	var (
		app    *lifecycle.Application
		change *lifecycle.StatusChange
	)
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var raw string
		err := tx.QueryRow(ctx,
			`SELECT status FROM applications WHERE id = $1 FOR UPDATE`, id).Scan(&raw)
		if err != nil {
			if notFound(err) {
				return lifecycle.ErrNotFound
			}
			return fmt.Errorf("lock application: %w", err)
		}
		current, err := lifecycle.ParseStatus(raw)
		if err != nil {
			return fmt.Errorf("stored status: %w", err)
		}
		if !lifecycle.CanTransition(current, next) {
			return &lifecycle.TransitionError{From: current, To: next}
		}

		row := tx.QueryRow(ctx,
			`UPDATE applications
			 SET status = $1, updated_at = NOW()
			 WHERE id = $2
			 RETURNING `+appColumns,
			string(next), id)
		if app, err = scanApplication(row); err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		row = tx.QueryRow(ctx,
			`INSERT INTO application_status_history (application_id, old_status, new_status, actor_id, reason)
			 VALUES ($1, $2, $3, $4, NULLIF($5, ''))
			 RETURNING `+changeColumns,
			id, string(current), string(next), actorID, reason)
		if change, err = scanChange(row); err != nil {
			return fmt.Errorf("append audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return app, change, nil
}

// HistoryFor returns audit entries for an application newest first,
// optionally bounded by creation time.
func (s *Store) HistoryFor(ctx context.Context, applicationID string, since, until *time.Time) ([]lifecycle.StatusChange, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+changeColumns+`
		 FROM application_status_history
		 WHERE application_id = $1
		   AND ($2::timestamptz IS NULL OR created_at >= $2)
		   AND ($3::timestamptz IS NULL OR created_at <= $3)
		 ORDER BY created_at DESC, id DESC`,
		applicationID, since, until)
	if err != nil {
		return nil, fmt.Errorf("history query: %w", err)
	}
	defer rows.Close()

	entries := make([]lifecycle.StatusChange, 0)
	for rows.Next() {
		c, err := scanChange(rows)
		if err != nil {
			return nil, fmt.Errorf("history scan: %w", err)
		}
		entries = append(entries, *c)
	}
	return entries, rows.Err()
}

// ─── Notes ───────────────────────────────────────────────────────────────────

const noteColumns = `id, application_id, author_id, content, created_at, updated_at`

// AddNote appends a note to an application.
func (s *Store) AddNote(ctx context.Context, applicationID, authorID, content string) (*lifecycle.Note, error) {
	var n lifecycle.Note
	err := s.pool.QueryRow(ctx,
		`INSERT INTO application_notes (application_id, author_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING `+noteColumns,
		applicationID, authorID, content,
	).Scan(&n.ID, &n.ApplicationID, &n.AuthorID, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return &n, nil
}

// NotesFor returns an application's notes newest first.
func (s *Store) NotesFor(ctx context.Context, applicationID string) ([]lifecycle.Note, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+noteColumns+`
		 FROM application_notes
		 WHERE application_id = $1
		 ORDER BY created_at DESC, id DESC`,
		applicationID)
	if err != nil {
		return nil, fmt.Errorf("notes query: %w", err)
	}
	defer rows.Close()

	notes := make([]lifecycle.Note, 0)
	for rows.Next() {
		var n lifecycle.Note
		if err := rows.Scan(&n.ID, &n.ApplicationID, &n.AuthorID, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("note scan: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// ─── Reminders ───────────────────────────────────────────────────────────────

// SetReminder sets or clears (nil) the follow-up reminder timestamp.
func (s *Store) SetReminder(ctx context.Context, id string, at *time.Time) (*lifecycle.Application, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE applications SET remind_at = $1, updated_at = NOW()
		 WHERE id = $2
		 RETURNING `+appColumns,
		at, id)
	app, err := scanApplication(row)
	if err != nil {
		if notFound(err) {
			return nil, lifecycle.ErrNotFound
		}
		return nil, fmt.Errorf("set reminder: %w", err)
	}
	return app, nil
}

// DueReminders claims all reminders due at or before now, clearing them
// in the same statement so a second sweep cannot pick them up again.
func (s *Store) DueReminders(ctx context.Context, now time.Time) ([]lifecycle.Application, error) {
	rows, err := s.pool.Query(ctx,
		`UPDATE applications SET remind_at = NULL
		 WHERE remind_at IS NOT NULL AND remind_at <= $1
		 RETURNING `+appColumns,
		now)
	if err != nil {
		return nil, fmt.Errorf("due reminders: %w", err)
	}
	defer rows.Close()

	apps := make([]lifecycle.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("due reminders scan: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// ─── Scan helpers ────────────────────────────────────────────────────────────

func scanApplication(row pgx.Row) (*lifecycle.Application, error) {
	var (
		a   lifecycle.Application
		raw string
	)
	err := row.Scan(
		&a.ID, &a.OwnerID, &a.CompanyName, &a.JobTitle, &a.DateApplied, &raw,
		&a.JobURL, &a.Notes, &a.RemindAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if a.Status, err = lifecycle.ParseStatus(raw); err != nil {
		return nil, err
	}
	return &a, nil
}

func scanChange(row pgx.Row) (*lifecycle.StatusChange, error) {
	var (
		c        lifecycle.StatusChange
		from, to string
	)
	err := row.Scan(&c.ID, &c.ApplicationID, &from, &to, &c.ActorID, &c.Reason, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if c.OldStatus, err = lifecycle.ParseStatus(from); err != nil {
		return nil, err
	}
	if c.NewStatus, err = lifecycle.ParseStatus(to); err != nil {
		return nil, err
	}
	return &c, nil
}

// notFound reports whether err means the row does not exist. A
// syntactically invalid UUID in an id position (code 22P02) is treated
// the same way so malformed ids read as not-found rather than a server
// error.
func notFound(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}
