// Service orchestration for the application lifecycle. It is
// transport-agnostic: the HTTP layer (httpserver package) is one consumer.
//
// Every call takes the caller Identity explicitly; the service never reads
// identity from ambient state. Ownership is checked on every id-addressed
// operation; list and search are owner-scoped at the query instead.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Service encapsulates the application lifecycle business logic.
type Service struct {
	store  Store
	events Events
}

// NewService returns a configured Service. events may be nil when no
// publisher is wired (tests, offline tooling).
func NewService(store Store, events Events) *Service {
	return &Service{store: store, events: events}
}

// ─── CRUD ────────────────────────────────────────────────────────────────────

// Create validates the input and inserts a new application owned by the
// actor. The initial status is always APPLIED; any status in the request
// body never reaches the store.
func (s *Service) Create(ctx context.Context, actor Identity, in ApplicationInput) (*Application, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	app, err := s.store.CreateApplication(ctx, actor.ID, in)
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	slog.Info("application created", "id", app.ID, "company", app.CompanyName)
	return app, nil
}

// Get returns a single application, enforcing ownership.
func (s *Service) Get(ctx context.Context, actor Identity, id string) (*Application, error) {
	return s.authorize(ctx, actor, id)
}

// Update replaces the descriptive fields of an owned application. Status
// is deliberately not restricted here: a terminal application's company
// or title can still be corrected.
func (s *Service) Update(ctx context.Context, actor Identity, id string, in ApplicationInput) (*Application, error) {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	app, err := s.store.UpdateApplication(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}
	return app, nil
}

// Delete removes an owned application together with its status history
// and notes.
func (s *Service) Delete(ctx context.Context, actor Identity, id string) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	if err := s.store.DeleteApplication(ctx, id); err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	slog.Info("application deleted", "id", id)
	return nil
}

// ─── Queries ─────────────────────────────────────────────────────────────────

// List returns a page of the actor's applications.
func (s *Service) List(ctx context.Context, actor Identity, page PageRequest) (*ApplicationPage, error) {
	return s.store.ListByOwner(ctx, actor.ID, page.Normalize())
}

// Search filters the actor's applications by optional status and optional
// case-insensitive company substring. An empty statusStr means no status
// filter.
func (s *Service) Search(ctx context.Context, actor Identity, statusStr, company string, page PageRequest) (*ApplicationPage, error) {
	var status *Status
	if statusStr != "" {
		st, err := ParseStatus(statusStr)
		if err != nil {
			return nil, &ValidationError{Msg: err.Error()}
		}
		status = &st
	}
	return s.store.SearchApplications(ctx, actor.ID, status, company, page.Normalize())
}

// InDateRange returns the actor's applications with dateApplied between
// from and to inclusive.
func (s *Service) InDateRange(ctx context.Context, actor Identity, from, to time.Time) ([]Application, error) {
	if to.Before(from) {
		return nil, &ValidationError{Msg: "date range end precedes start"}
	}
	return s.store.ListByDateRange(ctx, actor.ID, from, to)
}

// Summary returns the actor's application count per status.
func (s *Service) Summary(ctx context.Context, actor Identity) (map[Status]int64, error) {
	return s.store.CountByStatus(ctx, actor.ID)
}

// ─── Status transitions ──────────────────────────────────────────────────────

// Transition moves an owned application to newStatusStr and appends one
// audit entry, atomically. It fails with ErrNotFound, ErrNotOwner, a
// *ValidationError for an unknown status, or a *TransitionError when the
// state machine rejects the change (including any move out of a terminal
// state and any self-transition).
func (s *Service) Transition(ctx context.Context, actor Identity, id, newStatusStr, reason string) (*Application, error) {
	newStatus, err := ParseStatus(newStatusStr)
	if err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}
	if err := validateReason(reason); err != nil {
		return nil, err
	}

	app, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(app.Status, newStatus) {
		return nil, &TransitionError{From: app.Status, To: newStatus}
	}

	updated, change, err := s.store.ApplyTransition(ctx, id, newStatus, actor.ID, reason)
	if err != nil {
		var te *TransitionError
		if errors.As(err, &te) && te.From != app.Status {
			// The pre-check passed against a status that was already
			// stale when the row lock was taken: a concurrent transition
			// won. The caller sees a normal rejection built from the
			// fresh statuses.
			slog.Warn("transition lost race",
				"applicationId", id, "seen", app.Status, "current", te.From, "requested", newStatus)
			return nil, err
		}
		if errors.As(err, &te) {
			// Same from-status and the pre-check disagreed with the
			// store's re-check: the two checkpoints diverged.
			slog.Error("transition re-validation rejected a pre-checked change",
				"applicationId", id, "from", te.From, "to", te.To)
		}
		return nil, err
	}

	slog.Info("application status updated",
		"id", id, "from", change.OldStatus, "to", change.NewStatus)

	if s.events != nil {
		if err := s.events.StatusChanged(ctx, updated, change); err != nil {
			slog.Warn("publish status change failed", "applicationId", id, "err", err)
		}
	}
	return updated, nil
}

// History returns the audit trail of an owned application, newest first.
// since and until optionally bound the entries' creation time.
func (s *Service) History(ctx context.Context, actor Identity, id string, since, until *time.Time) ([]StatusChange, error) {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.store.HistoryFor(ctx, id, since, until)
}

// ─── Notes ───────────────────────────────────────────────────────────────────

// AddNote appends a free-text note to an owned application.
func (s *Service) AddNote(ctx context.Context, actor Identity, id, content string) (*Note, error) {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}
	if err := validateNoteContent(content); err != nil {
		return nil, err
	}
	note, err := s.store.AddNote(ctx, id, actor.ID, content)
	if err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	return note, nil
}

// ListNotes returns the notes of an owned application, newest first.
func (s *Service) ListNotes(ctx context.Context, actor Identity, id string) ([]Note, error) {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.store.NotesFor(ctx, id)
}

// ─── Reminders ───────────────────────────────────────────────────────────────

// SetReminder sets (or clears, when at is nil) the follow-up reminder on
// an owned application.
func (s *Service) SetReminder(ctx context.Context, actor Identity, id string, at *time.Time) (*Application, error) {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}
	if at != nil && at.Before(time.Now()) {
		return nil, &ValidationError{Msg: "reminder must be in the future"}
	}
	app, err := s.store.SetReminder(ctx, id, at)
	if err != nil {
		return nil, fmt.Errorf("set reminder: %w", err)
	}
	return app, nil
}

// ─── Ownership guard ─────────────────────────────────────────────────────────

// authorize loads the application and verifies the actor owns it.
// Returns ErrNotFound when the id is unknown and ErrNotOwner on an
// identity mismatch, before any mutation can happen.
func (s *Service) authorize(ctx context.Context, actor Identity, id string) (*Application, error) {
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.OwnerID != actor.ID {
		return nil, ErrNotOwner
	}
	return app, nil
}
