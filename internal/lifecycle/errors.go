package lifecycle

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the service and the store. The transport
// layer maps them to wire responses with errors.Is / errors.As.
var (
	// ErrNotFound is returned when the referenced application does not exist.
	ErrNotFound = errors.New("application not found")

	// ErrNotOwner is returned when the caller is not the owner of the
	// application. The message never names the true owner.
	ErrNotOwner = errors.New("caller is not the owner of this application")

	// ErrInvalidTransition is the class of all rejected status changes.
	// Concrete failures are *TransitionError values wrapping it.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// TransitionError reports a rejected status change, carrying the current
// and requested statuses.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// ValidationError wraps a user-facing validation message. Validation runs
// before any store mutation, so a ValidationError implies no write
// occurred.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
