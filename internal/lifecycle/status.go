// Package lifecycle defines the application lifecycle state machine for
// job applications.
//
// Valid status graph:
//
//	APPLIED ──► PHONE_SCREEN ──► INTERVIEW ──► OFFER ──► ACCEPTED
//	    │            │               │           │
//	    └────────────┴───────────────┴───────────┴──► REJECTED
//
// ACCEPTED and REJECTED are terminal states.
package lifecycle

import "fmt"

// Status values mirror the status column on the applications table.
type Status string

const (
	StatusApplied     Status = "APPLIED"
	StatusPhoneScreen Status = "PHONE_SCREEN"
	StatusInterview   Status = "INTERVIEW"
	StatusOffer       Status = "OFFER"
	StatusAccepted    Status = "ACCEPTED"
	StatusRejected    Status = "REJECTED"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusApplied:     {StatusPhoneScreen, StatusRejected},
	StatusPhoneScreen: {StatusInterview, StatusRejected},
	StatusInterview:   {StatusOffer, StatusRejected},
	StatusOffer:       {StatusAccepted, StatusRejected},
	// ACCEPTED and REJECTED are terminal — no outgoing transitions
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusApplied, StatusPhoneScreen, StatusInterview, StatusOffer, StatusAccepted, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// CanTransition returns true when moving from → to is permitted by the
// state machine. Self-transitions are never permitted.
func CanTransition(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state — no outgoing transitions
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true when status has no outgoing transitions.
func IsTerminal(s Status) bool {
	return s == StatusAccepted || s == StatusRejected
}
