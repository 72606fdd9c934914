package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"apptracker/internal/auth"
	"apptracker/internal/lifecycle"
)

// writeDomainError maps a service error to a wire response. Unrecognized
// errors become an opaque 500; details stay in the log.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		te *lifecycle.TransitionError
		ve *lifecycle.ValidationError
	)
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		jsonError(w, "application not found", http.StatusNotFound)
	case errors.Is(err, lifecycle.ErrNotOwner):
		jsonError(w, "caller is not the owner of this application", http.StatusForbidden)
	case errors.As(err, &te):
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":           te.Error(),
			"currentStatus":   string(te.From),
			"requestedStatus": string(te.To),
		})
	case errors.As(err, &ve):
		jsonError(w, ve.Msg, http.StatusBadRequest)
	case errors.Is(err, auth.ErrEmailTaken), errors.Is(err, auth.ErrUsernameTaken):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, auth.ErrInvalidCredentials):
		jsonError(w, err.Error(), http.StatusUnauthorized)
	default:
		slog.Error("request failed", "err", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
	}
}
