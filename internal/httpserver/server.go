// Package httpserver implements the REST transport in front of the
// lifecycle service.
//
// All /applications routes expect a Bearer JWT in the Authorization
// header; /auth routes are public.
//
// Routes:
//
//	POST   /auth/register                     → create account
//	POST   /auth/login                        → obtain JWT
//	POST   /applications                      → create application (CANDIDATE)
//	GET    /applications                      → list own applications (paged, sortable)
//	GET    /applications/search               → filter by status / company substring
//	GET    /applications/range                → filter by date-applied range
//	GET    /applications/summary              → count per status
//	GET    /applications/{id}                 → application detail
//	PUT    /applications/{id}                 → update descriptive fields (CANDIDATE)
//	DELETE /applications/{id}                 → delete (CANDIDATE)
//	PATCH  /applications/{id}/status          → status transition with audit trail
//	GET    /applications/{id}/history         → audit trail, newest first
//	POST   /applications/{id}/notes           → append note
//	GET    /applications/{id}/notes           → list notes, newest first
//	PUT    /applications/{id}/reminder        → set or clear follow-up reminder
package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"apptracker/internal/auth"
	"apptracker/internal/lifecycle"
)

// Server holds the transport's collaborators.
type Server struct {
	apps  *lifecycle.Service
	users *auth.Service
}

// New returns a configured Server.
func New(apps *lifecycle.Service, users *auth.Service) *Server {
	return &Server{apps: apps, users: users}
}

// RegisterRoutes mounts all routes on mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/register", s.register)
	mux.HandleFunc("POST /auth/login", s.login)

	mux.HandleFunc("POST /applications", s.withAuth(auth.RoleCandidate, s.createApplication))
	mux.HandleFunc("GET /applications", s.withAuth("", s.listApplications))
	mux.HandleFunc("GET /applications/search", s.withAuth("", s.searchApplications))
	mux.HandleFunc("GET /applications/range", s.withAuth("", s.applicationsInRange))
	mux.HandleFunc("GET /applications/summary", s.withAuth("", s.statusSummary))
	mux.HandleFunc("GET /applications/{id}", s.withAuth("", s.getApplication))
	mux.HandleFunc("PUT /applications/{id}", s.withAuth(auth.RoleCandidate, s.updateApplication))
	mux.HandleFunc("DELETE /applications/{id}", s.withAuth(auth.RoleCandidate, s.deleteApplication))
	mux.HandleFunc("PATCH /applications/{id}/status", s.withAuth("", s.updateStatus))
	mux.HandleFunc("GET /applications/{id}/history", s.withAuth("", s.statusHistory))
	mux.HandleFunc("POST /applications/{id}/notes", s.withAuth("", s.addNote))
	mux.HandleFunc("GET /applications/{id}/notes", s.withAuth("", s.listNotes))
	mux.HandleFunc("PUT /applications/{id}/reminder", s.withAuth("", s.setReminder))
}

// authedHandler receives the verified caller identity explicitly; no
// handler reads identity from ambient state.
type authedHandler func(w http.ResponseWriter, r *http.Request, ident lifecycle.Identity)

// withAuth verifies the bearer token and, when role is non-empty, gates
// the route on it. Role gating lives here only — the lifecycle service
// compares identity keys, never roles.
func (s *Server) withAuth(role string, next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || token == "" {
			jsonError(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		ident, err := s.users.VerifyToken(token)
		if err != nil {
			jsonError(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}
		if role != "" && ident.Role != role {
			jsonError(w, "insufficient role", http.StatusForbidden)
			return
		}
		next(w, r, ident)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, v)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
