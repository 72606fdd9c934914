package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"apptracker/internal/lifecycle"
)

// dateOnly is the wire format for date-applied values.
const dateOnly = "2006-01-02"

// applicationRequest is the JSON body for create and update. A status
// field, if present, is ignored: creation always starts at APPLIED and
// updates never touch status.
type applicationRequest struct {
	CompanyName string  `json:"companyName"`
	JobTitle    string  `json:"jobTitle"`
	DateApplied string  `json:"dateApplied"`
	JobURL      *string `json:"jobUrl"`
	Notes       *string `json:"notes"`
}

func (a applicationRequest) toInput() (lifecycle.ApplicationInput, error) {
	in := lifecycle.ApplicationInput{
		CompanyName: a.CompanyName,
		JobTitle:    a.JobTitle,
		JobURL:      a.JobURL,
		Notes:       a.Notes,
	}
	if a.DateApplied != "" {
		d, err := time.Parse(dateOnly, a.DateApplied)
		if err != nil {
			return in, &lifecycle.ValidationError{Msg: "dateApplied must be YYYY-MM-DD"}
		}
		in.DateApplied = d
	}
	return in, nil
}

func (s *Server) createApplication(w http.ResponseWriter, r *http.Request, ident lifecycle.Identity) {
	var body applicationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	in, err := body.toInput()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	app, err := s.apps.Create(r.Context(), ident, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (s *Server) getApplication(w http.ResponseWriter, r *http.Request, ident lifecycle.Identity) {
	app, err := s.apps.Get(r.Context(), ident, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonOK(w, app)
}

func (s *Server) updateApplication(w http.ResponseWriter, r *http.Request, ident lifecycle.Identity) {
	var body applicationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	in, err := body.toInput()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	app, err := s.apps.Update(r.Context(), ident, r.PathValue("id"), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonOK(w, app)
}

func (s *Server) deleteApplication(w http.ResponseWriter, r *http.Request, ident lifecycle.Identity) {
	if err := s.apps.Delete(r.Context(), ident, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listApplications(w http.ResponseWriter, r *http.Request, ident lifecycle.Identity) {
	page, err := s.apps.List(r.Context(), ident, pageFromQuery(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonOK(w, page)
}

func (s *Server) searchApplications(w http.ResponseWriter, r *http.Request, ident lifecycle.Identity) {
	q := r.URL.Query()
	page, err := s.apps.Search(r.Context(), ident, q.Get("status"), q.Get("companyName"), pageFromQuery(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonOK(w, page)
}

func (s *Server) applicationsInRange(w http.ResponseWriter, r *http.Request, ident lifecycle.Identity) {
	q := r.URL.Query()
	from, err := time.Parse(dateOnly, q.Get("from"))
	if err != nil {
		jsonError(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	to, err := time.Parse(dateOnly, q.Get("to"))
	if err != nil {
		jsonError(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	apps, err := s.apps.InDateRange(r.Context(), ident, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonOK(w, apps)
}

func (s *Server) statusSummary(w http.ResponseWriter, r *http.Request, ident lifecycle.Identity) {
	counts, err := s.apps.Summary(r.Context(), ident)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonOK(w, counts)
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request, ident lifecycle.Identity) {
	var body struct {
		NewStatus string `json:"newStatus"`
		Reason    string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.NewStatus == "" {
		jsonError(w, "body must contain newStatus", http.StatusBadRequest)
		return
	}
	app, err := s.apps.Transition(r.Context(), ident, r.PathValue("id"), body.NewStatus, body.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonOK(w, app)
}

func (s *Server) statusHistory(w http.ResponseWriter, r *http.Request, ident lifecycle.Identity) {
	q := r.URL.Query()
	since, err := optionalTime(q.Get("since"))
	if err != nil {
		jsonError(w, "since must be RFC 3339", http.StatusBadRequest)
		return
	}
	until, err := optionalTime(q.Get("until"))
	if err != nil {
		jsonError(w, "until must be RFC 3339", http.StatusBadRequest)
		return
	}
	entries, err := s.apps.History(r.Context(), ident, r.PathValue("id"), since, until)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonOK(w, entries)
}

func (s *Server) addNote(w http.ResponseWriter, r *http.Request, ident lifecycle.Identity) {
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	note, err := s.apps.AddNote(r.Context(), ident, r.PathValue("id"), body.Content)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request, ident lifecycle.Identity) {
	notes, err := s.apps.ListNotes(r.Context(), ident, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonOK(w, notes)
}

func (s *Server) setReminder(w http.ResponseWriter, r *http.Request, ident lifecycle.Identity) {
	var body struct {
		RemindAt *time.Time `json:"remindAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	app, err := s.apps.SetReminder(r.Context(), ident, r.PathValue("id"), body.RemindAt)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonOK(w, app)
}

// ─── Query helpers ───────────────────────────────────────────────────────────

// pageFromQuery reads page/size/sortBy/direction. Defaults: page 0,
// size 10, dateApplied descending.
func pageFromQuery(r *http.Request) lifecycle.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	return lifecycle.PageRequest{
		Page:   page,
		Size:   size,
		SortBy: q.Get("sortBy"),
		Asc:    strings.EqualFold(q.Get("direction"), "ASC"),
	}
}

func optionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
