package httpserver

import (
	"encoding/json"
	"net/http"

	"apptracker/internal/auth"
)

// authResponse matches the login/register response shape.
type authResponse struct {
	Token     string     `json:"token"`
	TokenType string     `json:"tokenType"`
	User      *auth.User `json:"user"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var body auth.RegistrationInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	user, err := s.users.Register(r.Context(), body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	token, err := s.users.Token(user)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, TokenType: "Bearer", User: user})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" || body.Password == "" {
		jsonError(w, "body must contain username and password", http.StatusBadRequest)
		return
	}
	token, user, err := s.users.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonOK(w, authResponse{Token: token, TokenType: "Bearer", User: user})
}
