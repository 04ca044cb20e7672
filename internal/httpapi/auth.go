package httpapi

import (
	"errors"
	"net/http"

	"pastebin/internal/auth"
)

// credentialsBodyLimit caps login and register bodies.
const credentialsBodyLimit = 4 << 10

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST only")
		return
	}

	var req credentialsRequest
	if !decodeBody(w, r, credentialsBodyLimit, &req) {
		return
	}

	token, err := s.auth.IssueToken(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthenticated) {
			s.log.Debug(r.Context(), "login failed", "username", req.Username)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
			return
		}
		s.log.Error(r.Context(), "login", "username", req.Username, "err", err)
		writeInternal(w)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST only")
		return
	}

	if !s.auth.RegistrationEnabled() {
		writeError(w, http.StatusForbidden, "registration_disabled", "registration is disabled")
		return
	}

	var req credentialsRequest
	if !decodeBody(w, r, credentialsBodyLimit, &req) {
		return
	}

	err := s.auth.Register(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, messageResponse{Message: "registered"})
	case errors.Is(err, auth.ErrRegistrationDisabled):
		writeError(w, http.StatusForbidden, "registration_disabled", err.Error())
	case errors.Is(err, auth.ErrInvalidUsername):
		writeError(w, http.StatusBadRequest, "invalid_username", err.Error())
	case errors.Is(err, auth.ErrInvalidPassword):
		writeError(w, http.StatusBadRequest, "invalid_password", err.Error())
	case errors.Is(err, auth.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "conflict", "username already exists")
	default:
		s.log.Error(r.Context(), "register", "username", req.Username, "err", err)
		writeInternal(w)
	}
}
