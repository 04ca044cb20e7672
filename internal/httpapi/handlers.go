package httpapi

import (
	"errors"
	"net/http"

	"pastebin/internal/model"
	"pastebin/internal/paste"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type pasteResponse struct {
	ID string `json:"id"`
}

func (s *Server) handlePaste(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	s.requireUser(s.createPaste)(w, r)
}

func (s *Server) createPaste(w http.ResponseWriter, r *http.Request, user model.User) {
	var draft model.PasteDraft
	if !decodeBody(w, r, s.cfg.MaxPasteBytes, &draft) {
		return
	}

	id, err := s.pastes.Submit(r.Context(), draft, user.Username)
	if err != nil {
		var missing *paste.MissingFieldError
		if errors.As(err, &missing) {
			writeError(w, http.StatusBadRequest, "missing_field", missing.Error())
			return
		}
		s.log.Error(r.Context(), "submit paste", "username", user.Username, "err", err)
		writeInternal(w)
		return
	}

	writeJSON(w, http.StatusCreated, pasteResponse{ID: id})
}

func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	id := r.PathValue("id")
	p, err := s.pastes.Retrieve(r.Context(), id)
	if err != nil {
		if errors.Is(err, paste.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "no such paste")
			return
		}
		s.log.Error(r.Context(), "retrieve paste", "id", id, "err", err)
		writeInternal(w)
		return
	}

	s.log.Debug(r.Context(), "paste retrieved", "id", id)
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	sums, err := s.pastes.ListSummaries(r.Context())
	if err != nil {
		s.log.Error(r.Context(), "list pastes", "err", err)
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, sums)
}
