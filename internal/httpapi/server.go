package httpapi

import (
	"net/http"

	"pastebin/internal/auth"
	"pastebin/internal/config"
	"pastebin/internal/logging"
	"pastebin/internal/paste"
)

type Server struct {
	cfg    config.Config
	auth   *auth.Service
	pastes *paste.Service
	log    logging.Logger
	mux    *http.ServeMux
}

func NewServer(cfg config.Config, authSvc *auth.Service, pasteSvc *paste.Service, log logging.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		auth:   authSvc,
		pastes: pasteSvc,
		log:    log.With("component", "http"),
		mux:    http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = s.recoverMiddleware(h)
	h = s.loggingMiddleware(h)
	h = requestIDMiddleware(h)
	h = corsMiddleware(s.cfg.CORSOrigins, h)
	return h
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)

	s.mux.HandleFunc("/paste", s.handlePaste)
	s.mux.HandleFunc("/retrieve/{id}", s.handleRetrieve)
	s.mux.HandleFunc("/list", s.handleList)

	s.mux.HandleFunc("/login", s.handleLogin)
	s.mux.HandleFunc("/register", s.handleRegister)

	s.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no such route")
	})
}
