// Package web serves the browser UI: a server-rendered page driven by the
// shared ui.Controller, plus small JSON endpoints proxying the service.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	httpLogger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/sirupsen/logrus"

	"github.com/advait-mulye/medner/internal/logger"
	"github.com/advait-mulye/medner/internal/model"
	"github.com/advait-mulye/medner/internal/render"
	"github.com/advait-mulye/medner/internal/ui"
)

var log = logger.Get()

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Service is the part of the analysis client the web host needs
type Service interface {
	ui.Analyzer
	EntityTypes(ctx context.Context) (model.EntityTypes, error)
	Health(ctx context.Context) (*model.HealthStatus, error)
}

// Server holds what every request needs; it keeps no per-user state
type Server struct {
	cfg   *model.Config
	svc   Service
	pages *template.Template
	log   *logrus.Logger
	now   func() time.Time
}

// NewServer parses the page templates
func NewServer(cfg *model.Config, svc Service) (*Server, error) {
	pages, err := render.Fragments()
	if err != nil {
		return nil, fmt.Errorf("parse result fragments: %w", err)
	}
	pages, err = pages.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}

	return &Server{
		cfg:   cfg,
		svc:   svc,
		pages: pages,
		log:   logger.Get(),
		now:   time.Now,
	}, nil
}

// Create builds the http.Server for cfg.Server.Addr
func Create(cfg *model.Config, svc Service) (*http.Server, error) {
	s, err := NewServer(cfg, svc)
	if err != nil {
		return nil, err
	}
	return &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}, nil
}

// Router wires middleware and routes
func (s *Server) Router() *chi.Mux {
	router := chi.NewRouter()
	router.Use(httpLogger.Logger("web", s.log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Heartbeat("/healthz"))

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		// embedded at build time, cannot be missing
		panic(err)
	}
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	router.Route("/api", func(r chi.Router) {
		r.Get("/entity-types", s.handleEntityTypes)
		r.Get("/health", s.handleHealth)
	})

	router.Group(func(r chi.Router) {
		if key := s.cfg.Server.CSRFKey; key != "" {
			if !s.cfg.Server.SecureCookies {
				r.Use(markPlaintext)
			}
			r.Use(csrf.Protect(
				[]byte(key),
				csrf.Secure(s.cfg.Server.SecureCookies),
				csrf.Path("/"),
				csrf.TrustedOrigins(s.cfg.Server.TrustedOrigins),
			))
		} else {
			s.log.Warn("server.csrf_key not set, form posts are not CSRF protected")
		}
		r.Get("/", s.handleIndex)
		r.Post("/", s.handleAction)
	})

	return router
}

// markPlaintext tells gorilla/csrf the page is served over plain HTTP so it
// skips the HTTPS-only referer check
func markPlaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
