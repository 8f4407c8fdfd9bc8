// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package shell serves one Mochi application behind the shared session core.
//
// Every request is its own application instance: the request cookies are the
// persistent credential source, a fresh session store is seeded and booted
// from them, and any change (logout, a 401 from the API, a preference) is
// written back as Set-Cookie headers on the response.
package shell

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"mochi/shell/internal/apiclient"
	"mochi/shell/internal/auth"
	"mochi/shell/internal/backend"
	"mochi/shell/internal/config"
	"mochi/shell/internal/cookiesource"
	"mochi/shell/internal/endpoints"
	"mochi/shell/internal/guard"
	"mochi/shell/internal/logging"
	"mochi/shell/internal/notify"
	"mochi/shell/internal/routes"
	"mochi/shell/internal/session"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Server is the HTTP shell of one application.
type Server struct {
	cfg       config.Config
	app       routes.App
	guard     *guard.Guard
	endpoints endpoints.Endpoints
	http      *http.Client
	log       *logging.Dev
}

// New returns a Server for app. log may be nil.
func New(cfg config.Config, app routes.App, log *logging.Dev) *Server {
	timeout := cfg.APITimeout.Std()
	if timeout <= 0 {
		timeout = apiclient.DefaultTimeout
	}
	return &Server{
		cfg:       cfg,
		app:       app,
		guard:     guard.New(cfg.SignInURL, log),
		endpoints: endpoints.Default(),
		http:      &http.Client{Timeout: timeout},
		log:       log,
	}
}

// Handler returns the routes of the application.
func (s *Server) Handler() http.Handler {
	base := s.app.Base
	r := mux.NewRouter().StrictSlash(true)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	app := r.NewRoute().Subrouter()
	app.Use(s.instance)
	app.Handle(base, s.guard.Middleware(http.HandlerFunc(s.handlePage))).Methods(http.MethodGet)
	app.HandleFunc(base+"api/session", s.handleSession).Methods(http.MethodGet)
	app.Handle(base+"api/apps", s.guard.Middleware(http.HandlerFunc(s.handleApps))).Methods(http.MethodGet)
	app.HandleFunc(base+"logout", s.handleLogout).Methods(http.MethodPost)
	app.HandleFunc(base+"preferences", s.handlePreferences).Methods(http.MethodPost)
	app.Handle(base+"errors/{code}", s.guard.Middleware(http.HandlerFunc(s.handleError))).Methods(http.MethodGet)

	r.NotFoundHandler = s.instance(http.HandlerFunc(s.handleNotFound))
	return r
}

// ListenAndServe runs the server until ctx ends, then drains in-flight
// requests within a bounded shutdown.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	s.log.Printf("Shell", "%s listening on %s", s.app.Name, s.cfg.HTTPAddr)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		err := srv.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// instance seeds and boots a session from the request cookies and carries it
// in the request context.
func (s *Server) instance(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		src := cookiesource.New(w, r, cookiesource.Options{
			Domain: s.cfg.CookieDomain,
			Secure: s.cfg.CookieSecure,
		})
		store := session.New(src, s.cfg.Keys())
		session.NewSynchronizer(store, s.log).Boot()
		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), store)))
	})
}

// services builds the API stack of the instance. Notices are delivered as a
// flash cookie so they survive a redirect.
func (s *Server) services(w http.ResponseWriter, r *http.Request, store *session.Store) (*auth.Service, backend.API, notify.Notifier) {
	flash := notify.NewFlash(w, s.cfg.CookieSecure)
	client := apiclient.New(store, flash, apiclient.Options{
		BaseURL:     s.cfg.APIBaseURL,
		SignInURL:   s.cfg.SignInURL,
		Scheme:      s.cfg.Scheme(),
		AuthMarkers: s.cfg.AuthPathMarkers,
		PageURL:     s.pageURL(r),
		Dev:         s.cfg.Dev,
		HTTPClient:  s.http,
	}, s.log)
	be := backend.New(client, s.endpoints)
	return auth.NewService(store, be, s.log), be, flash
}

// pageURL is the full URL of the page the user is looking at. API calls made
// from a page return there after signing in again.
func (s *Server) pageURL(r *http.Request) string {
	if current := r.Header.Get("HX-Current-URL"); current != "" {
		return current
	}
	if strings.HasPrefix(r.URL.Path, s.app.Base+"api/") {
		if ref := r.Referer(); ref != "" {
			return ref
		}
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	} else if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
