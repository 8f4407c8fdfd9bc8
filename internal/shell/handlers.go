// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

package shell

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"mochi/shell/internal/auth"
	"mochi/shell/internal/errors"
	"mochi/shell/internal/notify"
	"mochi/shell/internal/redirect"
	"mochi/shell/internal/routes"
	"mochi/shell/internal/session"
)

// view is the model every template renders.
type view struct {
	Title string
	Base  string
	State auth.State
	Nav   []routes.NavGroup
	Prefs Preferences
	Flash *notify.Notice
	Error routes.ErrorPage
}

func (s *Server) view(w http.ResponseWriter, r *http.Request, store *session.Store) view {
	v := view{
		Title: s.app.Title,
		Base:  s.app.Base,
		State: auth.StateOf(store.Snapshot()),
		Nav:   routes.Sidebar(s.app.Name),
		Prefs: ReadPreferences(store.Source()),
	}
	if n, ok := notify.ReadFlash(w, r, s.cfg.CookieSecure); ok {
		v.Flash = &n
	}
	return v
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("Shell", "render "+name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("Shell", "encode response", err)
	}
}

// mustStore returns the instance store. Every app route runs behind instance,
// so a missing store is a wiring bug.
func mustStore(r *http.Request) *session.Store {
	store, ok := session.FromContext(r.Context())
	if !ok {
		panic("shell: request carries no session store")
	}
	return store
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "app": s.app.Name})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "page", s.view(w, r, mustStore(r)))
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	s.writeJSON(w, http.StatusOK, auth.StateOf(mustStore(r).Snapshot()))
}

func (s *Server) handleApps(w http.ResponseWriter, r *http.Request) {
	_, be, _ := s.services(w, r, mustStore(r))

	icons, err := be.Icons(r.Context())
	if err != nil {
		if rd, ok := redirect.As(err); ok {
			rd.ServeHTTP(w, r)
			return
		}
		status := errors.StatusOf(err)
		if status == 0 {
			status = http.StatusBadGateway
		}
		s.writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
		return
	}

	if redirect.IsPartial(r) {
		s.render(w, http.StatusOK, "apps", icons)
		return
	}
	s.writeJSON(w, http.StatusOK, icons)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	svc, _, flash := s.services(w, r, mustStore(r))
	svc.Logout(r.Context(), flash, s.cfg.LoginURL).ServeHTTP(w, r)
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	changes := make(map[string]string)
	for key := range preferenceValues {
		if !r.PostForm.Has(key) {
			continue
		}
		value := r.PostForm.Get(key)
		if err := ValidatePreference(key, value); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		changes[key] = value
	}

	src := mustStore(r).Source()
	for key, value := range changes {
		if err := src.Set(key, value); err != nil {
			s.log.Error("Shell", "store preference "+key, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	if redirect.IsPartial(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, s.sameOrigin(r, r.Referer()), http.StatusSeeOther)
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request) {
	page := routes.LookupError(mux.Vars(r)["code"])
	v := s.view(w, r, mustStore(r))
	v.Title = page.Title
	v.Error = page
	s.render(w, page.Status, "error", v)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	page := routes.LookupError("404")
	v := s.view(w, r, mustStore(r))
	v.Title = page.Title
	v.Error = page
	s.render(w, page.Status, "error", v)
}

// sameOrigin returns the path of target when it points at this host, and the
// app home otherwise.
func (s *Server) sameOrigin(r *http.Request, target string) string {
	u, err := url.Parse(target)
	if err != nil || target == "" || (u.Host != "" && u.Host != r.Host) {
		return s.app.Home
	}
	return u.RequestURI()
}
