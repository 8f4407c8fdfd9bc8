// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package guard gates entry into protected routes.
//
// The decision is always made on a fresh read of the persistent credential
// source, never on the in-memory session: another tab, app or process may have
// signed the user out since the session was last synced.
package guard

import (
	"net/http"

	"mochi/shell/internal/logging"
	"mochi/shell/internal/redirect"
	"mochi/shell/internal/session"
	"mochi/shell/internal/source"
)

// Guard sends unauthenticated visitors to the external sign-in surface.
type Guard struct {
	signInURL string
	log       *logging.Dev
}

// New returns a Guard redirecting to signInURL. log may be nil.
func New(signInURL string, log *logging.Dev) *Guard {
	return &Guard{signInURL: signInURL, log: log}
}

// Check returns nil when navigation to location may proceed, or the terminal
// redirect to perform instead. location is the path, query and fragment the
// user asked for; it becomes the return URL.
func (g *Guard) Check(y *session.Synchronizer, location string) *redirect.Redirect {
	y.EnsureInitialized()

	store := y.Store()
	if source.Lookup(store.Source(), store.Keys().Credential) != "" {
		return nil
	}

	g.log.Printf("Guard", "no credential for %s, redirecting to sign-in", location)
	return redirect.WithReturn(g.signInURL, location, redirect.ReasonUnauthenticated)
}

// Middleware protects next. The request context must carry a session store
// (see session.NewContext); a request without one is rejected as a server
// misconfiguration.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store, ok := session.FromContext(r.Context())
		if !ok {
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}

		if rd := g.Check(session.NewSynchronizer(store, g.log), Location(r)); rd != nil {
			rd.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Location returns the path and query of r. Browsers never send the fragment.
// For htmx requests the page the user is on is the better return target.
func Location(r *http.Request) string {
	if redirect.IsPartial(r) {
		if current := r.Header.Get("HX-Current-URL"); current != "" {
			return current
		}
	}
	return r.URL.RequestURI()
}
