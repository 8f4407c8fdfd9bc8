// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logout terminates the session everywhere, best effort.
//
// The backend is told first, while the credential is still available to send.
// Whatever the backend answers, the credential and profile are then removed
// from the source, the session is reset, and the user is sent to the login
// surface.
package logout

import (
	"context"

	"mochi/shell/internal/logging"
	"mochi/shell/internal/notify"
	"mochi/shell/internal/redirect"
	"mochi/shell/internal/session"
)

// Backend revokes the current credential on the server.
type Backend interface {
	Logout(ctx context.Context) error
}

// Flow runs the logout sequence for one application instance.
type Flow struct {
	store    *session.Store
	backend  Backend
	notifier notify.Notifier
	loginURL string
	log      *logging.Dev
}

// New returns a Flow. backend, notifier and log may be nil.
func New(store *session.Store, backend Backend, notifier notify.Notifier, loginURL string, log *logging.Dev) *Flow {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &Flow{
		store:    store,
		backend:  backend,
		notifier: notifier,
		loginURL: loginURL,
		log:      log,
	}
}

// Run logs the user out and returns the redirect to perform. It never fails:
// the local session is always cleared and a redirect is always returned.
func (f *Flow) Run(ctx context.Context) *redirect.Redirect {
	f.store.SetLoading(true)
	defer f.store.SetLoading(false)

	var backendErr error
	if f.backend != nil {
		backendErr = f.backend.Logout(ctx)
		if backendErr != nil {
			f.log.Error("Logout", "backend logout failed", backendErr)
		}
	}

	if err := f.store.Clear(); err != nil {
		f.log.Error("Logout", "remove stored credential", err)
	}

	if backendErr != nil {
		f.notifier.Notify(notify.LoggedOutDirty)
	} else {
		f.notifier.Notify(notify.LoggedOut)
	}

	return redirect.To(f.loginURL, redirect.ReasonLogout)
}
