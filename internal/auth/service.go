// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth composes the session core for one application instance: the
// session store and its synchronizer, the backend API, and the logout flow.
// Feature apps only read and remove the shared credential; Login is the one
// place that writes it, on behalf of the core sign-in app.
package auth

import (
	"context"
	"errors"
	"fmt"

	"mochi/shell/internal/backend"
	apierrors "mochi/shell/internal/errors"
	"mochi/shell/internal/logging"
	"mochi/shell/internal/logout"
	"mochi/shell/internal/notify"
	"mochi/shell/internal/redirect"
	"mochi/shell/internal/session"
)

// Service centralizes authentication-related operations against the backend
// and the shared credential source.
type Service struct {
	store *session.Store
	sync  *session.Synchronizer
	be    backend.API
	log   *logging.Dev
}

// NewService constructs a Service. be may be nil when no backend is configured.
func NewService(store *session.Store, be backend.API, log *logging.Dev) *Service {
	return &Service{
		store: store,
		sync:  session.NewSynchronizer(store, log),
		be:    be,
		log:   log,
	}
}

// Store returns the session store.
func (s *Service) Store() *session.Store { return s.store }

// Synchronizer returns the store's synchronizer.
func (s *Service) Synchronizer() *session.Synchronizer { return s.sync }

// ValidateSession returns the signed-in user's email when a credential exists.
// With remote set the backend confirms the credential first; a 401 there has
// already cleared the session by the time the error is returned. Other
// failures leave the session untouched.
func (s *Service) ValidateSession(ctx context.Context, remote bool) (string, bool, error) {
	snap := s.sync.EnsureInitialized()
	if !snap.Authenticated {
		return "", false, nil
	}
	if !remote || s.be == nil {
		return snap.Profile.Email, true, nil
	}

	p, err := s.be.Identity(ctx)
	if err != nil {
		s.log.Error("Auth Service", "Failed to validate session", err)
		if apierrors.IsAuthError(err) {
			return "", false, err
		}
		return snap.Profile.Email, true, err
	}
	if p.Email == "" {
		p.Email = snap.Profile.Email
	}
	return p.Email, true, nil
}

// Login runs the core app's one-time code flow: request a code for email, ask
// the user for it, verify it, then write the credential and profile to the
// shared source and sync the session.
func (s *Service) Login(ctx context.Context, email string, promptCode func() (string, error)) (backend.Credentials, error) {
	if s.be == nil {
		return backend.Credentials{}, errors.New("no backend configured")
	}

	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	if err := s.be.RequestCode(ctx, email); err != nil {
		return backend.Credentials{}, fmt.Errorf("request code: %w", err)
	}
	code, err := promptCode()
	if err != nil {
		return backend.Credentials{}, err
	}
	creds, err := s.be.Verify(ctx, email, code)
	if err != nil {
		return backend.Credentials{}, fmt.Errorf("verify code: %w", err)
	}

	if err := Save(s.store.Source(), s.store.Keys(), creds); err != nil {
		return backend.Credentials{}, err
	}
	s.sync.Refresh()
	return creds, nil
}

// Logout runs the logout flow and returns the redirect to the login surface.
func (s *Service) Logout(ctx context.Context, notifier notify.Notifier, loginURL string) *redirect.Redirect {
	return logout.New(s.store, s.be, notifier, loginURL, s.log).Run(ctx)
}

// Forget removes whatever the source still holds for a signed-out session (a
// leftover profile or legacy key without a credential) without calling the
// backend, which has nothing to revoke.
func (s *Service) Forget() error {
	if err := s.store.Clear(); err != nil {
		s.log.Error("Auth Service", "Failed to remove leftover session keys", err)
		return err
	}
	return nil
}
