// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session holds the in-memory authentication state of one application
// instance and keeps it reconciled with the persistent credential source.
//
// The source is authoritative: whenever the two disagree the session is
// overwritten from the source, never the reverse. Only Clear writes to the
// source, and it clears both sides together.
package session

import (
	"errors"
	"fmt"
	"sync"

	"mochi/shell/internal/source"
)

// Session is a snapshot of the authentication state.
type Session struct {
	Credential    string
	Profile       source.Profile
	Loading       bool
	Initialized   bool
	Authenticated bool
}

// Store is the single in-memory source of truth for the current session.
// Every operation is one critical section, so no caller ever observes a
// partially updated session.
type Store struct {
	mu    sync.RWMutex
	state Session
	src   source.Source
	keys  source.Keys
}

// New creates a Store seeded synchronously from src. The seed never produces an
// unauthenticated session that holds a credential; Initialized stays false until
// the first Sync.
func New(src source.Source, keys source.Keys) *Store {
	credential := source.Lookup(src, keys.Credential)
	return &Store{
		src:  src,
		keys: keys,
		state: Session{
			Credential:    credential,
			Profile:       source.ReadProfile(src, keys.Profile),
			Authenticated: credential != "",
		},
	}
}

// Snapshot returns the current state. It never touches the source.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Source returns the persistent source backing the store.
func (s *Store) Source() source.Source {
	return s.src
}

// Keys returns the key names the store reads.
func (s *Store) Keys() source.Keys {
	return s.keys
}

// SetLoading flags an auth-affecting operation in flight.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = loading
}

// Sync reconciles the session with the source and marks the store initialized.
// Calling it again with an unchanged source changes nothing.
func (s *Store) Sync() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Read under the lock so a concurrent Clear cannot be undone by a stale read.
	credential := source.Lookup(s.src, s.keys.Credential)
	profile := source.ReadProfile(s.src, s.keys.Profile)
	if credential != s.state.Credential || profile != s.state.Profile {
		s.state.Credential = credential
		s.state.Profile = profile
		s.state.Authenticated = credential != ""
	}
	s.state.Initialized = true
}

// Clear deletes the credential, the profile and any legacy profile keys from
// the source, then resets the session to the signed-out state. The in-memory
// reset happens even when a deletion fails; deletion failures are returned.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, key := range s.removableKeys() {
		if err := s.src.Delete(key); err != nil && !errors.Is(err, source.ErrNotFound) {
			errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
		}
	}

	s.state = Session{Initialized: true}
	return errors.Join(errs...)
}

func (s *Store) removableKeys() []string {
	if s.src == nil {
		return nil
	}
	keys := make([]string, 0, 2+len(s.keys.Legacy))
	for _, k := range append([]string{s.keys.Credential, s.keys.Profile}, s.keys.Legacy...) {
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
