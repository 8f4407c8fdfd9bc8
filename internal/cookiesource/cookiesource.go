// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cookiesource exposes one HTTP request's cookies as a source.Source.
// Reads see the request cookies overlaid with writes made earlier in the same
// request; writes and deletes become Set-Cookie headers on the response.
package cookiesource

import (
	"net/http"
	"sync"
	"time"

	"mochi/shell/internal/source"
)

// DefaultMaxAge is the lifetime of cookies written by Set.
const DefaultMaxAge = 7 * 24 * time.Hour

// Options controls the attributes of written cookies.
type Options struct {
	// Domain is the shared parent domain the core app writes the auth cookies
	// on, e.g. ".mochi.dev". Empty means host-only cookies.
	Domain string
	Secure bool
	MaxAge time.Duration
}

// Source is a request-scoped cookie jar.
type Source struct {
	r    *http.Request
	w    http.ResponseWriter
	opts Options

	mu sync.Mutex
	// pending maps key to the value written during this request; nil marks a delete.
	pending map[string]*string
}

var _ source.Source = (*Source)(nil)

// New returns a Source reading from r and writing to w.
func New(w http.ResponseWriter, r *http.Request, opts Options) *Source {
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultMaxAge
	}
	return &Source{r: r, w: w, opts: opts, pending: make(map[string]*string)}
}

// Get returns the cookie value for key.
func (s *Source) Get(key string) (string, error) {
	s.mu.Lock()
	v, ok := s.pending[key]
	s.mu.Unlock()
	if ok {
		if v == nil {
			return "", source.ErrNotFound
		}
		return *v, nil
	}

	if s.r == nil {
		return "", source.ErrNotFound
	}
	c, err := s.r.Cookie(key)
	if err != nil {
		return "", source.ErrNotFound
	}
	return c.Value, nil
}

// Set writes a cookie scoped to the whole site.
func (s *Source) Set(key, value string) error {
	s.mu.Lock()
	s.pending[key] = &value
	s.mu.Unlock()

	if s.w != nil {
		http.SetCookie(s.w, s.cookie(key, value, int(s.opts.MaxAge/time.Second)))
	}
	return nil
}

// Delete expires the cookie. When a shared domain is configured the host-only
// variant is expired too, since either may be present.
func (s *Source) Delete(key string) error {
	s.mu.Lock()
	s.pending[key] = nil
	s.mu.Unlock()

	if s.w == nil {
		return nil
	}
	http.SetCookie(s.w, s.cookie(key, "", -1))
	if s.opts.Domain != "" {
		c := s.cookie(key, "", -1)
		c.Domain = ""
		http.SetCookie(s.w, c)
	}
	return nil
}

func (s *Source) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.opts.Domain,
		MaxAge:   maxAge,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
