// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package apiclient is the HTTP client every Mochi backend call goes through.
//
// Before dispatch it attaches the session credential as an Authorization
// header. After the response it applies the global failure policy:
//
//	401  clear the session, notify, and attach a sign-in redirect (unless the
//	     request itself targeted an auth endpoint)
//	403  notify "Access denied"
//	404  nothing
//	5xx  notify "Server error"
//	none notify "Network error"
//
// Every failure is still returned to the caller as an *errors.E.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"mochi/shell/internal/endpoints"
	"mochi/shell/internal/errors"
	"mochi/shell/internal/httperrors"
	"mochi/shell/internal/logging"
	"mochi/shell/internal/notify"
	"mochi/shell/internal/redirect"
	"mochi/shell/internal/session"
	"mochi/shell/internal/source"
)

const (
	// DefaultScheme prefixes the credential in the Authorization header.
	DefaultScheme = "Bearer"
	// DefaultTimeout bounds one request.
	DefaultTimeout = 30 * time.Second

	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 512
)

// DefaultAuthMarkers identify auth endpoints by their path relative to the API
// base; a 401 from them never clears the session. The code request and the
// logout endpoint are included so a rejected sign-in attempt or a revoked
// credential does not end in a "Session expired" notice.
var DefaultAuthMarkers = []string{"/login", "/auth", "/verify", "/_/code", "/logout"}

// Options configures a Client.
type Options struct {
	// BaseURL is the API root relative paths are joined to.
	BaseURL string
	// SignInURL is the external sign-in surface a 401 redirects to.
	SignInURL string
	// Scheme prefixes the credential; empty sends the raw credential.
	Scheme string
	// AuthMarkers are URL substrings identifying auth endpoints.
	AuthMarkers []string
	// PageURL is the page the user is on, used as the return target after a 401.
	PageURL string
	// Dev suppresses the "Session expired" notice, which only production shows.
	Dev bool
	// HTTPClient performs the requests. Nil uses a client with DefaultTimeout.
	HTTPClient *http.Client
}

// Client sends authenticated requests on behalf of one application instance.
type Client struct {
	store    *session.Store
	notifier notify.Notifier
	opts     Options
	http     *http.Client
	log      *logging.Dev
}

// New returns a Client reading the credential from store. notifier and log may be nil.
func New(store *session.Store, notifier notify.Notifier, opts Options, log *logging.Dev) *Client {
	if notifier == nil {
		notifier = notify.Discard
	}
	if opts.AuthMarkers == nil {
		opts.AuthMarkers = DefaultAuthMarkers
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		store:    store,
		notifier: notifier,
		opts:     opts,
		http:     hc,
		log:      log,
	}
}

// Authorization returns the header value for credential. The scheme is added
// only when credential does not already carry it.
func Authorization(credential, scheme string) string {
	if scheme == "" || strings.HasPrefix(credential, scheme+" ") {
		return credential
	}
	return scheme + " " + credential
}

// URL resolves path against the API base.
func (c *Client) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return endpoints.Join(c.opts.BaseURL, path)
}

// Do sends req and applies the failure policy. On success the caller owns the
// response body; on failure the body is already closed.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.authorize(req)
	c.setStandardHeaders(req)

	target := req.Method + " " + req.URL.String()
	c.log.Printf("API", "%s", target)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.networkFailure(target, err)
	}
	c.log.Printf("API", "%s → %d", target, resp.StatusCode)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
	return nil, c.statusFailure(req, target, resp.StatusCode, strings.TrimSpace(string(body)))
}

// Send issues method on path with an optional JSON body and decodes a JSON
// response into out when out is not nil.
func (c *Client) Send(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(errors.Response, "decode "+method+" "+path, err)
	}
	return nil
}

// Get is Send with GET and no body.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Send(ctx, http.MethodGet, path, nil, out)
}

// credential prefers the session and falls back to the source, which may hold
// a credential before the first sync.
func (c *Client) credential() string {
	if c.store == nil {
		return ""
	}
	if cred := c.store.Snapshot().Credential; cred != "" {
		return cred
	}
	return source.Lookup(c.store.Source(), c.store.Keys().Credential)
}

func (c *Client) authorize(req *http.Request) {
	cred := c.credential()
	if cred == "" {
		return
	}
	req.Header.Set("Authorization", Authorization(cred, c.opts.Scheme))
	c.log.Printf("API Auth", "Using %s scheme with login credential", schemeName(c.opts.Scheme))
}

func (c *Client) setStandardHeaders(req *http.Request) {
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if req.Header.Get(requestIDHeader) == "" {
		req.Header.Set(requestIDHeader, uuid.NewString())
	}
}

// isAuthEndpoint matches the markers against the request path relative to the
// API base. The host never takes part, so an API served from "auth.<domain>"
// is not mistaken for an auth endpoint.
func (c *Client) isAuthEndpoint(u *url.URL) bool {
	rel := relativePath(c.opts.BaseURL, u.Path)
	for _, marker := range c.opts.AuthMarkers {
		if marker != "" && strings.Contains(rel, marker) {
			return true
		}
	}
	return false
}

func (c *Client) statusFailure(req *http.Request, target string, status int, body string) error {
	msg := target
	if body != "" {
		msg += ": " + body
	}

	switch {
	case status == http.StatusUnauthorized:
		e := &errors.E{Kind: errors.Unauthorized, Status: status, Message: msg}
		c.log.Printf("API", "401 Unauthorized: %s", target)
		if c.isAuthEndpoint(req.URL) {
			return e
		}
		if c.store != nil {
			if err := c.store.Clear(); err != nil {
				c.log.Error("API", "clear session", err)
			}
		}
		if !c.opts.Dev {
			c.notifier.Notify(notify.SessionExpired)
		}
		e.Err = c.signInRedirect()
		return e

	case status == http.StatusForbidden:
		c.log.Printf("API", "403 Forbidden: %s", target)
		c.notifier.Notify(notify.AccessDenied)
		return &errors.E{Kind: errors.Forbidden, Status: status, Message: msg}

	case status == http.StatusNotFound:
		c.log.Printf("API", "404 Not Found: %s", target)
		return &errors.E{Kind: errors.NotFound, Status: status, Message: msg}

	case status >= 500:
		c.log.Printf("API", "Server error %d: %s", status, target)
		c.notifier.Notify(notify.ServerError)
		return &errors.E{Kind: errors.ServerError, Status: status, Message: msg}

	default:
		c.log.Printf("API", "Response error %d: %s", status, target)
		return &errors.E{Kind: errors.Response, Status: status, Message: msg}
	}
}

func (c *Client) networkFailure(target string, err error) error {
	c.log.Error("API", "Network error: "+target, err)
	// A caller abandoning its own request is not a connectivity problem.
	if !stderrors.Is(err, context.Canceled) {
		c.notifier.Notify(httperrors.Notice(err))
	}
	return errors.Wrap(errors.Network, target, err)
}

func (c *Client) signInRedirect() *redirect.Redirect {
	if c.opts.PageURL == "" {
		return redirect.To(c.opts.SignInURL, redirect.ReasonSessionExpired)
	}
	return redirect.WithReturn(c.opts.SignInURL, c.opts.PageURL, redirect.ReasonSessionExpired)
}

// relativePath strips the base URL's path from path and returns the rest with
// a leading slash.
func relativePath(base, path string) string {
	if b, err := url.Parse(base); err == nil {
		prefix := strings.TrimRight(b.Path, "/")
		if prefix != "" && (path == prefix || strings.HasPrefix(path, prefix+"/")) {
			path = path[len(prefix):]
		}
	}
	return "/" + strings.TrimLeft(path, "/")
}

func schemeName(scheme string) string {
	if scheme == "" {
		return "raw"
	}
	return scheme
}
