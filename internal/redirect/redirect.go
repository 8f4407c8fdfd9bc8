// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package redirect models terminal cross-application navigation.
//
// A Redirect hands the user over to another deployable (the core sign-in app).
// It is returned as an error value so it travels up the call stack; whoever
// receives one must perform the navigation and stop: nothing in the current
// application instance runs after it.
package redirect

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// Headers exchanged with htmx partial requests.
const (
	HXRequestHeader  = "HX-Request"
	HXRedirectHeader = "HX-Redirect"
)

// ReturnParam is the query parameter carrying the return URL.
const ReturnParam = "redirect"

// Reason explains why a redirect was issued.
type Reason string

const (
	// ReasonUnauthenticated is issued by the route guard when no credential exists.
	ReasonUnauthenticated Reason = "unauthenticated"
	// ReasonSessionExpired is issued when an API call is rejected with 401.
	ReasonSessionExpired Reason = "session_expired"
	// ReasonLogout is issued at the end of the logout flow.
	ReasonLogout Reason = "logout"
)

// Redirect is a terminal full navigation to URL.
type Redirect struct {
	URL    string
	Reason Reason
}

func (r *Redirect) Error() string {
	return "redirect (" + string(r.Reason) + ") to " + r.URL
}

// ServeHTTP performs the navigation. A browser navigation gets 302 Found; an
// htmx request cannot follow a 302 into another application, so it gets 401
// with HX-Redirect and the client navigates the whole page.
func (r *Redirect) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	if IsPartial(req) {
		w.Header().Set(HXRedirectHeader, r.URL)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	http.Redirect(w, req, r.URL, http.StatusFound)
}

// IsPartial reports whether req was issued by htmx.
func IsPartial(req *http.Request) bool {
	return req != nil && strings.EqualFold(strings.TrimSpace(req.Header.Get(HXRequestHeader)), "true")
}

// To builds a Redirect to target with no return URL.
func To(target string, reason Reason) *Redirect {
	return &Redirect{URL: target, Reason: reason}
}

// WithReturn builds a Redirect to target carrying returnURL in the redirect
// query parameter. An existing query on target is extended.
func WithReturn(target, returnURL string, reason Reason) *Redirect {
	return &Redirect{URL: AppendReturn(target, returnURL), Reason: reason}
}

// AppendReturn appends redirect=<escaped returnURL> to target, keeping any
// fragment of target at the end.
func AppendReturn(target, returnURL string) string {
	base, fragment, hasFragment := strings.Cut(target, "#")
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
		if strings.HasSuffix(base, "?") || strings.HasSuffix(base, "&") {
			sep = ""
		}
	}
	out := base + sep + ReturnParam + "=" + EscapeComponent(returnURL)
	if hasFragment {
		out += "#" + fragment
	}
	return out
}

// EscapeComponent percent-encodes s the way browsers' encodeURIComponent does:
// spaces become %20 and every reserved character is escaped.
func EscapeComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	// encodeURIComponent leaves these unreserved marks alone.
	for _, mark := range []struct{ from, to string }{
		{"%21", "!"}, {"%27", "'"}, {"%28", "("}, {"%29", ")"}, {"%2A", "*"},
	} {
		escaped = strings.ReplaceAll(escaped, mark.from, mark.to)
	}
	return escaped
}

// As extracts a Redirect from err.
func As(err error) (*Redirect, bool) {
	var r *Redirect
	if errors.As(err, &r) && r != nil {
		return r, true
	}
	return nil, false
}
