// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

package apiclient

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"mochi/shell/internal/errors"
	"mochi/shell/internal/notify"
	"mochi/shell/internal/redirect"
	"mochi/shell/internal/session"
	"mochi/shell/internal/source"
)

const signIn = "https://mochi.example/login"

func TestAuthorization(t *testing.T) {
	tests := []struct {
		name       string
		credential string
		scheme     string
		want       string
	}{
		{"adds prefix", "abc123", "Bearer", "Bearer abc123"},
		{"keeps existing prefix", "Bearer abc123", "Bearer", "Bearer abc123"},
		{"prefix is case sensitive", "bearer abc123", "Bearer", "Bearer bearer abc123"},
		{"raw scheme", "abc123", "", "abc123"},
		{"custom scheme", "abc123", "Token", "Token abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Authorization(tt.credential, tt.scheme)
			if got != tt.want {
				t.Errorf("Authorization(%q, %q) = %q, want %q", tt.credential, tt.scheme, got, tt.want)
			}
			if again := Authorization(got, tt.scheme); tt.scheme != "" && again != got {
				t.Errorf("re-prefixing changed %q to %q", got, again)
			}
		})
	}
}

type fixture struct {
	src     *source.Memory
	store   *session.Store
	notices *notify.Recorder
	client  *Client

	mu       sync.Mutex
	lastAuth string
}

func (f *fixture) authHeader() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuth
}

func newFixture(t *testing.T, status int, initial map[string]string, opts Options) *fixture {
	t.Helper()

	f := &fixture{notices: &notify.Recorder{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.lastAuth = r.Header.Get("Authorization")
		f.mu.Unlock()
		if r.Header.Get(requestIDHeader) == "" {
			t.Error("request carried no X-Request-ID")
		}
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"email":"ana@mochi.dev"}`))
		}
	}))
	t.Cleanup(srv.Close)

	f.src = source.NewMemory(initial)
	f.store = session.New(f.src, source.DefaultKeys())
	opts.BaseURL = srv.URL + "/api"
	opts.SignInURL = signIn
	if opts.Scheme == "" {
		opts.Scheme = DefaultScheme
	}
	f.client = New(f.store, f.notices, opts, nil)
	return f
}

func TestRequestCarriesBearerFromSource(t *testing.T) {
	f := newFixture(t, http.StatusOK, map[string]string{"login": "abc123"}, Options{})

	var out struct {
		Email string `json:"email"`
	}
	if err := f.client.Get(context.Background(), "_/identity", &out); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got := f.authHeader(); got != "Bearer abc123" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer abc123")
	}
	if out.Email != "ana@mochi.dev" {
		t.Errorf("decoded email = %q", out.Email)
	}
}

func TestRequestWithoutCredentialHasNoHeader(t *testing.T) {
	f := newFixture(t, http.StatusOK, nil, Options{})

	if err := f.client.Get(context.Background(), "_/identity", nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got := f.authHeader(); got != "" {
		t.Errorf("Authorization = %q, want none", got)
	}
}

func TestUnauthorizedClearsAndRedirects(t *testing.T) {
	page := "https://chat.mochi.example/chat/?room=general"
	f := newFixture(t, http.StatusUnauthorized,
		map[string]string{"login": "abc123", "mochi_me": `{"email":"ana@mochi.dev"}`, "user_email": "ana@mochi.dev"},
		Options{PageURL: page})
	f.store.Sync()

	err := f.client.Get(context.Background(), "feeds", nil)
	if !errors.IsAuthError(err) {
		t.Fatalf("err = %v, want an unauthorized error", err)
	}

	snap := f.store.Snapshot()
	if snap.Authenticated || snap.Credential != "" || !snap.Initialized {
		t.Errorf("session after 401 = %+v", snap)
	}
	for _, key := range []string{"login", "mochi_me", "user_email"} {
		if f.src.Has(key) {
			t.Errorf("source still holds %q", key)
		}
	}

	rd, ok := redirect.As(err)
	if !ok {
		t.Fatal("401 error carries no redirect")
	}
	u, _ := url.Parse(rd.URL)
	if got := u.Query().Get(redirect.ReturnParam); got != page {
		t.Errorf("return URL = %q, want %q", got, page)
	}
	if last, _ := f.notices.Last(); last != notify.SessionExpired {
		t.Errorf("notice = %+v, want SessionExpired", last)
	}
}

func TestUnauthorizedInDevSkipsNotice(t *testing.T) {
	f := newFixture(t, http.StatusUnauthorized, map[string]string{"login": "abc123"}, Options{Dev: true})

	err := f.client.Get(context.Background(), "feeds", nil)
	if _, ok := redirect.As(err); !ok {
		t.Fatalf("err = %v, want a redirect", err)
	}
	if n := len(f.notices.Notices()); n != 0 {
		t.Errorf("got %d notices in dev mode, want 0", n)
	}
}

func TestUnauthorizedOnAuthEndpointIsLeftAlone(t *testing.T) {
	f := newFixture(t, http.StatusUnauthorized, map[string]string{"login": "abc123"}, Options{})
	f.store.Sync()

	for _, path := range []string{"login", "_/verify", "_/code", "auth/code", "_/logout"} {
		err := f.client.Get(context.Background(), path, nil)
		if !errors.IsAuthError(err) {
			t.Fatalf("%s: err = %v, want unauthorized", path, err)
		}
		if _, ok := redirect.As(err); ok {
			t.Errorf("%s: auth endpoint 401 produced a redirect", path)
		}
	}

	if !f.store.Snapshot().Authenticated || !f.src.Has("login") {
		t.Error("auth endpoint 401 cleared the session")
	}
	if n := len(f.notices.Notices()); n != 0 {
		t.Errorf("got %d notices, want 0", n)
	}
}

func TestUnauthorizedOnAuthNamedHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	// Every host name resolves to the test server.
	dialer := &net.Dialer{}
	hc := &http.Client{Transport: &http.Transport{
		DialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, srv.Listener.Addr().String())
		},
	}}

	tests := []struct {
		name string
		base string
	}{
		{"auth host", "http://auth.mochi.example/api"},
		{"login host", "http://login.mochi.example/api"},
		{"auth host without base path", "http://auth.mochi.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := source.NewMemory(map[string]string{"login": "abc123"})
			store := session.New(src, source.DefaultKeys())
			store.Sync()
			c := New(store, &notify.Recorder{}, Options{
				BaseURL:    tt.base,
				SignInURL:  signIn,
				Scheme:     DefaultScheme,
				HTTPClient: hc,
			}, nil)

			err := c.Get(context.Background(), "feeds", nil)
			if _, ok := redirect.As(err); !ok {
				t.Fatalf("err = %v, want a sign-in redirect", err)
			}
			if store.Snapshot().Authenticated || src.Has("login") {
				t.Error("401 from a non-auth path on an auth-named host kept the session")
			}
		})
	}
}

func TestRelativePath(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"https://api.mochi.dev/api", "/api/feeds", "/feeds"},
		{"https://api.mochi.dev/api/", "/api/_/code", "/_/code"},
		{"https://api.mochi.dev/api", "/apiary/login", "/apiary/login"},
		{"https://api.mochi.dev/api", "/icons", "/icons"},
		{"https://api.mochi.dev", "/auth/code", "/auth/code"},
	}

	for _, tt := range tests {
		if got := relativePath(tt.base, tt.path); got != tt.want {
			t.Errorf("relativePath(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestStatusPolicy(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		kind       errors.Kind
		wantNotice *notify.Notice
	}{
		{"forbidden", http.StatusForbidden, errors.Forbidden, &notify.AccessDenied},
		{"not found", http.StatusNotFound, errors.NotFound, nil},
		{"internal", http.StatusInternalServerError, errors.ServerError, &notify.ServerError},
		{"bad gateway", http.StatusBadGateway, errors.ServerError, &notify.ServerError},
		{"unavailable", http.StatusServiceUnavailable, errors.ServerError, &notify.ServerError},
		{"conflict", http.StatusConflict, errors.Response, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.status, map[string]string{"login": "abc123"}, Options{})
			f.store.Sync()

			err := f.client.Get(context.Background(), "feeds", nil)
			if !errors.IsKind(err, tt.kind) {
				t.Fatalf("err = %v, want kind %q", err, tt.kind)
			}
			if got := errors.StatusOf(err); got != tt.status {
				t.Errorf("StatusOf() = %d, want %d", got, tt.status)
			}

			notices := f.notices.Notices()
			switch {
			case tt.wantNotice == nil && len(notices) != 0:
				t.Errorf("unexpected notices %+v", notices)
			case tt.wantNotice != nil && (len(notices) != 1 || notices[0] != *tt.wantNotice):
				t.Errorf("notices = %+v, want [%+v]", notices, *tt.wantNotice)
			}

			if !f.store.Snapshot().Authenticated {
				t.Error("non-401 failure changed the session")
			}
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	notices := &notify.Recorder{}
	store := session.New(source.NewMemory(map[string]string{"login": "abc123"}), source.DefaultKeys())
	c := New(store, notices, Options{BaseURL: base, SignInURL: signIn, Scheme: DefaultScheme}, nil)

	err := c.Get(context.Background(), "feeds", nil)
	if !errors.IsNetworkError(err) {
		t.Fatalf("err = %v, want network error", err)
	}
	last, ok := notices.Last()
	if !ok || last.Title != notify.NetworkError.Title {
		t.Errorf("notice = %+v, want Network error", last)
	}
	if !store.Snapshot().Authenticated {
		t.Error("network failure changed the session")
	}
}

func TestCanceledRequestIsNotNotified(t *testing.T) {
	f := newFixture(t, http.StatusOK, nil, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.client.Get(ctx, "feeds", nil)
	if !errors.IsNetworkError(err) {
		t.Fatalf("err = %v, want network error", err)
	}
	if n := len(f.notices.Notices()); n != 0 {
		t.Errorf("got %d notices for a canceled request, want 0", n)
	}
}
