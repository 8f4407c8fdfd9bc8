package redirect

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestEscapeComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/chat/", "%2Fchat%2F"},
		{"/chat/?q=a b&x=1#top", "%2Fchat%2F%3Fq%3Da%20b%26x%3D1%23top"},
		{"https://mochi.example/feeds/", "https%3A%2F%2Fmochi.example%2Ffeeds%2F"},
		{"it's (fine)!*", "it's%20(fine)!*"},
		{"a+b", "a%2Bb"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := EscapeComponent(tt.in); got != tt.want {
				t.Errorf("EscapeComponent(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAppendReturn(t *testing.T) {
	tests := []struct {
		name   string
		target string
		ret    string
		want   string
	}{
		{
			name:   "no query",
			target: "https://mochi.example/login",
			ret:    "/chat/",
			want:   "https://mochi.example/login?redirect=%2Fchat%2F",
		},
		{
			name:   "existing query",
			target: "https://mochi.example/login?lang=en",
			ret:    "/chat/",
			want:   "https://mochi.example/login?lang=en&redirect=%2Fchat%2F",
		},
		{
			name:   "trailing question mark",
			target: "/login?",
			ret:    "/",
			want:   "/login?redirect=%2F",
		},
		{
			name:   "fragment kept last",
			target: "/login#form",
			ret:    "/feeds/",
			want:   "/login?redirect=%2Ffeeds%2F#form",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AppendReturn(tt.target, tt.ret); got != tt.want {
				t.Errorf("AppendReturn() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReturnURLSurvivesParsing(t *testing.T) {
	ret := "/chat/?room=general&tab=a b#latest"
	r := WithReturn("https://mochi.example/login", ret, ReasonUnauthenticated)

	u, err := url.Parse(r.URL)
	if err != nil {
		t.Fatalf("url.Parse() error = %v", err)
	}
	if got := u.Query().Get(ReturnParam); got != ret {
		t.Errorf("redirect param = %q, want %q", got, ret)
	}
}

func TestAs(t *testing.T) {
	r := To("/login", ReasonLogout)
	wrapped := fmt.Errorf("request failed: %w", r)

	got, ok := As(wrapped)
	if !ok || got != r {
		t.Fatalf("As() = %v, %v; want %v, true", got, ok, r)
	}
	if _, ok := As(fmt.Errorf("plain")); ok {
		t.Error("As() found a redirect in a plain error")
	}
}

func TestServeHTTP(t *testing.T) {
	r := To("https://mochi.example/login?redirect=%2Fchat%2F", ReasonUnauthenticated)

	t.Run("navigation", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat/", nil))

		if rec.Code != http.StatusFound {
			t.Fatalf("status = %d, want 302", rec.Code)
		}
		if got := rec.Header().Get("Location"); got != r.URL {
			t.Errorf("Location = %q, want %q", got, r.URL)
		}
	})

	t.Run("htmx", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/chat/api/apps", nil)
		req.Header.Set(HXRequestHeader, "true")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if got := rec.Header().Get(HXRedirectHeader); got != r.URL {
			t.Errorf("HX-Redirect = %q, want %q", got, r.URL)
		}
	})
}
