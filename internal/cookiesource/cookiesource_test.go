package cookiesource

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mochi/shell/internal/source"
)

func TestGetReadsRequestCookies(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/chat/", nil)
	req.AddCookie(&http.Cookie{Name: "login", Value: "tok-1"})

	src := New(httptest.NewRecorder(), req, Options{})

	if got, err := src.Get("login"); err != nil || got != "tok-1" {
		t.Errorf("Get(login) = %q, %v", got, err)
	}
	if _, err := src.Get("mochi_me"); !errors.Is(err, source.ErrNotFound) {
		t.Errorf("Get(mochi_me) err = %v, want ErrNotFound", err)
	}
}

func TestDeleteHidesRequestCookieAndExpires(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/chat/", nil)
	req.AddCookie(&http.Cookie{Name: "login", Value: "tok-1"})
	rec := httptest.NewRecorder()

	src := New(rec, req, Options{Domain: "mochi.dev"})
	if err := src.Delete("login"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := src.Get("login"); !errors.Is(err, source.ErrNotFound) {
		t.Errorf("Get() after Delete err = %v, want ErrNotFound", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("got %d Set-Cookie headers, want 2", len(cookies))
	}
	for _, c := range cookies {
		if c.Name != "login" || c.MaxAge >= 0 || c.Path != "/" {
			t.Errorf("unexpected expiry cookie %+v", c)
		}
	}
	if cookies[0].Domain != "mochi.dev" || cookies[1].Domain != "" {
		t.Errorf("domains = %q, %q", cookies[0].Domain, cookies[1].Domain)
	}
}

func TestSetIsVisibleAndPersisted(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/chat/preferences", nil)
	rec := httptest.NewRecorder()

	src := New(rec, req, Options{})
	if err := src.Set("theme", "dark"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if got, _ := src.Get("theme"); got != "dark" {
		t.Errorf("Get(theme) = %q, want dark", got)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	if got, want := cookies[0].MaxAge, int(DefaultMaxAge.Seconds()); got != want {
		t.Errorf("MaxAge = %d, want %d", got, want)
	}
}
