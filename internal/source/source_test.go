package source

import (
	"errors"
	"testing"
)

type failingSource struct{}

func (failingSource) Get(string) (string, error) { return "", errors.New("backend down") }
func (failingSource) Set(string, string) error   { return errors.New("backend down") }
func (failingSource) Delete(string) error        { return errors.New("backend down") }

func TestLookup(t *testing.T) {
	src := NewMemory(map[string]string{"login": "  abc123 "})

	if got := Lookup(src, "login"); got != "abc123" {
		t.Errorf("Lookup() = %q, want %q", got, "abc123")
	}
	if got := Lookup(src, "missing"); got != "" {
		t.Errorf("Lookup(missing) = %q, want empty", got)
	}
	if got := Lookup(failingSource{}, "login"); got != "" {
		t.Errorf("Lookup(failing) = %q, want empty", got)
	}
	if got := Lookup(nil, "login"); got != "" {
		t.Errorf("Lookup(nil) = %q, want empty", got)
	}
}

func TestDecodeProfile(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Profile
	}{
		{
			name: "plain json",
			raw:  `{"email":"ada@example.com","name":"Ada"}`,
			want: Profile{Email: "ada@example.com", Name: "Ada"},
		},
		{
			name: "percent encoded json",
			raw:  "%7B%22email%22%3A%22ada%40example.com%22%7D",
			want: Profile{Email: "ada@example.com"},
		},
		{
			name: "extra fields ignored",
			raw:  `{"email":"ada@example.com","privacy":"friends"}`,
			want: Profile{Email: "ada@example.com"},
		},
		{
			name: "malformed",
			raw:  "not-json",
			want: Profile{},
		},
		{
			name: "empty",
			raw:  "",
			want: Profile{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeProfile(tt.raw); got != tt.want {
				t.Errorf("DecodeProfile() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEncodeProfileRoundTrip(t *testing.T) {
	p := Profile{Email: "ada@example.com", Name: "Ada Lovelace"}
	src := NewMemory(map[string]string{"mochi_me": EncodeProfile(p)})

	if got := ReadProfile(src, "mochi_me"); got != p {
		t.Errorf("ReadProfile() = %+v, want %+v", got, p)
	}
}

func TestMemoryDelete(t *testing.T) {
	src := NewMemory(map[string]string{"login": "abc"})
	if err := src.Delete("login"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if src.Has("login") {
		t.Error("login still present after Delete")
	}
	if _, err := src.Get("login"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}
