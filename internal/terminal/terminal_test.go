package terminal

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestAsk(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"trims", "  123456 \n", "123456", nil},
		{"last line without newline", "654321", "654321", nil},
		{"empty", "\n", "", ErrEmptyInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := NewPrompterIO(strings.NewReader(tt.input), &out).Ask("Code: ")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Ask() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Ask() = %q, want %q", got, tt.want)
			}
			if out.String() != "Code: " {
				t.Errorf("output = %q", out.String())
			}
		})
	}
}

func TestClearPreviousLines(t *testing.T) {
	tests := []struct {
		length, width int
		wantUps       int
	}{
		{length: 10, width: 80, wantUps: 1},
		{length: 100, width: 80, wantUps: 2},
		{length: 0, width: 0, wantUps: 1},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		ClearPreviousLines(&out, tt.length, tt.width)
		if got := strings.Count(out.String(), "\x1b[1A"); got != tt.wantUps {
			t.Errorf("ClearPreviousLines(%d, %d) moved up %d lines, want %d", tt.length, tt.width, got, tt.wantUps)
		}
	}
}
