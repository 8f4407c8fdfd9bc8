package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
	"testing"

	"mochi/shell/internal/notify"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Cause
	}{
		{
			name: "deadline",
			err:  &url.Error{Op: "Get", URL: "https://api.mochi.dev/icons", Err: context.DeadlineExceeded},
			want: CauseTimeout,
		},
		{
			name: "dns",
			err:  &url.Error{Op: "Get", URL: "https://nope.invalid", Err: &net.DNSError{Err: "no such host", Name: "nope.invalid"}},
			want: CauseDNS,
		},
		{
			name: "refused",
			err: &url.Error{Op: "Get", URL: "http://127.0.0.1:1", Err: &net.OpError{
				Op: "dial", Net: "tcp", Err: &os.SyscallError{Syscall: "connect", Err: syscall.ECONNREFUSED},
			}},
			want: CauseRefused,
		},
		{
			name: "tls",
			err:  fmt.Errorf("Get https://api: x509: certificate signed by unknown authority"),
			want: CauseTLS,
		},
		{
			name: "other",
			err:  errors.New("EOF"),
			want: CauseUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNoticeKeepsTitle(t *testing.T) {
	n := Notice(context.DeadlineExceeded)
	if n.Title != notify.NetworkError.Title || n.Level != notify.LevelError {
		t.Errorf("Notice() = %+v", n)
	}
	if n.Description == notify.NetworkError.Description {
		t.Error("timeout notice kept the generic description")
	}

	if got := Notice(errors.New("EOF")); got != notify.NetworkError {
		t.Errorf("generic Notice() = %+v, want %+v", got, notify.NetworkError)
	}
}

func TestExtractHostFromURL(t *testing.T) {
	if got := ExtractHostFromURL("https://api.mochi.dev/_/logout"); got != "api.mochi.dev" {
		t.Errorf("ExtractHostFromURL() = %q", got)
	}
	if got := ExtractHostFromURL("::"); got != "" {
		t.Errorf("ExtractHostFromURL(invalid) = %q", got)
	}
}
