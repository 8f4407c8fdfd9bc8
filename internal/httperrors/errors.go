// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns failures without a response (timeouts, DNS, refused
// connections, TLS) into user-facing notices and troubleshooting hints.
package httperrors

import (
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"

	"mochi/shell/internal/notify"
)

// Cause is the detected reason a request got no response.
type Cause string

const (
	CauseTimeout Cause = "timeout"
	CauseDNS     Cause = "dns"
	CauseRefused Cause = "refused"
	CauseTLS     Cause = "tls"
	CauseUnknown Cause = "unknown"
)

// Classify detects why err produced no response.
func Classify(err error) Cause {
	switch {
	case err == nil:
		return CauseUnknown
	case isTimeoutError(err):
		return CauseTimeout
	case isDNSError(err):
		return CauseDNS
	case isConnectionRefusedError(err):
		return CauseRefused
	case isSSLError(err):
		return CauseTLS
	default:
		return CauseUnknown
	}
}

// Notice returns the "Network error" notice with a cause-specific description.
func Notice(err error) notify.Notice {
	n := notify.NetworkError
	switch Classify(err) {
	case CauseTimeout:
		n.Description = "The server took too long to respond. Please try again in a few moments."
	case CauseDNS:
		n.Description = "The server address could not be resolved. Please check your connection and DNS settings."
	case CauseRefused:
		n.Description = "The server is not accepting connections. The service may be temporarily down."
	case CauseTLS:
		n.Description = "A secure connection could not be established. Check your system clock and proxy settings."
	}
	return n
}

// PrintHints prints troubleshooting steps for err to the terminal.
func PrintHints(err error, host string) {
	if host == "" {
		host = "the Mochi API"
	}
	switch Classify(err) {
	case CauseTimeout:
		pterm.Println("The server took too long to respond. This could mean:")
		pterm.Println("  • Slow internet connection")
		pterm.Println("  • Server is under heavy load")
		pterm.Println("  • Network firewall is blocking the connection")
	case CauseDNS:
		pterm.Printf("Unable to look up %s. Please check:\n", host)
		pterm.Println("  • Your internet connection is working")
		pterm.Println("  • DNS settings are correct")
	case CauseRefused:
		pterm.Println("The server is not accepting connections. This could mean:")
		pterm.Println("  • The service is temporarily down")
		pterm.Println("  • Wrong server address or port (check api_base_url)")
	case CauseTLS:
		pterm.Println("Try:")
		pterm.Println("  • Check your system date and time")
		pterm.Println("  • Verify network proxy settings")
	default:
		pterm.Printf("Please check whether %s is accessible from your network.\n", host)
	}
	pterm.Println()
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Host
}
