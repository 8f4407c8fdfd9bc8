// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package notify delivers user-visible notices ("Session expired", "Access denied",
// "Logged out successfully") to whatever surface the application instance has:
// the terminal for CLI commands, or a one-time cookie that survives a full-page
// redirect for the shell server.
package notify

import (
	"sync"
)

// Level classifies notice presentation.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is one user-visible message.
type Notice struct {
	Level       Level  `json:"level"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Notifier shows notices to the user.
type Notifier interface {
	Notify(Notice)
}

// Func adapts a function to Notifier.
type Func func(Notice)

func (f Func) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Notifier = Func(func(Notice) {})

// Recorder keeps every notice it receives, in order.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of the recorded notices.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

// Common notices shared by the interceptor and the logout flow.
var (
	SessionExpired = Notice{Level: LevelError, Title: "Session expired", Description: "Please log in again to continue."}
	AccessDenied   = Notice{Level: LevelError, Title: "Access denied", Description: "You don't have permission to perform this action."}
	ServerError    = Notice{Level: LevelError, Title: "Server error", Description: "Something went wrong on our end. Please try again later."}
	NetworkError   = Notice{Level: LevelError, Title: "Network error", Description: "Please check your internet connection and try again."}
	LoggedOut      = Notice{Level: LevelSuccess, Title: "Logged out successfully"}
	LoggedOutDirty = Notice{Level: LevelError, Title: "Logged out (with errors)"}
)
