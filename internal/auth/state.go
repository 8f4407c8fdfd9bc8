package auth

import "mochi/shell/internal/session"

// State is the user-facing summary of a session, as printed by `whoami --json`
// and returned by the shell's session endpoint.
type State struct {
	LoggedIn bool   `json:"logged_in"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
}

// StateOf summarizes s. Profile attributes are display-only.
func StateOf(s session.Session) State {
	if !s.Authenticated {
		return State{}
	}
	return State{LoggedIn: true, Email: s.Profile.Email, Name: s.Profile.Name}
}
