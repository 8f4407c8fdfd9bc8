// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

package notify

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// Terminal prints notices with pterm prefixes when w is an interactive terminal,
// and as plain "level: title" lines otherwise (pipes, CI logs).
type Terminal struct {
	w      io.Writer
	styled bool
}

// NewTerminal returns a Terminal writing to stdout.
func NewTerminal() *Terminal {
	return NewTerminalWriter(os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
}

// NewTerminalWriter returns a Terminal writing to w.
func NewTerminalWriter(w io.Writer, styled bool) *Terminal {
	return &Terminal{w: w, styled: styled}
}

func (t *Terminal) Notify(n Notice) {
	if !t.styled {
		fmt.Fprintf(t.w, "%s: %s\n", n.Level, n.Title)
		if n.Description != "" {
			fmt.Fprintf(t.w, "  %s\n", n.Description)
		}
		return
	}

	printer := prefixFor(n.Level).WithWriter(t.w)
	printer.Println(n.Title)
	if n.Description != "" {
		fmt.Fprintln(t.w, "  "+pterm.FgGray.Sprint(n.Description))
	}
}

func prefixFor(level Level) pterm.PrefixPrinter {
	switch level {
	case LevelSuccess:
		return pterm.Success
	case LevelWarning:
		return pterm.Warning
	case LevelError:
		return pterm.Error
	default:
		return pterm.Info
	}
}
