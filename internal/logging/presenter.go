// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"strings"
)

// PresentError formats err for one log line: secrets are masked and the
// lines of a joined error are separated by "; ".
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(err.Error()), "\n")
	for i, line := range lines {
		lines[i] = Mask(strings.TrimSpace(line))
	}
	msg := strings.Join(lines, "; ")
	if context == "" {
		return msg
	}
	return context + ": " + msg
}
