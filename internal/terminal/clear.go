// Package terminal provides small helpers for interactive CLI input.
package terminal

import (
	"fmt"
	"io"
	"math"

	"golang.org/x/term"
)

const defaultWidth = 80

// Width returns the column count of the terminal on fd, or 80 when fd is not
// a terminal.
func Width(fd int) int {
	if width, _, err := term.GetSize(fd); err == nil && width > 0 {
		return width
	}
	return defaultWidth
}

// ClearPreviousLines erases textLength characters of previously printed text
// (a prompt plus the user's answer) from a terminal width columns wide.
// After Enter the cursor sits on a new line below the input, which is cleared
// as well.
func ClearPreviousLines(w io.Writer, textLength, width int) {
	if width <= 0 {
		width = defaultWidth
	}
	totalLines := int(math.Ceil(float64(textLength) / float64(width)))
	if totalLines < 1 {
		totalLines = 1
	}

	linesToClear := totalLines + 1
	for i := 0; i < linesToClear; i++ {
		fmt.Fprint(w, "\r\x1b[2K")
		if i < linesToClear-1 {
			fmt.Fprint(w, "\x1b[1A")
		}
	}
}
