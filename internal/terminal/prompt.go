package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrEmptyInput is returned when the user enters nothing.
var ErrEmptyInput = errors.New("no input")

// Prompter asks single-line questions.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	// fd is the terminal the answers are echoed on; -1 when not interactive.
	fd int
}

// NewPrompter returns a Prompter on stdin and stdout.
func NewPrompter() *Prompter {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		fd = -1
	}
	return &Prompter{in: bufio.NewReader(os.Stdin), out: os.Stdout, fd: fd}
}

// NewPrompterIO returns a non-interactive Prompter reading r and writing w.
func NewPrompterIO(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(r), out: w, fd: -1}
}

// Ask prints label and returns the trimmed answer. On a terminal the prompt
// and the answer are erased afterwards so one-time codes do not linger.
func (p *Prompter) Ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	answer := strings.TrimSpace(line)

	if p.fd >= 0 {
		ClearPreviousLines(p.out, len(label)+len(answer), Width(p.fd))
	}
	if answer == "" {
		return "", ErrEmptyInput
	}
	return answer, nil
}
