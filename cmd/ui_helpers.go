package cmd

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"mochi/shell/internal/redirect"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// startInlineSpinner animates frames followed by text on one line of w until
// the returned function is called, which also erases the line.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s %s", frames[i%len(frames)], text)
				i++
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
		})
	}
}

// followRedirect performs a terminal redirect from the CLI: the target is
// printed and, unless disabled, opened in the default browser. Nothing else
// should run after it.
func followRedirect(rd *redirect.Redirect, open bool) {
	if rd == nil {
		return
	}
	switch rd.Reason {
	case redirect.ReasonLogout:
		pterm.Println("Sign in again at:")
	default:
		pterm.Println("Sign in to continue:")
	}
	pterm.Printf("%s\n\n", rd.URL)
	if open {
		openBrowser(rd.URL)
	}
}

// openBrowser starts the platform's default browser on url without waiting.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}

func printNotLoggedIn() {
	pterm.Println("🔒 You're not logged in yet!")
	pterm.Println("   Run 'mochi login' to get started.")
}
