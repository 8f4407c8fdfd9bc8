// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"mochi/shell/internal/errors"
	"mochi/shell/internal/redirect"
	"mochi/shell/internal/routes"
	"mochi/shell/internal/terminal"
)

var (
	loginEmail     string
	loginNoBrowser bool
	loginTimeout   time.Duration
)

const loginPollInterval = 2 * time.Second

// loginCmd signs this machine in.
//
// With --email it runs the core one-time code flow itself and writes the
// shared credential. Without it, the sign-in page is opened and the command
// waits until the core app has written the credential to the shared source.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to Mochi",
	Long: `The login command signs this machine in to Mochi.

With --email, a one-time code is sent to that address and the command asks for
it, then stores the resulting credential in the shared credential store.

Without --email, the sign-in page is opened in your browser and the command
waits until the credential appears in the shared credential store.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
		defer cancel()

		inst, err := newInstance(ctx)
		if err != nil {
			return err
		}
		defer inst.close()

		// A network failure keeps the local session; only a rejected credential
		// sends the user through sign-in again.
		if email, ok, _ := inst.service.ValidateSession(ctx, true); ok {
			pterm.Printf("Already logged in as %s\n", email)
			return nil
		}

		if loginEmail != "" {
			return loginWithCode(ctx, inst, loginEmail)
		}
		return loginWithBrowser(ctx, inst)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Sign in with a one-time code sent to this address")
	loginCmd.Flags().BoolVar(&loginNoBrowser, "no-browser", false, "Print the sign-in link without opening a browser")
	loginCmd.Flags().DurationVar(&loginTimeout, "timeout", 5*time.Minute, "How long to wait for sign-in")
}

func loginWithCode(ctx context.Context, inst *instance, email string) error {
	prompter := terminal.NewPrompter()
	creds, err := inst.service.Login(ctx, email, func() (string, error) {
		pterm.Printf("We sent a sign-in code to %s\n", email)
		return prompter.Ask("Enter the code: ")
	})
	if err != nil {
		if errors.IsAuthError(err) {
			return fmt.Errorf("sign-in for %s was rejected (%w); try again with 'mochi login --email %s'", email, err, email)
		}
		return err
	}

	who := creds.Profile.Email
	if who == "" {
		who = email
	}
	pterm.Println(loginGreeting(who))
	return nil
}

func loginWithBrowser(ctx context.Context, inst *instance) error {
	home := routes.CoreBase
	if app, err := routes.Lookup(inst.cfg.App); err == nil {
		home = app.Home
	}
	followRedirect(redirect.WithReturn(inst.cfg.SignInURL, home, redirect.ReasonUnauthenticated), !loginNoBrowser)

	stop := startInlineSpinner(os.Stdout, "Waiting for sign-in", spinnerFrames, 120*time.Millisecond)
	defer stop()

	ticker := time.NewTicker(loginPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("login timed out")
		case <-ticker.C:
			snap := inst.service.Synchronizer().Refresh()
			if !snap.Authenticated {
				continue
			}
			stop()
			who := snap.Profile.Email
			if who == "" {
				who = "Mochi"
			}
			pterm.Println(loginGreeting(who))
			return nil
		}
	}
}

func loginGreeting(identifier string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🚀 You're all set, %s!",
		"👋 Hello %s!",
		"🔓 Access granted! Welcome %s!",
	}
	return fmt.Sprintf(greetings[rand.Intn(len(greetings))], identifier)
}
