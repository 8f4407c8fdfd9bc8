package cmd

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"mochi/shell/internal/auth"
	"mochi/shell/internal/errors"
	"mochi/shell/internal/httperrors"
	"mochi/shell/internal/redirect"
)

var (
	whoamiRemote bool
	whoamiJSON   bool
)

// whoamiCmd shows who the shared credential belongs to.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Long: `The whoami command shows the account the shared credential belongs to, as
recorded in the profile next to it.

With --remote the Mochi API confirms the credential first. A rejected
credential is removed from the credential store.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		inst, err := newInstance(ctx)
		if err != nil {
			return err
		}
		defer inst.close()

		var stop func()
		if whoamiRemote && !whoamiJSON {
			stop = startInlineSpinner(os.Stdout, "Checking session", spinnerFrames, 120*time.Millisecond)
		}
		email, ok, err := inst.service.ValidateSession(ctx, whoamiRemote)
		if stop != nil {
			stop()
		}

		if whoamiJSON {
			state := auth.StateOf(inst.store.Snapshot())
			if ok && state.Email == "" {
				state.Email = email
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(state)
		}

		switch {
		case errors.IsAuthError(err):
			rd, _ := redirect.As(err)
			followRedirect(rd, false)
			return nil
		case errors.IsNetworkError(err):
			httperrors.PrintHints(err, httperrors.ExtractHostFromURL(inst.cfg.APIBaseURL))
		}

		if !ok {
			printNotLoggedIn()
			return nil
		}
		if email == "" {
			email = "(no profile)"
		}
		pterm.Printf("👤 Current user: %s\n", email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
	whoamiCmd.Flags().BoolVar(&whoamiRemote, "remote", false, "Confirm the credential with the Mochi API")
	whoamiCmd.Flags().BoolVar(&whoamiJSON, "json", false, "Print the session state as JSON")
}
