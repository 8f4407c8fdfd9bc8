// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"
)

var logoutNoBrowser bool

// logoutCmd ends the shared session for every Mochi application on this machine.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of Mochi",
	Long: `The logout command revokes the credential on the Mochi API (best effort) and
removes the shared credential and profile from the credential store, which signs
out every Mochi application using it. UI preferences are kept.

The login page is opened afterwards unless --no-browser is set.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		inst, err := newInstance(ctx)
		if err != nil {
			return err
		}
		defer inst.close()

		if !inst.store.Snapshot().Authenticated {
			if err := inst.service.Forget(); err != nil {
				return err
			}
			printNotLoggedIn()
			return nil
		}

		rd := inst.service.Logout(ctx, inst.notifier, inst.cfg.LoginURL)
		followRedirect(rd, !logoutNoBrowser)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
	logoutCmd.Flags().BoolVar(&logoutNoBrowser, "no-browser", false, "Do not open the login page afterwards")
}
