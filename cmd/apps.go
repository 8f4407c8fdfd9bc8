// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"mochi/shell/internal/errors"
	"mochi/shell/internal/guard"
	"mochi/shell/internal/httperrors"
	"mochi/shell/internal/redirect"
	"mochi/shell/internal/routes"
)

var appsRemote bool

// appsCmd lists the Mochi applications.
var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List Mochi applications",
	Long: `The apps command lists the Mochi applications and where each is mounted.

With --remote the launcher entries are fetched from the Mochi API, which
requires a signed-in session.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if !appsRemote {
			data := pterm.TableData{{"Name", "Title", "Path"}}
			for _, app := range routes.Apps() {
				data = append(data, []string{app.Name, app.Title, app.Home})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		}

		ctx := cmd.Context()
		inst, err := newInstance(ctx)
		if err != nil {
			return err
		}
		defer inst.close()

		home := routes.CoreBase
		if app, err := routes.Lookup(inst.cfg.App); err == nil {
			home = app.Home
		}
		if rd := guard.New(inst.cfg.SignInURL, inst.log).Check(inst.service.Synchronizer(), home); rd != nil {
			followRedirect(rd, false)
			return nil
		}

		icons, err := inst.backend.Icons(ctx)
		if err != nil {
			if rd, ok := redirect.As(err); ok {
				followRedirect(rd, false)
				return nil
			}
			if errors.IsNetworkError(err) {
				httperrors.PrintHints(err, httperrors.ExtractHostFromURL(inst.cfg.APIBaseURL))
			}
			return err
		}

		data := pterm.TableData{{"Name", "Path", "Icon"}}
		for _, icon := range icons {
			data = append(data, []string{icon.Name, icon.Path, icon.File})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func init() {
	rootCmd.AddCommand(appsCmd)
	appsCmd.Flags().BoolVar(&appsRemote, "remote", false, "Fetch launcher entries from the Mochi API")
}
