// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"mochi/shell/internal/logging"
	"mochi/shell/internal/routes"
	"mochi/shell/internal/shell"
)

var (
	serveApp  string
	serveAddr string
)

// serveCmd runs one Mochi application shell.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a Mochi application",
	Long: `The serve command runs the HTTP shell of one Mochi application. Every page
and API route is gated by the shared sign-in cookie; visitors without one are
sent to the sign-in page and brought back afterwards.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveApp != "" {
			cfg.App = serveApp
		}
		if serveAddr != "" {
			cfg.HTTPAddr = serveAddr
		}

		app, err := routes.Lookup(cfg.App)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		pterm.Info.Printf("Serving %s on %s%s\n", app.Title, cfg.HTTPAddr, app.Base)
		return shell.New(cfg, app, logging.FromEnv(cfg.Dev)).ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveApp, "app", "", "Application to serve ("+strings.Join(routes.Names(), ", ")+")")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
}

