// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface of Mochi.
//
// The same session core serves two kinds of application instance: `mochi serve`
// runs one web application whose credential source is the browser's cookies,
// and every other command is a terminal instance reading the credential the
// core login tool left in the shared OS keychain (or redis namespace).
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"mochi/shell/internal/apiclient"
	"mochi/shell/internal/auth"
	"mochi/shell/internal/backend"
	"mochi/shell/internal/config"
	"mochi/shell/internal/endpoints"
	"mochi/shell/internal/keychain"
	"mochi/shell/internal/logging"
	"mochi/shell/internal/notify"
	"mochi/shell/internal/redissource"
	"mochi/shell/internal/session"
	"mochi/shell/internal/source"
)

var (
	showVersion bool
	verbose     bool
	apiBaseURL  string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "mochi",
	Short:         "Mochi app shell and session tools",
	Long:          `Mochi serves a Mochi application behind the shared sign-in session, and inspects or ends that session from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			os.Setenv(logging.VerboseEnv, "1")
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("mochi %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print development diagnostics")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api", "", "Mochi API base URL (overrides config)")
}

// loadConfig reads the configuration and applies global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if apiBaseURL != "" {
		cfg.APIBaseURL = apiBaseURL
	}
	return cfg, nil
}

// instance is one terminal application instance: the shared credential
// source, the session store seeded from it and the API stack around it.
type instance struct {
	cfg      config.Config
	log      *logging.Dev
	notifier notify.Notifier
	source   source.Source
	store    *session.Store
	backend  backend.API
	service  *auth.Service
	close    func()
}

// newInstance opens the configured credential source and boots a session.
// The caller must call close.
func newInstance(ctx context.Context) (*instance, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logging.FromEnv(cfg.Dev)

	src, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	notifier := notify.NewTerminal()
	store := session.New(src, cfg.Keys())
	client := apiclient.New(store, notifier, apiclient.Options{
		BaseURL:     cfg.APIBaseURL,
		SignInURL:   cfg.SignInURL,
		Scheme:      cfg.Scheme(),
		AuthMarkers: cfg.AuthPathMarkers,
		Dev:         cfg.Dev,
		HTTPClient:  &http.Client{Timeout: cfg.APITimeout.Std()},
	}, log)
	be := backend.New(client, endpoints.Default())

	svc := auth.NewService(store, be, log)
	svc.Synchronizer().Boot()

	return &instance{
		cfg:      cfg,
		log:      log,
		notifier: notifier,
		source:   src,
		store:    store,
		backend:  be,
		service:  svc,
		close:    closeSource,
	}, nil
}

// openSource returns the credential source named by credential_store.
func openSource(ctx context.Context, cfg config.Config) (source.Source, func(), error) {
	switch cfg.CredentialStore {
	case config.StoreRedis:
		src, err := redissource.Dial(ctx, cfg.RedisAddr, redissource.Options{Namespace: cfg.RedisNamespace})
		if err != nil {
			return nil, nil, err
		}
		return src, func() { _ = src.Close() }, nil
	default:
		km, err := keychain.NewManager()
		if err != nil {
			return nil, nil, fmt.Errorf("open keychain: %w", err)
		}
		return km, func() {}, nil
	}
}
