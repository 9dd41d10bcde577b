// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cli implements the hostpress command line: serve runs the JSON
// API, migrate prepares the configured storage backend, and check reports
// data-quality problems in the category trees.
package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"hostpress/internal/config"
)

// RootOptions holds global flags and the configuration loaded from them.
type RootOptions struct {
	ConfigFile string
	Config     *config.Config
}

// NewRootCommand creates the root command for the hostpress CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "hostpress",
		Short: "Hostpress content platform",
		Long:  "Blog, knowledge base, partner directory and status API for a hosting company.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigFile)
			if err != nil {
				return err
			}
			opts.Config = cfg
			slog.SetDefault(newLogger(cfg, cmd.ErrOrStderr()))
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "path to a YAML config file (default ./config.yaml if present)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

// newLogger returns a text logger in development and a JSON logger
// everywhere else.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if cfg.IsDev() {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
