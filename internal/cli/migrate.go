// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"hostpress/internal/storage"
	"hostpress/internal/store"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Prepare the storage backend and seed the default author",
		Long: `Prepare the configured storage backend.

In file mode the missing collection files are created empty. In mongo and
postgres mode the schema and indexes are applied and every empty collection
is seeded from the JSON file snapshot in the data directory. Running it
again is a no-op. The default author is created when missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, rootOpts)
		},
	}
}

func runMigrate(cmd *cobra.Command, opts *RootOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config
	out := cmd.OutOrStdout()

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	if cfg.StorageMode == storage.ModeFile {
		created, err := a.initFiles(ctx)
		if err != nil {
			return fmt.Errorf("initialise collection files: %w", err)
		}
		for _, name := range created {
			fmt.Fprintf(out, "created %s\n", name)
		}
	} else {
		if err := a.backend.Guard().Ensure(ctx); err != nil {
			return fmt.Errorf("bootstrap %s: %w", cfg.StorageMode, err)
		}
		fmt.Fprintf(out, "%s ready: %v\n", cfg.StorageMode, a.backend.Guard().Names())
	}

	author, err := store.EnsureDefaultAuthor(ctx, a.stores().Authors, cfg.DefaultAuthorSlug, cfg.DefaultAuthorName)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "default author: %s (%s)\n", author.Slug, author.ID)
	return nil
}
