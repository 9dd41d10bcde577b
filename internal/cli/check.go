// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"hostpress/internal/store"
	"hostpress/internal/taxonomy"
)

// CheckReport is the result of the check command.
type CheckReport struct {
	// Problems maps a category collection to its findings.
	Problems      map[string][]taxonomy.Problem `json:"problems"`
	DefaultAuthor bool                          `json:"default_author"`
}

// Count returns the number of findings, counting a missing default author
// as one.
func (r CheckReport) Count() int {
	n := 0
	for _, p := range r.Problems {
		n += len(p)
	}
	if !r.DefaultAuthor {
		n++
	}
	return n
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report category tree and seed data problems",
		Long: `Check the blog and knowledge-base category trees for dangling parents,
parent cycles and duplicate slugs, and verify the default author exists.

The API tolerates all of these; check exists so they can be fixed. It exits
non-zero when anything is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			report, err := runCheck(ctx, rootOpts)
			if err != nil {
				return err
			}
			if err := printReport(cmd, report, asJSON); err != nil {
				return err
			}
			if n := report.Count(); n > 0 {
				return fmt.Errorf("%d problem(s) found", n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func runCheck(ctx context.Context, opts *RootOptions) (CheckReport, error) {
	report := CheckReport{Problems: map[string][]taxonomy.Problem{}}

	a, err := openApp(ctx, opts.Config)
	if err != nil {
		return report, err
	}
	defer a.close(context.Background())

	stores := a.stores()
	for _, categories := range []*store.CategoryStore{stores.Categories, stores.KBCategories} {
		tree, err := categories.Resolver(ctx)
		if err != nil {
			return report, fmt.Errorf("check %s: %w", categories.Collection(), err)
		}
		problems := tree.Check()
		if problems == nil {
			problems = []taxonomy.Problem{}
		}
		report.Problems[categories.Collection()] = problems
	}

	author, err := stores.Authors.FindBySlug(ctx, opts.Config.DefaultAuthorSlug)
	if err != nil {
		return report, fmt.Errorf("check default author: %w", err)
	}
	report.DefaultAuthor = author != nil
	return report, nil
}

func printReport(cmd *cobra.Command, report CheckReport, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	for _, name := range []string{"categories", "kb_categories"} {
		problems := report.Problems[name]
		if len(problems) == 0 {
			fmt.Fprintf(out, "%s: ok\n", name)
			continue
		}
		for _, p := range problems {
			fmt.Fprintf(out, "%s: %s\n", name, p)
		}
	}
	if report.DefaultAuthor {
		fmt.Fprintf(out, "default author: ok\n")
	} else {
		fmt.Fprintf(out, "default author: missing\n")
	}
	return nil
}
