// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/imprint/internal/assemble"
	"github.com/pdiddy/imprint/internal/catalog"
	"github.com/pdiddy/imprint/pkg/types"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Assign content files to layout templates and output positions",
	Long: `Plan reads the project's content and templates directories, picks the
best template for every content file, numbers the files and writes the
assignment to plan.yaml (or plan.json) in the output directory.

With --pair, generated output files are paired with content files by
position. With --save, the metadata and the plan are recorded in the
catalog under the given book id.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	if format != assemble.FormatYAML && format != assemble.FormatJSON {
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	p, err := assemble.Load(cfg.Project, logger)
	if err != nil {
		return err
	}
	plan := p.Plan()

	out := cmd.OutOrStdout()
	summary := assemble.ReportPlan(plan, out)
	if _, err := p.WritePlan(plan, format, out); err != nil {
		return err
	}

	pairDir, _ := cmd.Flags().GetString("pair")
	if pairDir != "" {
		if !filepath.IsAbs(pairDir) {
			pairDir = filepath.Join(p.Config.Dir, pairDir)
		}
		pairing, err := assemble.Pair(plan, pairDir)
		if err != nil {
			return err
		}
		reportPairing(cmd, pairing)
	}

	bookID, _ := cmd.Flags().GetString("save")
	if bookID != "" {
		if err := savePlan(cmd.Context(), cfg.Catalog, bookID, p, plan, out); err != nil {
			return err
		}
	}

	if summary.HasUnassigned() {
		logger.Warn("some content files have no template", "unassigned", summary.Unassigned)
	}
	return nil
}

func reportPairing(cmd *cobra.Command, pairing types.Pairing) {
	out := cmd.OutOrStdout()
	for _, pair := range pairing.Pairs {
		fmt.Fprintf(out, "pair:      %3d %s -> %s\n", pair.Ordinal, pair.Content, pair.Output)
	}
	for _, name := range pairing.Unpaired {
		fmt.Fprintf(out, "unpaired:  %s\n", name)
	}
	for _, name := range pairing.Unused {
		fmt.Fprintf(out, "unused:    %s\n", name)
	}
}

func savePlan(ctx context.Context, cfg types.CatalogConfig, bookID string, p *assemble.Project, plan types.MatchPlan, w io.Writer) error {
	store, err := catalog.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := store.Put(ctx, bookID, p.Record); err != nil {
		return err
	}
	id, err := store.SavePlan(ctx, bookID, plan)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "saved plan %s for %s\n", id, bookID)
	return nil
}

func init() {
	planCmd.Flags().String("format", assemble.FormatYAML, "plan file format: yaml or json")
	planCmd.Flags().String("pair", "", "directory of generated outputs to pair with content files")
	planCmd.Flags().String("save", "", "record metadata and plan in the catalog under this book id")

	rootCmd.AddCommand(planCmd)
}
