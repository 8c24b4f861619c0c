// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/imprint/internal/assemble"
	"github.com/pdiddy/imprint/internal/fields"
	"github.com/pdiddy/imprint/internal/meta"
)

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Read, check and export book metadata",
	Long: `Meta reads the front matter of a metadata file, maps it to the canonical
field set and checks its ISBN fields. Export writes the metadata back in
the external convention used by document converters.`,
}

var metaShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Print the canonical metadata of a file (default: the project metadata file)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMetaShow,
}

var metaExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the project metadata in the external convention to the output directory",
	Args:  cobra.NoArgs,
	RunE:  runMetaExport,
}

func runMetaShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		pc := assemble.WithDefaults(cfg.Project)
		path = pc.MetadataFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(pc.Dir, path)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading metadata: %w", err)
	}
	record, _ := assemble.ParseMetadata(string(data))
	logger.Debug("metadata parsed", "path", path, "fields", record.Len())

	external, _ := cmd.Flags().GetBool("external")
	m := record.Mapping()
	if external {
		m = assemble.ExportRecord(record)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), m)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, meta.Stringify(m))
	if extra := record.Extra(); len(extra) > 0 {
		fmt.Fprintf(os.Stderr, "non-canonical fields: %v\n", extra)
	}
	for _, c := range assemble.CheckIdentifiers(record) {
		printIdentifierCheck(os.Stderr, c)
	}
	return nil
}

func runMetaExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := assemble.Load(cfg.Project, logger)
	if err != nil {
		return err
	}
	_, err = p.ExportMetadata(cmd.OutOrStdout())
	return err
}

func printIdentifierCheck(w io.Writer, c assemble.IdentifierCheck) {
	switch {
	case !c.Result.Valid:
		fmt.Fprintf(w, "%s: invalid %q (%s)\n", c.Field, c.Input, c.Result.Message)
	case c.Result.Placeholder:
		fmt.Fprintf(w, "%s: placeholder %q\n", c.Field, c.Input)
	default:
		fmt.Fprintf(w, "%s: %s\n", c.Field, c.Result.Code)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	metaShowCmd.Flags().Bool("external", false, "show the external convention instead of canonical fields")
	metaShowCmd.Flags().Bool("json", false, "output as JSON")

	metaCmd.AddCommand(metaShowCmd)
	metaCmd.AddCommand(metaExportCmd)
	metaCmd.Long += fmt.Sprintf("\n\nCanonical fields: %s", strings.Join(fields.Canonical, ", "))

	rootCmd.AddCommand(metaCmd)
}
