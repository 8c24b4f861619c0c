// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/imprint/internal/assemble"
	"github.com/pdiddy/imprint/internal/catalog"
	"github.com/pdiddy/imprint/internal/fields"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Record book metadata in a local catalog and query it",
	Long: `Catalog keeps the metadata of many book projects in a SQLite database,
with full-text search over titles, subtitles and authors, the history of
layout plans per book, and YAML or JSON export.`,
}

var catalogStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Record the project metadata in the catalog",
	Args:  cobra.NoArgs,
	RunE:  runCatalogStore,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued books by title",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search titles, subtitles and authors",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogSearch,
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every catalogued book in the external convention",
	Args:  cobra.NoArgs,
	RunE:  runCatalogExport,
}

var catalogDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a book and its plans from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogDelete,
}

func openCatalog() (*catalog.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return catalog.Open(cfg.Catalog)
}

func runCatalogStore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := assemble.Load(cfg.Project, logger)
	if err != nil {
		return err
	}

	id, _ := cmd.Flags().GetString("id")
	if id == "" {
		abs, err := filepath.Abs(p.Config.Dir)
		if err != nil {
			return fmt.Errorf("resolving project directory: %w", err)
		}
		id = filepath.Base(abs)
	}

	store, err := catalog.Open(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	updated, err := store.Put(cmd.Context(), id, p.Record)
	if err != nil {
		return err
	}
	action := "stored"
	if updated {
		action = "updated"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%q)\n", action, id, p.Record.Text(fields.Title))
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	books, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return printBooks(cmd.OutOrStdout(), books, jsonOutput)
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	books, err := store.Search(cmd.Context(), args[0], limit)
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return printBooks(cmd.OutOrStdout(), books, jsonOutput)
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != assemble.FormatYAML && format != assemble.FormatJSON {
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	var w io.Writer = cmd.OutOrStdout()
	outPath, _ := cmd.Flags().GetString("out")
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		w = f
	}

	if format == assemble.FormatJSON {
		err = store.ExportJSON(cmd.Context(), w)
	} else {
		err = store.ExportYAML(cmd.Context(), w)
	}
	if err != nil {
		return err
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "wrote: %s\n", outPath)
	}
	return nil
}

func runCatalogDelete(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted: %s\n", args[0])
	return nil
}

func printBooks(w io.Writer, books []catalog.Book, jsonOutput bool) error {
	if jsonOutput {
		return printJSON(w, books)
	}
	if len(books) == 0 {
		fmt.Fprintln(w, "No books found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tISBN")
	for _, b := range books {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, b.ISBN)
	}
	return tw.Flush()
}

func init() {
	catalogStoreCmd.Flags().String("id", "", "book id (default: the project directory name)")
	catalogListCmd.Flags().Bool("json", false, "output results as JSON")
	catalogSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogSearchCmd.Flags().Bool("json", false, "output results as JSON")
	catalogExportCmd.Flags().String("format", assemble.FormatYAML, "export format: yaml or json")
	catalogExportCmd.Flags().String("out", "", "write to this file instead of stdout")

	catalogCmd.AddCommand(catalogStoreCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogDeleteCmd)

	rootCmd.AddCommand(catalogCmd)
}
