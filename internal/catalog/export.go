// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/imprint/internal/fields"
	"github.com/pdiddy/imprint/internal/meta"
)

// ExportEntry is one book in an export, with its metadata in the external
// convention.
type ExportEntry struct {
	ID        string        `json:"id" yaml:"id"`
	UpdatedAt time.Time     `json:"updated_at" yaml:"updated_at"`
	Metadata  *meta.Mapping `json:"metadata" yaml:"metadata"`
}

// ExportYAML writes every book to w as a YAML list.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes every book to w as an indented JSON array.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	books, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	entries := make([]ExportEntry, len(books))
	for i, b := range books {
		entries[i] = ExportEntry{
			ID:        b.ID,
			UpdatedAt: b.UpdatedAt,
			Metadata:  fields.ToExternal(b.Record),
		}
	}
	return entries, nil
}
