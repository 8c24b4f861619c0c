// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/imprint/internal/fields"
	"github.com/pdiddy/imprint/internal/isbn"
	"github.com/pdiddy/imprint/internal/match"
	"github.com/pdiddy/imprint/internal/meta"
	"github.com/pdiddy/imprint/pkg/types"
)

// Output formats accepted by WritePlan.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// IdentifierCheck is the validation of one identifier field of a record.
type IdentifierCheck struct {
	Field  string      `json:"field" yaml:"field"`
	Input  string      `json:"input" yaml:"input"`
	Result isbn.Result `json:"result" yaml:"result"`

	// Pattern is the EAN-13 bar pattern, set only for a valid, assigned code.
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// identifierFields are the record fields holding 13-digit identifiers.
var identifierFields = []string{fields.ISBNPrint, fields.ISBNEbook}

// CheckIdentifiers validates the identifier fields present in r and encodes
// the valid ones. Placeholders are reported valid and never encoded.
func CheckIdentifiers(r *fields.Record) []IdentifierCheck {
	var checks []IdentifierCheck
	for _, f := range identifierFields {
		if !r.Has(f) {
			continue
		}
		input := r.Text(f)
		c := IdentifierCheck{Field: f, Input: input, Result: isbn.Validate(input)}
		if c.Result.Valid && !c.Result.Placeholder {
			// Validate only returns 13-digit codes here.
			c.Pattern, _ = isbn.Encode(c.Result.Code)
		}
		checks = append(checks, c)
	}
	return checks
}

// Summary counts the outcome of a planning run.
type Summary struct {
	Matched    int
	Fallback   int
	Unassigned int
}

// Total returns the number of content files planned.
func (s Summary) Total() int {
	return s.Matched + s.Fallback + s.Unassigned
}

// HasUnassigned reports whether some content file got no template.
func (s Summary) HasUnassigned() bool {
	return s.Unassigned > 0
}

// Summarize counts plan entries by how their template was chosen.
func Summarize(plan types.MatchPlan) Summary {
	var s Summary
	for _, e := range plan.Entries {
		switch {
		case e.Template == nil:
			s.Unassigned++
		case e.Matched:
			s.Matched++
		default:
			s.Fallback++
		}
	}
	return s
}

// ReportPlan prints one line per plan entry to w, then a summary.
func ReportPlan(plan types.MatchPlan, w io.Writer) Summary {
	for _, t := range plan.Cover {
		fmt.Fprintf(w, "cover:     %s\n", t.Name)
	}
	for _, t := range plan.Before {
		fmt.Fprintf(w, "before:    %s\n", t.Name)
	}
	for _, e := range plan.Entries {
		switch {
		case e.Template == nil:
			fmt.Fprintf(w, "unassigned: %3d %s (%s)\n", e.Ordinal, e.Content.Name, e.Category)
		case e.Matched:
			fmt.Fprintf(w, "matched:   %3d %s -> %s (score %d)\n", e.Ordinal, e.Content.Name, e.Template.Name, e.Score)
		default:
			fmt.Fprintf(w, "fallback:  %3d %s -> %s (%s, score %d)\n", e.Ordinal, e.Content.Name, e.Template.Name, e.Category, e.Score)
		}
	}
	for _, t := range plan.After {
		fmt.Fprintf(w, "after:     %s\n", t.Name)
	}

	s := Summarize(plan)
	fmt.Fprintf(w, "\nPlan summary: %d matched, %d fallback, %d unassigned (total: %d)\n",
		s.Matched, s.Fallback, s.Unassigned, s.Total())
	return s
}

// MarshalPlan encodes a plan as YAML or JSON.
func MarshalPlan(plan types.MatchPlan, format string) ([]byte, error) {
	switch format {
	case FormatYAML, "":
		return yaml.Marshal(plan)
	case FormatJSON:
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}

// WritePlan writes plan.yaml or plan.json into the output directory and
// returns its path. Progress is printed to w.
func (p *Project) WritePlan(plan types.MatchPlan, format string, w io.Writer) (string, error) {
	if format == "" {
		format = FormatYAML
	}
	data, err := MarshalPlan(plan, format)
	if err != nil {
		return "", fmt.Errorf("encoding plan: %w", err)
	}
	path, err := p.writeOutput("plan."+format, data)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(w, "wrote: %s\n", path)
	return path, nil
}

// ExportRecord returns the metadata as external front matter. Identifier
// fields that validate are replaced by their normalized code.
func ExportRecord(r *fields.Record) *meta.Mapping {
	out := r.Clone()
	for _, c := range CheckIdentifiers(r) {
		if c.Result.Valid && !c.Result.Placeholder {
			out.SetText(c.Field, c.Result.Code)
		}
	}
	return fields.ToExternal(out)
}

// ExportMetadata writes the project metadata in the external convention,
// followed by the original body, to metadata.md in the output directory.
// Invalid identifiers are reported to w and exported unchanged.
func (p *Project) ExportMetadata(w io.Writer) (string, error) {
	for _, c := range CheckIdentifiers(p.Record) {
		switch {
		case !c.Result.Valid:
			fmt.Fprintf(w, "invalid: %s %q (%s)\n", c.Field, c.Input, c.Result.Message)
		case c.Result.Placeholder:
			fmt.Fprintf(w, "placeholder: %s %q\n", c.Field, c.Input)
		}
	}

	text := meta.StringifyFrontMatter(ExportRecord(p.Record))
	if p.Body != "" {
		text += p.Body
	}
	path, err := p.writeOutput(defaultMetadataFile, []byte(text))
	if err != nil {
		return "", err
	}
	fmt.Fprintf(w, "wrote: %s\n", path)
	return path, nil
}

// Pair pairs a plan with the generated files found in dir, sorted by name.
func Pair(plan types.MatchPlan, dir string) (types.Pairing, error) {
	names, err := ListFiles(dir)
	if err != nil {
		return types.Pairing{}, fmt.Errorf("listing outputs: %w", err)
	}
	return match.PairOutputs(plan, names), nil
}

func (p *Project) writeOutput(name string, data []byte) (string, error) {
	dir := p.path(p.Config.OutputDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}
