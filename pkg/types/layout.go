// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Category is the structural role of a layout template within a book.
type Category string

const (
	CategoryFrontMatter Category = "front-matter"
	CategoryBodyMatter  Category = "body-matter"
	CategoryBackMatter  Category = "back-matter"
	CategorySpecialized Category = "specialized"
	CategoryBefore      Category = "before"
	CategoryAfter       Category = "after"
	CategoryCover       Category = "cover"
)

// Bookend reports whether the category is placed by the layout manifest
// rather than filled with content.
func (c Category) Bookend() bool {
	return c == CategoryCover || c == CategoryBefore || c == CategoryAfter
}

// TemplateDescriptor describes one layout template available to the matcher.
type TemplateDescriptor struct {
	// Name is the template's filename (e.g. "LIVRE-02-Frontmatter.indd").
	Name string `json:"name" yaml:"name"`

	Category Category `json:"category" yaml:"category"`

	// Keywords are the tokens extracted from Name.
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// ContentFile is one source file to be placed in a generated document.
type ContentFile struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// PlanEntry assigns one content file to a template and an output position.
type PlanEntry struct {
	Content ContentFile `json:"content" yaml:"content"`

	// Ordinal is the content file's rank in the case-folded sort of all
	// content file names.
	Ordinal int `json:"ordinal" yaml:"ordinal"`

	// Template is the chosen template, nil when no template is available.
	Template *TemplateDescriptor `json:"template,omitempty" yaml:"template,omitempty"`

	// Score is the affinity score of the chosen template.
	Score int `json:"score" yaml:"score"`

	// Category is the category expected from the content file's name.
	Category Category `json:"category" yaml:"category"`

	// Matched is true when Score reached the selection threshold, false when
	// the template was chosen by category fallback.
	Matched bool `json:"matched" yaml:"matched"`
}

// MatchPlan is the full assignment of content files, in ordinal order.
type MatchPlan struct {
	Entries []PlanEntry `json:"entries" yaml:"entries"`

	// Cover, Before and After list bookend templates in placement order.
	Cover  []TemplateDescriptor `json:"cover,omitempty" yaml:"cover,omitempty"`
	Before []TemplateDescriptor `json:"before,omitempty" yaml:"before,omitempty"`
	After  []TemplateDescriptor `json:"after,omitempty" yaml:"after,omitempty"`
}

// LayoutManifest is the optional templates.yaml found beside the templates.
// It fixes which templates frame the content and in what order.
type LayoutManifest struct {
	Cover  []string `json:"cover,omitempty" yaml:"cover,omitempty"`
	Before []string `json:"before,omitempty" yaml:"before,omitempty"`
	After  []string `json:"after,omitempty" yaml:"after,omitempty"`
}

// OutputPair links a plan entry to the generated output unit at the same
// position.
type OutputPair struct {
	Content string `json:"content" yaml:"content"`
	Output  string `json:"output" yaml:"output"`
	Ordinal int    `json:"ordinal" yaml:"ordinal"`
}

// Pairing is the result of pairing plan entries with generated outputs.
// Unpaired lists content without an output; Unused lists outputs without
// content.
type Pairing struct {
	Pairs    []OutputPair `json:"pairs" yaml:"pairs"`
	Unpaired []string     `json:"unpaired,omitempty" yaml:"unpaired,omitempty"`
	Unused   []string     `json:"unused,omitempty" yaml:"unused,omitempty"`
}
