// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"slices"
	"strings"

	"github.com/pdiddy/imprint/pkg/types"
)

// Category terms, French and English. A name belongs to the first list
// holding a term that occurs anywhere in it, in the order front, back,
// specialized. Terms are matched as substrings, so none may be a common
// word fragment ("front" would catch "confrontation").
var (
	frontTerms = []string{
		"frontmatter", "front-matter", "front_matter",
		"liminaire", "faux-titre", "titre", "title", "copyright",
		"introduction", "avant-propos", "foreword", "sommaire",
		"contents", "prelim",
	}
	backTerms = []string{
		"backmatter", "back-matter", "back_matter",
		"postface", "afterword", "achevé", "acheve", "about-the-author",
		"quatrième", "quatrieme",
	}
	specializedTerms = []string{
		"bibliograph", "références", "references", "index",
		"appendix", "appendices", "annexe", "glossary", "glossaire",
		"lexique", "preface", "préface", "conclusion", "epilogue",
		"épilogue", "acknowledg", "remerciements", "dedication",
		"dédicace", "dedicace", "colophon", "notes",
	}
)

var categoryTerms = []struct {
	category types.Category
	terms    []string
}{
	{types.CategoryFrontMatter, frontTerms},
	{types.CategoryBackMatter, backTerms},
	{types.CategorySpecialized, specializedTerms},
}

// Classify returns the structural category a filename suggests. Names that
// match no list are body matter. Cover, Before and After are never returned:
// those come from the layout manifest (see Describe).
func Classify(name string) types.Category {
	s := normalizeName(name)
	for _, ct := range categoryTerms {
		if slices.ContainsFunc(ct.terms, func(term string) bool { return strings.Contains(s, term) }) {
			return ct.category
		}
	}
	return types.CategoryBodyMatter
}

// Describe builds the descriptor of one template. A manifest, when given,
// takes precedence over the filename for the bookend categories.
func Describe(name string, manifest *types.LayoutManifest) types.TemplateDescriptor {
	category := Classify(name)
	if manifest != nil {
		switch {
		case slices.Contains(manifest.Cover, name):
			category = types.CategoryCover
		case slices.Contains(manifest.Before, name):
			category = types.CategoryBefore
		case slices.Contains(manifest.After, name):
			category = types.CategoryAfter
		}
	}
	return types.TemplateDescriptor{
		Name:     name,
		Category: category,
		Keywords: ExtractKeywords(name),
	}
}

// DescribeAll describes every template, keeping input order.
func DescribeAll(names []string, manifest *types.LayoutManifest) []types.TemplateDescriptor {
	out := make([]types.TemplateDescriptor, 0, len(names))
	for _, name := range names {
		out = append(out, Describe(name, manifest))
	}
	return out
}

// NewContentFile describes one content file.
func NewContentFile(name string) types.ContentFile {
	return types.ContentFile{Name: name, Keywords: ExtractKeywords(name)}
}

// ContentFiles describes content files, keeping input order.
func ContentFiles(names []string) []types.ContentFile {
	out := make([]types.ContentFile, 0, len(names))
	for _, name := range names {
		out = append(out, NewContentFile(name))
	}
	return out
}
