// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"strings"

	"github.com/pdiddy/imprint/pkg/types"
)

// Score weights.
const (
	sameCategoryScore = 30
	specializedScore  = 20
	exactScore        = 60
	partialScore      = 30
	synonymScore      = 15
	maxKeywordScore   = 70

	// Threshold is the score a template needs to be chosen on its own
	// merits rather than by category fallback.
	Threshold = 60
)

// synonymGroups hold keywords treated as equivalent across French and
// English.
var synonymGroups = [][]string{
	{"bibliography", "bibliographie", "references", "références"},
	{"index", "indexes", "indices", "indexe"},
	{"appendix", "appendices", "annexe", "annexes"},
	{"glossary", "glossaire", "lexique"},
	{"preface", "préface", "foreword"},
	{"conclusion", "epilogue", "épilogue"},
	{"acknowledgments", "acknowledgements", "remerciements"},
	{"dedication", "dédicace", "dedicace"},
	{"notes", "endnotes", "footnotes"},
	{"introduction", "intro"},
	{"colophon", "achevé", "acheve"},
	{"chapter", "chapitre"},
	{"contents", "sommaire", "toc"},
}

// synonymOf maps each keyword to the index of its group.
var synonymOf = func() map[string]int {
	m := make(map[string]int)
	for i, group := range synonymGroups {
		for _, w := range group {
			m[w] = i
		}
	}
	return m
}()

func synonyms(a, b string) bool {
	ga, ok := synonymOf[a]
	if !ok {
		return false
	}
	gb, ok := synonymOf[b]
	return ok && ga == gb
}

// Score rates how well a template fits a content file. The category term
// is 30 when the template has the expected category, 20 for any
// specialized template, 0 otherwise. Every keyword pair adds 60 when equal
// or 30 when one contains the other, plus 15 when the two are synonyms; the
// keyword term is capped at 70.
func Score(contentKeywords, templateKeywords []string, templateCategory, expected types.Category) int {
	score := 0
	switch {
	case templateCategory == expected:
		score = sameCategoryScore
	case templateCategory == types.CategorySpecialized:
		score = specializedScore
	}

	kw := 0
	for _, c := range contentKeywords {
		for _, t := range templateKeywords {
			switch {
			case c == t:
				kw += exactScore
			case strings.Contains(c, t) || strings.Contains(t, c):
				kw += partialScore
			}
			if c != t && synonyms(c, t) {
				kw += synonymScore
			}
		}
	}
	return score + min(kw, maxKeywordScore)
}

// Assignment is the template chosen for one content file.
type Assignment struct {
	// Template is the chosen descriptor, nil when nothing could be chosen.
	Template *types.TemplateDescriptor

	Score int

	// Category is the category expected from the content file's name.
	Category types.Category

	// Matched is true when Score reached Threshold.
	Matched bool
}

// SelectBestTemplate picks the template with the strictly highest score for
// a content file; the first template wins ties. Below Threshold it falls
// back to the first template of the expected category, then to the first
// body-matter template. It reports false when no template can be chosen.
func SelectBestTemplate(content types.ContentFile, templates []types.TemplateDescriptor) (Assignment, bool) {
	expected := Classify(content.Name)
	a := Assignment{Category: expected}

	best, bestScore := -1, -1
	scores := make([]int, len(templates))
	for i := range templates {
		scores[i] = Score(content.Keywords, templates[i].Keywords, templates[i].Category, expected)
		if scores[i] > bestScore {
			best, bestScore = i, scores[i]
		}
	}
	if best < 0 {
		return a, false
	}

	if bestScore >= Threshold {
		a.Template = &templates[best]
		a.Score = bestScore
		a.Matched = true
		return a, true
	}

	for _, want := range []types.Category{expected, types.CategoryBodyMatter} {
		for i := range templates {
			if templates[i].Category == want {
				a.Template = &templates[i]
				a.Score = scores[i]
				return a, true
			}
		}
	}
	return a, false
}
