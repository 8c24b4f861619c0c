// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"cmp"
	"slices"

	"golang.org/x/text/cases"

	"github.com/pdiddy/imprint/pkg/types"
)

// AssignOrdinals returns the content files sorted by case-folded name. A
// file's index in the result is its ordinal. Names that fold to the same
// key are ordered by their exact bytes, so the result depends only on the
// set of names. The input slice is not modified.
func AssignOrdinals(files []types.ContentFile) []types.ContentFile {
	fold := cases.Fold()
	keys := make(map[string]string, len(files))
	for _, f := range files {
		keys[f.Name] = fold.String(f.Name)
	}

	out := slices.Clone(files)
	slices.SortStableFunc(out, func(a, b types.ContentFile) int {
		if c := cmp.Compare(keys[a.Name], keys[b.Name]); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// BuildPlan assigns every content file an ordinal and a template. Bookend
// templates (cover, before, after) are never content targets; they are
// listed separately, in manifest order when a manifest is given.
func BuildPlan(content []types.ContentFile, templates []types.TemplateDescriptor, manifest *types.LayoutManifest) types.MatchPlan {
	var plan types.MatchPlan
	var targets []types.TemplateDescriptor
	for _, t := range templates {
		if !t.Category.Bookend() {
			targets = append(targets, t)
			continue
		}
		switch t.Category {
		case types.CategoryCover:
			plan.Cover = append(plan.Cover, t)
		case types.CategoryBefore:
			plan.Before = append(plan.Before, t)
		case types.CategoryAfter:
			plan.After = append(plan.After, t)
		}
	}
	if manifest != nil {
		sortByManifest(plan.Cover, manifest.Cover)
		sortByManifest(plan.Before, manifest.Before)
		sortByManifest(plan.After, manifest.After)
	}

	for i, f := range AssignOrdinals(content) {
		entry := types.PlanEntry{Content: f, Ordinal: i}
		a, _ := SelectBestTemplate(f, targets)
		entry.Template = a.Template
		entry.Score = a.Score
		entry.Category = a.Category
		entry.Matched = a.Matched
		plan.Entries = append(plan.Entries, entry)
	}
	return plan
}

func sortByManifest(ts []types.TemplateDescriptor, order []string) {
	slices.SortStableFunc(ts, func(a, b types.TemplateDescriptor) int {
		return cmp.Compare(slices.Index(order, a.Name), slices.Index(order, b.Name))
	})
}

// PairOutputs pairs plan entries with generated output units by ordinal:
// the Nth entry goes with the Nth output. Entries beyond the last output
// are reported as unpaired, outputs beyond the last entry as unused.
func PairOutputs(plan types.MatchPlan, outputs []string) types.Pairing {
	entries := slices.Clone(plan.Entries)
	slices.SortStableFunc(entries, func(a, b types.PlanEntry) int {
		return cmp.Compare(a.Ordinal, b.Ordinal)
	})

	var p types.Pairing
	for i, e := range entries {
		if i >= len(outputs) {
			p.Unpaired = append(p.Unpaired, e.Content.Name)
			continue
		}
		p.Pairs = append(p.Pairs, types.OutputPair{
			Content: e.Content.Name,
			Output:  outputs[i],
			Ordinal: e.Ordinal,
		})
	}
	if len(outputs) > len(entries) {
		p.Unused = slices.Clone(outputs[len(entries):])
	}
	return p
}
