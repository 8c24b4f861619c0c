// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/imprint/pkg/types"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"03-introduction.md", []string{"introduction"}},
		{"LIVRE-02-Frontmatter.indd", []string{"frontmatter"}},
		{"LIVRE-07-Bibliographie.indd", []string{"bibliographie"}},
		{"chapter_one-draft.docx", []string{"chapter", "one", "draft"}},
		{"12 la fin du monde.txt", []string{"fin", "monde"}},
		{"notes notes notes.md", []string{"notes"}},
		{"Annexe.unknown", []string{"annexe.unknown"}},
		{"content/01-Préface.md", []string{"préface"}},
		{"ab.md", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeywords(tt.input))
		})
	}
}

func TestExtractKeywordsComposesAccents(t *testing.T) {
	decomposed := "01-Pre\u0301face.md"
	assert.Equal(t, []string{"préface"}, ExtractKeywords(decomposed))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		input string
		want  types.Category
	}{
		{"LIVRE-02-Frontmatter.indd", types.CategoryFrontMatter},
		{"LIVRE-07-Bibliographie.indd", types.CategorySpecialized},
		{"03-introduction.md", types.CategoryFrontMatter},
		{"LIVRE-09-Backmatter.indd", types.CategoryBackMatter},
		{"08-glossaire.md", types.CategorySpecialized},
		{"04-chapitre-un.md", types.CategoryBodyMatter},
		{"LIVRE-03-Corps.indd", types.CategoryBodyMatter},
		// front wins over specialized
		{"front-matter-index.indd", types.CategoryFrontMatter},
		{"02-background.md", types.CategoryBodyMatter},
		{"04-feedback.md", types.CategoryBodyMatter},
		{"05-confrontation.md", types.CategoryBodyMatter},
		{"06-backstage.md", types.CategoryBodyMatter},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.input))
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		content  []string
		template []string
		tcat     types.Category
		expected types.Category
		want     int
	}{
		{"category only", []string{"introduction"}, []string{"frontmatter"}, types.CategoryFrontMatter, types.CategoryFrontMatter, 30},
		{"specialized bonus", []string{"introduction"}, []string{"index"}, types.CategorySpecialized, types.CategoryFrontMatter, 20},
		{"no affinity", []string{"chapitre"}, []string{"frontmatter"}, types.CategoryFrontMatter, types.CategoryBodyMatter, 0},
		{"exact", []string{"glossaire"}, []string{"glossaire"}, types.CategorySpecialized, types.CategorySpecialized, 90},
		{"partial", []string{"notes"}, []string{"endnotes"}, types.CategoryBodyMatter, types.CategoryBodyMatter, 30 + 30 + 15},
		{"synonym", []string{"bibliography"}, []string{"bibliographie"}, types.CategorySpecialized, types.CategorySpecialized, 30 + 15},
		{"capped", []string{"corps", "texte"}, []string{"corps", "texte"}, types.CategoryBodyMatter, types.CategoryBodyMatter, 100},
		{"empty keywords", nil, nil, types.CategoryBodyMatter, types.CategoryFrontMatter, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.content, tt.template, tt.tcat, tt.expected))
		})
	}
}

func TestSelectBestTemplateFallsBackToCategory(t *testing.T) {
	templates := DescribeAll([]string{
		"LIVRE-03-Corps.indd",
		"LIVRE-02-Frontmatter.indd",
		"LIVRE-07-Bibliographie.indd",
	}, nil)

	a, ok := SelectBestTemplate(NewContentFile("03-introduction.md"), templates)
	require.True(t, ok)
	require.NotNil(t, a.Template)
	assert.Equal(t, "LIVRE-02-Frontmatter.indd", a.Template.Name)
	assert.Equal(t, 30, a.Score)
	assert.Equal(t, types.CategoryFrontMatter, a.Category)
	assert.False(t, a.Matched)
}

func TestSelectBestTemplateMatchesKeywords(t *testing.T) {
	templates := DescribeAll([]string{
		"LIVRE-03-Corps.indd",
		"LIVRE-07-Bibliographie.indd",
	}, nil)

	a, ok := SelectBestTemplate(NewContentFile("09-bibliographie.md"), templates)
	require.True(t, ok)
	assert.Equal(t, "LIVRE-07-Bibliographie.indd", a.Template.Name)
	assert.Equal(t, 90, a.Score)
	assert.True(t, a.Matched)

	// a synonym alone stays under the threshold
	a, ok = SelectBestTemplate(NewContentFile("09-bibliography.md"), templates)
	require.True(t, ok)
	assert.Equal(t, "LIVRE-07-Bibliographie.indd", a.Template.Name)
	assert.Equal(t, 45, a.Score)
	assert.False(t, a.Matched)
}

func TestSelectBestTemplateFirstWinsTies(t *testing.T) {
	templates := []types.TemplateDescriptor{
		{Name: "a.indd", Category: types.CategoryBodyMatter, Keywords: []string{"corps"}},
		{Name: "b.indd", Category: types.CategoryBodyMatter, Keywords: []string{"corps"}},
	}
	a, ok := SelectBestTemplate(types.ContentFile{Name: "corps.md", Keywords: []string{"corps"}}, templates)
	require.True(t, ok)
	assert.Equal(t, "a.indd", a.Template.Name)
	assert.Equal(t, 90, a.Score)
}

func TestSelectBestTemplateFallsBackToBody(t *testing.T) {
	templates := DescribeAll([]string{"LIVRE-09-Backmatter.indd", "LIVRE-03-Corps.indd"}, nil)
	a, ok := SelectBestTemplate(NewContentFile("03-introduction.md"), templates)
	require.True(t, ok)
	assert.Equal(t, "LIVRE-03-Corps.indd", a.Template.Name)
	assert.False(t, a.Matched)
}

func TestSelectBestTemplateKeepsChaptersInBody(t *testing.T) {
	templates := DescribeAll([]string{"LIVRE-02-Frontmatter.indd", "LIVRE-09-Backmatter.indd", "LIVRE-03-Corps.indd"}, nil)
	for _, name := range []string{"02-background.md", "05-confrontation.md"} {
		a, ok := SelectBestTemplate(NewContentFile(name), templates)
		require.True(t, ok, name)
		assert.Equal(t, "LIVRE-03-Corps.indd", a.Template.Name, name)
		assert.Equal(t, types.CategoryBodyMatter, a.Category, name)
	}
}

func TestSelectBestTemplateNoMatch(t *testing.T) {
	_, ok := SelectBestTemplate(NewContentFile("03-introduction.md"), nil)
	assert.False(t, ok)

	templates := DescribeAll([]string{"LIVRE-09-Backmatter.indd"}, nil)
	a, ok := SelectBestTemplate(NewContentFile("01-chapitre.md"), templates)
	assert.False(t, ok)
	assert.Nil(t, a.Template)
}

func TestAssignOrdinals(t *testing.T) {
	in := ContentFiles([]string{"02-b.md", "01-a.md", "10-c.md"})
	got := AssignOrdinals(in)

	var names []string
	for _, f := range got {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"01-a.md", "02-b.md", "10-c.md"}, names)
	assert.Equal(t, "02-b.md", in[0].Name, "input must not be reordered")
}

func TestAssignOrdinalsIsLexicographicAndCaseInsensitive(t *testing.T) {
	got := AssignOrdinals(ContentFiles([]string{"b.md", "A.md", "10.md", "9.md", "a.md"}))
	var names []string
	for _, f := range got {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"10.md", "9.md", "A.md", "a.md", "b.md"}, names)
}

func TestIdempotence(t *testing.T) {
	names := []string{"LIVRE-02-Frontmatter.indd", "03-introduction.md", "02-b.md", "01-a.md"}
	for _, n := range names {
		assert.Equal(t, ExtractKeywords(n), ExtractKeywords(n))
		assert.Equal(t, Classify(n), Classify(n))
	}
	files := ContentFiles(names)
	assert.Equal(t, AssignOrdinals(files), AssignOrdinals(files))

	reversed := slices.Clone(files)
	slices.Reverse(reversed)
	assert.Equal(t, AssignOrdinals(files), AssignOrdinals(reversed))
}

func TestDescribeUsesManifest(t *testing.T) {
	manifest := &types.LayoutManifest{
		Cover:  []string{"LIVRE-00-Couverture.indd"},
		Before: []string{"LIVRE-01-Titre.indd"},
		After:  []string{"LIVRE-99-Achevé.indd"},
	}
	assert.Equal(t, types.CategoryCover, Describe("LIVRE-00-Couverture.indd", manifest).Category)
	assert.Equal(t, types.CategoryBefore, Describe("LIVRE-01-Titre.indd", manifest).Category)
	assert.Equal(t, types.CategoryAfter, Describe("LIVRE-99-Achevé.indd", manifest).Category)
	assert.Equal(t, types.CategoryFrontMatter, Describe("LIVRE-01-Titre.indd", nil).Category)
}

func TestBuildPlan(t *testing.T) {
	manifest := &types.LayoutManifest{
		Before: []string{"LIVRE-01-Titre.indd", "LIVRE-00-Faux.indd"},
	}
	templates := DescribeAll([]string{
		"LIVRE-00-Faux.indd",
		"LIVRE-01-Titre.indd",
		"LIVRE-02-Frontmatter.indd",
		"LIVRE-03-Corps.indd",
		"LIVRE-07-Bibliographie.indd",
	}, manifest)
	content := ContentFiles([]string{"09-bibliographie.md", "02-chapitre-un.md", "01-introduction.md"})

	plan := BuildPlan(content, templates, manifest)

	require.Len(t, plan.Before, 2)
	assert.Equal(t, "LIVRE-01-Titre.indd", plan.Before[0].Name)
	assert.Equal(t, "LIVRE-00-Faux.indd", plan.Before[1].Name)
	assert.Empty(t, plan.Cover)

	require.Len(t, plan.Entries, 3)
	want := []struct {
		content  string
		template string
		matched  bool
	}{
		{"01-introduction.md", "LIVRE-02-Frontmatter.indd", false},
		{"02-chapitre-un.md", "LIVRE-03-Corps.indd", false},
		{"09-bibliographie.md", "LIVRE-07-Bibliographie.indd", true},
	}
	for i, w := range want {
		e := plan.Entries[i]
		assert.Equal(t, i, e.Ordinal)
		assert.Equal(t, w.content, e.Content.Name)
		if assert.NotNil(t, e.Template, w.content) {
			assert.Equal(t, w.template, e.Template.Name)
		}
		assert.Equal(t, w.matched, e.Matched, w.content)
	}
}

func TestPairOutputs(t *testing.T) {
	plan := BuildPlan(ContentFiles([]string{"b.md", "a.md", "c.md"}), nil, nil)

	p := PairOutputs(plan, []string{"out-1.indd", "out-2.indd"})
	assert.Equal(t, []types.OutputPair{
		{Content: "a.md", Output: "out-1.indd", Ordinal: 0},
		{Content: "b.md", Output: "out-2.indd", Ordinal: 1},
	}, p.Pairs)
	assert.Equal(t, []string{"c.md"}, p.Unpaired)
	assert.Empty(t, p.Unused)

	p = PairOutputs(plan, []string{"1", "2", "3", "4"})
	assert.Len(t, p.Pairs, 3)
	assert.Empty(t, p.Unpaired)
	assert.Equal(t, []string{"4"}, p.Unused)
}
