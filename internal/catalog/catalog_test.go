// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/imprint/internal/fields"
	"github.com/pdiddy/imprint/internal/match"
	"github.com/pdiddy/imprint/internal/meta"
	"github.com/pdiddy/imprint/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.CatalogConfig{Path: filepath.Join(t.TempDir(), "db", "catalog.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func record(title, author, isbnPrint string) *fields.Record {
	r := fields.NewRecord()
	r.SetText(fields.Title, title)
	if author != "" {
		r.SetText(fields.Author, author)
	}
	if isbnPrint != "" {
		r.SetText(fields.ISBNPrint, isbnPrint)
	}
	return r
}

func put(t *testing.T, s *Store, id string, r *fields.Record) {
	t.Helper()
	if _, err := s.Put(context.Background(), id, r); err != nil {
		t.Fatalf("Put(%s): %v", id, err)
	}
}

// --- tests ---

func TestPutAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	r := record("Les Fleurs du mal", "Charles Baudelaire", "978-0-306-40615")
	r.SetText(fields.Subtitle, "Édition critique")
	r.Set("keywords", meta.Seq(meta.Str("poésie"), meta.Str("1857")))
	r.SetText(fields.Rights, "line one\rline two")

	updated, err := s.Put(ctx, "fleurs", r)
	if err != nil {
		t.Fatal(err)
	}
	if updated {
		t.Error("first Put reported an update")
	}

	b, err := s.Get(ctx, "fleurs")
	if err != nil {
		t.Fatal(err)
	}
	if b.Title != "Les Fleurs du mal" || b.Author != "Charles Baudelaire" || b.Subtitle != "Édition critique" {
		t.Errorf("book = %+v", b)
	}
	if b.ISBN != "9780306406157" {
		t.Errorf("ISBN = %q, want normalized code", b.ISBN)
	}
	if b.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set")
	}
	if !b.Record.Equal(r) {
		t.Errorf("record changed in storage: %v", b.Record.Keys())
	}
}

func TestPutReplaces(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	put(t, s, "b", record("First", "", ""))

	updated, err := s.Put(ctx, "b", record("Second", "", ""))
	if err != nil {
		t.Fatal(err)
	}
	if !updated {
		t.Error("second Put did not report an update")
	}
	b, _ := s.Get(ctx, "b")
	if b.Title != "Second" {
		t.Errorf("Title = %q", b.Title)
	}
	books, _ := s.Search(ctx, "first", 0)
	if len(books) != 0 {
		t.Errorf("search still finds the old title: %+v", books)
	}
}

func TestPutRejectsEmptyID(t *testing.T) {
	s := testStore(t)
	if _, err := s.Put(context.Background(), " ", record("T", "", "")); err == nil {
		t.Error("expected error for empty id")
	}
}

func TestGetNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListSortsByTitle(t *testing.T) {
	s := testStore(t)
	put(t, s, "z", record("alpha", "", ""))
	put(t, s, "a", record("Gamma", "", ""))
	put(t, s, "m", record("Beta", "", ""))

	books, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	if strings.Join(ids, ",") != "z,m,a" {
		t.Errorf("ids = %v, want z,m,a", ids)
	}
}

func TestSearch(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	put(t, s, "fleurs", record("Les Fleurs du mal", "Charles Baudelaire", ""))
	put(t, s, "spleen", record("Le Spleen de Paris", "Charles Baudelaire", ""))
	put(t, s, "bovary", record("Madame Bovary", "Gustave Flaubert", ""))

	books, err := s.Search(ctx, "baudelaire", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 2 {
		t.Errorf("len = %d, want 2", len(books))
	}

	books, err = s.Search(ctx, "bovary", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 1 || books[0].ID != "bovary" {
		t.Errorf("books = %+v", books)
	}

	books, _ = s.Search(ctx, "baudelaire", 1)
	if len(books) != 1 {
		t.Errorf("maxResults ignored: %d results", len(books))
	}

	if _, err := s.Search(ctx, "  ", 0); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestSeveralAuthorsAreJoined(t *testing.T) {
	s := testStore(t)
	r := record("Recueil", "", "")
	r.Set(fields.Author, meta.Seq(meta.Str("A. Un"), meta.Str("B. Deux")))
	put(t, s, "r", r)

	b, err := s.Get(context.Background(), "r")
	if err != nil {
		t.Fatal(err)
	}
	if b.Author != "A. Un, B. Deux" {
		t.Errorf("Author = %q", b.Author)
	}
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	put(t, s, "d", record("Doomed", "", ""))
	id, err := s.SavePlan(ctx, "d", types.MatchPlan{})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(ctx, "d"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "d"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: %v", err)
	}
	if _, err := s.Plan(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("plan survived its book: %v", err)
	}
	if err := s.Delete(ctx, "d"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: %v", err)
	}
}

func TestSavePlan(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	put(t, s, "fleurs", record("Les Fleurs du mal", "", ""))

	templates := match.DescribeAll([]string{"LIVRE-02-Frontmatter.indd", "LIVRE-03-Corps.indd"}, nil)
	plan := match.BuildPlan(match.ContentFiles([]string{"02-chapitre.md", "01-introduction.md"}), templates, nil)

	id, err := s.SavePlan(ctx, "fleurs", plan)
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Plan(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.BookID != "fleurs" || len(got.Plan.Entries) != 2 {
		t.Fatalf("plan = %+v", got)
	}
	if e := got.Plan.Entries[0]; e.Content.Name != "01-introduction.md" || e.Template == nil || e.Template.Name != "LIVRE-02-Frontmatter.indd" {
		t.Errorf("entry 0 = %+v", e)
	}

	second, err := s.SavePlan(ctx, "fleurs", plan)
	if err != nil {
		t.Fatal(err)
	}
	plans, err := s.Plans(ctx, "fleurs")
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 2 || plans[0].ID != second {
		t.Errorf("plans = %d, first %s, want newest %s", len(plans), plans[0].ID, second)
	}
}

func TestSavePlanUnknownBook(t *testing.T) {
	s := testStore(t)
	if _, err := s.SavePlan(context.Background(), "ghost", types.MatchPlan{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := s.Plan(context.Background(), "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestExportYAML(t *testing.T) {
	s := testStore(t)
	r := record("Les Fleurs du mal", "Charles Baudelaire", "")
	r.SetText(fields.Subtitle, "Édition critique")
	put(t, s, "fleurs", r)

	var buf bytes.Buffer
	if err := s.ExportYAML(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}

	var entries []struct {
		ID       string         `yaml:"id"`
		Metadata map[string]any `yaml:"metadata"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("export does not parse: %v\n%s", err, buf.String())
	}
	if len(entries) != 1 || entries[0].ID != "fleurs" {
		t.Fatalf("entries = %+v", entries)
	}
	if _, ok := entries[0].Metadata["creator"]; !ok {
		t.Errorf("metadata not in external form: %v", entries[0].Metadata)
	}
}

func TestExportJSON(t *testing.T) {
	s := testStore(t)
	put(t, s, "a", record("A", "", "978-0-306-40615"))
	put(t, s, "b", record("B", "", ""))

	var buf bytes.Buffer
	if err := s.ExportJSON(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	var entries []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("export does not parse: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	md := entries[0]["metadata"].(map[string]any)
	if md["title"] != "A" || md["isbn-print"] != "978-0-306-40615" {
		t.Errorf("metadata = %v", md)
	}
}

func TestExportEmpty(t *testing.T) {
	s := testStore(t)
	var buf bytes.Buffer
	if err := s.ExportJSON(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty export = %q", buf.String())
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	s, err := Open(types.CatalogConfig{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	put(t, s, "kept", record("Kept Title", "", ""))
	s.Close()

	s, err = Open(types.CatalogConfig{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	books, err := s.Search(context.Background(), "kept", 0)
	if err != nil || len(books) != 1 {
		t.Errorf("books = %+v, err = %v", books, err)
	}
}
