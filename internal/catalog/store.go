// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps imported book records and their match plans in a
// SQLite database with full-text search over titles and authors.
//
// Records are stored as serialized front matter and parsed again on read,
// so the catalog holds exactly what imprint would write to a metadata file.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/imprint/internal/fields"
	"github.com/pdiddy/imprint/internal/isbn"
	"github.com/pdiddy/imprint/internal/meta"
	"github.com/pdiddy/imprint/pkg/types"
)

const (
	defaultPath       = "catalog.db"
	defaultMaxResults = 20

	// timeFormat is fixed-width so stored timestamps sort as text.
	timeFormat = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrNotFound is returned when a book or plan does not exist.
var ErrNotFound = errors.New("not found")

// Book is one catalog entry.
type Book struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Subtitle  string    `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Author    string    `json:"author,omitempty" yaml:"author,omitempty"`
	ISBN      string    `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`

	// Record is the full canonical metadata.
	Record *fields.Record `json:"-" yaml:"-"`
}

// Store manages the catalog database.
type Store struct {
	db         *sql.DB
	maxResults int

	// fts is false when the SQLite build lacks FTS5 (mattn/go-sqlite3
	// without the sqlite_fts5 tag); Search then falls back to LIKE.
	fts bool
}

// Open opens or creates the catalog database described by cfg and creates
// the schema if it does not exist.
func Open(cfg types.CatalogConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = defaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS books (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT,
			subtitle TEXT,
			author TEXT,
			isbn TEXT,
			front_matter TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS plans (
			id TEXT PRIMARY KEY,
			book_id TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
			created_at TEXT NOT NULL,
			plan TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_plans_book_id ON plans(book_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='books_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		s.fts = true
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE books_fts USING fts5(title, subtitle, author, content=books, content_rowid=rowid)`,
		`CREATE TRIGGER books_ai AFTER INSERT ON books BEGIN
			INSERT INTO books_fts(rowid, title, subtitle, author) VALUES (new.rowid, new.title, new.subtitle, new.author);
		END`,
		`CREATE TRIGGER books_ad AFTER DELETE ON books BEGIN
			INSERT INTO books_fts(books_fts, rowid, title, subtitle, author) VALUES ('delete', old.rowid, old.title, old.subtitle, old.author);
		END`,
		`CREATE TRIGGER books_au AFTER UPDATE ON books BEGIN
			INSERT INTO books_fts(books_fts, rowid, title, subtitle, author) VALUES ('delete', old.rowid, old.title, old.subtitle, old.author);
			INSERT INTO books_fts(rowid, title, subtitle, author) VALUES (new.rowid, new.title, new.subtitle, new.author);
		END`,
	}
	if _, err := s.db.Exec(ftsStatements[0]); err != nil {
		if strings.Contains(err.Error(), "no such module") {
			return nil
		}
		return fmt.Errorf("creating FTS table: %w", err)
	}
	for _, stmt := range ftsStatements[1:] {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	s.fts = true
	return nil
}

// Put stores a record under id, replacing any previous version. It reports
// whether an existing book was updated.
func (s *Store) Put(ctx context.Context, id string, r *fields.Record) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, errors.New("book id is empty")
	}

	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM books WHERE id = ?`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking book %s: %w", id, err)
	}

	b := summarize(id, r)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO books (id, title, subtitle, author, isbn, front_matter, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			subtitle = excluded.subtitle,
			author = excluded.author,
			isbn = excluded.isbn,
			front_matter = excluded.front_matter,
			updated_at = excluded.updated_at`,
		id, b.Title, b.Subtitle, b.Author, b.ISBN,
		meta.StringifyFrontMatter(r.Mapping()),
		time.Now().UTC().Format(timeFormat),
	)
	if err != nil {
		return false, fmt.Errorf("storing book %s: %w", id, err)
	}
	return exists > 0, nil
}

// Get returns the book stored under id.
func (s *Store) Get(ctx context.Context, id string) (*Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, subtitle, author, isbn, front_matter, updated_at FROM books WHERE id = ?`, id)
	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading book %s: %w", id, err)
	}
	return b, nil
}

// Delete removes a book and its plans.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting book %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	return nil
}

// List returns every book sorted by title, then id.
func (s *Store) List(ctx context.Context) ([]Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, subtitle, author, isbn, front_matter, updated_at
		FROM books ORDER BY title COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	defer rows.Close()
	return scanBooks(rows)
}

// Search runs an FTS5 query over title, subtitle and author, best matches
// first. maxResults <= 0 uses the store default.
func (s *Store) Search(ctx context.Context, query string, maxResults int) ([]Book, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("empty search query")
	}
	if maxResults <= 0 {
		maxResults = s.maxResults
	}
	if !s.fts {
		return s.searchLike(ctx, query, maxResults)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT b.id, b.title, b.subtitle, b.author, b.isbn, b.front_matter, b.updated_at
		FROM books_fts
		JOIN books b ON b.rowid = books_fts.rowid
		WHERE books_fts MATCH ?
		ORDER BY books_fts.rank
		LIMIT ?`, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("searching books: %w", err)
	}
	defer rows.Close()
	return scanBooks(rows)
}

// searchLike matches every whitespace-separated term against title,
// subtitle or author, case-insensitively for ASCII.
func (s *Store) searchLike(ctx context.Context, query string, maxResults int) ([]Book, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT id, title, subtitle, author, isbn, front_matter, updated_at FROM books WHERE 1=1`)
	for _, term := range strings.Fields(query) {
		term = strings.Trim(term, `"*`)
		if term == "" {
			continue
		}
		pattern := "%" + term + "%"
		qb.WriteString(` AND (title LIKE ? OR subtitle LIKE ? OR author LIKE ?)`)
		args = append(args, pattern, pattern, pattern)
	}
	qb.WriteString(` ORDER BY title COLLATE NOCASE, id LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching books: %w", err)
	}
	defer rows.Close()
	return scanBooks(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (*Book, error) {
	var (
		b                                 Book
		title, subtitle, author, isbnCode sql.NullString
		frontMatter, updatedAt            string
	)
	if err := row.Scan(&b.ID, &title, &subtitle, &author, &isbnCode, &frontMatter, &updatedAt); err != nil {
		return nil, err
	}
	b.Title = title.String
	b.Subtitle = subtitle.String
	b.Author = author.String
	b.ISBN = isbnCode.String
	b.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)
	b.Record = fields.RecordOf(meta.Parse(frontMatter))
	return &b, nil
}

func scanBooks(rows *sql.Rows) ([]Book, error) {
	var books []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning book: %w", err)
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

// summarize extracts the indexed columns of a record. Several authors are
// joined with commas; the ISBN is the normalized print code when valid,
// else the ebook code, else the raw print value.
func summarize(id string, r *fields.Record) Book {
	b := Book{
		ID:       id,
		Title:    r.Text(fields.Title),
		Subtitle: r.Text(fields.Subtitle),
	}
	if v, ok := r.Get(fields.Author); ok {
		b.Author = names(v)
	}
	for _, f := range []string{fields.ISBNPrint, fields.ISBNEbook} {
		if res := isbn.Validate(r.Text(f)); r.Has(f) && res.Valid && !res.Placeholder {
			b.ISBN = res.Code
			break
		}
	}
	if b.ISBN == "" {
		b.ISBN = r.Text(fields.ISBNPrint)
	}
	return b
}

func names(v meta.Value) string {
	seq, ok := v.AsSequence()
	if !ok {
		return v.Text()
	}
	parts := make([]string, 0, len(seq))
	for _, item := range seq {
		if t := item.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, ", ")
}
