// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/imprint/pkg/types"
)

// StoredPlan is a match plan saved for a book.
type StoredPlan struct {
	ID        string          `json:"id" yaml:"id"`
	BookID    string          `json:"book_id" yaml:"book_id"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
	Plan      types.MatchPlan `json:"plan" yaml:"plan"`
}

// SavePlan stores a plan for an existing book and returns its run id.
func (s *Store) SavePlan(ctx context.Context, bookID string, plan types.MatchPlan) (string, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM books WHERE id = ?`, bookID).Scan(&exists); err != nil {
		return "", fmt.Errorf("checking book %s: %w", bookID, err)
	}
	if exists == 0 {
		return "", fmt.Errorf("book %s: %w", bookID, ErrNotFound)
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("encoding plan: %w", err)
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO plans (id, book_id, created_at, plan) VALUES (?, ?, ?, ?)`,
		id, bookID, time.Now().UTC().Format(timeFormat), string(data))
	if err != nil {
		return "", fmt.Errorf("storing plan: %w", err)
	}
	return id, nil
}

// Plan returns the plan saved under id.
func (s *Store) Plan(ctx context.Context, id string) (*StoredPlan, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, book_id, created_at, plan FROM plans WHERE id = ?`, id)
	p, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading plan %s: %w", id, err)
	}
	return p, nil
}

// Plans returns the plans saved for a book, newest first.
func (s *Store) Plans(ctx context.Context, bookID string) ([]StoredPlan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, book_id, created_at, plan FROM plans WHERE book_id = ?
		ORDER BY created_at DESC, rowid DESC`, bookID)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

func scanPlan(row scanner) (*StoredPlan, error) {
	var (
		p         StoredPlan
		createdAt string
		data      string
	)
	if err := row.Scan(&p.ID, &p.BookID, &createdAt, &data); err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	if err := json.Unmarshal([]byte(data), &p.Plan); err != nil {
		return nil, fmt.Errorf("decoding plan %s: %w", p.ID, err)
	}
	return &p, nil
}
