// Package store persists saved sheets in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/output"
	_ "modernc.org/sqlite"
)

// ErrNotFound indicates an unknown saved sheet id.
var ErrNotFound = fmt.Errorf("store: %w", gridcalc.ErrSheetNotFound)

// Store is a SheetStore backed by SQLite. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

var _ gridcalc.SheetStore = (*Store)(nil)

// Open opens (or creates) the database at path and ensures the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS saved_sheets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			cells TEXT NOT NULL,
			saved_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_saved_sheets_saved_at ON saved_sheets(saved_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts or replaces a saved sheet. An empty ID gets a new UUID and a
// zero SavedAt the current time.
func (s *Store) Save(ctx context.Context, saved models.SavedSheet) error {
	if saved.ID == "" {
		saved.ID = uuid.New().String()
	}
	if saved.SavedAt.IsZero() {
		saved.SavedAt = time.Now().UTC()
	}

	cells, err := output.SheetToJSON(saved.Cells, false)
	if err != nil {
		return fmt.Errorf("encode sheet %s: %w", saved.ID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO saved_sheets (id, name, cells, saved_at) VALUES (?, ?, ?, ?)`,
		saved.ID, saved.Name, string(cells), saved.SavedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("save sheet %s: %w", saved.ID, err)
	}
	return nil
}

// Load returns the saved sheet id with its cells.
func (s *Store) Load(ctx context.Context, id string) (models.SavedSheet, error) {
	var (
		saved   models.SavedSheet
		cells   string
		savedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, cells, saved_at FROM saved_sheets WHERE id = ?`, id,
	).Scan(&saved.ID, &saved.Name, &cells, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SavedSheet{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return models.SavedSheet{}, fmt.Errorf("load sheet %s: %w", id, err)
	}

	saved.Cells, err = output.SheetFromJSON([]byte(cells))
	if err != nil {
		return models.SavedSheet{}, fmt.Errorf("load sheet %s: %w", id, err)
	}
	saved.SavedAt = time.Unix(0, savedAt).UTC()
	return saved, nil
}

// List returns every saved sheet without its cells, newest first.
func (s *Store) List(ctx context.Context) ([]models.SavedSheet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, saved_at FROM saved_sheets ORDER BY saved_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	defer rows.Close()

	var list []models.SavedSheet
	for rows.Next() {
		var (
			saved   models.SavedSheet
			savedAt int64
		)
		if err := rows.Scan(&saved.ID, &saved.Name, &savedAt); err != nil {
			return nil, fmt.Errorf("list sheets: %w", err)
		}
		saved.SavedAt = time.Unix(0, savedAt).UTC()
		list = append(list, saved)
	}
	return list, rows.Err()
}

// Delete removes the saved sheet id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_sheets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete sheet %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
