// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists bibliographic records in SQLite.
// Implements: prd001-library (R1-R5);
//
//	docs/ARCHITECTURE § Library Store.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/refdex/refdex/internal/query"
	"github.com/refdex/refdex/pkg/types"
)

// Store manages the library SQLite database. The csl column holds the
// full CSL-JSON document and is the single source of truth; the other
// columns exist for inspection with stock sqlite tooling.
type Store struct {
	db *sql.DB
}

// Open opens or creates the library database at path, creating parent
// directories and the schema as needed (R1.1, R1.2).
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating library directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			type TEXT,
			title TEXT,
			csl TEXT NOT NULL,
			added_at TEXT NOT NULL,
			modified_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_type ON records(type)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	return nil
}

// Put inserts or updates a single record. A record with a blank ID gets
// a generated citekey (R2.3).
func (s *Store) Put(ctx context.Context, rec *types.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := putTx(ctx, tx, rec); err != nil {
		return err
	}
	return tx.Commit()
}

// Get returns the record with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*types.Record, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT csl FROM records WHERE id = ?`, id,
	).Scan(&doc)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("record %s not found", id)
		}
		return nil, fmt.Errorf("looking up record %s: %w", id, err)
	}

	var rec types.Record
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, fmt.Errorf("decoding record %s: %w", id, err)
	}
	return &rec, nil
}

// Delete removes the record with the given ID. Deleting a record that
// does not exist is an error (R3.2).
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting record %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting record %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("record %s not found", id)
	}
	return nil
}

// List returns every record in the library in insertion order.
func (s *Store) List(ctx context.Context) ([]*types.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, csl FROM records ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []*types.Record
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		var rec types.Record
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return nil, fmt.Errorf("decoding record %s: %w", id, err)
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// Count returns the number of records in the library.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// Search loads the library and runs the query engine over it (R4.1).
// Matching happens entirely in memory; SQL does no filtering.
func (s *Store) Search(ctx context.Context, tokens []query.Token) ([]query.SearchResult, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Search(records, tokens), nil
}
