// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/refdex/refdex/internal/query"
	"github.com/refdex/refdex/pkg/types"
)

type putOutcome int

const (
	outcomeAdded putOutcome = iota
	outcomeUpdated
	outcomeSkipped
)

// ImportSummary holds counts from a batch import (prd003-import-export R2.4).
type ImportSummary struct {
	Added   int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of records processed.
func (s ImportSummary) Total() int {
	return s.Added + s.Updated + s.Skipped + s.Failed
}

// HasFailures reports whether any record failed to import.
func (s ImportSummary) HasFailures() bool {
	return s.Failed > 0
}

// Import writes records to the library inside a single transaction,
// reporting per-record progress on w. Records with a blank ID get a
// generated citekey; records byte-identical to their stored version are
// skipped (R2.1-R2.4).
func (s *Store) Import(ctx context.Context, records []*types.Record, w io.Writer) (ImportSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var summary ImportSummary
	for _, rec := range records {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		outcome, err := putTx(ctx, tx, rec)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", rec.ID, err)
			summary.Failed++
			continue
		}
		switch outcome {
		case outcomeAdded:
			fmt.Fprintf(w, "added   %s\n", rec.ID)
			summary.Added++
		case outcomeUpdated:
			fmt.Fprintf(w, "updated %s\n", rec.ID)
			summary.Updated++
		case outcomeSkipped:
			fmt.Fprintf(w, "skipped %s (unchanged)\n", rec.ID)
			summary.Skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing import: %w", err)
	}

	fmt.Fprintf(w, "\nadded: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Added, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func putTx(ctx context.Context, tx *sql.Tx, rec *types.Record) (putOutcome, error) {
	if rec.ID == "" {
		id, err := nextCitekey(ctx, tx, rec)
		if err != nil {
			return 0, err
		}
		rec.ID = id
	}

	doc, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("encoding record: %w", err)
	}

	var stored string
	err = tx.QueryRowContext(ctx,
		`SELECT csl FROM records WHERE id = ?`, rec.ID,
	).Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
		// New record.
	case err != nil:
		return 0, fmt.Errorf("looking up record %s: %w", rec.ID, err)
	case stored == string(doc):
		return outcomeSkipped, nil
	}
	exists := err == nil

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (id, type, title, csl, added_at, modified_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			type=excluded.type, title=excluded.title, csl=excluded.csl,
			modified_at=excluded.modified_at`,
		rec.ID, rec.Type, rec.Title, string(doc), now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("upserting record %s: %w", rec.ID, err)
	}

	if exists {
		return outcomeUpdated, nil
	}
	return outcomeAdded, nil
}

// nextCitekey derives a citekey for rec and de-duplicates it against
// the library with -2, -3 suffixes (R2.3).
func nextCitekey(ctx context.Context, tx *sql.Tx, rec *types.Record) (string, error) {
	base := citekeyBase(rec)
	id := base
	for n := 2; ; n++ {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM records WHERE id = ?`, id,
		).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("checking citekey %s: %w", id, err)
		}
		if exists == 0 {
			return id, nil
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

// Leading articles make poor citekey material.
var citekeyArticles = map[string]bool{"a": true, "an": true, "the": true}

// citekeyBase derives smith2023machine-style keys: first author family
// name (or literal), publication year, first significant title word.
func citekeyBase(rec *types.Record) string {
	var b strings.Builder

	if name := firstAuthorName(rec); name != "" {
		b.WriteString(strings.ReplaceAll(query.Normalize(name), " ", ""))
	}
	if rec.Issued != nil {
		if y := rec.Issued.Year(); y > 0 {
			b.WriteString(strconv.Itoa(y))
		}
	}
	b.WriteString(titleWord(rec.Title))

	if b.Len() == 0 {
		return "ref"
	}
	return b.String()
}

func firstAuthorName(rec *types.Record) string {
	if len(rec.Author) == 0 {
		return ""
	}
	if rec.Author[0].Family != "" {
		return rec.Author[0].Family
	}
	return rec.Author[0].Literal
}

func titleWord(title string) string {
	for _, w := range strings.Fields(query.Normalize(title)) {
		if citekeyArticles[w] {
			continue
		}
		return w
	}
	return ""
}
