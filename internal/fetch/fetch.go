// Package fetch resolves bibliographic identifiers to CSL records using
// public metadata APIs: CrossRef for DOIs, the NCBI Literature Citation
// Exporter for PMIDs and PMCIDs.
// Implements: prd003-import-export (R4);
//
//	docs/ARCHITECTURE § Metadata Fetch.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/refdex/refdex/pkg/types"
)

// BatchResult holds the outcome of a batch fetch run.
type BatchResult struct {
	Fetched int
	Failed  int
	Records []*types.Record
}

// Total returns the total number of identifiers processed.
func (r BatchResult) Total() int {
	return r.Fetched + r.Failed
}

// HasFailures reports whether any identifiers failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Fetch resolves a single identifier to a CSL record using the backend
// for its type. ISBNs and plain URLs have no metadata service wired and
// return a descriptive error. The returned record carries no ID; the
// library assigns a citekey on insert.
func Fetch(ctx context.Context, client *http.Client, identifier string, cfg types.FetchConfig) (*types.Record, error) {
	idType, normalized := Classify(identifier)

	var (
		rec *types.Record
		err error
	)
	switch idType {
	case TypeDOI:
		rec, err = FetchDOI(ctx, client, normalized, cfg)
	case TypePMID, TypePMCID:
		rec, err = FetchPubMed(ctx, client, idType, normalized, cfg)
	case TypeISBN:
		return nil, fmt.Errorf("no metadata service for ISBNs; import %s from a file instead", normalized)
	case TypeURL:
		return nil, fmt.Errorf("no metadata service for plain URLs; import %s from a file instead", normalized)
	default:
		return nil, fmt.Errorf("unrecognized identifier format: %q", identifier)
	}
	if err != nil {
		return nil, err
	}

	rec.ID = ""
	return rec, nil
}

// FetchBatch resolves multiple identifiers, printing per-item status to
// w and returning a summary. It continues after individual failures.
func FetchBatch(ctx context.Context, client *http.Client, identifiers []string, cfg types.FetchConfig, w io.Writer) BatchResult {
	var result BatchResult
	for _, id := range identifiers {
		rec, err := Fetch(ctx, client, id, cfg)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", id, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "fetched: %s (%s)\n", id, rec.Title)
		result.Fetched++
		result.Records = append(result.Records, rec)
	}
	fmt.Fprintf(w, "\nBatch summary: %d fetched, %d failed (total: %d)\n",
		result.Fetched, result.Failed, result.Total())
	return result
}
