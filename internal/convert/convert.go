// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert reads and writes bibliographic records in interchange
// formats: CSL-JSON and CSL-YAML on both sides, BibTeX and RIS on export.
// Implements: prd003-import-export (R1-R3);
//
//	docs/ARCHITECTURE § Import/Export.
package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/araddon/dateparse"
	"go.yaml.in/yaml/v3"

	"github.com/refdex/refdex/pkg/types"
)

// Format identifies a bibliographic interchange format.
type Format string

const (
	FormatCSLJSON Format = "csl-json"
	FormatCSLYAML Format = "csl-yaml"
	FormatBibTeX  Format = "bibtex"
	FormatRIS     Format = "ris"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "csl-json", "json":
		return FormatCSLJSON, nil
	case "csl-yaml", "yaml", "yml":
		return FormatCSLYAML, nil
	case "bibtex", "bib":
		return FormatBibTeX, nil
	case "ris":
		return FormatRIS, nil
	default:
		return "", fmt.Errorf("unknown format %q (choose csl-json, csl-yaml, bibtex, or ris)", name)
	}
}

// DetectFormat guesses a format from a file extension. Unknown
// extensions default to CSL-JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatCSLYAML
	case ".bib":
		return FormatBibTeX
	case ".ris":
		return FormatRIS
	default:
		return FormatCSLJSON
	}
}

// DecodeRecords reads records from r in the given format. CSL-JSON input
// may be a single object or an array; CSL-YAML may be a bare sequence or
// a Pandoc-style document with a references key. BibTeX and RIS are
// export-only (R1.3). Records carrying only a raw date string get
// structured date-parts filled in (R2.2).
func DecodeRecords(r io.Reader, format Format) ([]*types.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	var records []*types.Record
	switch format {
	case FormatCSLJSON:
		records, err = decodeCSLJSON(data)
	case FormatCSLYAML:
		records, err = decodeCSLYAML(data)
	default:
		return nil, fmt.Errorf("format %s is export-only", format)
	}
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		fillDateParts(rec)
	}
	return records, nil
}

func decodeCSLJSON(data []byte) ([]*types.Record, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var rec types.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("parsing CSL-JSON: %w", err)
		}
		return []*types.Record{&rec}, nil
	}

	var records []*types.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing CSL-JSON: %w", err)
	}
	return records, nil
}

func decodeCSLYAML(data []byte) ([]*types.Record, error) {
	var records []*types.Record
	if err := yaml.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	// Not a bare sequence; try Pandoc's references-document layout.
	var doc struct {
		References []*types.Record `yaml:"references"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing CSL-YAML: %w", err)
	}
	return doc.References, nil
}

// EncodeRecords writes records to w in the given format (R3.1-R3.4).
// CSL-YAML output uses Pandoc's references-document layout.
func EncodeRecords(w io.Writer, records []*types.Record, format Format) error {
	if records == nil {
		records = []*types.Record{}
	}

	switch format {
	case FormatCSLJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encoding CSL-JSON: %w", err)
		}
		return nil
	case FormatCSLYAML:
		doc := map[string][]*types.Record{"references": records}
		data, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encoding CSL-YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatBibTeX:
		return encodeBibTeX(w, records)
	case FormatRIS:
		return encodeRIS(w, records)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// ReadFile decodes records from a file. An empty format means detect
// from the extension.
func ReadFile(path string, format Format) ([]*types.Record, error) {
	if format == "" {
		format = DetectFormat(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := DecodeRecords(f, format)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return records, nil
}

// WriteFile encodes records to a file. An empty format means detect
// from the extension.
func WriteFile(path string, records []*types.Record, format Format) error {
	if format == "" {
		format = DetectFormat(path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := EncodeRecords(f, records, format); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// fillDateParts parses Issued.Raw into structured date-parts when a
// record carries only a raw date string. Unparseable strings are left
// alone; the raw value survives either way.
func fillDateParts(rec *types.Record) {
	if rec == nil || rec.Issued == nil || len(rec.Issued.DateParts) > 0 || rec.Issued.Raw == "" {
		return
	}
	t, err := dateparse.ParseAny(rec.Issued.Raw)
	if err != nil {
		return
	}
	rec.Issued.DateParts = [][]int{{t.Year(), int(t.Month()), t.Day()}}
}
