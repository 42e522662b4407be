// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for refdex: CSL bibliographic
// records and stage configuration.
// Implements: prd001-library (Record, R1.1-R1.5);
//
//	prd003-import-export (Name/Date round-tripping, R2.1-R2.3).
//
// See docs/ARCHITECTURE.md § Data Structures.
package types

import (
	"encoding/json"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Record is a bibliographic entry in CSL (Citation Style Language) format.
// Field names and structure follow the CSL-JSON schema so that records are
// consumable by Pandoc and other reference managers. Identifier fields keep
// the schema's uppercase keys (DOI, PMID, PMCID, ISBN, URL).
type Record struct {
	ID             string         `json:"id" yaml:"id"`
	Type           string         `json:"type,omitempty" yaml:"type,omitempty"`
	Title          string         `json:"title,omitempty" yaml:"title,omitempty"`
	Author         []Name         `json:"author,omitempty" yaml:"author,omitempty"`
	Issued         *Date          `json:"issued,omitempty" yaml:"issued,omitempty"`
	ContainerTitle string         `json:"container-title,omitempty" yaml:"container-title,omitempty"`
	Publisher      string         `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Abstract       string         `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	DOI            string         `json:"DOI,omitempty" yaml:"DOI,omitempty"`
	PMID           string         `json:"PMID,omitempty" yaml:"PMID,omitempty"`
	PMCID          string         `json:"PMCID,omitempty" yaml:"PMCID,omitempty"`
	ISBN           string         `json:"ISBN,omitempty" yaml:"ISBN,omitempty"`
	URL            string         `json:"URL,omitempty" yaml:"URL,omitempty"`
	Keyword        []string       `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	Custom         map[string]any `json:"custom,omitempty" yaml:"custom,omitempty"`
}

// Name represents a person's name in CSL format: structured family/given
// parts, or a literal string for organizations.
type Name struct {
	Family  string `json:"family,omitempty" yaml:"family,omitempty"`
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// Date represents a date in CSL format using date-parts. Each group is a
// [year, month, day] prefix; Raw carries an unstructured date string from
// sources that do not provide date-parts.
type Date struct {
	DateParts [][]int `json:"date-parts,omitempty" yaml:"date-parts,omitempty"`
	Raw       string  `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// Year returns the year of the first date-parts group, or 0 when absent.
func (d *Date) Year() int {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return 0
	}
	return d.DateParts[0][0]
}

// UnmarshalJSON accepts date-parts entries as numbers or numeric strings.
// CSL data in the wild mixes both ("date-parts": [["2023", 5]]).
func (d *Date) UnmarshalJSON(data []byte) error {
	var aux struct {
		DateParts [][]any `json:"date-parts"`
		Raw       string  `json:"raw"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.DateParts = coerceDateParts(aux.DateParts)
	d.Raw = aux.Raw
	return nil
}

// UnmarshalYAML mirrors the UnmarshalJSON tolerance for CSL-YAML inputs.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	var aux struct {
		DateParts [][]any `yaml:"date-parts"`
		Raw       string  `yaml:"raw"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	d.DateParts = coerceDateParts(aux.DateParts)
	d.Raw = aux.Raw
	return nil
}

// coerceDateParts converts loosely typed date-parts groups to ints,
// dropping entries that are not numeric.
func coerceDateParts(groups [][]any) [][]int {
	if groups == nil {
		return nil
	}
	out := make([][]int, 0, len(groups))
	for _, group := range groups {
		parts := make([]int, 0, len(group))
		for _, p := range group {
			if n, ok := datePartInt(p); ok {
				parts = append(parts, n)
			}
		}
		out = append(out, parts)
	}
	return out
}

func datePartInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Custom namespace keys used by refdex inside CSL's extension field.
const (
	customTagsKey           = "tags"
	customAdditionalURLsKey = "additional_urls"
)

// Tags returns the record's custom.tags entries, or nil when absent.
func (r *Record) Tags() []string {
	return customStrings(r.Custom, customTagsKey)
}

// AdditionalURLs returns the record's custom.additional_urls entries,
// or nil when absent.
func (r *Record) AdditionalURLs() []string {
	return customStrings(r.Custom, customAdditionalURLsKey)
}

// customStrings coerces a custom-namespace entry to a string slice. JSON
// decoding produces []any; records built in code may hold []string.
func customStrings(custom map[string]any, key string) []string {
	if custom == nil {
		return nil
	}
	switch v := custom[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// CustomScalar returns the custom.<name> value as a string when the value
// is a scalar (string or number). Arrays and nested objects report false.
func (r *Record) CustomScalar(name string) (string, bool) {
	if r.Custom == nil {
		return "", false
	}
	switch v := r.Custom[name].(type) {
	case string:
		return v, true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}
