// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query implements the refdex query language: tokenizing query
// strings into field filters, quoted phrases, and free text, and matching
// tokens against CSL records with per-field rules, AND combination, and
// two-tier scoring. Every function is total — malformed queries and absent
// fields degrade to "no match", never to an error.
// Implements: prd002-query (R1-R6);
//
//	docs/ARCHITECTURE § Query Engine.
package query

import (
	"strings"

	"github.com/refdex/refdex/pkg/types"
)

// MatchStrength grades how a field satisfied a token: exact whole-value
// equality or a partial (substring-style) hit.
type MatchStrength string

const (
	StrengthExact   MatchStrength = "exact"
	StrengthPartial MatchStrength = "partial"
	StrengthNone    MatchStrength = "none"
)

// Score bases. Any exact-strength result outranks any partial-strength
// one; token count breaks ties toward more specific queries.
const (
	scoreExactBase   = 100
	scorePartialBase = 50
)

// FieldMatch reports one record field satisfying one token. Field is the
// underlying record field name ("DOI", "custom.tags"), not the query
// specifier; Value is the matched text — for array fields, the matching
// element in its original form.
type FieldMatch struct {
	Field    string        `json:"field"`
	Strength MatchStrength `json:"strength"`
	Value    string        `json:"value"`
}

// TokenMatch pairs a token with the non-empty set of fields it matched.
type TokenMatch struct {
	Token   Token        `json:"token"`
	Matches []FieldMatch `json:"matches"`
}

// SearchResult is one record accepted by a token set.
type SearchResult struct {
	Record          *types.Record `json:"record"`
	TokenMatches    []TokenMatch  `json:"token_matches"`
	OverallStrength MatchStrength `json:"overall_strength"`
	Score           int           `json:"score"`
}

// MatchToken evaluates one token against one record, returning every field
// that satisfies it. A fielded token tests its one field; an unfielded
// token tests the special fields (year, URL, keyword, tag) plus the
// standard text and identifier fields, reporting the union.
func MatchToken(tok Token, rec *types.Record) []FieldMatch {
	if tok.HasField() {
		switch tok.Field {
		case FieldURL:
			return matchURL(tok.Value, rec)
		case FieldYear:
			return matchYear(tok.Value, rec)
		case FieldKeyword:
			return matchElements("keyword", rec.Keyword, NormalizePreservingCase(tok.Value))
		case FieldTag:
			return matchElements("custom.tags", rec.Tags(), NormalizePreservingCase(tok.Value))
		default:
			return matchMapped(tok, rec)
		}
	}
	return matchAnyField(tok, rec)
}

// matchURL tests exact equality, case-sensitive as stored, against the
// primary URL and then each custom.additional_urls entry.
func matchURL(value string, rec *types.Record) []FieldMatch {
	if rec.URL != "" && rec.URL == value {
		return []FieldMatch{{Field: "URL", Strength: StrengthExact, Value: rec.URL}}
	}
	for _, u := range rec.AdditionalURLs() {
		if u == value {
			return []FieldMatch{{Field: "custom.additional_urls", Strength: StrengthExact, Value: u}}
		}
	}
	return nil
}

// matchYear tests exact string equality against the derived publication
// year.
func matchYear(value string, rec *types.Record) []FieldMatch {
	if year := deriveYear(rec); value == year {
		return []FieldMatch{{Field: "year", Strength: StrengthExact, Value: year}}
	}
	return nil
}

// matchElements scans an array field for the first element the query
// matches under the uppercase-sensitivity rule. The query must already be
// normalized preserving case; the reported value is the element's original
// text.
func matchElements(field string, elements []string, normalizedQuery string) []FieldMatch {
	for _, el := range elements {
		if MatchWithUppercaseSensitivity(normalizedQuery, NormalizePreservingCase(el)) {
			return []FieldMatch{{Field: field, Strength: StrengthPartial, Value: el}}
		}
	}
	return nil
}

// matchMapped handles the author/title/doi/pmid/pmcid specifiers by
// resolving them to record fields through fieldMap.
func matchMapped(tok Token, rec *types.Record) []FieldMatch {
	field, ok := fieldMap[string(tok.Field)]
	if !ok {
		return nil
	}
	return matchScalarField(field, tok.Value, rec)
}

// matchScalarField applies the rule for one named scalar field: identifier
// fields require case-insensitive whole-value equality and grade exact;
// text fields match by normalized containment and grade partial.
func matchScalarField(field, value string, rec *types.Record) []FieldMatch {
	stored, ok := FieldValue(rec, field)
	if !ok {
		return nil
	}
	if isIDField(field) {
		if strings.EqualFold(stored, value) {
			return []FieldMatch{{Field: field, Strength: StrengthExact, Value: stored}}
		}
		return nil
	}
	if MatchWithUppercaseSensitivity(NormalizePreservingCase(value), NormalizePreservingCase(stored)) {
		return []FieldMatch{{Field: field, Strength: StrengthPartial, Value: stored}}
	}
	return nil
}

// standardFields is the scalar field set an unfielded token is tested
// against, in reporting order, in addition to the special rules.
var standardFields = []string{
	"id", "title", "author", "container-title", "publisher",
	"DOI", "PMID", "PMCID", "abstract",
}

// matchAnyField evaluates an unfielded token across every searchable
// field.
func matchAnyField(tok Token, rec *types.Record) []FieldMatch {
	var matches []FieldMatch
	matches = append(matches, matchYear(tok.Value, rec)...)
	matches = append(matches, matchURL(tok.Value, rec)...)
	normalized := NormalizePreservingCase(tok.Value)
	matches = append(matches, matchElements("keyword", rec.Keyword, normalized)...)
	matches = append(matches, matchElements("custom.tags", rec.Tags(), normalized)...)
	for _, field := range standardFields {
		matches = append(matches, matchScalarField(field, tok.Value, rec)...)
	}
	return matches
}

// MatchRecord evaluates a full token set against a record. Tokens combine
// with AND: a record is accepted only when every token matches at least
// one field. An empty token set matches nothing — a blank query selects
// no records rather than all of them. A single exact token locks the
// overall strength at exact even when other tokens matched partially.
// Per prd002-query R4.1-R4.4.
func MatchRecord(rec *types.Record, tokens []Token) *SearchResult {
	if len(tokens) == 0 {
		return nil
	}
	tokenMatches := make([]TokenMatch, 0, len(tokens))
	overall := StrengthNone
	for _, tok := range tokens {
		matches := MatchToken(tok, rec)
		if len(matches) == 0 {
			return nil
		}
		strength := StrengthPartial
		for _, m := range matches {
			if m.Strength == StrengthExact {
				strength = StrengthExact
				break
			}
		}
		if strength == StrengthExact {
			overall = StrengthExact
		} else if overall != StrengthExact {
			overall = StrengthPartial
		}
		tokenMatches = append(tokenMatches, TokenMatch{Token: tok, Matches: matches})
	}

	score := scorePartialBase + len(tokens)
	if overall == StrengthExact {
		score = scoreExactBase + len(tokens)
	}
	return &SearchResult{
		Record:          rec,
		TokenMatches:    tokenMatches,
		OverallStrength: overall,
		Score:           score,
	}
}

// Search evaluates tokens against every record, keeping only matches and
// preserving input order. Sorting for display is the caller's concern.
func Search(records []*types.Record, tokens []Token) []SearchResult {
	var results []SearchResult
	for _, rec := range records {
		if res := MatchRecord(rec, tokens); res != nil {
			results = append(results, *res)
		}
	}
	return results
}
