// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FieldSpecifier names a recognized field-filter prefix in the query
// language. The set is closed; an unrecognized prefix is not an error, the
// fragment just parses as free text. isbn is not a query prefix even
// though records carry ISBNs.
type FieldSpecifier string

const (
	FieldAuthor  FieldSpecifier = "author"
	FieldTitle   FieldSpecifier = "title"
	FieldYear    FieldSpecifier = "year"
	FieldDOI     FieldSpecifier = "doi"
	FieldPMID    FieldSpecifier = "pmid"
	FieldPMCID   FieldSpecifier = "pmcid"
	FieldURL     FieldSpecifier = "url"
	FieldKeyword FieldSpecifier = "keyword"
	FieldTag     FieldSpecifier = "tag"
)

var fieldSpecifiers = map[FieldSpecifier]bool{
	FieldAuthor:  true,
	FieldTitle:   true,
	FieldYear:    true,
	FieldDOI:     true,
	FieldPMID:    true,
	FieldPMCID:   true,
	FieldURL:     true,
	FieldKeyword: true,
	FieldTag:     true,
}

// Token is one parsed unit of a query: a field filter, a quoted phrase, or
// free text. Raw is the exact source substring consumed, including any
// field prefix and quotes; Value is the extracted comparison text.
type Token struct {
	Raw      string
	Value    string
	Field    FieldSpecifier // empty when the token has no field filter
	IsPhrase bool
}

// HasField reports whether the token carries a field filter.
func (t Token) HasField() bool {
	return t.Field != ""
}

// ParsedQuery is the tokenized form of a raw query string. Token order is
// preserved but carries no meaning: tokens combine with AND.
type ParsedQuery struct {
	Original string
	Tokens   []Token
}

// Tokenize parses a raw query string into tokens. It never fails:
// unterminated quotes, bare colons, empty filter values, and unknown field
// prefixes all fall back to benign interpretations instead of errors.
// Per prd002-query R2.1-R2.6.
func Tokenize(q string) ParsedQuery {
	pq := ParsedQuery{Original: q}
	i := 0
	for i < len(q) {
		r, size := utf8.DecodeRuneInString(q[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		tok, next, ok := scanToken(q, i)
		i = next
		if ok {
			pq.Tokens = append(pq.Tokens, tok)
		}
	}
	return pq
}

// scanToken reads one token starting at a non-space position. ok is false
// when the consumed text produces no token (an empty filter or phrase).
func scanToken(q string, start int) (tok Token, next int, ok bool) {
	if spec, colon, found := fieldPrefixAt(q, start); found {
		valueStart := colon + 1
		if valueStart >= len(q) || isSpaceAt(q, valueStart) {
			// Filter with an empty value: consume "field:" and emit nothing.
			return Token{}, valueStart, false
		}
		if q[valueStart] == '"' {
			if value, end, closed := scanQuoted(q, valueStart); closed {
				if strings.TrimSpace(value) == "" {
					return Token{}, end, false
				}
				return Token{Raw: q[start:end], Value: value, Field: spec, IsPhrase: true}, end, true
			}
			// Unterminated quote: the quote character joins an ordinary
			// unquoted value running to the next whitespace.
			end := scanBareRun(q, valueStart)
			return Token{Raw: q[start:end], Value: q[valueStart:end], Field: spec}, end, true
		}
		end := scanUnquoted(q, valueStart)
		return Token{Raw: q[start:end], Value: q[valueStart:end], Field: spec}, end, true
	}

	if q[start] == '"' {
		if value, end, closed := scanQuoted(q, start); closed {
			if strings.TrimSpace(value) == "" {
				return Token{}, end, false
			}
			return Token{Raw: q[start:end], Value: value, IsPhrase: true}, end, true
		}
		end := scanBareRun(q, start)
		return Token{Raw: q[start:end], Value: q[start:end]}, end, true
	}

	end := scanUnquoted(q, start)
	return Token{Raw: q[start:end], Value: q[start:end]}, end, true
}

// fieldPrefixAt reports a recognized field specifier beginning at start and
// immediately followed by a colon, with no whitespace in between. Prefix
// recognition is case-insensitive; the returned specifier is canonical
// lowercase and colon is the byte offset of the colon.
func fieldPrefixAt(q string, start int) (spec FieldSpecifier, colon int, ok bool) {
	i := start
	for i < len(q) {
		r, size := utf8.DecodeRuneInString(q[i:])
		if unicode.IsSpace(r) || r == '"' {
			return "", 0, false
		}
		if r == ':' {
			if i == start {
				return "", 0, false
			}
			spec := FieldSpecifier(strings.ToLower(q[start:i]))
			if fieldSpecifiers[spec] {
				return spec, i, true
			}
			return "", 0, false
		}
		i += size
	}
	return "", 0, false
}

// scanQuoted reads a quoted run whose opening quote sits at start. When a
// closing quote exists, value is the text between the quotes (verbatim,
// untrimmed) and next sits past the closing quote.
func scanQuoted(q string, start int) (value string, next int, closed bool) {
	rel := strings.IndexByte(q[start+1:], '"')
	if rel < 0 {
		return "", start, false
	}
	end := start + 1 + rel
	return q[start+1 : end], end + 1, true
}

// scanUnquoted returns the end of an unquoted run: the next whitespace or
// quote character.
func scanUnquoted(q string, start int) int {
	i := start
	for i < len(q) {
		r, size := utf8.DecodeRuneInString(q[i:])
		if unicode.IsSpace(r) || r == '"' {
			break
		}
		i += size
	}
	return i
}

// scanBareRun returns the end of a run terminated by whitespace only, used
// when an unterminated quote is reinterpreted as ordinary text.
func scanBareRun(q string, start int) int {
	i := start
	for i < len(q) {
		r, size := utf8.DecodeRuneInString(q[i:])
		if unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

func isSpaceAt(q string, i int) bool {
	r, _ := utf8.DecodeRuneInString(q[i:])
	return unicode.IsSpace(r)
}
