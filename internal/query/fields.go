// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"strconv"
	"strings"

	"github.com/refdex/refdex/pkg/types"
)

// fieldMap resolves a query specifier to the underlying record field name.
// year, url, keyword, and tag have dedicated matching rules and do not go
// through the map.
var fieldMap = map[string]string{
	"author": "author",
	"title":  "title",
	"doi":    "DOI",
	"pmid":   "PMID",
	"pmcid":  "PMCID",
	"id":     "id",
}

// idFields are identifier fields matched by whole-value equality only;
// a substring of an identifier earns no credit.
var idFields = map[string]bool{
	"DOI":   true,
	"PMID":  true,
	"PMCID": true,
	"URL":   true,
	"ISBN":  true,
	"id":    true,
}

func isIDField(field string) bool {
	return idFields[field]
}

// FieldValue returns the scalar value of a named field on a record, with
// ok reporting presence. Derived fields: "year" is the first element of
// the first issued date-parts group, stringified, "0000" when absent;
// "author" joins each author as "family given" (or the literal name)
// across all authors in listed order. "custom.<name>" reads scalars from
// the record's extension namespace. Array-valued fields (keyword,
// custom.tags, custom.additional_urls) are not scalars and report false.
func FieldValue(rec *types.Record, field string) (string, bool) {
	switch field {
	case "id":
		return rec.ID, rec.ID != ""
	case "title":
		return rec.Title, rec.Title != ""
	case "container-title":
		return rec.ContainerTitle, rec.ContainerTitle != ""
	case "publisher":
		return rec.Publisher, rec.Publisher != ""
	case "abstract":
		return rec.Abstract, rec.Abstract != ""
	case "DOI":
		return rec.DOI, rec.DOI != ""
	case "PMID":
		return rec.PMID, rec.PMID != ""
	case "PMCID":
		return rec.PMCID, rec.PMCID != ""
	case "ISBN":
		return rec.ISBN, rec.ISBN != ""
	case "URL":
		return rec.URL, rec.URL != ""
	case "year":
		return deriveYear(rec), true
	case "author":
		joined := joinedAuthors(rec)
		return joined, joined != ""
	}
	if name, ok := strings.CutPrefix(field, "custom."); ok {
		return rec.CustomScalar(name)
	}
	return "", false
}

// deriveYear stringifies the first element of the first date-parts group
// of the issued date. Records without one derive "0000".
func deriveYear(rec *types.Record) string {
	if rec.Issued == nil || len(rec.Issued.DateParts) == 0 || len(rec.Issued.DateParts[0]) == 0 {
		return "0000"
	}
	return strconv.Itoa(rec.Issued.DateParts[0][0])
}

// joinedAuthors concatenates each author as "family given" (or the
// literal organization name), space-joined in listed order.
func joinedAuthors(rec *types.Record) string {
	parts := make([]string, 0, len(rec.Author))
	for _, a := range rec.Author {
		if a.Literal != "" {
			parts = append(parts, a.Literal)
			continue
		}
		name := strings.TrimSpace(a.Family + " " + a.Given)
		if name != "" {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, " ")
}
