// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/refdex/refdex/pkg/types"
)

// Entry type mapping follows the CSL-to-BibTeX conventions Pandoc uses.
var bibtexTypes = map[string]string{
	"article":          "article",
	"article-journal":  "article",
	"article-magazine": "article",
	"paper-conference": "inproceedings",
	"chapter":          "incollection",
	"book":             "book",
	"thesis":           "phdthesis",
	"report":           "techreport",
}

func bibtexType(cslType string) string {
	if t, ok := bibtexTypes[cslType]; ok {
		return t
	}
	return "misc"
}

func encodeBibTeX(w io.Writer, records []*types.Record) error {
	for i, rec := range records {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, bibtexEntry(rec)); err != nil {
			return err
		}
	}
	return nil
}

// bibtexEntry renders one record as a @type{key, field = {value}} entry.
// Identifier fields (doi, isbn, url) are emitted verbatim; textual
// fields get TeX specials escaped.
func bibtexEntry(rec *types.Record) string {
	type field struct{ name, value string }
	fields := []field{
		{"title", bibtexEscape(rec.Title)},
		{"author", bibtexAuthors(rec.Author)},
		{"year", bibtexYear(rec)},
		{"journal", bibtexEscape(rec.ContainerTitle)},
		{"publisher", bibtexEscape(rec.Publisher)},
		{"doi", rec.DOI},
		{"isbn", rec.ISBN},
		{"url", rec.URL},
		{"keywords", bibtexEscape(strings.Join(rec.Keyword, ", "))},
		{"abstract", bibtexEscape(rec.Abstract)},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", bibtexType(rec.Type), rec.ID)
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(&b, "  %s = {%s},\n", f.name, f.value)
	}
	b.WriteString("}\n")
	return b.String()
}

// bibtexAuthors joins names with " and ", one "Family, Given" per name.
// Literal names get brace protection so BibTeX treats them as a unit.
func bibtexAuthors(names []types.Name) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		switch {
		case n.Literal != "":
			parts = append(parts, "{"+bibtexEscape(n.Literal)+"}")
		case n.Given != "":
			parts = append(parts, bibtexEscape(n.Family)+", "+bibtexEscape(n.Given))
		default:
			parts = append(parts, bibtexEscape(n.Family))
		}
	}
	return strings.Join(parts, " and ")
}

func bibtexYear(rec *types.Record) string {
	if y := rec.Issued.Year(); y > 0 {
		return strconv.Itoa(y)
	}
	return ""
}

var bibtexEscaper = strings.NewReplacer(
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
)

func bibtexEscape(s string) string {
	return bibtexEscaper.Replace(s)
}
