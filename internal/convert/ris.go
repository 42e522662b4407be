// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"io"
	"strconv"

	"github.com/refdex/refdex/pkg/types"
)

var risTypes = map[string]string{
	"article":          "JOUR",
	"article-journal":  "JOUR",
	"article-magazine": "MGZN",
	"paper-conference": "CONF",
	"chapter":          "CHAP",
	"book":             "BOOK",
	"thesis":           "THES",
	"report":           "RPRT",
	"webpage":          "ELEC",
}

func risType(cslType string) string {
	if t, ok := risTypes[cslType]; ok {
		return t
	}
	return "GEN"
}

// RIS mandates CRLF line endings; EndNote in particular rejects bare LF.
const risEOL = "\r\n"

func encodeRIS(w io.Writer, records []*types.Record) error {
	for i, rec := range records {
		if i > 0 {
			if _, err := io.WriteString(w, risEOL); err != nil {
				return err
			}
		}
		for _, line := range risLines(rec) {
			if _, err := io.WriteString(w, line+risEOL); err != nil {
				return err
			}
		}
	}
	return nil
}

// risLines renders one record as RIS tag lines, ER-terminated.
func risLines(rec *types.Record) []string {
	lines := []string{"TY  - " + risType(rec.Type)}

	add := func(tag, value string) {
		if value != "" {
			lines = append(lines, tag+"  - "+value)
		}
	}

	add("ID", rec.ID)
	add("TI", rec.Title)
	for _, n := range rec.Author {
		switch {
		case n.Literal != "":
			add("AU", n.Literal)
		case n.Given != "":
			add("AU", n.Family+", "+n.Given)
		default:
			add("AU", n.Family)
		}
	}
	if y := rec.Issued.Year(); y > 0 {
		add("PY", strconv.Itoa(y))
	}
	add("JO", rec.ContainerTitle)
	add("PB", rec.Publisher)
	add("AB", rec.Abstract)
	add("DO", rec.DOI)
	add("SN", rec.ISBN)
	add("UR", rec.URL)
	for _, kw := range rec.Keyword {
		add("KW", kw)
	}

	return append(lines, "ER  - ")
}
