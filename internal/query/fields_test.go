// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"testing"

	"github.com/refdex/refdex/pkg/types"
)

func TestFieldValueScalars(t *testing.T) {
	rec := &types.Record{
		ID:             "smith2023machine",
		Title:          "Machine Learning in Medicine",
		ContainerTitle: "Journal of Medical Informatics",
		Publisher:      "JMI Press",
		Abstract:       "We survey machine learning.",
		DOI:            "10.1234/jmi.2023.0045",
		PMID:           "37012345",
		PMCID:          "PMC10203040",
		ISBN:           "978-3-16-148410-0",
		URL:            "https://example.org/smith2023",
	}

	tests := []struct {
		field  string
		want   string
		wantOK bool
	}{
		{"id", "smith2023machine", true},
		{"title", "Machine Learning in Medicine", true},
		{"container-title", "Journal of Medical Informatics", true},
		{"publisher", "JMI Press", true},
		{"abstract", "We survey machine learning.", true},
		{"DOI", "10.1234/jmi.2023.0045", true},
		{"PMID", "37012345", true},
		{"PMCID", "PMC10203040", true},
		{"ISBN", "978-3-16-148410-0", true},
		{"URL", "https://example.org/smith2023", true},
		{"unknown-field", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := FieldValue(rec, tt.field)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FieldValue(rec, %q) = (%q, %v), want (%q, %v)", tt.field, got, ok, tt.want, tt.wantOK)
			}
		})
	}

	empty := &types.Record{}
	for _, field := range []string{"title", "DOI", "URL", "author", "id"} {
		if _, ok := FieldValue(empty, field); ok {
			t.Errorf("FieldValue(empty, %q) reported present", field)
		}
	}
}

func TestFieldValueYear(t *testing.T) {
	tests := []struct {
		name   string
		issued *types.Date
		want   string
	}{
		{"year month day", &types.Date{DateParts: [][]int{{2023, 5, 1}}}, "2023"},
		{"year only", &types.Date{DateParts: [][]int{{1999}}}, "1999"},
		{"no issued", nil, "0000"},
		{"empty date-parts", &types.Date{}, "0000"},
		{"empty first group", &types.Date{DateParts: [][]int{{}}}, "0000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &types.Record{Issued: tt.issued}
			got, ok := FieldValue(rec, "year")
			if !ok {
				t.Fatal("year should always be derivable")
			}
			if got != tt.want {
				t.Errorf("FieldValue(rec, \"year\") = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFieldValueAuthor(t *testing.T) {
	tests := []struct {
		name    string
		authors []types.Name
		want    string
		wantOK  bool
	}{
		{"single author", []types.Name{{Family: "Smith", Given: "Jane"}}, "Smith Jane", true},
		{
			"multiple authors in order",
			[]types.Name{{Family: "Smith", Given: "Jane"}, {Family: "Doe", Given: "John"}},
			"Smith Jane Doe John", true,
		},
		{
			"literal organization",
			[]types.Name{{Family: "Smith", Given: "Jane"}, {Literal: "World Health Organization"}},
			"Smith Jane World Health Organization", true,
		},
		{"family only", []types.Name{{Family: "Madonna"}}, "Madonna", true},
		{"no authors", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &types.Record{Author: tt.authors}
			got, ok := FieldValue(rec, "author")
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FieldValue(rec, \"author\") = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFieldValueCustom(t *testing.T) {
	rec := &types.Record{Custom: map[string]any{
		"citekey": "smith2023",
		"tags":    []any{"to-read"},
	}}

	if got, ok := FieldValue(rec, "custom.citekey"); !ok || got != "smith2023" {
		t.Errorf("FieldValue(rec, \"custom.citekey\") = (%q, %v), want (\"smith2023\", true)", got, ok)
	}
	// Array-valued custom entries are not scalars.
	if _, ok := FieldValue(rec, "custom.tags"); ok {
		t.Error("FieldValue(rec, \"custom.tags\") should not report a scalar")
	}
	if _, ok := FieldValue(rec, "custom.missing"); ok {
		t.Error("FieldValue(rec, \"custom.missing\") should be absent")
	}
	if _, ok := FieldValue(&types.Record{}, "custom.citekey"); ok {
		t.Error("FieldValue without custom namespace should be absent")
	}
}
