// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"reflect"
	"testing"

	"go.yaml.in/yaml/v3"
)

func TestDateUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantParts [][]int
		wantRaw   string
	}{
		{"numeric parts", `{"date-parts":[[2023,5,1]]}`, [][]int{{2023, 5, 1}}, ""},
		{"string parts", `{"date-parts":[["2023","5"]]}`, [][]int{{2023, 5}}, ""},
		{"mixed parts", `{"date-parts":[[2023,"5"]]}`, [][]int{{2023, 5}}, ""},
		{"year only", `{"date-parts":[[1999]]}`, [][]int{{1999}}, ""},
		{"range groups", `{"date-parts":[[2020],[2021]]}`, [][]int{{2020}, {2021}}, ""},
		{"non-numeric dropped", `{"date-parts":[["spring",2023]]}`, [][]int{{2023}}, ""},
		{"raw only", `{"raw":"May 2023"}`, nil, "May 2023"},
		{"empty object", `{}`, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			if err := json.Unmarshal([]byte(tt.input), &d); err != nil {
				t.Fatalf("Unmarshal(%q) error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(d.DateParts, tt.wantParts) {
				t.Errorf("DateParts = %v, want %v", d.DateParts, tt.wantParts)
			}
			if d.Raw != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", d.Raw, tt.wantRaw)
			}
		})
	}
}

func TestDateUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantParts [][]int
	}{
		{"numeric parts", "date-parts: [[2023, 5, 1]]", [][]int{{2023, 5, 1}}},
		{"quoted parts", `date-parts: [["2023", "5"]]`, [][]int{{2023, 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			if err := yaml.Unmarshal([]byte(tt.input), &d); err != nil {
				t.Fatalf("Unmarshal(%q) error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(d.DateParts, tt.wantParts) {
				t.Errorf("DateParts = %v, want %v", d.DateParts, tt.wantParts)
			}
		})
	}
}

func TestDateYear(t *testing.T) {
	tests := []struct {
		name string
		date *Date
		want int
	}{
		{"nil date", nil, 0},
		{"no groups", &Date{}, 0},
		{"empty first group", &Date{DateParts: [][]int{{}}}, 0},
		{"year month day", &Date{DateParts: [][]int{{2023, 5, 1}}}, 2023},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.date.Year(); got != tt.want {
				t.Errorf("Year() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecordTags(t *testing.T) {
	tests := []struct {
		name   string
		custom map[string]any
		want   []string
	}{
		{"nil custom", nil, nil},
		{"absent key", map[string]any{"citekey": "x"}, nil},
		{"any slice", map[string]any{"tags": []any{"to-read", "ml"}}, []string{"to-read", "ml"}},
		{"string slice", map[string]any{"tags": []string{"ml"}}, []string{"ml"}},
		{"scalar value", map[string]any{"tags": "ml"}, nil},
		{"mixed slice keeps strings", map[string]any{"tags": []any{"ml", 3}}, []string{"ml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Record{Custom: tt.custom}
			if got := r.Tags(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordCustomScalar(t *testing.T) {
	r := Record{Custom: map[string]any{
		"citekey":  "smith2023",
		"priority": 2,
		"score":    0.5,
		"tags":     []any{"ml"},
	}}

	tests := []struct {
		name   string
		key    string
		want   string
		wantOK bool
	}{
		{"string value", "citekey", "smith2023", true},
		{"int value", "priority", "2", true},
		{"float value", "score", "0.5", true},
		{"array not scalar", "tags", "", false},
		{"absent key", "rating", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.CustomScalar(tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CustomScalar(%q) = (%q, %v), want (%q, %v)", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}

	empty := Record{}
	if _, ok := empty.CustomScalar("citekey"); ok {
		t.Error("CustomScalar on record without custom namespace should report false")
	}
}

func TestRecordRoundTripJSON(t *testing.T) {
	in := Record{
		ID:    "smith2023machine",
		Type:  "article-journal",
		Title: "Machine Learning in Medicine",
		Author: []Name{
			{Family: "Smith", Given: "Jane"},
			{Literal: "The Medical AI Consortium"},
		},
		Issued:         &Date{DateParts: [][]int{{2023, 5}}},
		ContainerTitle: "Journal of Medical Informatics",
		DOI:            "10.1234/jmi.2023.0045",
		Keyword:        []string{"machine learning", "medicine"},
		Custom: map[string]any{
			"tags": []any{"to-read"},
		},
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var out Record
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if out.ID != in.ID || out.Title != in.Title || out.DOI != in.DOI {
		t.Errorf("round trip changed scalar fields: got %+v", out)
	}
	if !reflect.DeepEqual(out.Author, in.Author) {
		t.Errorf("round trip changed authors: got %v", out.Author)
	}
	if !reflect.DeepEqual(out.Issued.DateParts, in.Issued.DateParts) {
		t.Errorf("round trip changed date-parts: got %v", out.Issued.DateParts)
	}
	if got := out.Tags(); !reflect.DeepEqual(got, []string{"to-read"}) {
		t.Errorf("round trip changed tags: got %v", got)
	}
}
