// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"net/url"
	"regexp"
	"strings"
)

// IdentifierType classifies an input identifier.
type IdentifierType int

const (
	TypeUnknown IdentifierType = iota
	TypeDOI
	TypePMID
	TypePMCID
	TypeISBN
	TypeURL
)

func (t IdentifierType) String() string {
	switch t {
	case TypeDOI:
		return "doi"
	case TypePMID:
		return "pmid"
	case TypePMCID:
		return "pmcid"
	case TypeISBN:
		return "isbn"
	case TypeURL:
		return "url"
	default:
		return "unknown"
	}
}

// Base URLs for metadata lookup. Declared as vars so tests can
// substitute httptest servers.
var (
	crossrefAPIBase = "https://api.crossref.org/works/"
	ncbiAPIBase     = "https://api.ncbi.nlm.nih.gov/lit/ctxp/v1/"
)

// doiPattern matches DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/[^\s]+$`)

// pmidPattern matches bare PubMed IDs: "37012345".
var pmidPattern = regexp.MustCompile(`^\d{1,8}$`)

// pmcidPattern matches PubMed Central IDs: "PMC8012345".
var pmcidPattern = regexp.MustCompile(`^(?i:PMC)(\d+)$`)

// isbnPattern matches hyphen-stripped ISBN-10 and ISBN-13 numbers.
var isbnPattern = regexp.MustCompile(`^(?:97[89]\d{10}|\d{9}[\dXx])$`)

// Classify determines the identifier type and returns the normalized
// form. Scheme-style prefixes ("doi:10.1145/...", "PMID: 37012345") are
// accepted and stripped; ISBNs lose their hyphens.
func Classify(identifier string) (IdentifierType, string) {
	identifier = strings.TrimSpace(identifier)

	for _, scheme := range []string{"doi:", "pmid:", "pmcid:"} {
		if len(identifier) > len(scheme) && strings.EqualFold(identifier[:len(scheme)], scheme) {
			identifier = strings.TrimSpace(identifier[len(scheme):])
			break
		}
	}

	if doiPattern.MatchString(identifier) {
		return TypeDOI, identifier
	}

	if m := pmcidPattern.FindStringSubmatch(identifier); m != nil {
		return TypePMCID, "PMC" + m[1]
	}

	if pmidPattern.MatchString(identifier) {
		return TypePMID, identifier
	}

	if isbn := normalizeISBN(identifier); isbn != "" {
		return TypeISBN, isbn
	}

	if u, err := url.Parse(identifier); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return TypeURL, identifier
	}

	return TypeUnknown, identifier
}

// normalizeISBN strips hyphens and spaces, then checks the shape of
// ISBN-10 and ISBN-13 numbers. It returns "" for non-ISBNs.
func normalizeISBN(identifier string) string {
	cleaned := strings.NewReplacer("-", "", " ", "").Replace(identifier)
	if !isbnPattern.MatchString(cleaned) {
		return ""
	}
	return strings.ToUpper(cleaned)
}
