// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import "strings"

// MatchWithUppercaseSensitivity tests whether candidate contains query,
// respecting case only when the query itself signals it: a run of two or
// more consecutive uppercase ASCII letters (an acronym like "AI" or "RNA")
// forces a case-sensitive comparison, while anything else compares
// case-insensitively. Both arguments must already be normalized with
// NormalizePreservingCase.
//
// So "AI" matches "AI therapy" but not "ai therapy", while "api" matches
// "API design". Per prd002-query R3.2.
func MatchWithUppercaseSensitivity(query, candidate string) bool {
	if hasUppercaseRun(query) {
		return strings.Contains(candidate, query)
	}
	return strings.Contains(strings.ToLower(candidate), strings.ToLower(query))
}

// hasUppercaseRun reports whether s contains two or more consecutive
// uppercase ASCII letters. Byte scanning is safe: UTF-8 continuation bytes
// never fall in the A–Z range.
func hasUppercaseRun(s string) bool {
	run := 0
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			run++
			if run >= 2 {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}
