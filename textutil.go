package main

import (
	"strings"

	"yashubustudio/barcodeanalyzer/analyzer"
)

func normalizeQuery(s string) string {
	return strings.ToLower(analyzer.NormalizeText(s))
}

// rowMatches checks the filter query against code, suggestion and note.
// An empty query matches everything.
func rowMatches(row analyzer.ResultRow, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(normalizeQuery(row.Code), query) ||
		strings.Contains(normalizeQuery(row.Suggestion), query) ||
		strings.Contains(normalizeQuery(row.Note), query)
}
