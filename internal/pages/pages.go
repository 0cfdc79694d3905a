// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pages selects the extracted tables that hold employment-history
// data. Tables on the cover page and tables without the section marker in
// their first row are dropped without error.
package pages

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/vida-laboral/pkg/types"
)

// SkipReason explains why a table was dropped.
type SkipReason string

const (
	SkipCover    SkipReason = "cover page"
	SkipEmpty    SkipReason = "empty table"
	SkipNoMarker SkipReason = "marker not in first row"
)

// Skip records one dropped table.
type Skip struct {
	Page   int
	Reason SkipReason
}

// Options controls table selection.
type Options struct {
	// Marker must be a substring of the first row's text.
	Marker string

	// SkipPages drops every table on pages 1..SkipPages.
	SkipPages int
}

// Selection is the outcome of Select.
type Selection struct {
	Kept    []types.RawTable
	Skipped []Skip
}

// Select returns the tables that pass the filter, in page order. Tables on
// the same page keep their extraction order.
func Select(tables []types.RawTable, opts Options) Selection {
	marker := norm.NFC.String(opts.Marker)
	if marker == "" {
		marker = types.DefaultMarker
	}

	ordered := make([]types.RawTable, len(tables))
	copy(ordered, tables)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Page < ordered[j].Page
	})

	var sel Selection
	for _, t := range ordered {
		switch {
		case t.Page <= opts.SkipPages:
			sel.Skipped = append(sel.Skipped, Skip{Page: t.Page, Reason: SkipCover})
		case len(t.Rows) == 0:
			sel.Skipped = append(sel.Skipped, Skip{Page: t.Page, Reason: SkipEmpty})
		case !HasMarker(t.FirstRow(), marker):
			sel.Skipped = append(sel.Skipped, Skip{Page: t.Page, Reason: SkipNoMarker})
		default:
			sel.Kept = append(sel.Kept, t)
		}
	}
	return sel
}

// HasMarker reports whether marker occurs in the text of row. Cells are
// trimmed, normalised to NFC and joined with a single space. Matching is
// case-sensitive.
func HasMarker(row []string, marker string) bool {
	if marker == "" {
		return false
	}
	parts := make([]string, 0, len(row))
	for _, cell := range row {
		if c := strings.TrimSpace(cell); c != "" {
			parts = append(parts, c)
		}
	}
	text := norm.NFC.String(strings.Join(parts, " "))
	return strings.Contains(text, norm.NFC.String(marker))
}
