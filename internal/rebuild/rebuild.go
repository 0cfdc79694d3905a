// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rebuild turns the rows of an employment-history table into
// logical records. The extractor splits wrapped cell text (a long company
// name, for example) into extra visual rows; those rows have an empty DÍAS
// cell and are merged back into the record above them.
package rebuild

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/vida-laboral/pkg/types"
)

var (
	// ErrColumnCount is returned when a data row does not have one cell per
	// output column.
	ErrColumnCount = errors.New("row width does not match output columns")

	// ErrOrphanFragment is returned in strict mode when a continuation
	// fragment appears before any record start.
	ErrOrphanFragment = errors.New("continuation fragment before first record")
)

// WidthError reports a data row whose width differs from len(types.Columns).
// Row indexes the slice that was checked: for Reconstruct that is the whole
// table, header rows included; for MapColumns it is MapColumns' own input.
type WidthError struct {
	Row  int
	Got  int
	Want int
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("row %d: %v (got %d cells, want %d)", e.Row, ErrColumnCount, e.Got, e.Want)
}

func (e *WidthError) Unwrap() error { return ErrColumnCount }

// OrphanError reports a leading continuation fragment in strict mode.
type OrphanError struct {
	Fragment Fragment
}

func (e *OrphanError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Fragment.Row, ErrOrphanFragment)
}

func (e *OrphanError) Unwrap() error { return ErrOrphanFragment }

// Fragment is a continuation row that could not be merged.
type Fragment struct {
	Row   int
	Cells []string
}

// Options controls reconstruction.
type Options struct {
	// HeaderRows is the number of rows dropped from the top of the table.
	HeaderRows int

	// Join separates merged text. Empty means a single space.
	Join string

	// Strict turns leading continuation fragments into an OrphanError.
	Strict bool
}

// Reconstruction is the outcome of Reconstruct.
type Reconstruction struct {
	Records []types.Record
	Orphans []Fragment
}

// Reconstruct drops the header block of a table and merges continuation
// fragments into the preceding record. A row starts a new record iff its
// trimmed DÍAS cell is non-empty. Merging is positional: cell N of the
// fragment is appended to cell N of the record. Every data row must be
// exactly len(types.Columns) wide.
func Reconstruct(rows [][]string, opts Options) (Reconstruction, error) {
	join := opts.Join
	if join == "" {
		join = " "
	}
	start := opts.HeaderRows
	if start < 0 {
		start = 0
	}

	var (
		out     Reconstruction
		merged  [][]string
		current []string
	)
	for i := start; i < len(rows); i++ {
		row := normalize(rows[i])
		if len(row) != len(types.Columns) {
			return Reconstruction{}, &WidthError{Row: i, Got: len(row), Want: len(types.Columns)}
		}

		if IsRecordStart(row) {
			if current != nil {
				merged = append(merged, current)
			}
			current = row
			continue
		}

		if current == nil {
			if isBlank(row) {
				continue
			}
			frag := Fragment{Row: i, Cells: row}
			if opts.Strict {
				return Reconstruction{}, &OrphanError{Fragment: frag}
			}
			out.Orphans = append(out.Orphans, frag)
			continue
		}

		for j, v := range row {
			if v == "" {
				continue
			}
			if current[j] == "" {
				current[j] = v
			} else {
				current[j] = current[j] + join + v
			}
		}
	}
	if current != nil {
		merged = append(merged, current)
	}

	records, err := MapColumns(merged)
	if err != nil {
		return Reconstruction{}, err
	}
	out.Records = records
	return out, nil
}

// IsRecordStart reports whether row begins a new logical record.
func IsRecordStart(row []string) bool {
	if len(row) <= types.ColumnDias {
		return false
	}
	return strings.TrimSpace(row[types.ColumnDias]) != ""
}

// MapColumns assigns the fixed output columns to reconstructed rows,
// discarding whatever header the extractor produced. A WidthError names the
// index in rows, not a position in the source table.
func MapColumns(rows [][]string) ([]types.Record, error) {
	records := make([]types.Record, 0, len(rows))
	for i, row := range rows {
		if len(row) != len(types.Columns) {
			return nil, &WidthError{Row: i, Got: len(row), Want: len(types.Columns)}
		}
		r, err := types.RecordFromValues(row)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// normalize returns a trimmed, NFC-normalised copy of row.
func normalize(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = norm.NFC.String(strings.TrimSpace(c))
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
