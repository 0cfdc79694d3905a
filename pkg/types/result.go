// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConversionStatus indicates the outcome of converting one PDF.
type ConversionStatus string

const (
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// Result summarises the conversion of one input PDF.
type Result struct {
	// Input is the PDF path as given on the command line.
	Input string `json:"input" yaml:"input"`

	// Output is the path of the written file; empty when nothing was written.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Pages is the page count reported by the PDF inspector.
	Pages int `json:"pages" yaml:"pages"`

	// TablesFound is the number of tables returned by the extractor.
	TablesFound int `json:"tables_found" yaml:"tables_found"`

	// TablesKept is the number of tables that passed the page filter.
	TablesKept int `json:"tables_kept" yaml:"tables_kept"`

	// Records is the number of records written.
	Records int `json:"records" yaml:"records"`

	// Orphans is the number of leading continuation fragments that could
	// not be merged into any record.
	Orphans int `json:"orphans" yaml:"orphans"`

	Status ConversionStatus `json:"status" yaml:"status"`
}
