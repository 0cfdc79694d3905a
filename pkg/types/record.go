// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Columns is the fixed, ordered header of every output file. The extractor's
// own header text is never used.
var Columns = []string{
	"RÉGIMEN",
	"ID EMPRESA",
	"NOMBRE EMPRESA",
	"FECHA ALTA",
	"FECHA DE EFECTO DE ALTA",
	"FECHA DE BAJA",
	"C.T.",
	"CTP %",
	"G.C.",
	"DÍAS",
}

// ColumnDias is the index of the DÍAS column, the row-boundary signal.
const ColumnDias = 9

// RawTable is one table as returned by a table extractor: a grid of cell
// text for a single PDF page.
type RawTable struct {
	// Page is the 1-indexed page the table was found on.
	Page int `json:"page" yaml:"page"`

	// Rows holds the cell text, row by row, in extraction order.
	Rows [][]string `json:"rows" yaml:"rows"`
}

// FirstRow returns the first row of the table, or nil for an empty table.
func (t RawTable) FirstRow() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// Record is one reconstructed employment-history entry.
type Record struct {
	Regimen         string `json:"RÉGIMEN" yaml:"RÉGIMEN"`
	IDEmpresa       string `json:"ID EMPRESA" yaml:"ID EMPRESA"`
	NombreEmpresa   string `json:"NOMBRE EMPRESA" yaml:"NOMBRE EMPRESA"`
	FechaAlta       string `json:"FECHA ALTA" yaml:"FECHA ALTA"`
	FechaEfectoAlta string `json:"FECHA DE EFECTO DE ALTA" yaml:"FECHA DE EFECTO DE ALTA"`
	FechaBaja       string `json:"FECHA DE BAJA" yaml:"FECHA DE BAJA"`
	CT              string `json:"C.T." yaml:"C.T."`
	CTP             string `json:"CTP %" yaml:"CTP %"`
	GC              string `json:"G.C." yaml:"G.C."`
	Dias            string `json:"DÍAS" yaml:"DÍAS"`

	// Page is the 1-indexed page the record started on. It is not part of
	// the CSV output.
	Page int `json:"-" yaml:"-"`
}

// Values returns the record fields in Columns order.
func (r Record) Values() []string {
	return []string{
		r.Regimen,
		r.IDEmpresa,
		r.NombreEmpresa,
		r.FechaAlta,
		r.FechaEfectoAlta,
		r.FechaBaja,
		r.CT,
		r.CTP,
		r.GC,
		r.Dias,
	}
}

// RecordFromValues builds a Record from a slice in Columns order. The slice
// must have exactly len(Columns) elements.
func RecordFromValues(v []string) (Record, error) {
	if len(v) != len(Columns) {
		return Record{}, fmt.Errorf("record needs %d values, got %d", len(Columns), len(v))
	}
	return Record{
		Regimen:         v[0],
		IDEmpresa:       v[1],
		NombreEmpresa:   v[2],
		FechaAlta:       v[3],
		FechaEfectoAlta: v[4],
		FechaBaja:       v[5],
		CT:              v[6],
		CTP:             v[7],
		GC:              v[8],
		Dias:            v[9],
	}, nil
}
