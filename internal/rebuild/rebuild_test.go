// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rebuild

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vida-laboral/pkg/types"
)

// row builds a ten-cell data row. Only the fields under test are set.
func row(regimen, nombre, dias string) []string {
	return []string{regimen, "", nombre, "", "", "", "", "", "", dias}
}

func TestReconstruct(t *testing.T) {
	tests := []struct {
		name        string
		rows        [][]string
		wantNombres []string
		wantDias    []string
		wantOrphans int
	}{
		{
			name: "one record per non-empty DÍAS",
			rows: [][]string{
				row("GENERAL", "ACME SL", "120"),
				row("GENERAL", "BETA SA", "30"),
			},
			wantNombres: []string{"ACME SL", "BETA SA"},
			wantDias:    []string{"120", "30"},
		},
		{
			name: "wrapped company name merged into preceding record",
			rows: [][]string{
				row("GENERAL", "CONSTRUCCIONES Y", "365"),
				row("", "REFORMAS DEL NORTE SL", ""),
				row("AUTONOMO", "", "12"),
			},
			wantNombres: []string{"CONSTRUCCIONES Y REFORMAS DEL NORTE SL", ""},
			wantDias:    []string{"365", "12"},
		},
		{
			name: "fragment fills an empty accumulator cell",
			rows: [][]string{
				row("GENERAL", "", "10"),
				row("", "LATE NAME", ""),
			},
			wantNombres: []string{"LATE NAME"},
			wantDias:    []string{"10"},
		},
		{
			name: "DÍAS is trimmed",
			rows: [][]string{
				row("GENERAL", "ACME", "  45 "),
				row("", "SL", "   "),
			},
			wantNombres: []string{"ACME SL"},
			wantDias:    []string{"45"},
		},
		{
			name: "leading fragment reported as orphan",
			rows: [][]string{
				row("", "CONTINUED FROM PREVIOUS PAGE", ""),
				row("GENERAL", "ACME", "7"),
			},
			wantNombres: []string{"ACME"},
			wantDias:    []string{"7"},
			wantOrphans: 1,
		},
		{
			name: "leading blank row ignored",
			rows: [][]string{
				row("", "", ""),
				row("GENERAL", "ACME", "7"),
			},
			wantNombres: []string{"ACME"},
			wantDias:    []string{"7"},
		},
		{
			name: "no rows",
			rows: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reconstruct(tt.rows, Options{})
			require.NoError(t, err)

			var nombres, dias []string
			for _, r := range got.Records {
				nombres = append(nombres, r.NombreEmpresa)
				dias = append(dias, r.Dias)
			}
			assert.Equal(t, tt.wantNombres, nombres)
			assert.Equal(t, tt.wantDias, dias)
			assert.Len(t, got.Orphans, tt.wantOrphans)
			for _, r := range got.Records {
				assert.NotEmpty(t, r.Dias)
			}
		})
	}
}

func TestReconstructHeaderRows(t *testing.T) {
	rows := [][]string{
		{"SITUACIÓN/ES"},
		{"RÉGIMEN", "EMPRESA"},
		row("GENERAL", "ACME", "5"),
	}

	got, err := Reconstruct(rows, Options{HeaderRows: 2})
	require.NoError(t, err)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "GENERAL", got.Records[0].Regimen)
}

func TestReconstructJoin(t *testing.T) {
	rows := [][]string{
		row("GENERAL", "ACME", "5"),
		row("", "SL", ""),
	}

	got, err := Reconstruct(rows, Options{Join: "\n"})
	require.NoError(t, err)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "ACME\nSL", got.Records[0].NombreEmpresa)
}

func TestReconstructWidthMismatch(t *testing.T) {
	rows := [][]string{
		row("GENERAL", "ACME", "5"),
		{"", "SL", ""},
	}

	_, err := Reconstruct(rows, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrColumnCount))

	var we *WidthError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, 1, we.Row)
	assert.Equal(t, 3, we.Got)
	assert.Equal(t, len(types.Columns), we.Want)
}

func TestReconstructStrictOrphan(t *testing.T) {
	rows := [][]string{
		row("", "ORPHAN", ""),
		row("GENERAL", "ACME", "5"),
	}

	_, err := Reconstruct(rows, Options{Strict: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOrphanFragment))

	var oe *OrphanError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, 0, oe.Fragment.Row)
	assert.Equal(t, "ORPHAN", oe.Fragment.Cells[2])
}

func TestReconstructDoesNotMutateInput(t *testing.T) {
	rows := [][]string{
		row("GENERAL", "ACME", "5"),
		row("", "SL", ""),
	}

	_, err := Reconstruct(rows, Options{})
	require.NoError(t, err)
	assert.Equal(t, "ACME", rows[0][2])
}

func TestMapColumns(t *testing.T) {
	values := []string{"R", "ID", "N", "FA", "FEA", "FB", "CT", "CTP", "GC", "D"}

	records, err := MapColumns([][]string{values})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, values, records[0].Values())

	_, err = MapColumns([][]string{values[:9]})
	assert.ErrorIs(t, err, ErrColumnCount)
}

func TestWidthErrorRowIndex(t *testing.T) {
	values := []string{"R", "ID", "N", "FA", "FEA", "FB", "CT", "CTP", "GC", "D"}

	tests := []struct {
		name string
		run  func() error
		want int
	}{
		{
			name: "MapColumns counts its own input",
			run: func() error {
				_, err := MapColumns([][]string{values, values, values[:3]})
				return err
			},
			want: 2,
		},
		{
			name: "Reconstruct counts header rows",
			run: func() error {
				_, err := Reconstruct([][]string{
					row("SITUACIÓN/ES", "", ""),
					row("RÉGIMEN", "", ""),
					row("GENERAL", "ACME", "5"),
					{"GENERAL", "7"},
				}, Options{HeaderRows: 2})
				return err
			},
			want: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var we *WidthError
			require.ErrorAs(t, tt.run(), &we)
			assert.Equal(t, tt.want, we.Row)
		})
	}
}

func TestIsRecordStart(t *testing.T) {
	assert.True(t, IsRecordStart(row("", "", "1")))
	assert.False(t, IsRecordStart(row("GENERAL", "ACME", " ")))
	assert.False(t, IsRecordStart([]string{"short"}))
}
