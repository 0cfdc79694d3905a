// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vida-laboral/internal/extract"
	"github.com/pdiddy/vida-laboral/internal/inspect"
	"github.com/pdiddy/vida-laboral/internal/rebuild"
	"github.com/pdiddy/vida-laboral/internal/testpdf"
	"github.com/pdiddy/vida-laboral/pkg/types"
)

// fakeExtractor implements extract.Extractor for testing. It returns canned
// tables or an error and records the page range it was asked for.
type fakeExtractor struct {
	tables []types.RawTable
	err    error
	ranges []extract.PageRange
}

func (f *fakeExtractor) Name() string { return "fake" }

func (f *fakeExtractor) Extract(_ context.Context, _ string, r extract.PageRange) ([]types.RawTable, error) {
	f.ranges = append(f.ranges, r)
	if f.err != nil {
		return nil, f.err
	}
	return f.tables, nil
}

// stubInspect makes every path look like a valid PDF of the given length.
func stubInspect(t *testing.T, pages int) {
	t.Helper()
	orig := inspectFile
	inspectFile = func(path string) (inspect.Info, error) {
		if _, err := os.Stat(path); err != nil {
			return inspect.Info{}, err
		}
		return inspect.Info{Path: path, Pages: pages}, nil
	}
	t.Cleanup(func() { inspectFile = orig })
}

// setupPDF creates a placeholder input file and returns its path.
func setupPDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 placeholder"), 0o644))
	return path
}

func row(cells ...string) []string {
	out := make([]string, len(types.Columns))
	copy(out, cells)
	return out
}

// historyTable builds a table with the marker row, the rest of the header
// block and the given data rows.
func historyTable(page int, data ...[]string) types.RawTable {
	rows := [][]string{
		row("SITUACIÓN/ES"),
		row("RÉGIMEN", "CÓDIGO CUENTA", "EMPRESA"),
		row("", "", "", "FECHA"),
		row("", "", "", "ALTA", "EFECTO", "BAJA"),
		row(),
		row("", "", "", "", "", "", "C.T.", "CTP %", "G.C.", "DÍAS"),
	}
	return types.RawTable{Page: page, Rows: append(rows, data...)}
}

// threePageTables is a cover page, a valid table with two records (the
// first with a wrapped company name) and a table without the marker.
func threePageTables() []types.RawTable {
	return []types.RawTable{
		historyTable(1, row("GENERAL", "28/0000000/00", "PORTADA", "", "", "", "", "", "", "1")),
		historyTable(2,
			row("GENERAL", "28/1234567/89", "CONSTRUCCIONES Y", "01.02.2015", "01.02.2015", "31.01.2016", "100", "", "05", "365"),
			row("", "", "REFORMAS DEL NORTE SL"),
			row("AUTONOMO", "", "", "01.03.2016", "01.03.2016", "", "", "", "", "30"),
		),
		{Page: 3, Rows: [][]string{
			row("RESUMEN"),
			row("TOTAL", "", "", "", "", "", "", "", "", "395"),
		}},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestFileThreePageScenario(t *testing.T) {
	stubInspect(t, 3)
	pdf := setupPDF(t, "informe.pdf")
	ex := &fakeExtractor{tables: threePageTables()}

	res, err := File(context.Background(), ex, pdf, types.DefaultConversionConfig(), zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, types.ConversionDone, res.Status)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, 3, res.TablesFound)
	assert.Equal(t, 1, res.TablesKept)
	assert.Equal(t, 2, res.Records)
	assert.Equal(t, filepath.Join(filepath.Dir(pdf), "informe.csv"), res.Output)

	require.Len(t, ex.ranges, 1)
	assert.Equal(t, 2, ex.ranges[0].First, "cover page is never requested")

	rows := readCSV(t, res.Output)
	require.Len(t, rows, 3)
	assert.Equal(t, types.Columns, rows[0])
	assert.Equal(t, "CONSTRUCCIONES Y REFORMAS DEL NORTE SL", rows[1][2])
	assert.Equal(t, "365", rows[1][9])
	assert.Equal(t, "AUTONOMO", rows[2][0])
	assert.Equal(t, "30", rows[2][9])
}

func TestFileTabulaPDF(t *testing.T) {
	dir := t.TempDir()
	pdf := testpdf.Write(t, dir, "informe.pdf", []testpdf.Page{
		testpdf.Cover(),
		testpdf.RuledTable([][]string{
			row("SITUACIÓN/ES"),
			append([]string(nil), types.Columns...),
			row("GENERAL", "28/1234567/89", "CONSTRUCCIONES Y", "01.02.2015", "01.02.2015", "31.01.2016", "100", "", "05", "365"),
			row("", "", "REFORMAS DEL NORTE SL"),
			row("AUTONOMO", "", "", "01.03.2016", "01.03.2016", "", "", "", "", "30"),
		}),
		testpdf.RuledTable([][]string{
			row("RESUMEN"),
			row("TOTAL", "", "", "", "", "", "", "", "", "395"),
		}),
	})
	cfg := types.DefaultConversionConfig()
	cfg.HeaderRows = 2

	res, err := File(context.Background(), extract.NewTabulaExtractor(zerolog.Nop()), pdf, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, 1, res.TablesKept)
	assert.Equal(t, 2, res.Records)

	rows := readCSV(t, filepath.Join(dir, "informe.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, types.Columns, rows[0])
	assert.Equal(t, "CONSTRUCCIONES Y REFORMAS DEL NORTE SL", rows[1][2])
	assert.Equal(t, "365", rows[1][9])
	assert.Equal(t, "AUTONOMO", rows[2][0])
}

func TestFileDeterministic(t *testing.T) {
	stubInspect(t, 3)
	pdf := setupPDF(t, "informe.pdf")
	ex := &fakeExtractor{tables: threePageTables()}
	cfg := types.DefaultConversionConfig()

	res, err := File(context.Background(), ex, pdf, cfg, zerolog.Nop())
	require.NoError(t, err)
	first, err := os.ReadFile(res.Output)
	require.NoError(t, err)

	res, err = File(context.Background(), ex, pdf, cfg, zerolog.Nop())
	require.NoError(t, err)
	second, err := os.ReadFile(res.Output)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFilePageOrder(t *testing.T) {
	stubInspect(t, 4)
	pdf := setupPDF(t, "informe.pdf")
	ex := &fakeExtractor{tables: []types.RawTable{
		historyTable(3, row("C", "", "", "", "", "", "", "", "", "3")),
		historyTable(2, row("B", "", "", "", "", "", "", "", "", "2")),
	}}

	res, err := File(context.Background(), ex, pdf, types.DefaultConversionConfig(), zerolog.Nop())
	require.NoError(t, err)

	rows := readCSV(t, res.Output)
	require.Len(t, rows, 3)
	assert.Equal(t, "B", rows[1][0])
	assert.Equal(t, "C", rows[2][0])
}

func TestFileNoTables(t *testing.T) {
	stubInspect(t, 2)
	pdf := setupPDF(t, "informe.pdf")
	ex := &fakeExtractor{tables: []types.RawTable{
		{Page: 2, Rows: [][]string{row("OTRA COSA")}},
	}}

	res, err := File(context.Background(), ex, pdf, types.DefaultConversionConfig(), zerolog.Nop())
	require.ErrorIs(t, err, ErrNoTables)
	assert.Equal(t, types.ConversionFailed, res.Status)
	assert.Empty(t, res.Output)

	_, statErr := os.Stat(filepath.Join(filepath.Dir(pdf), "informe.csv"))
	assert.True(t, os.IsNotExist(statErr), "no output written")
}

func TestFileHeaderOnlyTables(t *testing.T) {
	tests := []struct {
		name   string
		tables []types.RawTable
	}{
		{"header block only", []types.RawTable{historyTable(2)}},
		{"blank rows after header", []types.RawTable{historyTable(2, row(), row())}},
		{"two empty pages", []types.RawTable{historyTable(2), historyTable(3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubInspect(t, 3)
			pdf := setupPDF(t, "informe.pdf")

			res, err := File(context.Background(), &fakeExtractor{tables: tt.tables}, pdf,
				types.DefaultConversionConfig(), zerolog.Nop())
			require.ErrorIs(t, err, ErrNoTables)
			assert.Equal(t, types.ConversionFailed, res.Status)
			assert.Equal(t, len(tt.tables), res.TablesKept)
			assert.Zero(t, res.Records)
			assert.Empty(t, res.Output)

			_, statErr := os.Stat(filepath.Join(filepath.Dir(pdf), "informe.csv"))
			assert.True(t, os.IsNotExist(statErr), "no output written")
		})
	}
}

func TestFileWidthMismatch(t *testing.T) {
	stubInspect(t, 2)
	pdf := setupPDF(t, "informe.pdf")
	table := historyTable(2, []string{"GENERAL", "365"})
	ex := &fakeExtractor{tables: []types.RawTable{table}}

	_, err := File(context.Background(), ex, pdf, types.DefaultConversionConfig(), zerolog.Nop())
	require.ErrorIs(t, err, rebuild.ErrColumnCount)
	assert.Contains(t, err.Error(), "page 2")

	var werr *rebuild.WidthError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, 6, werr.Row)
	assert.Equal(t, 2, werr.Got)
}

func TestFileOrphans(t *testing.T) {
	table := historyTable(2,
		row("", "", "SIN REGISTRO"),
		row("GENERAL", "", "EMPRESA", "", "", "", "", "", "", "10"),
	)

	t.Run("reported and logged", func(t *testing.T) {
		stubInspect(t, 2)
		pdf := setupPDF(t, "informe.pdf")
		var logBuf bytes.Buffer
		log := zerolog.New(&logBuf)

		res, err := File(context.Background(), &fakeExtractor{tables: []types.RawTable{table}},
			pdf, types.DefaultConversionConfig(), log)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Orphans)
		assert.Equal(t, 1, res.Records)
		assert.Contains(t, logBuf.String(), `"level":"warn"`)
		assert.Contains(t, logBuf.String(), "SIN REGISTRO")
	})

	t.Run("strict", func(t *testing.T) {
		stubInspect(t, 2)
		pdf := setupPDF(t, "informe.pdf")
		cfg := types.DefaultConversionConfig()
		cfg.Strict = true

		_, err := File(context.Background(), &fakeExtractor{tables: []types.RawTable{table}}, pdf, cfg, zerolog.Nop())
		require.ErrorIs(t, err, rebuild.ErrOrphanFragment)
	})
}

func TestFileExtractError(t *testing.T) {
	stubInspect(t, 2)
	pdf := setupPDF(t, "informe.pdf")
	ex := &fakeExtractor{err: errors.New("container crashed")}

	res, err := File(context.Background(), ex, pdf, types.DefaultConversionConfig(), zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "container crashed")
	assert.Contains(t, err.Error(), "2-end")
	assert.Equal(t, types.ConversionFailed, res.Status)
}

func TestFileMissingInput(t *testing.T) {
	stubInspect(t, 2)
	ex := &fakeExtractor{}

	_, err := File(context.Background(), ex, filepath.Join(t.TempDir(), "nope.pdf"),
		types.DefaultConversionConfig(), zerolog.Nop())
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, ex.ranges, "extractor not called")
}

func TestFileOutputOverrideAndFormat(t *testing.T) {
	stubInspect(t, 3)
	pdf := setupPDF(t, "informe.pdf")
	cfg := types.DefaultConversionConfig()
	cfg.Format = types.FormatJSON
	cfg.Output = filepath.Join(t.TempDir(), "salida.json")

	res, err := File(context.Background(), &fakeExtractor{tables: threePageTables()}, pdf, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, cfg.Output, res.Output)

	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "REFORMAS DEL NORTE SL")
}

func TestBatch(t *testing.T) {
	stubInspect(t, 3)
	good := setupPDF(t, "a.pdf")
	missing := filepath.Join(t.TempDir(), "b.pdf")
	also := setupPDF(t, "c.pdf")

	result := Batch(context.Background(), &fakeExtractor{tables: threePageTables()},
		[]string{good, missing, also}, types.DefaultConversionConfig(), zerolog.Nop())

	assert.Equal(t, 2, result.Converted)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())
	require.Len(t, result.Results, 3)
	assert.Equal(t, types.ConversionFailed, result.Results[1].Status)
	assert.FileExists(t, filepath.Join(filepath.Dir(also), "c.csv"))
}

func TestBatchCancelled(t *testing.T) {
	stubInspect(t, 3)
	pdf := setupPDF(t, "a.pdf")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ex := &fakeExtractor{tables: threePageTables()}
	result := Batch(ctx, ex, []string{pdf}, types.DefaultConversionConfig(), zerolog.Nop())
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, ex.ranges)
}
