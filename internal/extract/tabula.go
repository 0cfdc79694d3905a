// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/graphicsstate"
	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/pages"
	"github.com/tsawler/tabula/reader"
	"github.com/tsawler/tabula/tables"
	"github.com/tsawler/tabula/text"

	"github.com/pdiddy/vida-laboral/pkg/types"
)

// TabulaExtractor reads tables with the tabula library. Bordered tables are
// split into cells along their ruling lines; pages without ruling lines
// fall back to tabula's geometric detector, which infers columns from text
// alignment.
type TabulaExtractor struct {
	grid     *tables.GridDetector
	fallback tables.Config
	log      zerolog.Logger
}

// NewTabulaExtractor returns an extractor for bordered employment-history
// tables.
func NewTabulaExtractor(log zerolog.Logger) *TabulaExtractor {
	cfg := tables.DefaultConfig()
	cfg.MinCols = 2
	cfg.MinRows = 2
	return &TabulaExtractor{
		grid:     tables.NewGridDetector(),
		fallback: cfg,
		log:      log,
	}
}

func (t *TabulaExtractor) Name() string { return string(types.BackendTabula) }

// Extract implements Extractor.
func (t *TabulaExtractor) Extract(ctx context.Context, pdfPath string, r PageRange) ([]types.RawTable, error) {
	rd, err := reader.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer rd.Close()

	count, err := rd.PageCount()
	if err != nil {
		return nil, fmt.Errorf("counting pages of %s: %w", pdfPath, err)
	}

	det := tables.NewGeometricDetector()
	if err := det.Configure(t.fallback); err != nil {
		return nil, fmt.Errorf("configuring table detector: %w", err)
	}

	var out []types.RawTable
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pageNum := i + 1
		if !r.Contains(pageNum) {
			continue
		}

		page, err := rd.GetPage(i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNum, err)
		}
		fragments, err := rd.ExtractTextFragments(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNum, err)
		}

		ge, err := pageGraphics(page)
		if err != nil {
			t.log.Debug().Err(err).Int("page", pageNum).Msg("ruling lines unavailable")
		}

		if ge != nil {
			if grids := t.gridTables(ge, fragments); len(grids) > 0 {
				for _, rows := range grids {
					out = append(out, types.RawTable{Page: pageNum, Rows: rows})
				}
				continue
			}
		}

		found, err := t.detectGeometric(det, page, pageNum, fragments, ge)
		if err != nil {
			return nil, err
		}
		for _, rows := range found {
			out = append(out, types.RawTable{Page: pageNum, Rows: rows})
		}
	}
	return out, nil
}

// gridTables returns one row grid per ruled table on the page.
func (t *TabulaExtractor) gridTables(ge *graphicsstate.GraphicsExtractor, fragments []text.TextFragment) [][][]string {
	gl := ge.GetGridLines()
	h, v := gl.Horizontals, gl.Verticals
	rh, rv := rectangleEdges(ge.GetFilteredRectangles())
	h = append(h, rh...)
	v = append(v, rv...)

	var out [][][]string
	for _, hyp := range t.grid.DetectFromLines(h, v) {
		if hyp.Rows < 1 || hyp.Cols < 1 {
			continue
		}
		rows := dropEmptyColumns(gridCells(hyp.HorizontalLines, hyp.VerticalLines, fragments))
		if len(rows) > 0 && len(rows[0]) > 0 {
			out = append(out, rows)
		}
	}
	return out
}

// detectGeometric runs tabula's text-alignment detector. Its column and row
// boundaries follow every fragment edge, so blank rows and columns are
// removed from the result.
func (t *TabulaExtractor) detectGeometric(det *tables.GeometricDetector, page *pages.Page, pageNum int, fragments []text.TextFragment, ge *graphicsstate.GraphicsExtractor) ([][][]string, error) {
	width, err := page.Width()
	if err != nil {
		return nil, fmt.Errorf("page %d: reading width: %w", pageNum, err)
	}
	height, err := page.Height()
	if err != nil {
		return nil, fmt.Errorf("page %d: reading height: %w", pageNum, err)
	}

	mp := model.NewPage(width, height)
	mp.Number = pageNum
	mp.RawText = modelFragments(fragments)
	if ge != nil {
		mp.RawLines = append(ge.ToModelLines(), ge.ToModelRectangles()...)
	}

	found, err := det.Detect(mp)
	if err != nil {
		return nil, fmt.Errorf("page %d: detecting tables: %w", pageNum, err)
	}

	var out [][][]string
	for _, tb := range found {
		rows := dropEmptyColumns(dropEmptyRows(tableRows(tb)))
		if len(rows) > 0 {
			out = append(out, rows)
		}
	}
	return out, nil
}

// pageGraphics decodes the page's content streams and collects the lines
// and rectangles drawn on it. It returns nil when the page has no content.
func pageGraphics(page *pages.Page) (*graphicsstate.GraphicsExtractor, error) {
	contents, err := page.Contents()
	if err != nil {
		return nil, err
	}

	var data []byte
	for _, obj := range contents {
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		decoded, err := stream.Decode()
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(decoded)) == 0 {
			continue
		}
		data = append(data, decoded...)
		data = append(data, '\n')
	}
	if len(data) == 0 {
		return nil, nil
	}

	ge := graphicsstate.NewGraphicsExtractor()
	if err := ge.ExtractFromBytes(data); err != nil {
		return nil, err
	}
	return ge, nil
}

func modelFragments(fragments []text.TextFragment) []model.TextFragment {
	out := make([]model.TextFragment, len(fragments))
	for i, f := range fragments {
		out[i] = model.TextFragment{
			Text:     f.Text,
			BBox:     model.BBox{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height},
			FontSize: f.FontSize,
			FontName: f.FontName,
		}
	}
	return out
}

// tableRows flattens a detected table to its cell text.
func tableRows(tb *model.Table) [][]string {
	rows := make([][]string, len(tb.Rows))
	for i, r := range tb.Rows {
		cells := make([]string, len(r))
		for j, c := range r {
			cells[j] = c.Text
		}
		rows[i] = cells
	}
	return rows
}
