// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"sort"
	"strings"

	"github.com/tsawler/tabula/graphicsstate"
	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/text"
)

// thinRule is the thickness, in points, below which a filled rectangle is
// read as a single ruling line rather than a box.
const thinRule = 2.0

// rectangleEdges turns drawn rectangles into ruling lines. Thin rectangles
// become one line; boxes contribute their four edges.
func rectangleEdges(rects []graphicsstate.ExtractedRectangle) (horizontals, verticals []graphicsstate.ExtractedLine) {
	hline := func(y, x0, x1 float64) graphicsstate.ExtractedLine {
		return graphicsstate.ExtractedLine{
			Start:        model.Point{X: x0, Y: y},
			End:          model.Point{X: x1, Y: y},
			IsHorizontal: true,
		}
	}
	vline := func(x, y0, y1 float64) graphicsstate.ExtractedLine {
		return graphicsstate.ExtractedLine{
			Start:      model.Point{X: x, Y: y0},
			End:        model.Point{X: x, Y: y1},
			IsVertical: true,
		}
	}

	for _, r := range rects {
		b := r.BBox
		switch {
		case b.Height <= thinRule && b.Width > thinRule:
			horizontals = append(horizontals, hline(b.Y+b.Height/2, b.X, b.X+b.Width))
		case b.Width <= thinRule && b.Height > thinRule:
			verticals = append(verticals, vline(b.X+b.Width/2, b.Y, b.Y+b.Height))
		case b.Width > thinRule && b.Height > thinRule:
			horizontals = append(horizontals,
				hline(b.Y, b.X, b.X+b.Width),
				hline(b.Y+b.Height, b.X, b.X+b.Width))
			verticals = append(verticals,
				vline(b.X, b.Y, b.Y+b.Height),
				vline(b.X+b.Width, b.Y, b.Y+b.Height))
		}
	}
	return horizontals, verticals
}

// gridCells places each text fragment in the cell that contains its centre.
// rowEdges are y positions from top to bottom, colEdges x positions from
// left to right. Text outside the grid is ignored.
func gridCells(rowEdges, colEdges []float64, fragments []text.TextFragment) [][]string {
	nrows, ncols := len(rowEdges)-1, len(colEdges)-1
	if nrows < 1 || ncols < 1 {
		return nil
	}

	cells := make([][][]text.TextFragment, nrows)
	for i := range cells {
		cells[i] = make([][]text.TextFragment, ncols)
	}
	for _, f := range fragments {
		if strings.TrimSpace(f.Text) == "" {
			continue
		}
		cx := f.X + f.Width/2
		cy := f.Y + f.Height/2
		row := band(rowEdges, cy, true)
		col := band(colEdges, cx, false)
		if row < 0 || col < 0 {
			continue
		}
		cells[row][col] = append(cells[row][col], f)
	}

	rows := make([][]string, nrows)
	for i := range cells {
		rows[i] = make([]string, ncols)
		for j, frags := range cells[i] {
			rows[i][j] = cellText(frags)
		}
	}
	return rows
}

// band returns the index of the interval of edges that holds v, or -1.
// Edges run downwards when descending is set.
func band(edges []float64, v float64, descending bool) int {
	for i := 0; i+1 < len(edges); i++ {
		lo, hi := edges[i], edges[i+1]
		if descending {
			lo, hi = hi, lo
		}
		if v >= lo && v < hi {
			return i
		}
	}
	return -1
}

// cellText joins the fragments of one cell in reading order. Fragments on
// the same baseline are joined directly when they touch and with a space
// otherwise; separate lines are joined with a space.
func cellText(frags []text.TextFragment) string {
	if len(frags) == 0 {
		return ""
	}
	sort.SliceStable(frags, func(i, j int) bool {
		if sameLine(frags[i], frags[j]) {
			return frags[i].X < frags[j].X
		}
		return frags[i].Y > frags[j].Y
	})

	var b strings.Builder
	for i, f := range frags {
		s := strings.TrimSpace(f.Text)
		if i > 0 {
			prev := frags[i-1]
			gap := f.X - (prev.X + prev.Width)
			if !sameLine(prev, f) || gap > 0.15*f.Height {
				b.WriteByte(' ')
			}
		}
		b.WriteString(s)
	}
	return strings.TrimSpace(b.String())
}

func sameLine(a, b text.TextFragment) bool {
	d := a.Y - b.Y
	if d < 0 {
		d = -d
	}
	h := a.Height
	if b.Height > h {
		h = b.Height
	}
	return d <= h/2
}

// dropEmptyRows removes rows whose cells are all blank.
func dropEmptyRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, r := range rows {
		for _, c := range r {
			if strings.TrimSpace(c) != "" {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// dropEmptyColumns removes columns that are blank in every row. Rows are
// assumed to be equally wide.
func dropEmptyColumns(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}

	keep := make([]int, 0, width)
	for j := 0; j < width; j++ {
		for _, r := range rows {
			if j < len(r) && strings.TrimSpace(r[j]) != "" {
				keep = append(keep, j)
				break
			}
		}
	}
	if len(keep) == width {
		return rows
	}

	out := make([][]string, len(rows))
	for i, r := range rows {
		cells := make([]string, len(keep))
		for k, j := range keep {
			if j < len(r) {
				cells[k] = r[j]
			}
		}
		out[i] = cells
	}
	return out
}
