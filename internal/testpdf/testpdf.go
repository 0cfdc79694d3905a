// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package testpdf writes small, valid PDF files for tests: Helvetica text
// and stroked ruling lines on landscape A4 pages.
package testpdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

// Page dimensions in points (A4 landscape).
const (
	PageWidth  = 842.0
	PageHeight = 595.0
)

// Text is a string drawn at baseline (X, Y).
type Text struct {
	X, Y float64
	Size float64
	S    string
}

// Line is a stroked segment from (X0, Y0) to (X1, Y1).
type Line struct {
	X0, Y0, X1, Y1 float64
}

// Page holds the drawing operations of one page.
type Page struct {
	Texts []Text
	Lines []Line
}

// Table layout used by RuledTable.
const (
	TableLeft  = 30.0
	TableTop   = 540.0
	ColWidth   = 78.0
	RowHeight  = 16.0
	FontSize   = 5.0
	textInsetX = 3.0
	textInsetY = 5.0
)

// RuledTable draws rows as a bordered grid with one ruled cell per value.
// Every row must have the same number of cells.
func RuledTable(rows [][]string) Page {
	var p Page
	if len(rows) == 0 {
		return p
	}
	ncols := len(rows[0])
	right := TableLeft + float64(ncols)*ColWidth
	bottom := TableTop - float64(len(rows))*RowHeight

	for i := 0; i <= len(rows); i++ {
		y := TableTop - float64(i)*RowHeight
		p.Lines = append(p.Lines, Line{TableLeft, y, right, y})
	}
	for j := 0; j <= ncols; j++ {
		x := TableLeft + float64(j)*ColWidth
		p.Lines = append(p.Lines, Line{x, TableTop, x, bottom})
	}
	for i, row := range rows {
		base := TableTop - float64(i+1)*RowHeight + textInsetY
		for j, cell := range row {
			if cell == "" {
				continue
			}
			p.Texts = append(p.Texts, Text{
				X:    TableLeft + float64(j)*ColWidth + textInsetX,
				Y:    base,
				Size: FontSize,
				S:    cell,
			})
		}
	}
	return p
}

// Build returns the bytes of a PDF with the given pages.
func Build(pages []Page) ([]byte, error) {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	// 1 catalog, 2 page tree, 3 font, then a page and its contents per page.
	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, p := range pages {
		content, err := contentStream(p)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			PageWidth, PageHeight, 5+2*i))
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes(), nil
}

func contentStream(p Page) (string, error) {
	var b bytes.Buffer
	if len(p.Lines) > 0 {
		b.WriteString("0.5 w\n")
	}
	for _, l := range p.Lines {
		fmt.Fprintf(&b, "%.2f %.2f m %.2f %.2f l S\n", l.X0, l.Y0, l.X1, l.Y1)
	}
	for _, t := range p.Texts {
		s, err := literal(t.S)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "BT /F1 %g Tf %.2f %.2f Td %s Tj ET\n", t.Size, t.X, t.Y, s)
	}
	return b.String(), nil
}

// literal encodes s as a WinAnsi PDF string literal.
func literal(s string) (string, error) {
	enc, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil {
		return "", fmt.Errorf("encoding %q: %w", s, err)
	}
	var b bytes.Buffer
	b.WriteByte('(')
	for i := 0; i < len(enc); i++ {
		c := enc[i]
		switch {
		case c == '(' || c == ')' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 0x20 || c > 0x7e:
			fmt.Fprintf(&b, "\\%03o", c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(')')
	return b.String(), nil
}

// Write builds the PDF into dir/name and returns its path.
func Write(t testing.TB, dir, name string, pages []Page) string {
	t.Helper()
	data, err := Build(pages)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// Cover returns a page with a few lines of text and no table.
func Cover() Page {
	return Page{Texts: []Text{
		{X: 60, Y: 500, Size: 14, S: "INFORME DE VIDA LABORAL"},
		{X: 60, Y: 470, Size: 10, S: "Tesorería General de la Seguridad Social"},
	}}
}
