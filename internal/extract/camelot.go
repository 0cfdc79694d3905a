// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pdiddy/vida-laboral/internal/container"
	"github.com/pdiddy/vida-laboral/pkg/types"
)

// CamelotExtractor runs a camelot image through a container runtime. The
// image reads the PDF on stdin and prints a JSON array of
// {"page": N, "rows": [[...], ...]} objects on stdout.
type CamelotExtractor struct {
	runtime container.Runtime
	image   string
}

// NewCamelotExtractor verifies that image exists in rt before returning.
func NewCamelotExtractor(ctx context.Context, rt container.Runtime, image string) (*CamelotExtractor, error) {
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("camelot image not available in %s (build it with \"mage image\" from build/camelot): %w", rt.Name(), err)
	}
	return &CamelotExtractor{runtime: rt, image: image}, nil
}

func (c *CamelotExtractor) Name() string { return string(types.BackendCamelot) }

// Extract implements Extractor using the stream flavor.
func (c *CamelotExtractor) Extract(ctx context.Context, pdfPath string, r PageRange) ([]types.RawTable, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	args := camelotArgs(r)
	var out bytes.Buffer
	if err := c.runtime.Run(ctx, c.image, args, f, &out); err != nil {
		return nil, fmt.Errorf("extracting tables from %s with camelot: %w", pdfPath, err)
	}

	tables, err := decodeTables(&out, r)
	if err != nil {
		return nil, fmt.Errorf("decoding camelot output for %s: %w", pdfPath, err)
	}
	return tables, nil
}

// camelotArgs are the flags understood by build/camelot/extract.py.
func camelotArgs(r PageRange) []string {
	return []string{"--pages", r.String(), "--flavor", "stream"}
}

type camelotTable struct {
	Page int        `json:"page"`
	Rows [][]string `json:"rows"`
}

// decodeTables parses camelot JSON output, drops tables outside r and
// orders the rest by page.
func decodeTables(rd io.Reader, r PageRange) ([]types.RawTable, error) {
	var raw []camelotTable
	if err := json.NewDecoder(rd).Decode(&raw); err != nil {
		return nil, err
	}

	out := make([]types.RawTable, 0, len(raw))
	for _, t := range raw {
		if t.Page < 1 {
			return nil, fmt.Errorf("table with invalid page number %d", t.Page)
		}
		if !r.Contains(t.Page) {
			continue
		}
		out = append(out, types.RawTable{Page: t.Page, Rows: t.Rows})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Page < out[j].Page })
	return out, nil
}
