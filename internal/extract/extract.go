// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls raw tables out of a PDF. Table detection and text
// extraction are delegated to a backend: the pure-Go tabula library, or a
// camelot image run through a local container runtime.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pdiddy/vida-laboral/internal/container"
	"github.com/pdiddy/vida-laboral/pkg/types"
)

// ErrUnknownBackend is returned by New for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown extraction backend")

// Extractor returns the tables found on the selected pages of a PDF, in
// page order. Each table carries its 1-indexed page number.
type Extractor interface {
	// Name identifies the backend in logs.
	Name() string

	// Extract reads the PDF at pdfPath and returns the tables found on the
	// pages in r.
	Extract(ctx context.Context, pdfPath string, r PageRange) ([]types.RawTable, error)
}

// PageRange is an inclusive, 1-indexed range of pages. Last == 0 means the
// last page of the document.
type PageRange struct {
	First int
	Last  int
}

// FromPage returns the range from page first to the end of the document.
func FromPage(first int) PageRange {
	if first < 1 {
		first = 1
	}
	return PageRange{First: first}
}

// Contains reports whether page falls inside the range.
func (r PageRange) Contains(page int) bool {
	if page < r.First {
		return false
	}
	return r.Last == 0 || page <= r.Last
}

// String renders the range in camelot notation, e.g. "2-end" or "2-5".
func (r PageRange) String() string {
	first := r.First
	if first < 1 {
		first = 1
	}
	if r.Last == 0 {
		return strconv.Itoa(first) + "-end"
	}
	return strconv.Itoa(first) + "-" + strconv.Itoa(r.Last)
}

// New builds the extractor selected by cfg.Backend.
func New(ctx context.Context, cfg types.ConversionConfig, log zerolog.Logger) (Extractor, error) {
	switch cfg.Backend {
	case types.BackendTabula, "":
		return NewTabulaExtractor(log), nil
	case types.BackendCamelot:
		rt, err := container.DetectRuntime(ctx)
		if err != nil {
			return nil, err
		}
		image := cfg.CamelotImage
		if image == "" {
			image = types.DefaultCamelotImage
		}
		return NewCamelotExtractor(ctx, rt, image)
	default:
		return nil, fmt.Errorf("%w %q: use %s or %s", ErrUnknownBackend, cfg.Backend, types.BackendTabula, types.BackendCamelot)
	}
}
