// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the vida laboral pipeline for one or more PDFs:
// inspect, extract tables, filter pages, rebuild records and write output.
package convert

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdiddy/vida-laboral/internal/extract"
	"github.com/pdiddy/vida-laboral/internal/inspect"
	"github.com/pdiddy/vida-laboral/internal/output"
	"github.com/pdiddy/vida-laboral/internal/pages"
	"github.com/pdiddy/vida-laboral/internal/rebuild"
	"github.com/pdiddy/vida-laboral/pkg/types"
)

// ErrNoTables is returned when no extracted table carries the section
// marker, or when the tables that do hold no records once their header rows
// are dropped. Nothing is written in either case.
var ErrNoTables = errors.New("no employment-history tables found")

// inspectFile is replaced in tests that run without a real PDF.
var inspectFile = inspect.File

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int
	Results   []types.Result
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// File converts the PDF at path and writes the reconstructed records next
// to it, or to cfg.Output when set. The returned Result is filled in as far
// as the run got, also on error.
func File(ctx context.Context, ex extract.Extractor, path string, cfg types.ConversionConfig, log zerolog.Logger) (types.Result, error) {
	res := types.Result{Input: path, Status: types.ConversionFailed}
	log = log.With().Str("file", path).Logger()

	info, err := inspectFile(path)
	if err != nil {
		return res, err
	}
	res.Pages = info.Pages
	log.Info().Int("pages", info.Pages).Int64("bytes", info.Size).Str("backend", ex.Name()).Msg("processing")

	r := extract.FromPage(cfg.SkipPages + 1)
	tables, err := ex.Extract(ctx, path, r)
	if err != nil {
		return res, fmt.Errorf("extracting tables from %s (pages %s): %w", path, r, err)
	}
	res.TablesFound = len(tables)
	log.Info().Int("tables", len(tables)).Msg("tables found")

	sel := pages.Select(tables, pages.Options{Marker: cfg.Marker, SkipPages: cfg.SkipPages})
	for _, s := range sel.Skipped {
		log.Debug().Int("page", s.Page).Str("reason", string(s.Reason)).Msg("table skipped")
	}
	res.TablesKept = len(sel.Kept)
	if len(sel.Kept) == 0 {
		return res, fmt.Errorf("%s: %w", path, ErrNoTables)
	}

	records, orphans, err := rebuildTables(sel.Kept, cfg, log)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	res.Records = len(records)
	res.Orphans = orphans
	if len(records) == 0 {
		return res, fmt.Errorf("%s: marked tables hold no records: %w", path, ErrNoTables)
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	out := output.Path(path, cfg.Format, cfg.Output)
	if err := output.Write(ctx, out, cfg.Format, records, output.Options{Delimiter: cfg.Delimiter}); err != nil {
		return res, err
	}
	res.Output = out
	res.Status = types.ConversionDone
	log.Info().Str("output", out).Int("records", len(records)).Msg("converted")
	return res, nil
}

// rebuildTables reconstructs every kept table and concatenates the records
// in page order.
func rebuildTables(tables []types.RawTable, cfg types.ConversionConfig, log zerolog.Logger) ([]types.Record, int, error) {
	opts := rebuild.Options{HeaderRows: cfg.HeaderRows, Join: cfg.Join, Strict: cfg.Strict}

	var (
		records []types.Record
		orphans int
	)
	for _, t := range tables {
		rec, err := rebuild.Reconstruct(t.Rows, opts)
		if err != nil {
			return nil, 0, fmt.Errorf("page %d: %w", t.Page, err)
		}
		for _, f := range rec.Orphans {
			log.Warn().Int("page", t.Page).Int("row", f.Row).Strs("cells", f.Cells).
				Msg("continuation fragment before first record dropped")
		}
		orphans += len(rec.Orphans)

		for i := range rec.Records {
			rec.Records[i].Page = t.Page
		}
		records = append(records, rec.Records...)
		log.Info().Int("page", t.Page).Int("records", len(rec.Records)).Msg("table kept")
	}
	return records, orphans, nil
}

// Batch converts each path independently. A failure is logged and counted;
// it does not stop the remaining files.
func Batch(ctx context.Context, ex extract.Extractor, paths []string, cfg types.ConversionConfig, log zerolog.Logger) BatchResult {
	var result BatchResult
	for _, p := range paths {
		if ctx.Err() != nil {
			res := types.Result{Input: p, Status: types.ConversionFailed}
			result.Results = append(result.Results, res)
			result.Failed++
			log.Error().Str("file", p).Err(ctx.Err()).Msg("not converted")
			continue
		}

		res, err := File(ctx, ex, p, cfg, log)
		result.Results = append(result.Results, res)
		if err != nil {
			result.Failed++
			log.Error().Str("file", p).Err(err).Msg("conversion failed")
			continue
		}
		result.Converted++
	}

	log.Info().Int("converted", result.Converted).Int("failed", result.Failed).
		Int("total", result.Total()).Msg("batch summary")
	return result
}
