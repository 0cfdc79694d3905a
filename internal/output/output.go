// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output writes reconstructed records to disk. CSV is the primary
// format; JSON, YAML and SQLite are available for downstream tooling. Every
// format is written to a temporary file in the destination directory and
// renamed into place, so a failed run never leaves a truncated file.
package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/vida-laboral/pkg/types"
)

// Options controls serialisation.
type Options struct {
	// Delimiter is the CSV field separator. Empty means ','.
	Delimiter string
}

// Path returns the output path for input: the input path with its final
// extension replaced by the format's extension. A non-empty override wins.
func Path(input string, format types.OutputFormat, override string) string {
	if override != "" {
		return override
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + format.Extension()
}

// Write serialises records to path in the given format, overwriting any
// existing file.
func Write(ctx context.Context, path string, format types.OutputFormat, records []types.Record, opts Options) error {
	switch format {
	case types.FormatCSV, "":
		comma, err := delimiter(opts.Delimiter)
		if err != nil {
			return err
		}
		return writeAtomic(path, func(w io.Writer) error { return WriteCSV(w, records, comma) })
	case types.FormatJSON:
		return writeAtomic(path, func(w io.Writer) error { return WriteJSON(w, records) })
	case types.FormatYAML:
		return writeAtomic(path, func(w io.Writer) error { return WriteYAML(w, records) })
	case types.FormatSQLite:
		return writeSQLite(ctx, path, records)
	default:
		return fmt.Errorf("unsupported output format %q: use csv, json, yaml or sqlite", format)
	}
}

func delimiter(s string) (rune, error) {
	if s == "" {
		return ',', nil
	}
	if s == `\t` {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return r, nil
}

// tempPath returns a sibling path for staging output.
func tempPath(path string) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

func writeAtomic(path string, fill func(io.Writer) error) error {
	tmp, err := tempPath(path)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("opening %s: %w", tmp, err)
	}

	if err := fill(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return commit(tmp, path)
}

func commit(tmp, path string) error {
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("setting mode on %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming output into %s: %w", path, err)
	}
	return nil
}
