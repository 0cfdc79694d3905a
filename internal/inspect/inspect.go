// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inspect checks that an input file is a readable PDF before any
// table extraction is attempted.
package inspect

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu otherwise creates a config directory under the user's home.
	api.DisableConfigDir()
}

// Info describes a validated PDF.
type Info struct {
	Path  string
	Pages int
	Size  int64
}

// File validates the PDF at path in relaxed mode and counts its pages.
func File(path string) (Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if st.IsDir() {
		return Info{}, fmt.Errorf("reading %s: is a directory", path)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return Info{}, fmt.Errorf("validating PDF %s: %w", path, err)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("counting pages of %s: %w", path, err)
	}

	return Info{Path: path, Pages: pages, Size: st.Size()}, nil
}
