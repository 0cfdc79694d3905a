//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert builds the CLI and converts pdf to CSV next to it.
func Convert(pdf string) error {
	mg.Deps(Build)
	bin := filepath.Join(binDir, binName)
	if err := sh.RunV(bin, "--log-level", "debug", pdf); err != nil {
		return fmt.Errorf("converting %s: %w", pdf, err)
	}
	return nil
}
