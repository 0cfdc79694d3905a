//go:build mage

// Package main contains Mage build targets for vida-laboral developer tooling.
package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/pdiddy/vida-laboral/pkg/types"
)

const (
	binDir  = "bin"
	binName = "vida-laboral"
	cmdPkg  = "./cmd/vida-laboral"

	camelotDir = "build/camelot"
)

// ldflags stamps the version reported by "vida-laboral version".
func ldflags() string {
	v := os.Getenv("VERSION")
	if v == "" {
		if out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty"); err == nil && out != "" {
			v = out
		} else {
			v = "dev"
		}
	}
	return "-X main.version=" + v
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-ldflags", ldflags(), "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Install installs the CLI into GOBIN.
func Install() error {
	if err := sh.RunV("go", "install", "-ldflags", ldflags(), cmdPkg); err != nil {
		return fmt.Errorf("go install: %w", err)
	}
	return nil
}

// Image builds the container image used by the camelot backend. Docker is
// preferred; podman is used when docker is not installed. CAMELOT_IMAGE
// overrides the tag.
func Image() error {
	tag := os.Getenv("CAMELOT_IMAGE")
	if tag == "" {
		tag = types.DefaultCamelotImage
	}
	bin := "docker"
	if _, err := exec.LookPath(bin); err != nil {
		bin = "podman"
	}
	if err := sh.RunV(bin, "build", "-t", tag, camelotDir); err != nil {
		return fmt.Errorf("%s build %s: %w", bin, tag, err)
	}
	fmt.Printf("Built image %s\n", tag)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Check runs vet and the unit tests.
func Check() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	mg.Deps(Test)
	return nil
}

// Stats prints Go production and test line counts per package directory.
func Stats() error {
	prod := map[string]int{}
	test := map[string]int{}
	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), "_") || (info.Name() != "." && strings.HasPrefix(info.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		n, err := countLines(path)
		if err != nil {
			return err
		}
		dir := filepath.Dir(path)
		if strings.HasSuffix(path, "_test.go") {
			test[dir] += n
		} else {
			prod[dir] += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(prod))
	for d := range prod {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	var totalProd, totalTest int
	for _, d := range dirs {
		fmt.Printf("%-24s %6d prod %6d test\n", d, prod[d], test[d])
		totalProd += prod[d]
		totalTest += test[d]
	}
	fmt.Printf("%-24s %6d prod %6d test\n", "total", totalProd, totalTest)
	return nil
}

// countLines counts non-blank lines in a file.
func countLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	n := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n, nil
}
