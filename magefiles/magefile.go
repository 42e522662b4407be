//go:build mage

// Package main contains Mage build targets for refdex developer tooling.
// Implements: docs/ARCHITECTURE § Developer Tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/sh"
)

// Init creates the per-user refdex layout: ~/.refdex for the config file
// and library database, plus a secrets/ subdirectory.
func Init() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}

	base := filepath.Join(home, ".refdex")
	if err := os.MkdirAll(base, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", base, err)
	}
	fmt.Println("  ", base)

	secretsDir := filepath.Join(base, "secrets")
	if err := os.MkdirAll(secretsDir, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", secretsDir, err)
	}
	fmt.Println("  ", secretsDir)

	fmt.Println("refdex directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "refdex"
	cmdPkg  = "./cmd/refdex"
)

// Build compiles the CLI binary into bin/, stamping the version from git
// when available.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)

	args := []string{"build", "-o", out}
	if v := gitVersion(); v != "" {
		args = append(args, "-ldflags", "-X main.version="+v)
	}
	args = append(args, cmdPkg)

	if err := sh.RunV("go", args...); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the full test suite.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// gitVersion returns `git describe` output, or "" outside a git checkout.
func gitVersion() string {
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		return ""
	}
	return v
}

// Stats prints project metrics: Go production and test line counts.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	return nil
}

// countGoLines walks the tree and counts non-blank lines in Go files,
// selecting _test.go files or production files by testOnly.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "bin" || strings.HasPrefix(d.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		if strings.HasSuffix(path, "_test.go") != testOnly {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				total++
			}
		}
		return nil
	})
	return total, err
}
