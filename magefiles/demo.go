//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Demo builds the CLI and runs the full pipeline against the example brief
// using the deterministic template backend. Needs no API keys or network.
func Demo() error {
	mg.Deps(Build, Init)
	return sh.RunV(filepath.Join(binDir, binName), "generate",
		"--brief", "examples/brief.yaml",
		"--fallback-only",
		"--no-research")
}
