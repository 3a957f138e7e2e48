//go:build mage

// Package main contains Mage build targets for centroidwatch.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "centroidwatch"
	cmdPkg  = "./cmd/centroidwatch"
)

// Default target when mage is run without arguments.
var Default = Build

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./internal/...", "./cmd/...")
}

// E2E runs the godog feature suite against a freshly built binary.
func E2E() error {
	mg.Deps(Test)
	return sh.RunV("go", "test", "./tests/e2e/...")
}

// Synth writes a small synthetic test set into testdata/rt.
func Synth() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "synth", "--output", filepath.Join("testdata", "rt"), "--patients", "3", "--seed", "1")
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}
