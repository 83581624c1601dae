// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type (
	// Lint is the Mage namespace for linting targets.
	Lint mg.Namespace

	// Test is the Mage namespace for testing targets.
	Test mg.Namespace
)

// fuzzTest names a fuzz target and the package holding it.
type fuzzTest struct {
	name string
	pkg  string
}

var fuzzTestList = []fuzzTest{
	{name: "FuzzDecode", pkg: "./internal/codepoint/"},
	{name: "FuzzPostScanRandomInput", pkg: "./internal/app/"},
	{name: "FuzzPostScanFormat", pkg: "./internal/app/"},
	{name: "FuzzPutPresetArgs", pkg: "./internal/app/"},
}

// Ensures all files have copyright and license set.
func (Lint) License() error {
	return sh.Run("reuse", "lint")
}

// Runs golangci-lint over the module.
func (Lint) Golang() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Runs unit tests with the race detector.
func (Test) Unit() error {
	return sh.RunV("go", "test", "-race", "-count=1", "./...")
}

// Runs fuzz tests.
func (Test) Fuzz(fuzzMinutes string) error {
	outputDir := filepath.Join("internal", "app", "fuzz-output")

	// Create the directory if it doesn't exist
	err := os.MkdirAll(outputDir, 0750)
	if err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	fuzzSeconds, err := parseMinutesToSeconds(fuzzMinutes)
	if err != nil {
		return err
	}

	for _, ft := range fuzzTestList {
		outputFile := filepath.Join(outputDir, "fuzz_output.txt")
		cmd := fmt.Sprintf("nohup go test %s -fuzz=^%s$ -run=^%s$ -fuzztime=%ds >> %s 2>&1 &", ft.pkg, ft.name, ft.name, fuzzSeconds, outputFile)
		fmt.Println("Running command:", cmd)

		err := sh.Run("sh", "-c", cmd)
		if err != nil {
			return err
		}
	}
	return nil
}

// parseMinutesToSeconds converts a duration in minutes to seconds.
func parseMinutesToSeconds(minutes string) (int, error) {
	if minutes == "" {
		return 60, nil
	}

	minValue, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, fmt.Errorf("invalid minutes format: %w", err)
	}

	return minValue * 60, nil
}
