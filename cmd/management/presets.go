// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/open-edge-platform/o11y-scanner/internal/app"
	"github.com/open-edge-platform/o11y-scanner/internal/database/models"
	"github.com/open-edge-platform/o11y-scanner/internal/locale"
)

type presetFile struct {
	Presets []presetDefinition `yaml:"presets"`
}

type presetDefinition struct {
	Name   string   `yaml:"name"`
	Format string   `yaml:"format"`
	Args   []string `yaml:"args"`
	Locale string   `yaml:"locale"`
}

// loadPresets reads the seed presets and rejects the file if any preset is invalid or defined twice.
func loadPresets(file string, locales *locale.Table) ([]models.Preset, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", file, err)
	}

	var pf presetFile
	if err := yaml.UnmarshalStrict(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %q: %w", file, err)
	}

	seen := make(map[string]struct{}, len(pf.Presets))
	presets := make([]models.Preset, 0, len(pf.Presets))
	for _, def := range pf.Presets {
		if _, ok := seen[def.Name]; ok {
			return nil, fmt.Errorf("preset %q is defined more than once", def.Name)
		}
		seen[def.Name] = struct{}{}

		args := make([]models.ArgType, len(def.Args))
		for i, a := range def.Args {
			args[i] = models.ArgType(a)
		}
		p := models.Preset{
			Name:   def.Name,
			Format: def.Format,
			Args:   models.NewArgList(args),
			Locale: def.Locale,
		}
		if err := app.ValidatePreset(p, locales); err != nil {
			return nil, fmt.Errorf("invalid preset %q: %w", def.Name, err)
		}
		presets = append(presets, p)
	}
	return presets, nil
}
