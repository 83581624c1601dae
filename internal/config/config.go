// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort            = 8080
	defaultBodyLimit       = "64K"
	defaultShutdownTimeout = 5 * time.Second
	defaultMaxInputLength  = 16384
	defaultTenantID        = "edgenode"
)

type ServerConfig struct {
	Port            int           `yaml:"port"`
	BodyLimit       string        `yaml:"bodyLimit"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type ScannerConfig struct {
	// DefaultLocale is the BCP 47 tag used by requests that do not name a locale.
	// Empty selects the classic locale.
	DefaultLocale string `yaml:"defaultLocale"`
	// LocaleFile replaces the builtin locale table when set.
	LocaleFile     string `yaml:"localeFile"`
	MaxInputLength int    `yaml:"maxInputLength"`
}

type PresetsConfig struct {
	DefaultTenant string `yaml:"defaultTenant"`
	SeedFile      string `yaml:"seedFile"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Scanner ScannerConfig `yaml:"scanner"`
	Presets PresetsConfig `yaml:"presets"`
}

func LoadConfig(file string) (Config, error) {
	yfile, err := os.ReadFile(file)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read file %q: %w", file, err)
	}

	var config Config
	err = yaml.Unmarshal(yfile, &config)
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal: %w", err)
	}

	config.setDefaults()
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %q: %w", file, err)
	}
	return config, nil
}

func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.BodyLimit == "" {
		c.Server.BodyLimit = defaultBodyLimit
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.Scanner.MaxInputLength == 0 {
		c.Scanner.MaxInputLength = defaultMaxInputLength
	}
	if c.Presets.DefaultTenant == "" {
		c.Presets.DefaultTenant = defaultTenantID
	}
}

// Validate reports settings that cannot be used to start the service.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.ShutdownTimeout < 0 {
		return errors.New("server shutdown timeout cannot be negative")
	}
	if c.Scanner.MaxInputLength < 0 {
		return errors.New("scanner max input length cannot be negative")
	}
	return nil
}
