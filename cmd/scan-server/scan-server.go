// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/open-edge-platform/o11y-scanner/internal/app"
	"github.com/open-edge-platform/o11y-scanner/internal/config"
	"github.com/open-edge-platform/o11y-scanner/internal/database"
	"github.com/open-edge-platform/o11y-scanner/internal/locale"
)

func validateLogLevel(value string) error {
	switch value {
	case "debug":
	case "info":
	case "warn":
	case "error":
	default:
		return fmt.Errorf("invalid log level %q", value)
	}
	return nil
}

func loadLocales(conf config.ScannerConfig) (*locale.Table, error) {
	if conf.LocaleFile == "" {
		return locale.Builtin(), nil
	}
	return locale.LoadTable(conf.LocaleFile)
}

func main() {
	configFile := flag.String("config", "", "config file path")
	apiPort := flag.Int("port", 0, "API service port, overrides the config file")
	logLevel := flag.String("log-level", "info", "API server log level")

	flag.Parse()

	configuration, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	err = validateLogLevel(*logLevel)
	if err != nil {
		log.Fatal(err.Error())
	}

	port := configuration.Server.Port
	if *apiPort != 0 {
		port = *apiPort
	}

	locales, err := loadLocales(configuration.Scanner)
	if err != nil {
		log.Fatalf("Failed to load locales: %v", err)
	}
	if tag := configuration.Scanner.DefaultLocale; tag != "" {
		if _, ok := locales.Lookup(tag); !ok {
			log.Fatalf("Default locale %q is not in the locale table", tag)
		}
	}

	db, err := database.ConnectDB()
	if err != nil {
		log.Fatal(err.Error())
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal(err.Error())
	}

	app.StartServer(port, configuration, *logLevel, db, locales)
}
