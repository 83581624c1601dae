// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package database

import (
	"context"
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/open-edge-platform/o11y-scanner/internal/database/models"
)

// PresetHandlerManager is used by the API to read and maintain the presets of a tenant.
type PresetHandlerManager interface {
	// GetPresetList gets every preset of the tenant ordered by name.
	GetPresetList(ctx context.Context, tenantID string) ([]*models.Preset, error)

	// GetPreset gets a preset given its name.
	GetPreset(ctx context.Context, tenantID, name string) (*models.Preset, error)

	// PutPreset creates the preset or replaces the format, arguments and locale of an existing one
	// with the same name. It reports whether the preset was created.
	PutPreset(ctx context.Context, tenantID string, preset models.Preset) (*models.Preset, bool, error)

	// DeletePreset deletes a preset given its name.
	DeletePreset(ctx context.Context, tenantID, name string) error
}

// PresetSeeder is used by the management service to install default presets.
type PresetSeeder interface {
	// SeedPresets creates the presets missing from the tenant and leaves existing ones untouched.
	// It returns the number of presets created.
	SeedPresets(ctx context.Context, tenantID string, presets []models.Preset) (int64, error)

	// DeleteTenantPresets deletes every preset of the tenant and returns how many were removed.
	DeleteTenantPresets(ctx context.Context, tenantID string) (int64, error)
}

func ConnectDB() (*gorm.DB, error) {
	host := os.Getenv("PGHOST")
	port := os.Getenv("PGPORT")
	user := os.Getenv("PGUSER")
	password := os.Getenv("PGPASSWORD")
	dbname := os.Getenv("PGDATABASE")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=prefer", host, user, password, dbname, port)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the tables of the preset store.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Preset{}); err != nil {
		return fmt.Errorf("failed to migrate presets: %w", err)
	}
	return nil
}
