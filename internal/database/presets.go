// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/open-edge-platform/o11y-scanner/internal/clock"
	"github.com/open-edge-platform/o11y-scanner/internal/database/models"
)

// GetPresetList gets the presets of a tenant ordered by name.
func (d *DBService) GetPresetList(ctx context.Context, tenantID string) ([]*models.Preset, error) {
	var presets []*models.Preset
	if err := d.DB.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name").
		Find(&presets).Error; err != nil {
		return nil, fmt.Errorf("failed to get presets for tenant %q: %w", tenantID, err)
	}
	return presets, nil
}

// GetPreset gets a preset of a tenant given its name.
func (d *DBService) GetPreset(ctx context.Context, tenantID, name string) (*models.Preset, error) {
	var preset models.Preset
	if err := d.DB.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("name = ?", name).
		Take(&preset).Error; err != nil {
		return nil, fmt.Errorf("failed to get preset %q for tenant %q: %w", name, tenantID, err)
	}
	return &preset, nil
}

// PutPreset creates a preset or updates the one with the same name within a single transaction.
func (d *DBService) PutPreset(ctx context.Context, tenantID string, preset models.Preset) (*models.Preset, bool, error) {
	tx := d.DB.WithContext(ctx).Begin()
	defer tx.Rollback()

	now := clock.Now()

	var existing models.Preset
	err := tx.
		Where("tenant_id = ?", tenantID).
		Where("name = ?", preset.Name).
		Take(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		preset.ID = 0
		preset.UUID = uuid.New()
		preset.TenantID = tenantID
		preset.CreatedAt = now
		preset.UpdatedAt = now
		if err := tx.Create(&preset).Error; err != nil {
			return nil, false, fmt.Errorf("failed to create preset %q for tenant %q: %w", preset.Name, tenantID, err)
		}
		if err := tx.Commit().Error; err != nil {
			return nil, false, err
		}
		return &preset, true, nil

	case err != nil:
		return nil, false, fmt.Errorf("failed to get preset %q for tenant %q: %w", preset.Name, tenantID, err)
	}

	existing.Format = preset.Format
	existing.Args = preset.Args
	existing.Locale = preset.Locale
	existing.UpdatedAt = now
	if err := tx.Save(&existing).Error; err != nil {
		return nil, false, fmt.Errorf("failed to update preset %q for tenant %q: %w", preset.Name, tenantID, err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

// DeletePreset deletes a preset of a tenant given its name. It returns gorm.ErrRecordNotFound if there is none.
func (d *DBService) DeletePreset(ctx context.Context, tenantID, name string) error {
	res := d.DB.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("name = ?", name).
		Delete(&models.Preset{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete preset %q for tenant %q: %w", name, tenantID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SeedPresets creates the given presets that the tenant does not have yet.
func (d *DBService) SeedPresets(ctx context.Context, tenantID string, presets []models.Preset) (int64, error) {
	var created int64
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := clock.Now()
		for _, p := range presets {
			var count int64
			if err := tx.Model(&models.Preset{}).
				Where("tenant_id = ?", tenantID).
				Where("name = ?", p.Name).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			p.ID = 0
			p.UUID = uuid.New()
			p.TenantID = tenantID
			p.CreatedAt = now
			p.UpdatedAt = now
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("failed to create preset %q: %w", p.Name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed presets for tenant %q: %w", tenantID, err)
	}
	return created, nil
}

// DeleteTenantPresets deletes every preset of a tenant.
func (d *DBService) DeleteTenantPresets(ctx context.Context, tenantID string) (int64, error) {
	res := d.DB.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.Preset{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete presets for tenant %q: %w", tenantID, res.Error)
	}
	return res.RowsAffected, nil
}
