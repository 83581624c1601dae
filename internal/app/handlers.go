// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/open-edge-platform/o11y-scanner/api/v1"
	"github.com/open-edge-platform/o11y-scanner/internal/config"
	db "github.com/open-edge-platform/o11y-scanner/internal/database"
	"github.com/open-edge-platform/o11y-scanner/internal/database/models"
	"github.com/open-edge-platform/o11y-scanner/internal/locale"
	"github.com/open-edge-platform/o11y-scanner/internal/metrics"
	"github.com/open-edge-platform/o11y-scanner/internal/scanerr"
	"github.com/open-edge-platform/o11y-scanner/scan"
)

type ServerInterfaceHandler struct {
	presets db.PresetHandlerManager
	locales *locale.Table
	metrics *metrics.Recorder

	configuration config.Config
}

const (
	errHTTPBadRequest               = "bad request"
	errHTTPFailedToGetPresets       = "failed to get presets"
	errHTTPFailedToGetPreset        = "failed to get preset"
	errHTTPPresetNotFound           = "preset not found"
	errHTTPFailedToPutPreset        = "failed to put preset"
	errHTTPFailedToDeletePreset     = "failed to delete preset"
	errHTTPPresetConflict           = "preset was modified concurrently"
	errHTTPFailedToExtractProjectID = "failed to extract projectID"

	sourceRequest = "request"
	sourcePreset  = "preset"
)

func NewServerInterfaceHandler(configuration config.Config, dbConn *gorm.DB, locales *locale.Table, rec *metrics.Recorder) *ServerInterfaceHandler {
	return &ServerInterfaceHandler{
		configuration: configuration,
		presets: &db.DBService{
			DB: dbConn,
		},
		locales: locales,
		metrics: rec,
	}
}

func (w *ServerInterfaceHandler) PostScan(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		logError(ctx, "Failed to read request body", err)
		return ctx.JSON(http.StatusBadRequest, api.HttpError{Code: http.StatusBadRequest, Message: errHTTPBadRequest})
	}

	req, err := parseScanRequest(body, "input", "format")
	if err != nil {
		logError(ctx, "Failed to parse scan request", err)
		return ctx.JSON(http.StatusBadRequest, api.HttpError{Code: http.StatusBadRequest, Message: err.Error()})
	}

	for _, arg := range req.args {
		if err := arg.Validate(); err != nil {
			logError(ctx, "Invalid argument type", err)
			return ctx.JSON(http.StatusBadRequest, api.HttpError{Code: http.StatusBadRequest, Message: err.Error()})
		}
	}

	return w.scan(ctx, sourceRequest, req)
}

func (w *ServerInterfaceHandler) GetPresets(ctx echo.Context, tenantID api.TenantID) error {
	if err := validateTenantID(tenantID); err != nil {
		logError(ctx, "Failed to validate projectID", err)
		return ctx.JSON(http.StatusBadRequest, api.HttpError{Code: http.StatusBadRequest, Message: errHTTPFailedToExtractProjectID})
	}

	presets, err := w.presets.GetPresetList(ctx.Request().Context(), tenantID)
	if err != nil {
		logError(ctx, "Failed to get presets", err)
		return ctx.JSON(http.StatusInternalServerError, api.HttpError{Code: http.StatusInternalServerError, Message: errHTTPFailedToGetPresets})
	}

	list := api.PresetList{Presets: make([]api.Preset, 0, len(presets))}
	for _, p := range presets {
		list.Presets = append(list.Presets, toAPIPreset(p))
	}
	return ctx.JSON(http.StatusOK, list)
}

func (w *ServerInterfaceHandler) GetPreset(ctx echo.Context, tenantID api.TenantID, name api.PresetName) error {
	if err := validateTenantID(tenantID); err != nil {
		logError(ctx, "Failed to validate projectID", err)
		return ctx.JSON(http.StatusBadRequest, api.HttpError{Code: http.StatusBadRequest, Message: errHTTPFailedToExtractProjectID})
	}

	preset, err := w.presets.GetPreset(ctx.Request().Context(), tenantID, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logWarn(ctx, fmt.Sprintf("Preset %q not found", name))
		return ctx.JSON(http.StatusNotFound, api.HttpError{Code: http.StatusNotFound, Message: errHTTPPresetNotFound})
	} else if err != nil {
		logError(ctx, "Failed to get preset", err)
		return ctx.JSON(http.StatusInternalServerError, api.HttpError{Code: http.StatusInternalServerError, Message: errHTTPFailedToGetPreset})
	}

	return ctx.JSON(http.StatusOK, toAPIPreset(preset))
}

func (w *ServerInterfaceHandler) PutPreset(ctx echo.Context, tenantID api.TenantID, name api.PresetName) error {
	if err := validateTenantID(tenantID); err != nil {
		logError(ctx, "Failed to validate projectID", err)
		return ctx.JSON(http.StatusBadRequest, api.HttpError{Code: http.StatusBadRequest, Message: errHTTPFailedToExtractProjectID})
	}

	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		logError(ctx, "Failed to read request body", err)
		return ctx.JSON(http.StatusBadRequest, api.HttpError{Code: http.StatusBadRequest, Message: errHTTPBadRequest})
	}

	req, err := parseScanRequest(body, "format")
	if err != nil {
		logError(ctx, "Failed to parse preset request", err)
		return ctx.JSON(http.StatusBadRequest, api.HttpError{Code: http.StatusBadRequest, Message: err.Error()})
	}

	preset := models.Preset{
		Name:   name,
		Format: req.format,
		Args:   models.NewArgList(req.args),
		Locale: req.localeTag,
	}
	if err := ValidatePreset(preset, w.locales); err != nil {
		logError(ctx, "Invalid preset", err)
		return ctx.JSON(http.StatusBadRequest, api.HttpError{Code: http.StatusBadRequest, Message: err.Error()})
	}

	stored, created, err := w.presets.PutPreset(ctx.Request().Context(), tenantID, preset)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		logWarn(ctx, fmt.Sprintf("Preset %q was created concurrently", name))
		return ctx.JSON(http.StatusConflict, api.HttpError{Code: http.StatusConflict, Message: errHTTPPresetConflict})
	} else if err != nil {
		logError(ctx, "Failed to put preset", err)
		return ctx.JSON(http.StatusInternalServerError, api.HttpError{Code: http.StatusInternalServerError, Message: errHTTPFailedToPutPreset})
	}

	if created {
		return ctx.JSON(http.StatusCreated, toAPIPreset(stored))
	}
	return ctx.JSON(http.StatusOK, toAPIPreset(stored))
}

func (w *ServerInterfaceHandler) DeletePreset(ctx echo.Context, tenantID api.TenantID, name api.PresetName) error {
	if err := validateTenantID(tenantID); err != nil {
		logError(ctx, "Failed to validate projectID", err)
		return ctx.JSON(http.StatusBadRequest, api.HttpError{Code: http.StatusBadRequest, Message: errHTTPFailedToExtractProjectID})
	}

	err := w.presets.DeletePreset(ctx.Request().Context(), tenantID, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logWarn(ctx, fmt.Sprintf("Preset %q not found", name))
		return ctx.JSON(http.StatusNotFound, api.HttpError{Code: http.StatusNotFound, Message: errHTTPPresetNotFound})
	} else if err != nil {
		logError(ctx, "Failed to delete preset", err)
		return ctx.JSON(http.StatusInternalServerError, api.HttpError{Code: http.StatusInternalServerError, Message: errHTTPFailedToDeletePreset})
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (w *ServerInterfaceHandler) PostPresetScan(ctx echo.Context, tenantID api.TenantID, name api.PresetName) error {
	if err := validateTenantID(tenantID); err != nil {
		logError(ctx, "Failed to validate projectID", err)
		return ctx.JSON(http.StatusBadRequest, api.HttpError{Code: http.StatusBadRequest, Message: errHTTPFailedToExtractProjectID})
	}

	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		logError(ctx, "Failed to read request body", err)
		return ctx.JSON(http.StatusBadRequest, api.HttpError{Code: http.StatusBadRequest, Message: errHTTPBadRequest})
	}

	req, err := parseScanRequest(body, "input")
	if err != nil {
		logError(ctx, "Failed to parse scan request", err)
		return ctx.JSON(http.StatusBadRequest, api.HttpError{Code: http.StatusBadRequest, Message: err.Error()})
	}

	preset, err := w.presets.GetPreset(ctx.Request().Context(), tenantID, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logWarn(ctx, fmt.Sprintf("Preset %q not found", name))
		return ctx.JSON(http.StatusNotFound, api.HttpError{Code: http.StatusNotFound, Message: errHTTPPresetNotFound})
	} else if err != nil {
		logError(ctx, "Failed to get preset", err)
		return ctx.JSON(http.StatusInternalServerError, api.HttpError{Code: http.StatusInternalServerError, Message: errHTTPFailedToGetPreset})
	}

	return w.scan(ctx, sourcePreset, scanRequest{
		input:     req.input,
		format:    preset.Format,
		args:      preset.Args.Types(),
		localeTag: preset.Locale,
	})
}

func (w *ServerInterfaceHandler) GetStatus(ctx echo.Context) error {
	if w.locales == nil {
		return ctx.JSON(http.StatusOK, api.ServiceStatus{State: api.Failed})
	}
	return ctx.JSON(http.StatusOK, api.ServiceStatus{State: api.Ready, Locales: w.locales.Tags()})
}

func (w *ServerInterfaceHandler) scan(ctx echo.Context, source string, req scanRequest) error {
	if limit := w.configuration.Scanner.MaxInputLength; limit > 0 && utf8.RuneCountInString(req.input) > limit {
		msg := fmt.Sprintf("input exceeds %d characters", limit)
		logWarn(ctx, msg)
		return ctx.JSON(http.StatusRequestEntityTooLarge, api.HttpError{Code: http.StatusRequestEntityTooLarge, Message: msg})
	}

	loc, err := w.resolveLocale(req.localeTag)
	if err != nil {
		logError(ctx, "Failed to resolve locale", err)
		return ctx.JSON(http.StatusBadRequest, api.HttpError{Code: http.StatusBadRequest, Message: err.Error()})
	}

	dsts, ptrs, err := newDestinations(req.args)
	if err != nil {
		logError(ctx, "Invalid argument type", err)
		return ctx.JSON(http.StatusBadRequest, api.HttpError{Code: http.StatusBadRequest, Message: err.Error()})
	}

	scanner := scan.New(scan.WithLocale(loc), scan.WithLogger(slog.Default()))
	res, err := scanner.Scan(req.input, req.format, ptrs...)
	if err != nil {
		kind := scanerr.KindOf(err)
		w.observe(source, kind.String(), res)

		code := scanErrorStatus(err)
		if code == http.StatusBadRequest {
			logError(ctx, "Rejected scan", err)
			return ctx.JSON(code, api.HttpError{Code: code, Message: err.Error()})
		}
		logWarn(ctx, fmt.Sprintf("Scan failed after %d arguments: %v", res.Scanned, err))
		return ctx.JSON(code, api.ScanError{
			Code:      code,
			Message:   err.Error(),
			Kind:      kind.String(),
			Scanned:   res.Scanned,
			Remaining: res.Remaining(),
		})
	}
	w.observe(source, metrics.OutcomeOK, res)

	values := make([]any, len(dsts))
	for i, d := range dsts {
		values[i] = d.value()
	}
	return ctx.JSON(http.StatusOK, api.ScanResult{
		Values:    values,
		Scanned:   res.Scanned,
		Consumed:  res.Consumed,
		Remaining: res.Remaining(),
	})
}

func (w *ServerInterfaceHandler) observe(source, outcome string, res scan.Result) {
	if w.metrics == nil {
		return
	}
	w.metrics.Observe(source, outcome, res.Consumed, res.Scanned)
}

// resolveLocale falls back to the configured default and then to the classic locale.
func (w *ServerInterfaceHandler) resolveLocale(tag string) (scan.Locale, error) {
	if tag == "" {
		tag = w.configuration.Scanner.DefaultLocale
	}
	if tag == "" {
		return scan.Classic, nil
	}
	if w.locales == nil {
		return nil, fmt.Errorf("no locale table loaded for %q", tag)
	}
	loc, ok := w.locales.Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("unknown locale %q", tag)
	}
	return loc, nil
}
