// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

// Package api holds the wire types and routing of the scanner HTTP API.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

const (
	Ready  ServiceStatusState = "Ready"
	Failed ServiceStatusState = "Failed"
)

// TenantID defines model for TenantID.
type TenantID = string

// PresetName defines model for PresetName.
type PresetName = string

// ServiceStatusState defines model for ServiceStatus.State.
type ServiceStatusState string

// HttpError defines model for HttpError.
type HttpError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ScanError is returned when the input does not match the format.
type ScanError struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Kind      string `json:"kind"`
	Scanned   int    `json:"scanned"`
	Remaining string `json:"remaining"`
}

// ScanRequest defines model for ScanRequest.
type ScanRequest struct {
	Input  string   `json:"input"`
	Format string   `json:"format"`
	Args   []string `json:"args"`
	Locale *string  `json:"locale,omitempty"`
}

// PresetScanRequest defines model for PresetScanRequest.
type PresetScanRequest struct {
	Input string `json:"input"`
}

// ScanResult defines model for ScanResult.
type ScanResult struct {
	Values    []any  `json:"values"`
	Scanned   int    `json:"scanned"`
	Consumed  int    `json:"consumed"`
	Remaining string `json:"remaining"`
}

// RegexGroup is one capture of a "matches" argument.
type RegexGroup struct {
	Name    string `json:"name,omitempty"`
	Value   string `json:"value"`
	Matched bool   `json:"matched"`
}

// PresetRequest defines model for PresetRequest.
type PresetRequest struct {
	Format string   `json:"format"`
	Args   []string `json:"args"`
	Locale *string  `json:"locale,omitempty"`
}

// Preset defines model for Preset.
type Preset struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Format    string    `json:"format"`
	Args      []string  `json:"args"`
	Locale    *string   `json:"locale,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PresetList defines model for PresetList.
type PresetList struct {
	Presets []Preset `json:"presets"`
}

// ServiceStatus defines model for ServiceStatus.
type ServiceStatus struct {
	State   ServiceStatusState `json:"state"`
	Locales []string           `json:"locales,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// PostScan scans input given inline format and argument types.
	// (POST /api/v1/scan)
	PostScan(ctx echo.Context) error

	// GetPresets lists the presets of the active project.
	// (GET /api/v1/presets)
	GetPresets(ctx echo.Context, tenantID TenantID) error

	// GetPreset gets a preset.
	// (GET /api/v1/presets/{name})
	GetPreset(ctx echo.Context, tenantID TenantID, name PresetName) error

	// PutPreset creates or replaces a preset.
	// (PUT /api/v1/presets/{name})
	PutPreset(ctx echo.Context, tenantID TenantID, name PresetName) error

	// DeletePreset deletes a preset.
	// (DELETE /api/v1/presets/{name})
	DeletePreset(ctx echo.Context, tenantID TenantID, name PresetName) error

	// PostPresetScan scans input with a stored preset.
	// (POST /api/v1/presets/{name}/scan)
	PostPresetScan(ctx echo.Context, tenantID TenantID, name PresetName) error

	// GetStatus reports the service state.
	// (GET /api/v1/status)
	GetStatus(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) PostScan(ctx echo.Context) error {
	return w.Handler.PostScan(ctx)
}

func (w *ServerInterfaceWrapper) GetPresets(ctx echo.Context) error {
	tenantID, err := bindTenantID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetPresets(ctx, tenantID)
}

func (w *ServerInterfaceWrapper) GetPreset(ctx echo.Context) error {
	tenantID, name, err := bindPresetParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetPreset(ctx, tenantID, name)
}

func (w *ServerInterfaceWrapper) PutPreset(ctx echo.Context) error {
	tenantID, name, err := bindPresetParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.PutPreset(ctx, tenantID, name)
}

func (w *ServerInterfaceWrapper) DeletePreset(ctx echo.Context) error {
	tenantID, name, err := bindPresetParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.DeletePreset(ctx, tenantID, name)
}

func (w *ServerInterfaceWrapper) PostPresetScan(ctx echo.Context) error {
	tenantID, name, err := bindPresetParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.PostPresetScan(ctx, tenantID, name)
}

func (w *ServerInterfaceWrapper) GetStatus(ctx echo.Context) error {
	return w.Handler.GetStatus(ctx)
}

func bindTenantID(ctx echo.Context) (TenantID, error) {
	var tenantID TenantID
	values, found := ctx.Request().Header[http.CanonicalHeaderKey("ActiveProjectID")]
	if !found {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Header parameter ActiveProjectID is required, but not found")
	}
	if n := len(values); n != 1 {
		return "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Expected one value for ActiveProjectID, got %d", n))
	}
	err := runtime.BindStyledParameterWithOptions("simple", "ActiveProjectID", values[0], &tenantID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Explode: false, Required: true})
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter ActiveProjectID: %s", err))
	}
	return tenantID, nil
}

func bindPresetParams(ctx echo.Context) (TenantID, PresetName, error) {
	var name PresetName
	err := runtime.BindStyledParameterWithOptions("simple", "name", ctx.Param("name"), &name,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter name: %s", err))
	}

	tenantID, err := bindTenantID(ctx)
	if err != nil {
		return "", "", err
	}
	return tenantID, name, nil
}

// EchoRouter is implemented by both echo.Echo and echo.Group.
type EchoRouter interface {
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers the routes under baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.POST(baseURL+"/api/v1/scan", wrapper.PostScan)
	router.GET(baseURL+"/api/v1/presets", wrapper.GetPresets)
	router.GET(baseURL+"/api/v1/presets/:name", wrapper.GetPreset)
	router.PUT(baseURL+"/api/v1/presets/:name", wrapper.PutPreset)
	router.DELETE(baseURL+"/api/v1/presets/:name", wrapper.DeletePreset)
	router.POST(baseURL+"/api/v1/presets/:name/scan", wrapper.PostPresetScan)
	router.GET(baseURL+"/api/v1/status", wrapper.GetStatus)
}
