// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/labstack/echo/v4"

	"github.com/open-edge-platform/o11y-scanner/api/v1"
	"github.com/open-edge-platform/o11y-scanner/internal/database/models"
	"github.com/open-edge-platform/o11y-scanner/internal/locale"
	"github.com/open-edge-platform/o11y-scanner/scan"
)

const statusEndpoint = "/api/v1/status"

// scanRequest is the decoded body of a scan or preset request.
type scanRequest struct {
	input     string
	format    string
	args      []models.ArgType
	localeTag string
}

// parseScanRequest extracts the fields of a scan request. Fields missing from
// the body are left empty; required reports which fields must be present.
func parseScanRequest(body []byte, required ...string) (scanRequest, error) {
	var req scanRequest
	for _, key := range required {
		if _, _, _, err := jsonparser.Get(body, key); err != nil {
			return scanRequest{}, fmt.Errorf("missing field %q: %w", key, err)
		}
	}

	var err error
	if req.input, err = optionalString(body, "input"); err != nil {
		return scanRequest{}, err
	}
	if req.format, err = optionalString(body, "format"); err != nil {
		return scanRequest{}, err
	}
	if req.localeTag, err = optionalString(body, "locale"); err != nil {
		return scanRequest{}, err
	}

	_, dataType, _, err := jsonparser.Get(body, "args")
	switch {
	case errors.Is(err, jsonparser.KeyPathNotFoundError), err == nil && dataType == jsonparser.Null:
		return req, nil
	case err != nil:
		return scanRequest{}, fmt.Errorf("failed to parse field \"args\": %w", err)
	}

	var argErr error
	_, err = jsonparser.ArrayEach(body, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if argErr != nil {
			return
		}
		if dataType != jsonparser.String {
			argErr = fmt.Errorf("argument type %s is not a string", value)
			return
		}
		arg, err := jsonparser.ParseString(value)
		if err != nil {
			argErr = fmt.Errorf("failed to parse argument type: %w", err)
			return
		}
		req.args = append(req.args, models.ArgType(arg))
	}, "args")
	if err != nil {
		return scanRequest{}, fmt.Errorf("failed to parse field \"args\": %w", err)
	}
	if argErr != nil {
		return scanRequest{}, argErr
	}
	return req, nil
}

// optionalString returns the string at key, or "" when it is absent or null.
func optionalString(body []byte, key string) (string, error) {
	value, dataType, _, err := jsonparser.Get(body, key)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) || (err == nil && dataType == jsonparser.Null) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to parse field %q: %w", key, err)
	}
	if dataType != jsonparser.String {
		return "", fmt.Errorf("failed to parse field %q: %s is not a string", key, dataType)
	}
	s, err := jsonparser.ParseString(value)
	if err != nil {
		return "", fmt.Errorf("failed to parse field %q: %w", key, err)
	}
	return s, nil
}

// destination is the value an argument type scans into.
type destination struct {
	ptr   any
	value func() any
}

func newDestination(t models.ArgType) (destination, error) {
	switch t {
	case models.ArgBool:
		v := new(bool)
		return destination{v, func() any { return *v }}, nil
	case models.ArgChar:
		v := new(rune)
		return destination{v, func() any { return string(*v) }}, nil
	case models.ArgInt:
		v := new(int64)
		return destination{v, func() any { return *v }}, nil
	case models.ArgUint:
		v := new(uint64)
		return destination{v, func() any { return *v }}, nil
	case models.ArgFloat:
		v := new(float64)
		return destination{v, func() any { return floatValue(*v) }}, nil
	case models.ArgString:
		v := new(string)
		return destination{v, func() any { return *v }}, nil
	case models.ArgMatches:
		v := new(scan.RegexMatches)
		return destination{v, func() any { return regexGroups(*v) }}, nil
	}

	n, err := t.Size()
	if err != nil {
		return destination{}, err
	}
	v := make([]rune, n)
	return destination{&v, func() any { return string(v) }}, nil
}

func newDestinations(types []models.ArgType) ([]destination, []any, error) {
	dsts := make([]destination, len(types))
	ptrs := make([]any, len(types))
	for i, t := range types {
		d, err := newDestination(t)
		if err != nil {
			return nil, nil, err
		}
		dsts[i] = d
		ptrs[i] = d.ptr
	}
	return dsts, ptrs, nil
}

// floatValue renders values JSON cannot carry as strings.
func floatValue(f float64) any {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return f
}

func regexGroups(m scan.RegexMatches) []api.RegexGroup {
	groups := make([]api.RegexGroup, len(m))
	for i, g := range m {
		groups[i] = api.RegexGroup{Name: g.Name, Value: g.Value, Matched: g.Matched}
	}
	return groups
}

// ValidatePreset checks the name, argument types, locale and format of a preset without scanning.
func ValidatePreset(p models.Preset, locales *locale.Table) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("preset name cannot be empty")
	}
	if err := p.Args.Validate(); err != nil {
		return err
	}
	if p.Locale != "" {
		if locales == nil {
			return fmt.Errorf("no locale table loaded for %q", p.Locale)
		}
		if _, ok := locales.Lookup(p.Locale); !ok {
			return fmt.Errorf("unknown locale %q", p.Locale)
		}
	}

	_, ptrs, err := newDestinations(p.Args.Types())
	if err != nil {
		return err
	}
	if err := scan.Check(p.Format, ptrs...); err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}
	return nil
}

func argStrings(l models.ArgList) []string {
	types := l.Types()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func toAPIPreset(p *models.Preset) api.Preset {
	preset := api.Preset{
		Id:        p.UUID,
		Name:      p.Name,
		Format:    p.Format,
		Args:      argStrings(p.Args),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Locale != "" {
		locale := p.Locale
		preset.Locale = &locale
	}
	return preset
}

// scanErrorStatus maps a scan error to the HTTP status of its response.
func scanErrorStatus(err error) int {
	switch {
	case errors.Is(err, scan.InvalidFormatString), errors.Is(err, scan.InvalidOperation):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func validateTenantID(tenantID api.TenantID) error {
	if len(strings.TrimSpace(tenantID)) == 0 {
		return errors.New("projectID cannot be empty")
	}
	return nil
}

func skipLog(c echo.Context) bool {
	userAgent := c.Request().Header.Get("User-Agent")
	path := c.Request().URL.Path
	method := c.Request().Method

	if (strings.HasPrefix(userAgent, "curl") || strings.HasPrefix(userAgent, "kube-probe")) &&
		path == statusEndpoint &&
		method == http.MethodGet {
		return true
	}
	return false
}

func logError(ctx echo.Context, msg string, err error) {
	ctx.Logger().Errorf("(%s): %s: %v", ctx.Path(), msg, err)
}

func logWarn(ctx echo.Context, msg string) {
	ctx.Logger().Warnf("(%s): %s", ctx.Path(), msg)
}
