// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

// Package scanner implements the typed scanners and the dispatch that drives them
// over a format string.
//
// Every scanner follows the same two-step contract: Parse consumes the body of
// one {...} replacement field, then Scan reads a value from the cursor. A
// failed Scan leaves the cursor where it found it.
package scanner

import (
	"log/slog"

	"github.com/open-edge-platform/o11y-scanner/internal/cursor"
	"github.com/open-edge-platform/o11y-scanner/internal/format"
	"github.com/open-edge-platform/o11y-scanner/internal/locale"
)

// Context carries everything a scan needs besides the destination.
// It is owned by a single scan call.
type Context struct {
	Cursor cursor.Cursor
	Locale locale.Locale
	Logger *slog.Logger
}

// NewContext returns a context over c. A nil locale selects locale.Classic and
// a nil logger discards records.
func NewContext(c cursor.Cursor, l locale.Locale, logger *slog.Logger) *Context {
	if l == nil {
		l = locale.Classic
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Context{Cursor: c, Locale: l, Logger: logger}
}

// Scanner reads values of type T.
type Scanner[T any] interface {
	// Parse consumes a replacement field starting just after its opening
	// brace and returns the number of bytes consumed, closing brace included.
	Parse(field string) (int, error)

	// Scan reads one value into dst.
	Scan(ctx *Context, dst *T) error

	// SkipsWhitespace reports whether leading whitespace is skipped before Scan.
	SkipsWhitespace() bool

	// Localized reports whether the parsed field asked for locale-sensitive behavior.
	Localized() bool
}

// flags is embedded by every scanner for the options shared across types.
type flags struct {
	common format.Common
}

func (f *flags) Localized() bool       { return f.common.Localized }
func (f *flags) SkipsWhitespace() bool { return true }
