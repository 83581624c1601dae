// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"github.com/grafana/regexp"

	"github.com/open-edge-platform/o11y-scanner/internal/format"
	"github.com/open-edge-platform/o11y-scanner/internal/scanerr"
)

// StringScanner reads a whitespace-delimited word, or the anchored match of a
// /.../ pattern when the field carries one.
type StringScanner struct {
	flags
	re *regexp.Regexp
}

func (s *StringScanner) Parse(field string) (int, error) {
	*s = StringScanner{}
	var pattern string
	common, n, err := format.Parse(field, format.Spec{Pattern: &pattern})
	if err != nil {
		return 0, err
	}
	if pattern != "" {
		if s.re, err = compile(pattern); err != nil {
			return 0, err
		}
	}
	s.common = common
	return n, nil
}

// SkipsWhitespace is false for patterns, which match from the exact position.
func (s *StringScanner) SkipsWhitespace() bool { return s.re == nil }

func (s *StringScanner) Scan(ctx *Context, dst *string) error {
	if s.re != nil {
		text, _, err := matchRegex(ctx.Cursor, s.re)
		if err != nil {
			return err
		}
		*dst = text
		return nil
	}

	localized := s.common.Localized
	var word []rune
	isSpace := func(r rune) bool { return ctx.Locale.IsSpace(r, localized) }
	if err := ctx.Cursor.ReadUntil(isSpace, false, &word); err != nil {
		return err
	}
	if len(word) == 0 {
		if _, err := ctx.Cursor.ReadOne(); err != nil {
			return err
		}
		if err := ctx.Cursor.PutbackN(1); err != nil {
			return err
		}
		return scanerr.New(scanerr.InvalidScannedValue, "expected a word")
	}
	*dst = string(word)
	return nil
}
