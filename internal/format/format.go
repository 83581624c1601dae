// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

// Package format lexes the options inside a single {...} replacement field.
//
// A field is either empty ("{}") or a colon followed by single-letter flags and
// at most one /regex/ literal: "{:si}", "{:L}", "{:/[a-z]+/}". The flag
// letters are owned by the scanner the field belongs to, except for the
// shared ones handled here for every scanner.
package format

import (
	"strings"

	"github.com/open-edge-platform/o11y-scanner/internal/scanerr"
)

const (
	// FlagLocalized is the shared flag enabling locale-sensitive behavior.
	FlagLocalized = 'L'

	openBrace  = '{'
	closeBrace = '}'
)

// Common holds the options understood by every scanner.
type Common struct {
	Localized bool
}

// Option binds a flag letter to the boolean it sets.
type Option struct {
	Flag byte
	Set  *bool

	// Group, when non-zero, allows at most one flag of that group per field.
	Group int
}

// Flag returns an option that sets dst when c is present.
func Flag(c byte, dst *bool) Option {
	return Option{Flag: c, Set: dst}
}

// Exclusive returns an option belonging to a mutually exclusive group.
func Exclusive(group int, c byte, dst *bool) Option {
	return Option{Flag: c, Set: dst, Group: group}
}

// Spec lists what a scanner accepts inside its field.
type Spec struct {
	Options []Option

	// Pattern receives the unescaped body of a /.../ literal. A nil Pattern
	// rejects such literals.
	Pattern *string
}

// Parse lexes src, which starts just after the opening brace, up to and
// including the closing brace. It returns the shared options and the number
// of bytes consumed. Nothing past the closing brace is read.
func Parse(src string, spec Spec) (Common, int, error) {
	var (
		common  Common
		seen    [128]bool
		groups  = make(map[int]byte)
		pattern bool
	)

	i := 0
	if i < len(src) && src[i] == ':' {
		i++
	}
	for i < len(src) {
		c := src[i]
		switch {
		case c == closeBrace:
			return common, i + 1, nil
		case c == '/' && spec.Pattern != nil:
			if pattern {
				return Common{}, 0, scanerr.New(scanerr.InvalidFormatString, "more than one pattern in format specifier")
			}
			body, n, err := parsePattern(src[i+1:])
			if err != nil {
				return Common{}, 0, err
			}
			*spec.Pattern = body
			pattern = true
			i += n + 1
			continue
		case c >= 0x80:
			return Common{}, 0, scanerr.New(scanerr.InvalidFormatString, "non-ASCII character in format specifier")
		}

		if seen[c] {
			return Common{}, 0, scanerr.Errorf(scanerr.InvalidFormatString, "repeated flag %q in format specifier", c)
		}
		seen[c] = true

		if c == FlagLocalized {
			common.Localized = true
			i++
			continue
		}

		opt, ok := lookup(spec.Options, c)
		if !ok {
			return Common{}, 0, scanerr.Errorf(scanerr.InvalidFormatString, "unrecognized flag %q in format specifier", c)
		}
		if opt.Group != 0 {
			if prev, taken := groups[opt.Group]; taken {
				return Common{}, 0, scanerr.Errorf(scanerr.InvalidFormatString, "flags %q and %q cannot be combined", prev, c)
			}
			groups[opt.Group] = c
		}
		*opt.Set = true
		i++
	}
	return Common{}, 0, scanerr.New(scanerr.InvalidFormatString, "unterminated format specifier")
}

func lookup(options []Option, c byte) (Option, bool) {
	for _, opt := range options {
		if opt.Flag == c {
			return opt, true
		}
	}
	return Option{}, false
}

// parsePattern reads a pattern body up to its closing slash. "\/" stands for a
// literal slash; every other escape is kept for the regex engine.
func parsePattern(src string) (string, int, error) {
	var sb strings.Builder
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\\':
			if i+1 < len(src) && src[i+1] == '/' {
				sb.WriteByte('/')
				i++
				continue
			}
			sb.WriteByte('\\')
			if i+1 < len(src) {
				sb.WriteByte(src[i+1])
				i++
			}
		case '/':
			if sb.Len() == 0 {
				return "", 0, scanerr.New(scanerr.InvalidFormatString, "empty pattern in format specifier")
			}
			return sb.String(), i + 1, nil
		default:
			sb.WriteByte(src[i])
		}
	}
	return "", 0, scanerr.New(scanerr.InvalidFormatString, "unterminated pattern in format specifier")
}

// IsOpen reports whether c starts a replacement field.
func IsOpen(c byte) bool { return c == openBrace }

// IsClose reports whether c ends a replacement field.
func IsClose(c byte) bool { return c == closeBrace }
