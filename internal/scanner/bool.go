// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"unicode/utf8"

	"github.com/open-edge-platform/o11y-scanner/internal/format"
	"github.com/open-edge-platform/o11y-scanner/internal/scanerr"
)

// BoolScanner reads a boolean either as a literal name or as the digit 0 or 1.
type BoolScanner struct {
	flags

	// AllowString accepts the literal names ('s').
	AllowString bool
	// AllowInt accepts 0 and 1 ('i').
	AllowInt bool
	// LocalizedDigits reads the numeric form with locale digits ('n', implies 'L').
	LocalizedDigits bool
}

// Parse accepts 's', 'i' and 'n'. Without 's' or 'i' both forms are allowed.
func (s *BoolScanner) Parse(field string) (int, error) {
	var str, num, digits bool
	common, n, err := format.Parse(field, format.Spec{Options: []format.Option{
		format.Flag('s', &str),
		format.Flag('i', &num),
		format.Flag('n', &digits),
	}})
	if err != nil {
		return 0, err
	}

	*s = BoolScanner{AllowString: str, AllowInt: num, LocalizedDigits: digits}
	if !str && !num {
		s.AllowString, s.AllowInt = true, true
	}
	s.common = common
	if digits {
		s.common.Localized = true
	}
	return n, nil
}

func (s *BoolScanner) Scan(ctx *Context, dst *bool) error {
	c := ctx.Cursor
	localized := s.common.Localized

	if s.AllowString {
		names := ctx.Locale.Static()
		if localized {
			names = ctx.Locale.Localized()
		}

		var word []rune
		isSpace := func(r rune) bool { return ctx.Locale.IsSpace(r, localized) }
		if err := c.ReadUntil(isSpace, false, &word); err != nil {
			return err
		}
		if hasPrefix(word, names.False) {
			*dst = false
			return nil
		}
		if hasPrefix(word, names.True) {
			*dst = true
			return nil
		}
		if err := c.PutbackN(len(word)); err != nil {
			return err
		}
	}

	if s.AllowInt {
		if s.LocalizedDigits {
			return s.scanLocalizedInt(ctx, dst)
		}

		r, err := c.ReadOne()
		if err != nil {
			return err
		}
		switch r {
		case '0':
			*dst = false
			return nil
		case '1':
			*dst = true
			return nil
		}
		if err := c.PutbackN(1); err != nil {
			return err
		}
	}

	return scanerr.New(scanerr.InvalidScannedValue, "couldn't scan bool")
}

func (s *BoolScanner) scanLocalizedInt(ctx *Context, dst *bool) error {
	mark := ctx.Cursor.Checkpoint()
	ints := IntScanner[int]{OnlyUnsigned: true, LocalizedDigits: true}
	ints.common.Localized = true

	var v int
	if err := ints.Scan(ctx, &v); err != nil {
		return err
	}
	switch v {
	case 0:
		*dst = false
	case 1:
		*dst = true
	default:
		return restore(ctx.Cursor, mark, scanerr.New(scanerr.InvalidScannedValue, "scanned integral boolean not equal to 0 or 1"))
	}
	return nil
}

// hasPrefix reports whether word starts with name.
func hasPrefix(word []rune, name string) bool {
	if len(word) < utf8.RuneCountInString(name) {
		return false
	}
	i := 0
	for _, r := range name {
		if word[i] != r {
			return false
		}
		i++
	}
	return true
}
