// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"errors"
	"reflect"
	"strconv"

	"github.com/open-edge-platform/o11y-scanner/internal/format"
	"github.com/open-edge-platform/o11y-scanner/internal/locale"
	"github.com/open-edge-platform/o11y-scanner/internal/scanerr"
)

// Integer lists the destinations of IntScanner. int32 is absent because it is
// rune, which is scanned as a character.
type Integer interface {
	~int | ~int8 | ~int16 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

const baseGroup = 1

const digitChars = "0123456789abcdefghijklmnopqrstuvwxyz"

// IntScanner reads an integer in decimal or in the base selected by its flags.
type IntScanner[T Integer] struct {
	flags

	Decimal bool // 'd'
	Hex     bool // 'x', optional 0x prefix
	Octal   bool // 'o', optional 0o prefix
	Binary  bool // 'b', optional 0b prefix
	Detect  bool // 'i', base from the 0x, 0o, 0b or 0 prefix

	OnlyUnsigned    bool // 'u'
	LocalizedDigits bool // 'n', implies 'L'
}

func (s *IntScanner[T]) Parse(field string) (int, error) {
	*s = IntScanner[T]{}
	common, n, err := format.Parse(field, format.Spec{Options: []format.Option{
		format.Exclusive(baseGroup, 'd', &s.Decimal),
		format.Exclusive(baseGroup, 'x', &s.Hex),
		format.Exclusive(baseGroup, 'o', &s.Octal),
		format.Exclusive(baseGroup, 'b', &s.Binary),
		format.Exclusive(baseGroup, 'i', &s.Detect),
		format.Flag('u', &s.OnlyUnsigned),
		format.Flag('n', &s.LocalizedDigits),
	}})
	if err != nil {
		return 0, err
	}
	s.common = common
	if s.LocalizedDigits {
		s.common.Localized = true
	}
	return n, nil
}

func (s *IntScanner[T]) Scan(ctx *Context, dst *T) error {
	c := ctx.Cursor
	start := c.Checkpoint()
	la := &lookahead{c: c}

	r, ok := la.next()
	if !ok {
		if la.err != nil {
			return la.err
		}
		return scanerr.New(scanerr.EndOfRange, "EOF")
	}

	var text []byte
	switch r {
	case '-':
		if s.OnlyUnsigned || !isSigned[T]() {
			return restore(c, start, scanerr.New(scanerr.InvalidScannedValue, "negative value for an unsigned integer"))
		}
		text = append(text, '-')
	case '+':
	default:
		la.unread()
	}

	base := s.prefix(la)
	digits := 0
	for {
		r, ok := la.next()
		if !ok {
			break
		}
		v, ok := digitValue(ctx.Locale, r, base, s.LocalizedDigits)
		if !ok {
			la.unread()
			break
		}
		text = append(text, digitChars[v])
		digits++
	}
	if la.err != nil {
		return restore(c, start, la.err)
	}
	if digits == 0 {
		return restore(c, start, scanerr.New(scanerr.InvalidScannedValue, "expected an integer"))
	}

	v, err := parseInteger[T](string(text), base)
	if err != nil {
		return restore(c, start, err)
	}
	*dst = v
	return nil
}

// prefix consumes a base prefix when the flags allow one and returns the base.
func (s *IntScanner[T]) prefix(la *lookahead) int {
	base, letters := 10, ""
	switch {
	case s.Hex:
		base, letters = 16, "xX"
	case s.Octal:
		base, letters = 8, "oO"
	case s.Binary:
		base, letters = 2, "bB"
	case s.Detect:
		letters = "xXoObB"
	default:
		return base
	}

	if _, ok := la.accept(is("0")); !ok {
		return base
	}
	r, ok := la.next()
	if ok && is(letters)(r) {
		switch r {
		case 'x', 'X':
			return 16
		case 'o', 'O':
			return 8
		}
		return 2
	}
	if ok {
		la.unread()
	}
	// The zero is a digit of the number itself.
	la.unread()
	if s.Detect && ok && r >= '0' && r <= '7' {
		return 8
	}
	return base
}

func digitValue(l locale.Locale, r rune, base int, localized bool) (int, bool) {
	v, ok := l.DigitValue(r, localized)
	if !ok {
		switch {
		case r >= 'a' && r <= 'z':
			v, ok = int(r-'a')+10, true
		case r >= 'A' && r <= 'Z':
			v, ok = int(r-'A')+10, true
		}
	}
	if !ok || v >= base {
		return 0, false
	}
	return v, true
}

func isSigned[T Integer]() bool {
	var zero T
	return zero-1 < zero
}

func parseInteger[T Integer](text string, base int) (T, error) {
	bits := reflect.TypeFor[T]().Bits()
	if isSigned[T]() {
		v, err := strconv.ParseInt(text, base, bits)
		if err != nil {
			return 0, integerError(text, err)
		}
		return T(v), nil
	}
	v, err := strconv.ParseUint(text, base, bits)
	if err != nil {
		return 0, integerError(text, err)
	}
	return T(v), nil
}

func integerError(text string, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return scanerr.Errorf(scanerr.InvalidScannedValue, "integer %s out of range", text)
	}
	return scanerr.Errorf(scanerr.InvalidScannedValue, "invalid integer %s", text)
}
