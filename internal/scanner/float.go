// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/open-edge-platform/o11y-scanner/internal/format"
	"github.com/open-edge-platform/o11y-scanner/internal/scanerr"
)

// Float lists the destinations of FloatScanner.
type Float interface {
	~float32 | ~float64
}

const formGroup = 1

// FloatScanner reads a floating point number. With no form flag both fixed and
// scientific notation are accepted, as are inf, infinity and nan.
type FloatScanner[T Float] struct {
	flags

	Scientific bool // 'e', exponent required
	Fixed      bool // 'f', no exponent
	General    bool // 'g'
	Hex        bool // 'a', 0x mantissa with optional p exponent
}

func (s *FloatScanner[T]) Parse(field string) (int, error) {
	*s = FloatScanner[T]{}
	common, n, err := format.Parse(field, format.Spec{Options: []format.Option{
		format.Exclusive(formGroup, 'e', &s.Scientific),
		format.Exclusive(formGroup, 'f', &s.Fixed),
		format.Exclusive(formGroup, 'g', &s.General),
		format.Exclusive(formGroup, 'a', &s.Hex),
	}})
	if err != nil {
		return 0, err
	}
	s.common = common
	return n, nil
}

func (s *FloatScanner[T]) Scan(ctx *Context, dst *T) error {
	c := ctx.Cursor
	start := c.Checkpoint()
	la := &lookahead{c: c}

	if _, ok := la.next(); !ok {
		if la.err != nil {
			return la.err
		}
		return scanerr.New(scanerr.EndOfRange, "EOF")
	}
	la.unread()

	var text []byte
	if r, ok := la.accept(is("+-")); ok {
		text = append(text, byte(r))
	}

	var err error
	if _, ok := la.accept(is("iInN")); ok {
		la.unread()
		text, err = s.special(la, text)
	} else if s.Hex {
		text, err = s.hex(la, text)
	} else {
		text, err = s.decimal(ctx, la, text)
	}
	if la.err != nil {
		return restore(c, start, la.err)
	}
	if err != nil {
		return restore(c, start, err)
	}

	v, err := strconv.ParseFloat(string(text), reflect.TypeFor[T]().Bits())
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return restore(c, start, scanerr.Errorf(scanerr.InvalidScannedValue, "float %s out of range", text))
		}
		return restore(c, start, scanerr.Errorf(scanerr.InvalidScannedValue, "invalid float %s", text))
	}
	*dst = T(v)
	return nil
}

// special reads inf, infinity or nan in any case.
func (s *FloatScanner[T]) special(la *lookahead, text []byte) ([]byte, error) {
	var word []byte
	for len(word) < len("infinity") {
		r, ok := la.accept(isASCIILetter)
		if !ok {
			break
		}
		word = append(word, byte(r))
	}

	lower := strings.ToLower(string(word))
	keep := 0
	switch {
	case strings.HasPrefix(lower, "infinity"):
		keep = len("infinity")
	case strings.HasPrefix(lower, "inf"), strings.HasPrefix(lower, "nan"):
		keep = 3
	default:
		return nil, scanerr.New(scanerr.InvalidScannedValue, "expected a floating point number")
	}
	for i := keep; i < len(word); i++ {
		la.unread()
	}
	return append(text, word[:keep]...), nil
}

func (s *FloatScanner[T]) decimal(ctx *Context, la *lookahead, text []byte) ([]byte, error) {
	point := ctx.Locale.DecimalPoint(s.common.Localized)
	digits := 0
	for {
		r, ok := la.accept(isDecimal)
		if !ok {
			break
		}
		text = append(text, byte(r))
		digits++
	}
	if _, ok := la.accept(func(r rune) bool { return r == point }); ok {
		text = append(text, '.')
		for {
			r, ok := la.accept(isDecimal)
			if !ok {
				break
			}
			text = append(text, byte(r))
			digits++
		}
	}
	if digits == 0 {
		return nil, scanerr.New(scanerr.InvalidScannedValue, "expected a floating point number")
	}
	if s.Fixed {
		return text, nil
	}

	text, found := exponent(la, text, "eE", isDecimal)
	if s.Scientific && !found {
		return nil, scanerr.New(scanerr.InvalidScannedValue, "expected an exponent")
	}
	return text, nil
}

func (s *FloatScanner[T]) hex(la *lookahead, text []byte) ([]byte, error) {
	if _, ok := la.accept(is("0")); !ok {
		return nil, scanerr.New(scanerr.InvalidScannedValue, "expected a hexadecimal float")
	}
	if _, ok := la.accept(is("xX")); !ok {
		return nil, scanerr.New(scanerr.InvalidScannedValue, "expected a hexadecimal float")
	}
	text = append(text, '0', 'x')

	digits := 0
	for {
		r, ok := la.accept(isHex)
		if !ok {
			break
		}
		text = append(text, byte(r))
		digits++
	}
	if _, ok := la.accept(is(".")); ok {
		text = append(text, '.')
		for {
			r, ok := la.accept(isHex)
			if !ok {
				break
			}
			text = append(text, byte(r))
			digits++
		}
	}
	if digits == 0 {
		return nil, scanerr.New(scanerr.InvalidScannedValue, "expected a hexadecimal float")
	}

	text, found := exponent(la, text, "pP", isDecimal)
	if !found {
		text = append(text, 'p', '0')
	}
	return text, nil
}

// exponent consumes a marker, an optional sign and at least one digit. When no
// digit follows, the marker and sign are put back.
func exponent(la *lookahead, text []byte, markers string, digit func(rune) bool) ([]byte, bool) {
	m, ok := la.accept(is(markers))
	if !ok {
		return text, false
	}
	read := 1
	sign, hasSign := la.accept(is("+-"))
	if hasSign {
		read++
	}

	var digits []byte
	for {
		r, ok := la.accept(digit)
		if !ok {
			break
		}
		digits = append(digits, byte(r))
	}
	if len(digits) == 0 {
		for ; read > 0; read-- {
			la.unread()
		}
		return text, false
	}

	text = append(text, byte(m))
	if hasSign {
		text = append(text, byte(sign))
	}
	return append(text, digits...), true
}

func isDecimal(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHex(r rune) bool {
	return isDecimal(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
