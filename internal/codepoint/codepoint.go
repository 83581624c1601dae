// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

// Package codepoint validates and decodes UTF-8 one sequence at a time.
package codepoint

import (
	"github.com/open-edge-platform/o11y-scanner/internal/scanerr"
)

// CodePoint is a single decoded Unicode scalar value.
type CodePoint uint32

const (
	// Max is the largest valid code point.
	Max CodePoint = 0x10ffff

	surrogateMin CodePoint = 0xd800
	surrogateMax CodePoint = 0xdfff

	// MaxSequenceLength is the longest valid UTF-8 sequence.
	MaxSequenceLength = 4
)

// IsSurrogate reports whether cp lies in the UTF-16 surrogate range.
func IsSurrogate(cp CodePoint) bool {
	return cp >= surrogateMin && cp <= surrogateMax
}

// IsValid reports whether cp is a Unicode scalar value.
func IsValid(cp CodePoint) bool {
	return cp <= Max && !IsSurrogate(cp)
}

// SequenceLength returns the length of the sequence introduced by lead,
// or 0 if lead cannot start a sequence.
func SequenceLength(lead byte) int {
	switch {
	case lead < 0x80:
		return 1
	case lead>>5 == 0x6:
		return 2
	case lead>>4 == 0xe:
		return 3
	case lead>>3 == 0x1e:
		return 4
	}
	return 0
}

// IsOverlong reports whether a sequence of n bytes is longer than needed for cp.
func IsOverlong(cp CodePoint, n int) bool {
	switch {
	case cp < 0x80:
		return n != 1
	case cp < 0x800:
		return n != 2
	case cp < 0x10000:
		return n != 3
	}
	return false
}

func isTrail(b byte) bool {
	return b>>6 == 0x2
}

// Decode decodes the first sequence of b. On success it returns the code point
// and the exact number of bytes consumed. On failure the returned count is the
// number of bytes examined before the error was detected, never more than len(b).
func Decode(b []byte) (CodePoint, int, error) {
	if len(b) == 0 {
		return 0, 0, scanerr.New(scanerr.EndOfRange, "no bytes to decode")
	}

	n := SequenceLength(b[0])
	if n == 0 {
		return 0, 1, scanerr.New(scanerr.InvalidEncoding, "invalid lead byte for utf8")
	}

	cp := CodePoint(b[0])
	switch n {
	case 2:
		cp &= 0x1f
	case 3:
		cp &= 0x0f
	case 4:
		cp &= 0x07
	}

	for i := 1; i < n; i++ {
		if i == len(b) {
			return 0, i, scanerr.New(scanerr.InvalidEncoding, "unexpected end of range when decoding utf8 (partial code point)")
		}
		if !isTrail(b[i]) {
			return 0, i + 1, scanerr.New(scanerr.InvalidEncoding, "invalid utf8 continuation byte")
		}
		cp = cp<<6 | CodePoint(b[i]&0x3f)
	}

	if !IsValid(cp) || IsOverlong(cp, n) {
		return 0, n, scanerr.Errorf(scanerr.InvalidEncoding, "invalid utf8 code point U+%04X", uint32(cp))
	}
	return cp, n, nil
}

// DecodeString is Decode for string input.
func DecodeString(s string) (CodePoint, int, error) {
	var buf [MaxSequenceLength]byte
	n := copy(buf[:], s)
	return Decode(buf[:n])
}

// Encode appends the UTF-8 encoding of cp to dst. Invalid code points are
// encoded as-is, which is only useful for building malformed test input.
func Encode(dst []byte, cp CodePoint) []byte {
	switch {
	case cp < 0x80:
		return append(dst, byte(cp))
	case cp < 0x800:
		return append(dst, 0xc0|byte(cp>>6), 0x80|byte(cp)&0x3f)
	case cp < 0x10000:
		return append(dst, 0xe0|byte(cp>>12), 0x80|byte(cp>>6)&0x3f, 0x80|byte(cp)&0x3f)
	}
	return append(dst, 0xf0|byte(cp>>18)&0x07, 0x80|byte(cp>>12)&0x3f, 0x80|byte(cp>>6)&0x3f, 0x80|byte(cp)&0x3f)
}

// Len returns the number of bytes needed to encode cp.
func Len(cp CodePoint) int {
	switch {
	case cp < 0x80:
		return 1
	case cp < 0x800:
		return 2
	case cp < 0x10000:
		return 3
	}
	return 4
}
