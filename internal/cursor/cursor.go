// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

// Package cursor provides backtrackable character cursors over contiguous and streamed input.
//
// A character is one decoded code point. Every read that fails leaves the cursor
// where it was before the read started, so a scanner can retry the same input
// under different assumptions.
package cursor

import (
	"errors"
	"io"

	"github.com/open-edge-platform/o11y-scanner/internal/codepoint"
	"github.com/open-edge-platform/o11y-scanner/internal/scanerr"
)

// Cursor is a read position over a sequence of code points.
type Cursor interface {
	// ReadOne returns the next code point. It fails with EndOfRange on empty
	// input and InvalidEncoding on malformed input, consuming nothing in both cases.
	ReadOne() (rune, error)

	// ReadUntil appends code points to sink until pred matches or input ends.
	// If keepDelimiter is false the matching code point is neither appended nor
	// consumed. Reaching the end of input is not an error.
	ReadUntil(pred func(rune) bool, keepDelimiter bool, sink *[]rune) error

	// ReadZeroCopy returns a view of up to n code points and their count without
	// copying. A cursor that has no contiguous storage returns ("", 0, nil), and
	// the caller is expected to fall back to ReadInto.
	ReadZeroCopy(n int) (string, int, error)

	// ReadInto reads exactly len(dst) code points into dst. On failure the cursor
	// is unchanged and the contents of dst are unspecified.
	ReadInto(dst []rune) error

	// PutbackN rewinds the cursor by n code points. Rewinding past the last commit
	// fails with InvalidOperation and leaves the cursor untouched.
	PutbackN(n int) error

	// Checkpoint marks the current position for a later Rewind.
	Checkpoint() Mark

	// Rewind restores a position returned by Checkpoint.
	Rewind(m Mark) error

	// Commit declares everything read so far final; later rewinds cannot cross it.
	Commit()

	// Position returns the number of code points consumed.
	Position() int
}

// Mark is a position captured by Checkpoint.
type Mark struct {
	pos int
}

// Position returns the code point offset the mark refers to.
func (m Mark) Position() int {
	return m.pos
}

var errEOF = scanerr.New(scanerr.EndOfRange, "EOF")

func rewindTo(c Cursor, m Mark) error {
	n := c.Position() - m.pos
	if n < 0 {
		return scanerr.Errorf(scanerr.InvalidOperation, "cannot rewind forward from %d to %d", c.Position(), m.pos)
	}
	return c.PutbackN(n)
}

func readUntil(c Cursor, pred func(rune) bool, keepDelimiter bool, sink *[]rune) error {
	start := c.Checkpoint()
	size := len(*sink)
	for {
		r, err := c.ReadOne()
		if errors.Is(err, scanerr.EndOfRange) {
			return nil
		}
		if err != nil {
			*sink = (*sink)[:size]
			if rerr := c.Rewind(start); rerr != nil {
				return rerr
			}
			return err
		}
		if pred(r) {
			if keepDelimiter {
				*sink = append(*sink, r)
				return nil
			}
			return c.PutbackN(1)
		}
		*sink = append(*sink, r)
	}
}

func readInto(c Cursor, dst []rune) error {
	start := c.Checkpoint()
	for i := range dst {
		r, err := c.ReadOne()
		if err != nil {
			if rerr := c.Rewind(start); rerr != nil {
				return rerr
			}
			return err
		}
		dst[i] = r
	}
	return nil
}

type runeReader struct {
	c Cursor
}

// AsRuneReader adapts c to io.RuneReader. Every rune handed out is consumed
// from c; callers checkpoint beforehand if they need to rewind.
func AsRuneReader(c Cursor) io.RuneReader {
	return runeReader{c: c}
}

func (r runeReader) ReadRune() (rune, int, error) {
	ch, err := r.c.ReadOne()
	if errors.Is(err, scanerr.EndOfRange) {
		return 0, 0, io.EOF
	}
	if err != nil {
		return 0, 0, err
	}
	return ch, codepoint.Len(codepoint.CodePoint(ch)), nil
}
