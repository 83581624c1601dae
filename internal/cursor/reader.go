// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package cursor

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/open-edge-platform/o11y-scanner/internal/codepoint"
	"github.com/open-edge-platform/o11y-scanner/internal/scanerr"
)

// Reader is a cursor over a stream. It keeps every code point read since the
// last commit so that any rewind back to the commit point can be replayed.
type Reader struct {
	r *bufio.Reader

	// hist holds code points read since the last commit, followed by the ones
	// put back. The last back entries are replayed before touching r.
	hist      []rune
	back      int
	pos       int
	committed int
}

// NewReader returns a cursor reading from r.
func NewReader(r io.Reader) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{r: br}
}

func (c *Reader) ReadOne() (rune, error) {
	if c.back > 0 {
		ch := c.hist[len(c.hist)-c.back]
		c.back--
		c.pos++
		return ch, nil
	}

	lead, err := c.r.Peek(1)
	if err != nil {
		return 0, sourceError(err)
	}
	n := codepoint.SequenceLength(lead[0])
	if n == 0 {
		n = 1
	}
	// A short peek at end of input is handed to the decoder, which reports
	// the partial sequence.
	buf, err := c.r.Peek(n)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, sourceError(err)
	}
	cp, size, err := codepoint.Decode(buf)
	if err != nil {
		return 0, err
	}
	if _, err := c.r.Discard(size); err != nil {
		return 0, sourceError(err)
	}
	c.hist = append(c.hist, rune(cp))
	c.pos++
	return rune(cp), nil
}

func sourceError(err error) error {
	if errors.Is(err, io.EOF) {
		return errEOF
	}
	return scanerr.Errorf(scanerr.EndOfRange, "input source failed: %v", err)
}

func (c *Reader) ReadUntil(pred func(rune) bool, keepDelimiter bool, sink *[]rune) error {
	return readUntil(c, pred, keepDelimiter, sink)
}

// ReadZeroCopy always reports that no contiguous view is available.
func (c *Reader) ReadZeroCopy(int) (string, int, error) {
	return "", 0, nil
}

func (c *Reader) ReadInto(dst []rune) error {
	return readInto(c, dst)
}

func (c *Reader) PutbackN(n int) error {
	if n < 0 || n > c.pos-c.committed {
		return scanerr.Errorf(scanerr.InvalidOperation, "cannot put back %d characters, %d available", n, c.pos-c.committed)
	}
	c.back += n
	c.pos -= n
	return nil
}

func (c *Reader) Checkpoint() Mark {
	return Mark{pos: c.pos}
}

func (c *Reader) Rewind(m Mark) error {
	return rewindTo(c, m)
}

func (c *Reader) Commit() {
	c.hist = append(c.hist[:0], c.hist[len(c.hist)-c.back:]...)
	c.committed = c.pos
}

func (c *Reader) Position() int {
	return c.pos
}

// Rest returns a reader over the unconsumed input, including put back code points.
func (c *Reader) Rest() io.Reader {
	if c.back == 0 {
		return c.r
	}
	return io.MultiReader(strings.NewReader(string(c.hist[len(c.hist)-c.back:])), c.r)
}
