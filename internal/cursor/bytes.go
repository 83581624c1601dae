// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package cursor

import (
	"github.com/open-edge-platform/o11y-scanner/internal/codepoint"
	"github.com/open-edge-platform/o11y-scanner/internal/scanerr"
)

// Bytes is a cursor over contiguous UTF-8 text. It supports zero-copy reads.
type Bytes struct {
	src       string
	off       int
	pos       int
	committed int
}

// NewBytes returns a cursor positioned at the start of src.
func NewBytes(src string) *Bytes {
	return &Bytes{src: src}
}

func (b *Bytes) ReadOne() (rune, error) {
	if b.off >= len(b.src) {
		return 0, errEOF
	}
	cp, n, err := codepoint.DecodeString(b.src[b.off:])
	if err != nil {
		return 0, err
	}
	b.off += n
	b.pos++
	return rune(cp), nil
}

func (b *Bytes) ReadUntil(pred func(rune) bool, keepDelimiter bool, sink *[]rune) error {
	return readUntil(b, pred, keepDelimiter, sink)
}

func (b *Bytes) ReadZeroCopy(n int) (string, int, error) {
	if n <= 0 {
		return "", 0, nil
	}
	if b.off >= len(b.src) {
		return "", 0, errEOF
	}
	start := b.off
	end := b.off
	count := 0
	for count < n && end < len(b.src) {
		_, size, err := codepoint.DecodeString(b.src[end:])
		if err != nil {
			return "", 0, err
		}
		end += size
		count++
	}
	b.off = end
	b.pos += count
	return b.src[start:end], count, nil
}

func (b *Bytes) ReadInto(dst []rune) error {
	return readInto(b, dst)
}

func (b *Bytes) PutbackN(n int) error {
	if n < 0 || n > b.pos-b.committed {
		return scanerr.Errorf(scanerr.InvalidOperation, "cannot put back %d characters, %d available", n, b.pos-b.committed)
	}
	// Consumed input was validated on the way in, so stepping over
	// continuation bytes lands on sequence starts.
	for ; n > 0; n-- {
		b.off--
		for b.off > 0 && b.src[b.off]>>6 == 0x2 {
			b.off--
		}
		b.pos--
	}
	return nil
}

func (b *Bytes) Checkpoint() Mark {
	return Mark{pos: b.pos}
}

func (b *Bytes) Rewind(m Mark) error {
	return rewindTo(b, m)
}

func (b *Bytes) Commit() {
	b.committed = b.pos
}

func (b *Bytes) Position() int {
	return b.pos
}

// Rest returns the unconsumed input.
func (b *Bytes) Rest() string {
	return b.src[b.off:]
}

// Offset returns the byte offset of the read position.
func (b *Bytes) Offset() int {
	return b.off
}
