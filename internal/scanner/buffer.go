// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"github.com/open-edge-platform/o11y-scanner/internal/format"
	"github.com/open-edge-platform/o11y-scanner/internal/scanerr"
)

// smallBuffer is the size of the stack buffer used when the cursor has no
// contiguous storage.
const smallBuffer = 32

// BufferScanner fills a fixed-size destination with exactly len(dst) code points.
type BufferScanner struct {
	flags
}

func (s *BufferScanner) Parse(field string) (int, error) {
	*s = BufferScanner{}
	common, n, err := format.Parse(field, format.Spec{})
	if err != nil {
		return 0, err
	}
	s.common = common
	return n, nil
}

// Scan prefers a zero-copy read. A short zero-copy read fails with EndOfRange
// instead of retrying through a copy. The destination is only written on success.
func (s *BufferScanner) Scan(ctx *Context, dst *[]rune) error {
	buf := *dst
	if len(buf) == 0 {
		return nil
	}

	c := ctx.Cursor
	mark := c.Checkpoint()
	view, n, err := c.ReadZeroCopy(len(buf))
	if err != nil {
		return err
	}
	if n != 0 {
		if n != len(buf) {
			return restore(c, mark, scanerr.New(scanerr.EndOfRange, "EOF"))
		}
		i := 0
		for _, r := range view {
			buf[i] = r
			i++
		}
		return nil
	}

	var small [smallBuffer]rune
	var tmp []rune
	if len(buf) <= len(small) {
		tmp = small[:len(buf)]
	} else {
		tmp = make([]rune, len(buf))
	}
	if err := c.ReadInto(tmp); err != nil {
		return err
	}
	copy(buf, tmp)
	return nil
}
