// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"errors"

	"github.com/open-edge-platform/o11y-scanner/internal/cursor"
	"github.com/open-edge-platform/o11y-scanner/internal/scanerr"
)

// lookahead reads single code points and remembers the first read error other
// than the end of input.
type lookahead struct {
	c   cursor.Cursor
	err error
}

func (l *lookahead) next() (rune, bool) {
	r, err := l.c.ReadOne()
	if err != nil {
		if !errors.Is(err, scanerr.EndOfRange) && l.err == nil {
			l.err = err
		}
		return 0, false
	}
	return r, true
}

// unread puts back the code point returned by the last successful next.
func (l *lookahead) unread() {
	if err := l.c.PutbackN(1); err != nil && l.err == nil {
		l.err = err
	}
}

// accept consumes the next code point if pred holds for it.
func (l *lookahead) accept(pred func(rune) bool) (rune, bool) {
	r, ok := l.next()
	if !ok {
		return 0, false
	}
	if !pred(r) {
		l.unread()
		return 0, false
	}
	return r, true
}

func is(set string) func(rune) bool {
	return func(r rune) bool {
		for _, c := range set {
			if r == c {
				return true
			}
		}
		return false
	}
}

// restore rewinds c to mark and returns err, unless the rewind itself fails.
func restore(c cursor.Cursor, mark cursor.Mark, err error) error {
	if rerr := c.Rewind(mark); rerr != nil {
		return rerr
	}
	return err
}
