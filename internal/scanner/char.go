// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"github.com/open-edge-platform/o11y-scanner/internal/format"
)

// CharScanner reads exactly one code point. Unlike every other scanner it does
// not skip leading whitespace.
type CharScanner struct {
	flags
	char bool
}

func (s *CharScanner) Parse(field string) (int, error) {
	*s = CharScanner{}
	common, n, err := format.Parse(field, format.Spec{Options: []format.Option{
		format.Flag('c', &s.char),
	}})
	if err != nil {
		return 0, err
	}
	s.common = common
	return n, nil
}

func (*CharScanner) SkipsWhitespace() bool { return false }

func (s *CharScanner) Scan(ctx *Context, dst *rune) error {
	r, err := ctx.Cursor.ReadOne()
	if err != nil {
		return err
	}
	*dst = r
	return nil
}
