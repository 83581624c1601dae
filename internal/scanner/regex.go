// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"errors"
	"io"

	"github.com/grafana/regexp"

	"github.com/open-edge-platform/o11y-scanner/internal/codepoint"
	"github.com/open-edge-platform/o11y-scanner/internal/cursor"
	"github.com/open-edge-platform/o11y-scanner/internal/format"
	"github.com/open-edge-platform/o11y-scanner/internal/scanerr"
)

// RegexMatch is one capture of a regex scan. The first entry of RegexMatches is
// always the whole match.
type RegexMatch struct {
	Name    string
	Value   string
	Matched bool
}

// RegexMatches holds the whole match followed by every capture group in order.
type RegexMatches []RegexMatch

// RegexScanner reads the anchored match of the pattern given as /.../ in its field.
type RegexScanner struct {
	flags
	re *regexp.Regexp
}

func (s *RegexScanner) Parse(field string) (int, error) {
	*s = RegexScanner{}
	var pattern string
	common, n, err := format.Parse(field, format.Spec{Pattern: &pattern})
	if err != nil {
		return 0, err
	}
	if pattern == "" {
		return 0, scanerr.New(scanerr.InvalidFormatString, "regex matches require a /pattern/ in the format specifier")
	}
	re, err := compile(pattern)
	if err != nil {
		return 0, err
	}
	s.common = common
	s.re = re
	return n, nil
}

// SkipsWhitespace is false; the pattern decides what leading input it accepts.
func (*RegexScanner) SkipsWhitespace() bool { return false }

func (s *RegexScanner) Scan(ctx *Context, dst *RegexMatches) error {
	text, loc, err := matchRegex(ctx.Cursor, s.re)
	if err != nil {
		return err
	}

	names := s.re.SubexpNames()
	matches := make(RegexMatches, len(loc)/2)
	for i := range matches {
		matches[i].Name = names[i]
		if loc[2*i] < 0 {
			continue
		}
		matches[i].Value = text[loc[2*i]:loc[2*i+1]]
		matches[i].Matched = true
	}
	*dst = matches
	return nil
}

func compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, scanerr.Errorf(scanerr.InvalidFormatString, "invalid regular expression: %v", err)
	}
	return re, nil
}

// recordingReader stops at the first decoding error and keeps it, since the
// regex engine treats any reader error as the end of input.
type recordingReader struct {
	r   io.RuneReader
	err error
}

func (r *recordingReader) ReadRune() (rune, int, error) {
	if r.err != nil {
		return 0, 0, r.err
	}
	ch, n, err := r.r.ReadRune()
	if err != nil && !errors.Is(err, io.EOF) {
		r.err = err
	}
	return ch, n, err
}

// matchRegex matches re at the cursor position and consumes exactly the match.
// It returns the consumed text and the submatch byte offsets into it.
func matchRegex(c cursor.Cursor, re *regexp.Regexp) (string, []int, error) {
	start := c.Checkpoint()
	rr := &recordingReader{r: cursor.AsRuneReader(c)}
	loc := re.FindReaderSubmatchIndex(rr)

	// The engine reads past the end of the match.
	if err := c.Rewind(start); err != nil {
		return "", nil, err
	}
	if rr.err != nil {
		return "", nil, rr.err
	}
	if loc == nil {
		if _, err := c.ReadOne(); err != nil {
			return "", nil, err
		}
		if err := c.PutbackN(1); err != nil {
			return "", nil, err
		}
		return "", nil, scanerr.New(scanerr.InvalidScannedValue, "regular expression didn't match")
	}

	buf := make([]byte, 0, loc[1])
	for len(buf) < loc[1] {
		r, err := c.ReadOne()
		if err != nil {
			return "", nil, restore(c, start, err)
		}
		buf = codepoint.Encode(buf, codepoint.CodePoint(r))
	}
	return string(buf), loc, nil
}
