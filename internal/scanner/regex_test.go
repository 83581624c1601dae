// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/open-edge-platform/o11y-scanner/internal/scanerr"
)

func TestStringScanner(t *testing.T) {
	contexts := map[string]func(string) *Context{
		"Bytes":  bytesContext,
		"Reader": readerContext,
	}
	tests := map[string]struct {
		field        string
		input        string
		expected     string
		expectedRest string
		expectedErr  scanerr.Kind
	}{
		"Word": {
			field:        "}",
			input:        "hello world",
			expected:     "hello",
			expectedRest: " world",
		},
		"Word up to the end": {
			field:    "}",
			input:    "naïve",
			expected: "naïve",
		},
		"Regex": {
			field:        ":/([a-zA-Z]+)/}",
			input:        "foobar123",
			expected:     "foobar",
			expectedRest: "123",
		},
		"Regex with escaped slash": {
			field:        `:/[0-9]+\/[0-9]+/}`,
			input:        "3/4 cup",
			expected:     "3/4",
			expectedRest: " cup",
		},
		"Regex matches at the cursor only": {
			field:       ":/[0-9]+/}",
			input:       "abc123",
			expectedErr: scanerr.InvalidScannedValue,
		},
		"Regex on empty input": {
			field:       ":/[a-z]+/}",
			input:       "",
			expectedErr: scanerr.EndOfRange,
		},
		"Word at whitespace": {
			field:       "}",
			input:       " x",
			expectedErr: scanerr.InvalidScannedValue,
		},
		"Word on empty input": {
			field:       "}",
			input:       "",
			expectedErr: scanerr.EndOfRange,
		},
	}

	for cname, newContext := range contexts {
		for name, test := range tests {
			t.Run(cname+"/"+name, func(t *testing.T) {
				ctx := newContext(test.input)
				s := &StringScanner{}
				parseField(t, s, test.field)

				var v string
				err := s.Scan(ctx, &v)
				if test.expectedErr != 0 {
					require.ErrorIs(t, err, test.expectedErr)
					require.Equal(t, test.input, rest(t, ctx.Cursor))
					return
				}
				require.NoError(t, err)
				require.Equal(t, test.expected, v)
				require.Equal(t, test.expectedRest, rest(t, ctx.Cursor))
			})
		}
	}
}

func TestStringScannerWhitespace(t *testing.T) {
	s := &StringScanner{}
	parseField(t, s, "}")
	require.True(t, s.SkipsWhitespace())

	parseField(t, s, ":/a/}")
	require.False(t, s.SkipsWhitespace())
}

func TestRegexScanner(t *testing.T) {
	tests := map[string]struct {
		field        string
		input        string
		expected     RegexMatches
		expectedRest string
	}{
		"Whole match and group": {
			field: ":/([a-zA-Z]+)/}",
			input: "foobar123",
			expected: RegexMatches{
				{Value: "foobar", Matched: true},
				{Value: "foobar", Matched: true},
			},
			expectedRest: "123",
		},
		"Named group": {
			field: ":/(?P<word>[a-z]+)(?P<num>[0-9]+)/}",
			input: "abc42 x",
			expected: RegexMatches{
				{Value: "abc42", Matched: true},
				{Name: "word", Value: "abc", Matched: true},
				{Name: "num", Value: "42", Matched: true},
			},
			expectedRest: " x",
		},
		"Unmatched optional group": {
			field: ":/([a-z]+)(-[0-9]+)?/}",
			input: "abc x",
			expected: RegexMatches{
				{Value: "abc", Matched: true},
				{Value: "abc", Matched: true},
				{},
			},
			expectedRest: " x",
		},
		"Multi-byte input": {
			field: ":/(\\pL+)/}",
			input: "héllo!",
			expected: RegexMatches{
				{Value: "héllo", Matched: true},
				{Value: "héllo", Matched: true},
			},
			expectedRest: "!",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := bytesContext(test.input)
			s := &RegexScanner{}
			parseField(t, s, test.field)
			require.False(t, s.SkipsWhitespace())

			var v RegexMatches
			require.NoError(t, s.Scan(ctx, &v))
			if diff := cmp.Diff(test.expected, v); diff != "" {
				t.Errorf("unexpected matches (-want +got):\n%s", diff)
			}
			require.Equal(t, test.expectedRest, rest(t, ctx.Cursor))
		})
	}
}

func TestRegexScannerParse(t *testing.T) {
	tests := map[string]string{
		"Missing pattern":   "}",
		"Empty pattern":     ":///}",
		"Invalid pattern":   ":/(/}",
		"Two patterns":      ":/a//b/}",
		"Unterminated":      ":/abc}",
		"Unrecognized flag": ":s/a/}",
	}

	for name, field := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := (&RegexScanner{}).Parse(field)
			require.ErrorIs(t, err, scanerr.InvalidFormatString)
		})
	}
}

func TestRegexScannerMalformedInput(t *testing.T) {
	ctx := bytesContext("ab\xffcd")
	s := &RegexScanner{}
	parseField(t, s, ":/[a-z]+/}")

	var v RegexMatches
	require.ErrorIs(t, s.Scan(ctx, &v), scanerr.InvalidEncoding)
	require.Equal(t, 0, ctx.Cursor.Position())
	require.Nil(t, v)
}
