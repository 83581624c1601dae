// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/open-edge-platform/o11y-scanner/internal/cursor"
	"github.com/open-edge-platform/o11y-scanner/internal/locale"
	"github.com/open-edge-platform/o11y-scanner/internal/scanerr"
)

func TestFloatScanner(t *testing.T) {
	tests := map[string]struct {
		field        string
		input        string
		expected     float64
		expectedRest string
		expectedErr  scanerr.Kind
	}{
		"Fixed": {
			field:    "}",
			input:    "3.25",
			expected: 3.25,
		},
		"Leading point": {
			field:    "}",
			input:    ".5",
			expected: 0.5,
		},
		"Trailing point": {
			field:    "}",
			input:    "2.",
			expected: 2,
		},
		"Scientific with trailing text": {
			field:        "}",
			input:        "-2.5e3x",
			expected:     -2500,
			expectedRest: "x",
		},
		"Negative exponent": {
			field:    ":g}",
			input:    "125E-2",
			expected: 1.25,
		},
		"Exponent marker without digits is put back": {
			field:        "}",
			input:        "1e+",
			expected:     1,
			expectedRest: "e+",
		},
		"Fixed form ignores the exponent": {
			field:        ":f}",
			input:        "1.5e3",
			expected:     1.5,
			expectedRest: "e3",
		},
		"Scientific form": {
			field:    ":e}",
			input:    "1.5e3",
			expected: 1500,
		},
		"Hex with exponent": {
			field:    ":a}",
			input:    "0x1.8p1",
			expected: 3,
		},
		"Hex without exponent": {
			field:        ":a}",
			input:        "-0x10 ",
			expected:     -16,
			expectedRest: " ",
		},
		"Infinity": {
			field:    "}",
			input:    "-Infinity",
			expected: math.Inf(-1),
		},
		"Short infinity": {
			field:        "}",
			input:        "info",
			expected:     math.Inf(1),
			expectedRest: "o",
		},
		"Scientific form requires an exponent": {
			field:       ":e}",
			input:       "1.5",
			expectedErr: scanerr.InvalidScannedValue,
		},
		"Hex form requires the prefix": {
			field:       ":a}",
			input:       "1.5",
			expectedErr: scanerr.InvalidScannedValue,
		},
		"Lone point": {
			field:       "}",
			input:       ".",
			expectedErr: scanerr.InvalidScannedValue,
		},
		"Word starting like nan": {
			field:       "}",
			input:       "no",
			expectedErr: scanerr.InvalidScannedValue,
		},
		"Overflow": {
			field:       "}",
			input:       "1e400",
			expectedErr: scanerr.InvalidScannedValue,
		},
		"Empty input": {
			field:       "}",
			input:       "",
			expectedErr: scanerr.EndOfRange,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := bytesContext(test.input)
			s := &FloatScanner[float64]{}
			parseField(t, s, test.field)

			var v float64
			err := s.Scan(ctx, &v)
			if test.expectedErr != 0 {
				require.ErrorIs(t, err, test.expectedErr)
				require.Equal(t, 0, ctx.Cursor.Position())
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.expected, v)
			require.Equal(t, test.expectedRest, rest(t, ctx.Cursor))
		})
	}
}

func TestFloatScannerNaN(t *testing.T) {
	s := &FloatScanner[float32]{}
	parseField(t, s, "}")

	var v float32
	require.NoError(t, s.Scan(bytesContext("NaN"), &v))
	require.True(t, math.IsNaN(float64(v)))
}

func TestFloatScannerFloat32Range(t *testing.T) {
	s := &FloatScanner[float32]{}
	parseField(t, s, "}")

	var v float32
	require.NoError(t, s.Scan(bytesContext("1.5"), &v))
	require.Equal(t, float32(1.5), v)
	require.ErrorIs(t, s.Scan(bytesContext("1e39"), &v), scanerr.InvalidScannedValue)
}

func TestFloatScannerLocalizedPoint(t *testing.T) {
	l, ok := locale.Builtin().Lookup("de")
	require.True(t, ok)

	s := &FloatScanner[float64]{}
	parseField(t, s, ":L}")
	ctx := NewContext(cursor.NewBytes("3,5"), l, nil)
	var v float64
	require.NoError(t, s.Scan(ctx, &v))
	require.Equal(t, 3.5, v)

	s = &FloatScanner[float64]{}
	parseField(t, s, "}")
	ctx = NewContext(cursor.NewBytes("3,5"), l, nil)
	require.NoError(t, s.Scan(ctx, &v))
	require.Equal(t, 3.0, v)
	require.Equal(t, ",5", rest(t, ctx.Cursor))
}

func TestFloatScannerParse(t *testing.T) {
	_, err := (&FloatScanner[float64]{}).Parse(":ef}")
	require.ErrorIs(t, err, scanerr.InvalidFormatString)

	_, err = (&FloatScanner[float64]{}).Parse(":x}")
	require.ErrorIs(t, err, scanerr.InvalidFormatString)
}
