// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package locale

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassic(t *testing.T) {
	require.Equal(t, Names{True: "true", False: "false"}, Classic.Static())
	require.Equal(t, Classic.Static(), Classic.Localized())
	require.True(t, Classic.IsSpace('\t', true))
	require.False(t, Classic.IsSpace(' ', true))
	require.True(t, Classic.IsDigit('7', false))
	require.False(t, Classic.IsDigit('٧', true))
	require.Equal(t, '.', Classic.DecimalPoint(true))

	v, ok := Classic.DigitValue('9', false)
	require.True(t, ok)
	require.Equal(t, 9, v)
}

func TestBuiltinLookup(t *testing.T) {
	table := Builtin()

	tests := map[string]struct {
		tag           string
		expectedTag   string
		expectedNames Names
	}{
		"Exact tag":          {tag: "de", expectedTag: "de", expectedNames: Names{True: "wahr", False: "falsch"}},
		"Regional variant":   {tag: "de-AT", expectedTag: "de", expectedNames: Names{True: "wahr", False: "falsch"}},
		"Arabic":             {tag: "ar-EG", expectedTag: "ar-EG", expectedNames: Names{True: "صحيح", False: "خطأ"}},
		"Non-ASCII names":    {tag: "fi", expectedTag: "fi", expectedNames: Names{True: "tosi", False: "epätosi"}},
		"English is builtin": {tag: "en-US", expectedTag: "en", expectedNames: Names{True: "true", False: "false"}},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			l, ok := table.Lookup(test.tag)
			require.True(t, ok)
			require.Equal(t, test.expectedTag, l.(Localized).Tag.String())
			require.Equal(t, test.expectedNames, l.Localized())
			require.Equal(t, Names{True: "true", False: "false"}, l.Static())
		})
	}

	t.Run("Unknown language", func(t *testing.T) {
		_, ok := table.Lookup("ja")
		require.False(t, ok)
	})

	t.Run("Malformed tag", func(t *testing.T) {
		_, ok := table.Lookup("not a tag!")
		require.False(t, ok)
	})
}

func TestLocalizedDigitsAndSpaces(t *testing.T) {
	l, ok := Builtin().Lookup("ar-EG")
	require.True(t, ok)

	v, ok := l.DigitValue('٣', true)
	require.True(t, ok)
	require.Equal(t, 3, v)

	_, ok = l.DigitValue('٣', false)
	require.False(t, ok)

	v, ok = l.DigitValue('3', true)
	require.True(t, ok)
	require.Equal(t, 3, v)

	require.True(t, l.IsSpace(' ', true))
	require.False(t, l.IsSpace(' ', false))
	require.Equal(t, '٫', l.DecimalPoint(true))
	require.Equal(t, '.', l.DecimalPoint(false))
}

func TestParseTable(t *testing.T) {
	tests := map[string]struct {
		data          string
		expectedError string
	}{
		"Valid": {
			data: "locales:\n  - tag: nl\n    names: {\"true\": waar, \"false\": onwaar}\n",
		},
		"Malformed yaml": {
			data:          "locales: : :",
			expectedError: "failed to unmarshal",
		},
		"Empty table": {
			data:          "locales: []",
			expectedError: "locale table is empty",
		},
		"Invalid tag": {
			data:          "locales:\n  - tag: \"!!\"\n    names: {\"true\": a, \"false\": b}\n",
			expectedError: "invalid tag",
		},
		"Missing name": {
			data:          "locales:\n  - tag: nl\n    names: {\"true\": waar}\n",
			expectedError: "both boolean names are required",
		},
		"Identical names": {
			data:          "locales:\n  - tag: nl\n    names: {\"true\": x, \"false\": x}\n",
			expectedError: "boolean names must differ",
		},
		"Zero is not a digit": {
			data:          "locales:\n  - tag: nl\n    names: {\"true\": a, \"false\": b}\n    zero: z\n",
			expectedError: "does not start a run of ten decimal digits",
		},
		"Decimal point too long": {
			data:          "locales:\n  - tag: nl\n    names: {\"true\": a, \"false\": b}\n    decimalPoint: \",,\"\n",
			expectedError: "is not a single character",
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			table, err := ParseTable([]byte(test.data))
			if test.expectedError != "" {
				require.ErrorContains(t, err, test.expectedError)
				return
			}
			require.NoError(t, err)
			require.Equal(t, []string{"nl"}, table.Tags())
		})
	}
}

func TestLoadTable(t *testing.T) {
	t.Run("Valid file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "locales.yaml")
		require.NoError(t, os.WriteFile(file, []byte("locales:\n  - tag: it\n    names: {\"true\": vero, \"false\": falso}\n"), 0o600))

		table, err := LoadTable(file)
		require.NoError(t, err)
		l, ok := table.Lookup("it-CH")
		require.True(t, ok)
		require.Equal(t, "vero", l.Localized().True)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadTable(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorContains(t, err, "failed to read file")
	})
}
