// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package locale

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales.yaml
var builtinLocales []byte

// Definition describes one locale in a table file.
type Definition struct {
	Tag          string `yaml:"tag"`
	Names        Names  `yaml:"names"`
	Zero         string `yaml:"zero"`
	DecimalPoint string `yaml:"decimalPoint"`
}

type tableFile struct {
	Locales []Definition `yaml:"locales"`
}

// Table is an immutable set of locales matched by BCP 47 tag.
// It is safe for concurrent use.
type Table struct {
	tags    []language.Tag
	locales []Localized
	matcher language.Matcher
}

// Localized is a locale built from a Definition.
type Localized struct {
	Tag   language.Tag
	names Names
	zero  rune
	point rune
}

var _ Locale = Localized{}

func (l Localized) Static() Names    { return staticNames }
func (l Localized) Localized() Names { return l.names }

func (l Localized) IsSpace(r rune, localized bool) bool {
	if localized {
		return unicode.IsSpace(r)
	}
	return isClassicSpace(r)
}

func (l Localized) IsDigit(r rune, localized bool) bool {
	_, ok := l.DigitValue(r, localized)
	return ok
}

func (l Localized) DigitValue(r rune, localized bool) (int, bool) {
	if localized && r >= l.zero && r <= l.zero+9 {
		return int(r - l.zero), true
	}
	return classicDigit(r)
}

func (l Localized) DecimalPoint(localized bool) rune {
	if localized {
		return l.point
	}
	return '.'
}

// Builtin returns the table shipped with the module.
func Builtin() *Table {
	t, err := ParseTable(builtinLocales)
	if err != nil {
		panic(fmt.Sprintf("builtin locale table is invalid: %v", err))
	}
	return t
}

// LoadTable reads a locale table from a YAML file.
func LoadTable(file string) (*Table, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", file, err)
	}
	return ParseTable(data)
}

// ParseTable builds a table from YAML.
func ParseTable(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal: %w", err)
	}
	if len(f.Locales) == 0 {
		return nil, errors.New("locale table is empty")
	}

	t := &Table{}
	for _, def := range f.Locales {
		l, err := def.build()
		if err != nil {
			return nil, fmt.Errorf("locale %q: %w", def.Tag, err)
		}
		t.tags = append(t.tags, l.Tag)
		t.locales = append(t.locales, l)
	}
	t.matcher = language.NewMatcher(t.tags)
	return t, nil
}

func (def Definition) build() (Localized, error) {
	tag, err := language.Parse(def.Tag)
	if err != nil {
		return Localized{}, fmt.Errorf("invalid tag: %w", err)
	}
	if def.Names.True == "" || def.Names.False == "" {
		return Localized{}, errors.New("both boolean names are required")
	}
	if def.Names.True == def.Names.False {
		return Localized{}, errors.New("boolean names must differ")
	}

	l := Localized{Tag: tag, names: def.Names, zero: '0', point: '.'}
	if def.Zero != "" {
		if l.zero, err = singleRune(def.Zero); err != nil {
			return Localized{}, fmt.Errorf("zero: %w", err)
		}
		if !unicode.IsDigit(l.zero) || !unicode.IsDigit(l.zero+9) {
			return Localized{}, fmt.Errorf("zero %q does not start a run of ten decimal digits", def.Zero)
		}
	}
	if def.DecimalPoint != "" {
		if l.point, err = singleRune(def.DecimalPoint); err != nil {
			return Localized{}, fmt.Errorf("decimalPoint: %w", err)
		}
	}
	return l, nil
}

func singleRune(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("%q is not a single character", s)
	}
	return r, nil
}

// Lookup returns the best locale for tag, or false if nothing in the table is close enough.
func (t *Table) Lookup(tag string) (Locale, bool) {
	want, err := language.Parse(tag)
	if err != nil {
		return nil, false
	}
	_, idx, conf := t.matcher.Match(want)
	if conf == language.No {
		return nil, false
	}
	return t.locales[idx], true
}

// Tags lists the locales of the table in file order.
func (t *Table) Tags() []string {
	tags := make([]string, 0, len(t.tags))
	for _, tag := range t.tags {
		tags = append(tags, tag.String())
	}
	return tags
}
