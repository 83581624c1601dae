// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

// Package locale supplies the static and localized character facts consumed by scanners.
package locale

// Names holds the literal spellings of the boolean values.
type Names struct {
	True  string `yaml:"true"`
	False string `yaml:"false"`
}

// Locale is the read-only view a scanner consults. The localized argument of
// each predicate selects between the static (classic) and the localized rules.
type Locale interface {
	// Static returns the fixed boolean names, independent of any locale.
	Static() Names

	// Localized returns the boolean names of this locale.
	Localized() Names

	IsSpace(r rune, localized bool) bool
	IsDigit(r rune, localized bool) bool

	// DigitValue returns the numeric value of r if it is a decimal digit.
	DigitValue(r rune, localized bool) (int, bool)

	DecimalPoint(localized bool) rune
}

// Classic is the locale-independent view. Its localized rules equal its static ones.
var Classic Locale = classic{}

var staticNames = Names{True: "true", False: "false"}

type classic struct{}

func (classic) Static() Names    { return staticNames }
func (classic) Localized() Names { return staticNames }

func (classic) IsSpace(r rune, _ bool) bool {
	return isClassicSpace(r)
}

func (classic) IsDigit(r rune, _ bool) bool {
	return r >= '0' && r <= '9'
}

func (classic) DigitValue(r rune, _ bool) (int, bool) {
	return classicDigit(r)
}

func (classic) DecimalPoint(bool) rune { return '.' }

func isClassicSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func classicDigit(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	return 0, false
}
