// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

// Package scan reads typed values from text as directed by a format string.
//
//	var name string
//	var age int
//	res, err := scan.Scan("alice 42", "{} {}", &name, &age)
//
// Each {} field is filled by the next argument. A field may carry flags after
// a colon, such as "{:x}" for a hexadecimal integer or "{:/[a-z]+/}" for a
// regular expression. Whitespace in the format matches any amount of input
// whitespace and every other character must match the input exactly.
package scan

import (
	"io"
	"log/slog"

	"github.com/open-edge-platform/o11y-scanner/internal/cursor"
	"github.com/open-edge-platform/o11y-scanner/internal/locale"
	"github.com/open-edge-platform/o11y-scanner/internal/scanerr"
	"github.com/open-edge-platform/o11y-scanner/internal/scanner"
)

type (
	// Locale supplies boolean names, digits, whitespace and the decimal point.
	Locale = locale.Locale
	// Context is handed to Scannable implementations.
	Context = scanner.Context
	// Scannable is implemented by types that scan themselves.
	Scannable = scanner.Scannable
	// RegexMatch is one capture of a "{:/.../}" field.
	RegexMatch = scanner.RegexMatch
	// RegexMatches receives the whole match followed by every capture group.
	RegexMatches = scanner.RegexMatches
	// Error is the error type returned by every scan.
	Error = scanerr.Error
	// Kind classifies an Error.
	Kind = scanerr.Kind
)

// Error kinds, usable with errors.Is.
const (
	EndOfRange          = scanerr.EndOfRange
	InvalidEncoding     = scanerr.InvalidEncoding
	InvalidFormatString = scanerr.InvalidFormatString
	InvalidScannedValue = scanerr.InvalidScannedValue
	InvalidOperation    = scanerr.InvalidOperation
)

// Classic is the locale-independent locale used by default.
var Classic = locale.Classic

// Scanner holds the settings shared by scan calls. The zero value is not
// usable; create one with New.
type Scanner struct {
	locale Locale
	logger *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLocale selects the locale consulted by fields with the L flag.
func WithLocale(l Locale) Option {
	return func(s *Scanner) {
		s.locale = l
	}
}

// WithLogger sets the logger receiving per-argument debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// New returns a Scanner using the classic locale and discarding log records
// unless configured otherwise.
func New(opts ...Option) *Scanner {
	s := &Scanner{locale: locale.Classic, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultScanner = New()

// Result describes a scan over a string.
type Result struct {
	rest string

	// Consumed is the number of code points read from the input.
	Consumed int
	// Scanned is the number of arguments filled.
	Scanned int
}

// Remaining returns the input left after the scan.
func (r Result) Remaining() string {
	return r.rest
}

// ReaderResult describes a scan over an io.Reader.
type ReaderResult struct {
	// Rest yields the input left after the scan, including anything buffered.
	Rest io.Reader

	Consumed int
	Scanned  int
}

// Scan fills args from input with the default Scanner.
func Scan(input, format string, args ...any) (Result, error) {
	return defaultScanner.Scan(input, format, args...)
}

// ScanReader fills args from r with the default Scanner.
func ScanReader(r io.Reader, format string, args ...any) (ReaderResult, error) {
	return defaultScanner.ScanReader(r, format, args...)
}

// Scan fills args from input. On error the result still reports the arguments
// filled before the failure, and the remaining input starts where the failed
// argument began.
func (s *Scanner) Scan(input, format string, args ...any) (Result, error) {
	c := cursor.NewBytes(input)
	n, err := s.run(c, format, args)
	return Result{rest: c.Rest(), Consumed: c.Position(), Scanned: n}, err
}

// ScanReader fills args from r. Input is read through a buffer, so r may have
// been read past the scanned text; use ReaderResult.Rest to continue.
func (s *Scanner) ScanReader(r io.Reader, format string, args ...any) (ReaderResult, error) {
	c := cursor.NewReader(r)
	n, err := s.run(c, format, args)
	return ReaderResult{Rest: c.Rest(), Consumed: c.Position(), Scanned: n}, err
}

func (s *Scanner) run(c cursor.Cursor, format string, dsts []any) (int, error) {
	args, err := arguments(dsts)
	if err != nil {
		return 0, err
	}
	return scanner.Run(scanner.NewContext(c, s.locale, s.logger), format, args...)
}

// Check validates format against the destinations args without scanning.
func Check(format string, args ...any) error {
	scanArgs, err := arguments(args)
	if err != nil {
		return err
	}
	return scanner.Check(format, scanArgs...)
}

func arguments(dsts []any) ([]scanner.Argument, error) {
	args := make([]scanner.Argument, 0, len(dsts))
	for _, dst := range dsts {
		arg, err := scanner.For(dst)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

// Value scans a single value of type T from input using format, which must
// contain exactly one field.
func Value[T any](input, format string) (T, Result, error) {
	var v T
	res, err := Scan(input, format, &v)
	return v, res, err
}

// LookupLocale returns the builtin locale best matching a BCP 47 tag.
func LookupLocale(tag string) (Locale, error) {
	l, ok := locale.Builtin().Lookup(tag)
	if !ok {
		return nil, scanerr.Errorf(scanerr.InvalidOperation, "no locale matches %q", tag)
	}
	return l, nil
}
