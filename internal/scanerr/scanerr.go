// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

// Package scanerr defines the closed set of error kinds reported by the scanning engine.
package scanerr

import (
	"errors"
	"fmt"
)

// Kind classifies a scanning failure. Callers branch on the kind, never on the message.
type Kind int

const (
	// EndOfRange reports that input was exhausted before a read could be satisfied.
	EndOfRange Kind = iota + 1
	// InvalidEncoding reports a malformed UTF-8 byte sequence.
	InvalidEncoding
	// InvalidFormatString reports malformed or conflicting options inside a {...} token.
	InvalidFormatString
	// InvalidScannedValue reports well-formed input that does not fit the target type.
	InvalidScannedValue
	// InvalidOperation reports a violated cursor contract, e.g. rewinding past the last commit.
	InvalidOperation
)

func (k Kind) String() string {
	switch k {
	case EndOfRange:
		return "end_of_range"
	case InvalidEncoding:
		return "invalid_encoding"
	case InvalidFormatString:
		return "invalid_format_string"
	case InvalidScannedValue:
		return "invalid_scanned_value"
	case InvalidOperation:
		return "invalid_operation"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error implements the error interface so a bare Kind can be used as an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

// Error is the only error type returned by the engine.
type Error struct {
	Kind Kind
	Msg  string
}

// New returns an error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Errorf returns an error of the given kind with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Msg
}

// Is matches either another *Error of the same kind or a bare Kind.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case *Error:
		return e.Kind == t.Kind
	}
	return false
}

// KindOf returns the kind carried by err, or zero if err does not come from the engine.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
