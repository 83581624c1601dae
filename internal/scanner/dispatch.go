// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"errors"
	"log/slog"
	"reflect"

	"github.com/open-edge-platform/o11y-scanner/internal/codepoint"
	"github.com/open-edge-platform/o11y-scanner/internal/format"
	"github.com/open-edge-platform/o11y-scanner/internal/scanerr"
)

// Scannable is implemented by user types that scan themselves. ParseField has
// the contract of Scanner.Parse and ScanFrom the one of Scanner.Scan.
type Scannable interface {
	ParseField(field string) (int, error)
	ScanFrom(ctx *Context) error
}

// Argument is a scanner bound to its destination.
type Argument interface {
	Parse(field string) (int, error)
	Scan(ctx *Context) error
	SkipsWhitespace() bool
	Localized() bool
}

type bound[T any] struct {
	Scanner[T]
	dst *T
}

func (b bound[T]) Scan(ctx *Context) error {
	return b.Scanner.Scan(ctx, b.dst)
}

// Bind pairs a scanner with the value it fills.
func Bind[T any](s Scanner[T], dst *T) Argument {
	return bound[T]{Scanner: s, dst: dst}
}

type custom struct {
	v Scannable
}

func (c custom) Parse(field string) (int, error) { return c.v.ParseField(field) }
func (c custom) Scan(ctx *Context) error        { return c.v.ScanFrom(ctx) }
func (custom) Localized() bool                  { return false }

func (c custom) SkipsWhitespace() bool {
	if ws, ok := c.v.(interface{ SkipsWhitespace() bool }); ok {
		return ws.SkipsWhitespace()
	}
	return true
}

// For returns the argument scanning into dst, which must be a non-nil pointer
// to a supported type or a Scannable.
func For(dst any) (Argument, error) {
	if dst == nil {
		return nil, scanerr.New(scanerr.InvalidOperation, "nil scan destination")
	}
	if v := reflect.ValueOf(dst); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil, scanerr.Errorf(scanerr.InvalidOperation, "nil %T scan destination", dst)
	}

	switch d := dst.(type) {
	case Scannable:
		return custom{v: d}, nil
	case *rune:
		return Bind[rune](&CharScanner{}, d), nil
	case *[]rune:
		return Bind[[]rune](&BufferScanner{}, d), nil
	case *bool:
		return Bind[bool](&BoolScanner{}, d), nil
	case *int:
		return Bind[int](&IntScanner[int]{}, d), nil
	case *int8:
		return Bind[int8](&IntScanner[int8]{}, d), nil
	case *int16:
		return Bind[int16](&IntScanner[int16]{}, d), nil
	case *int64:
		return Bind[int64](&IntScanner[int64]{}, d), nil
	case *uint:
		return Bind[uint](&IntScanner[uint]{}, d), nil
	case *uint8:
		return Bind[uint8](&IntScanner[uint8]{}, d), nil
	case *uint16:
		return Bind[uint16](&IntScanner[uint16]{}, d), nil
	case *uint32:
		return Bind[uint32](&IntScanner[uint32]{}, d), nil
	case *uint64:
		return Bind[uint64](&IntScanner[uint64]{}, d), nil
	case *float32:
		return Bind[float32](&FloatScanner[float32]{}, d), nil
	case *float64:
		return Bind[float64](&FloatScanner[float64]{}, d), nil
	case *string:
		return Bind[string](&StringScanner{}, d), nil
	case *RegexMatches:
		return Bind[RegexMatches](&RegexScanner{}, d), nil
	}
	return nil, scanerr.Errorf(scanerr.InvalidOperation, "unsupported scan destination %T", dst)
}

// Run scans args from ctx.Cursor as directed by the format string and returns
// the number of arguments filled.
//
// Whitespace in the format matches any run of input whitespace, including
// none. "{{" and "}}" match literal braces and every other character must
// match the input exactly. An argument that fails leaves the cursor where
// it was before its leading whitespace was skipped, and ends the scan.
func Run(ctx *Context, fmtStr string, args ...Argument) (int, error) {
	c := ctx.Cursor
	next := 0

	for i := 0; i < len(fmtStr); {
		switch ch := fmtStr[i]; {
		case format.IsOpen(ch) && i+1 < len(fmtStr) && format.IsOpen(fmtStr[i+1]):
			if err := matchLiteral(ctx, '{'); err != nil {
				return next, err
			}
			i += 2

		case format.IsOpen(ch):
			if next == len(args) {
				return next, scanerr.New(scanerr.InvalidFormatString, "more replacement fields than arguments")
			}
			arg := args[next]
			n, err := arg.Parse(fmtStr[i+1:])
			if err != nil {
				return next, err
			}
			i += 1 + n
			if err := scanArgument(ctx, next, arg); err != nil {
				return next, err
			}
			next++

		case format.IsClose(ch):
			if i+1 >= len(fmtStr) || !format.IsClose(fmtStr[i+1]) {
				return next, scanerr.New(scanerr.InvalidFormatString, "unmatched '}' in format string")
			}
			if err := matchLiteral(ctx, '}'); err != nil {
				return next, err
			}
			i += 2

		default:
			cp, n, err := codepoint.DecodeString(fmtStr[i:])
			if err != nil {
				return next, scanerr.Errorf(scanerr.InvalidFormatString, "invalid encoding in format string at byte %d", i)
			}
			i += n
			r := rune(cp)
			if !ctx.Locale.IsSpace(r, false) {
				if err := matchLiteral(ctx, r); err != nil {
					return next, err
				}
				continue
			}
			for i < len(fmtStr) {
				cp, n, err := codepoint.DecodeString(fmtStr[i:])
				if err != nil || !ctx.Locale.IsSpace(rune(cp), false) {
					break
				}
				i += n
			}
			if err := skipSpace(ctx, false); err != nil {
				return next, err
			}
		}
	}

	if next != len(args) {
		return next, scanerr.Errorf(scanerr.InvalidFormatString, "%d arguments but %d replacement fields", len(args), next)
	}
	c.Commit()
	return next, nil
}

func scanArgument(ctx *Context, index int, arg Argument) error {
	c := ctx.Cursor
	mark := c.Checkpoint()

	if arg.SkipsWhitespace() {
		if err := skipSpace(ctx, arg.Localized()); err != nil {
			return restore(c, mark, err)
		}
	}
	if err := arg.Scan(ctx); err != nil {
		ctx.Logger.Debug("Argument scan failed",
			slog.Int("index", index), slog.Int("position", mark.Position()), slog.Any("error", err))
		return restore(c, mark, err)
	}

	ctx.Logger.Debug("Argument scanned",
		slog.Int("index", index), slog.Int("from", mark.Position()), slog.Int("to", c.Position()))
	c.Commit()
	return nil
}

func skipSpace(ctx *Context, localized bool) error {
	c := ctx.Cursor
	for {
		r, err := c.ReadOne()
		if errors.Is(err, scanerr.EndOfRange) {
			return nil
		}
		if err != nil {
			return err
		}
		if !ctx.Locale.IsSpace(r, localized) {
			return c.PutbackN(1)
		}
	}
}

func matchLiteral(ctx *Context, want rune) error {
	c := ctx.Cursor
	got, err := c.ReadOne()
	if err != nil {
		return err
	}
	if got != want {
		if err := c.PutbackN(1); err != nil {
			return err
		}
		return scanerr.Errorf(scanerr.InvalidScannedValue, "expected %q in input, got %q", want, got)
	}
	return nil
}

// Check parses every replacement field of fmtStr with its argument without
// reading any input. It reports the errors Run would report for the format
// string alone.
func Check(fmtStr string, args ...Argument) error {
	next := 0
	for i := 0; i < len(fmtStr); {
		switch ch := fmtStr[i]; {
		case format.IsOpen(ch) && i+1 < len(fmtStr) && format.IsOpen(fmtStr[i+1]):
			i += 2
		case format.IsOpen(ch):
			if next == len(args) {
				return scanerr.New(scanerr.InvalidFormatString, "more replacement fields than arguments")
			}
			n, err := args[next].Parse(fmtStr[i+1:])
			if err != nil {
				return err
			}
			i += 1 + n
			next++
		case format.IsClose(ch):
			if i+1 >= len(fmtStr) || !format.IsClose(fmtStr[i+1]) {
				return scanerr.New(scanerr.InvalidFormatString, "unmatched '}' in format string")
			}
			i += 2
		default:
			_, n, err := codepoint.DecodeString(fmtStr[i:])
			if err != nil {
				return scanerr.Errorf(scanerr.InvalidFormatString, "invalid encoding in format string at byte %d", i)
			}
			i += n
		}
	}
	if next != len(args) {
		return scanerr.Errorf(scanerr.InvalidFormatString, "%d arguments but %d replacement fields", len(args), next)
	}
	return nil
}
