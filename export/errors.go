// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"errors"
	"fmt"
)

// Kind classifies an export failure.
type Kind uint8

const (
	KindInvalidArgument Kind = iota + 1
	KindPermissionDenied
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindPermissionDenied:
		return "permission denied"
	case KindIO:
		return "i/o failure"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Sentinels to match an *Error's Kind with errors.Is.
//
// ErrIO matches KindPermissionDenied, too.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrPermissionDenied = errors.New("permission denied")
	ErrIO               = errors.New("i/o failure")
)

// Error is the error returned by Export.
type Error struct {
	Err  error
	Path string
	Msg  string
	Kind Kind
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindPermissionDenied:
		return fmt.Sprintf("permission denied: unable to write to %q", e.Path)
	case KindIO:
		if e.Err != nil {
			return "error writing Excel file: " + e.Err.Error()
		}
	case KindInvalidArgument:
		if e.Err != nil {
			return e.Msg + ": " + e.Err.Error()
		}
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidArgument:
		return e.Kind == KindInvalidArgument
	case ErrPermissionDenied:
		return e.Kind == KindPermissionDenied
	case ErrIO:
		return e.Kind == KindIO || e.Kind == KindPermissionDenied
	}
	return false
}

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return 0
}

func invalidArgument(msg string, err error) *Error {
	return &Error{Kind: KindInvalidArgument, Msg: msg, Err: err}
}
