// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package tabexport

import (
	"errors"
	"fmt"
)

// TabularData is an ordered set of named columns with rows aligned by position.
type TabularData interface {
	// Columns returns the column names, in order.
	Columns() []string
	// Len returns the number of rows.
	Len() int
	// Row returns the values of the i-th row, in column order.
	Row(i int) []any
}

// Validator may be implemented by a TabularData to report
// that it is not a well-formed table.
type Validator interface {
	Validate() error
}

// ErrRagged is returned when the columns of a table differ in length.
var ErrRagged = errors.New("columns differ in length")

// Series is a named column.
type Series struct {
	Name   string
	Values []any
}

// Frame is a column-oriented TabularData.
type Frame struct {
	cols []Series
}

var _ TabularData = (*Frame)(nil)
var _ Validator = (*Frame)(nil)

// NewFrame returns a Frame of the given columns, which must be of equal length.
//
// The Frame references the Values slices, it does not copy them.
func NewFrame(cols ...Series) (*Frame, error) {
	f := &Frame{cols: cols}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks that every column has the same length as the first.
func (f *Frame) Validate() error {
	if f == nil {
		return errors.New("nil frame")
	}
	for _, c := range f.cols {
		if len(c.Values) != len(f.cols[0].Values) {
			return fmt.Errorf("%q has %d values, %q has %d: %w",
				c.Name, len(c.Values), f.cols[0].Name, len(f.cols[0].Values), ErrRagged)
		}
	}
	return nil
}

func (f *Frame) Columns() []string {
	if f == nil {
		return nil
	}
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

func (f *Frame) Len() int {
	if f == nil || len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0].Values)
}

func (f *Frame) Row(i int) []any {
	if f == nil {
		return nil
	}
	row := make([]any, len(f.cols))
	for j, c := range f.cols {
		row[j] = c.Values[i]
	}
	return row
}

// Column returns the values of the named column, or nil if there is no such.
func (f *Frame) Column(name string) []any {
	if f == nil {
		return nil
	}
	for _, c := range f.cols {
		if c.Name == name {
			return c.Values
		}
	}
	return nil
}
