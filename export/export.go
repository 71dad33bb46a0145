// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package export writes a TabularData as a single-sheet .xlsx file
// into the current working directory.
//
// The filename is not sanitized: path separators and ".." are joined
// to the working directory as is, and an absolute filename is used unchanged,
// so the file may land outside the working directory.
// Concurrent exports to the same path race, the last one wins.
package export

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/UNO-SOFT/tabexport"
	"github.com/UNO-SOFT/tabexport/xlsx"
)

// Ext is the extension every exported file name ends with.
const Ext = ".xlsx"

// Result of a successful Export.
type Result struct {
	// Path is the absolute path of the written file.
	Path string
}

// Message is the human-readable confirmation.
func (r Result) Message() string { return "Excel file successfully created at: " + r.Path }
func (r Result) String() string { return r.Message() }

// Exporter writes spreadsheets. The zero value is ready to use.
type Exporter struct {
	// Getwd returns the directory the filename is resolved against.
	// Defaults to os.Getwd.
	Getwd func() (string, error)
	// Create opens the output file. Defaults to os.Create.
	Create func(name string) (io.WriteCloser, error)
	// NewWriter returns the spreadsheet encoder. Defaults to xlsx.NewWriter.
	NewWriter func(io.Writer) tabexport.Writer
	// Logger gets a debug line for each written file.
	Logger *slog.Logger
	// SheetName defaults to xlsx.DefaultSheetName.
	SheetName string
	// Header is the style of the header cells, none by default.
	Header tabexport.Style
}

var defaultExporter Exporter

// Export writes data to filename with the default Exporter.
func Export(data tabexport.TabularData, filename string) (Result, error) {
	return defaultExporter.Export(data, filename)
}

// Export writes data into filename (appending .xlsx if missing),
// resolved against the working directory unless it is absolute.
//
// The header row holds the column names, followed by the rows in order,
// without an index column.
//
// The returned error is an *Error: KindInvalidArgument for unusable
// arguments or rows not matching the columns (no file is touched then),
// KindPermissionDenied or KindIO otherwise.
func (e *Exporter) Export(data tabexport.TabularData, filename string) (Result, error) {
	if err := validateData(data); err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(filename) == "" {
		return Result{}, invalidArgument("the filename must be a non-empty string", nil)
	}
	if !strings.HasSuffix(filename, Ext) {
		filename += Ext
	}

	getwd := e.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	dir, err := getwd()
	if err != nil {
		return Result{}, &Error{Kind: KindIO, Err: fmt.Errorf("get working directory: %w", err)}
	}
	path := filepath.Join(dir, filename)
	if filepath.IsAbs(filename) {
		path = filepath.Clean(filename)
	}

	if err := e.write(path, data); err != nil {
		if errors.Is(err, tabexport.ErrRagged) {
			return Result{}, &Error{Kind: KindInvalidArgument, Path: path,
				Msg: "the first parameter must be tabular data", Err: err}
		}
		if errors.Is(err, fs.ErrPermission) {
			return Result{}, &Error{Kind: KindPermissionDenied, Path: path, Err: err}
		}
		return Result{}, &Error{Kind: KindIO, Path: path, Err: err}
	}
	if e.Logger != nil {
		e.Logger.Debug("exported", "path", path, "rows", data.Len(), "columns", len(data.Columns()))
	}
	return Result{Path: path}, nil
}

func validateData(data tabexport.TabularData) error {
	const msg = "the first parameter must be tabular data"
	if data == nil {
		return invalidArgument(msg, nil)
	}
	switch rv := reflect.ValueOf(data); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if rv.IsNil() {
			return invalidArgument(msg, fmt.Errorf("nil %T", data))
		}
	}
	if v, ok := data.(tabexport.Validator); ok {
		if err := v.Validate(); err != nil {
			return invalidArgument(msg, err)
		}
	}
	return nil
}

func (e *Exporter) write(path string, data tabexport.TabularData) error {
	create := e.Create
	if create == nil {
		create = func(name string) (io.WriteCloser, error) { return os.Create(name) }
	}
	newWriter := e.NewWriter
	if newWriter == nil {
		newWriter = func(w io.Writer) tabexport.Writer { return xlsx.NewWriter(w) }
	}
	sheetName := e.SheetName
	if sheetName == "" {
		sheetName = xlsx.DefaultSheetName
	}

	lf := &lazyFile{path: path, create: create}
	w := newWriter(lf)
	if err := fill(w, sheetName, e.Header, data); err != nil {
		lf.discard = true
		_ = w.Close()
		return err
	}
	err := w.Close()
	if lf.err != nil {
		return lf.err
	}
	return errors.Join(err, lf.Close())
}

func fill(w tabexport.Writer, sheetName string, header tabexport.Style, data tabexport.TabularData) error {
	names := data.Columns()
	cols := make([]tabexport.Column, len(names))
	for i, nm := range names {
		cols[i] = tabexport.Column{Name: nm, Header: header}
	}
	sheet, err := w.NewSheet(sheetName, cols)
	if err != nil {
		return err
	}
	for i, n := 0, data.Len(); i < n; i++ {
		row := data.Row(i)
		if len(row) != len(names) {
			return fmt.Errorf("row %d has %d values, header has %d: %w",
				i, len(row), len(names), tabexport.ErrRagged)
		}
		if err := sheet.AppendRow(row...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return sheet.Close()
}

// lazyFile creates the file on the first Write,
// so an encoding failure does not leave an empty file behind.
type lazyFile struct {
	create  func(string) (io.WriteCloser, error)
	w       io.WriteCloser
	err     error
	path    string
	discard bool
}

func (lf *lazyFile) Write(p []byte) (int, error) {
	if lf.discard {
		return len(p), nil
	}
	if lf.err != nil {
		return 0, lf.err
	}
	if lf.w == nil {
		w, err := lf.create(lf.path)
		if err != nil {
			lf.err = err
			return 0, err
		}
		lf.w = w
	}
	return lf.w.Write(p)
}

func (lf *lazyFile) Close() error {
	if lf.w == nil {
		return nil
	}
	w := lf.w
	lf.w = nil
	return w.Close()
}
