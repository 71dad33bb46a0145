// Copyright 2020, 2023, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package xlsx writes Office Open XML workbooks with excelize.
package xlsx

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/UNO-SOFT/tabexport"
	"github.com/xuri/excelize/v2"
)

var _ = (tabexport.Writer)((*XLSXWriter)(nil))

const (
	// MaxRowCount is the number of maximum rows.
	MaxRowCount = 1_048_576
	// MaxColCount is the number of maximum columns.
	MaxColCount = 16_384
)

// DefaultSheetName is the name of the sheet of a new workbook.
const DefaultSheetName = "Sheet1"

type XLSXWriter struct {
	w      io.Writer
	xl     *excelize.File
	styles map[string]int
	sheets []string
	mu     sync.Mutex
}

type XLSXSheet struct {
	xl   *excelize.File
	Name string
	row  int64
	mu   sync.Mutex
}

// NewWriter returns a new tabexport.Writer.
//
// This writer allows concurrent writes to separate sheets.
//
// This writer collects everything in memory, so big sheets may impose problems.
// Nothing is written to w before Close.
func NewWriter(w io.Writer) *XLSXWriter {
	return &XLSXWriter{w: w, xl: excelize.NewFile()}
}

// Close writes the workbook to the underlying writer and releases it.
func (xlw *XLSXWriter) Close() error {
	if xlw == nil {
		return nil
	}
	xlw.mu.Lock()
	defer xlw.mu.Unlock()
	xl, w := xlw.xl, xlw.w
	xlw.xl, xlw.w = nil, nil
	if xl == nil {
		return nil
	}
	var err error
	if w != nil {
		_, err = xl.WriteTo(w)
	}
	return errors.Join(err, xl.Close())
}

func (xlw *XLSXWriter) NewSheet(name string, columns []tabexport.Column) (tabexport.Sheet, error) {
	if len(columns) > MaxColCount {
		return nil, fmt.Errorf("%s: %d: %w", name, len(columns), tabexport.ErrTooManyColumns)
	}
	xlw.mu.Lock()
	defer xlw.mu.Unlock()
	if xlw.xl == nil {
		return nil, errors.New("writer is closed")
	}
	xlw.sheets = append(xlw.sheets, name)
	if len(xlw.sheets) == 1 { // first
		if name != DefaultSheetName {
			if err := xlw.xl.SetSheetName(DefaultSheetName, name); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
	} else if _, err := xlw.xl.NewSheet(name); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	var hasHeader bool
	for i, c := range columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if s, err := xlw.getStyle(c.Column); err != nil {
			return nil, err
		} else if s != 0 {
			if err = xlw.xl.SetColStyle(name, col, s); err != nil {
				return nil, err
			}
		}
		if s, err := xlw.getStyle(c.Header); err != nil {
			return nil, err
		} else if s != 0 {
			if err = xlw.xl.SetCellStyle(name, col+"1", col+"1", s); err != nil {
				return nil, err
			}
		}
		if c.Name != "" {
			hasHeader = true
			if err = xlw.xl.SetCellStr(name, col+"1", c.Name); err != nil {
				return nil, err
			}
		}
	}
	xls := &XLSXSheet{xl: xlw.xl, Name: name}
	if hasHeader {
		xls.row++
	}
	return xls, nil
}

func (xlw *XLSXWriter) getStyle(style tabexport.Style) (int, error) {
	if style.IsZero() {
		return 0, nil
	}
	k := fmt.Sprintf("%t\t%s", style.FontBold, style.Format)
	if s, ok := xlw.styles[k]; ok {
		return s, nil
	}
	var st excelize.Style
	if style.FontBold {
		st.Font = &excelize.Font{Bold: true}
	}
	if style.Format != "" {
		st.CustomNumFmt = &style.Format
	}
	s, err := xlw.xl.NewStyle(&st)
	if err != nil {
		return 0, fmt.Errorf("style %q: %w", k, err)
	}
	if xlw.styles == nil {
		xlw.styles = make(map[string]int)
	}
	xlw.styles[k] = s
	return s, nil
}

func (xls *XLSXSheet) Close() error { return nil }

// AppendRow writes values into the next row.
//
// nil, zero time.Time and invalid sql.Null* values leave the cell empty.
func (xls *XLSXSheet) AppendRow(values ...any) error {
	xls.mu.Lock()
	defer xls.mu.Unlock()
	if xls.row >= MaxRowCount {
		return tabexport.ErrTooManyRows
	}
	xls.row++
	for i, v := range values {
		if v == nil {
			continue
		}
		axis, err := excelize.CoordinatesToCellName(i+1, int(xls.row))
		if err != nil {
			return fmt.Errorf("%d/%d: %w", i, int(xls.row), err)
		}
		if err = xls.setCell(axis, v); err != nil {
			return fmt.Errorf("%s[%s]: %w", xls.Name, axis, err)
		}
	}
	return nil
}

func (xls *XLSXSheet) setCell(axis string, v any) error {
	if vr, ok := v.(driver.Valuer); ok {
		if vv, err := vr.Value(); err == nil {
			v = vv
		}
	}
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return xls.xl.SetCellStr(xls.Name, axis, x.Format("2006-01-02"))
	case sql.NullTime:
		if !x.Valid || x.Time.IsZero() {
			return nil
		}
		return xls.xl.SetCellStr(xls.Name, axis, x.Time.Format("2006-01-02"))
	case sql.NullFloat64:
		if !x.Valid {
			return nil
		}
		return xls.xl.SetCellFloat(xls.Name, axis, x.Float64, -1, 64)
	case sql.NullInt64:
		if !x.Valid {
			return nil
		}
		return xls.xl.SetCellValue(xls.Name, axis, x.Int64)
	case sql.NullString:
		if !x.Valid {
			return nil
		}
		return xls.xl.SetCellStr(xls.Name, axis, x.String)
	case tabexport.Number:
		if f, err := strconv.ParseFloat(string(x), 64); err == nil {
			return xls.xl.SetCellFloat(xls.Name, axis, f, -1, 64)
		}
		return xls.xl.SetCellStr(xls.Name, axis, string(x))
	case string:
		return xls.xl.SetCellStr(xls.Name, axis, x)
	case fmt.Stringer:
		return xls.xl.SetCellStr(xls.Name, axis, x.String())
	}
	return xls.xl.SetCellValue(xls.Name, axis, v)
}
