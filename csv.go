// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package tabexport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// EncName is the default charset of CSV input, taken from $LANG.
var EncName = "utf-8"

func init() {
	EncName = os.Getenv("LANG")
	if i := strings.IndexByte(EncName, '.'); i >= 0 {
		EncName = strings.ToLower(EncName[i+1:])
	} else {
		EncName = ""
	}
	if EncName == "" {
		EncName = "utf-8"
	}
}

// GetEncoding returns the named encoding, or nil for UTF-8.
func GetEncoding(encName string) (encoding.Encoding, error) {
	encName = strings.ToLower(encName)
	if encName == "" || encName == "utf-8" || encName == "utf8" {
		return nil, nil
	}
	enc, err := htmlindex.Get(encName)
	if err != nil {
		err = fmt.Errorf("%q: %w", encName, err)
	}
	return enc, err
}

// CsvReadCloser is a csv.Reader over a file that must be Closed.
type CsvReadCloser struct {
	*csv.Reader
	io.Closer
}

type multiCloser []io.Closer

func (mc multiCloser) Close() error {
	var errs []error
	for _, c := range mc {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenCsv opens fn ("" or "-" means stdin) for CSV reading.
//
// A .gz file is decompressed, the content is decoded from encName,
// and the field separator is guessed from the first non-field character.
func OpenCsv(fn, encName string) (CsvReadCloser, error) {
	var enc encoding.Encoding
	if encName != "" {
		var err error
		if enc, err = GetEncoding(encName); err != nil {
			return CsvReadCloser{}, err
		}
	}
	fh := os.Stdin
	if !(fn == "" || fn == "-") {
		var err error
		if fh, err = os.Open(fn); err != nil {
			return CsvReadCloser{}, err
		}
	}
	r, closer := io.Reader(fh), multiCloser{fh}
	if strings.HasSuffix(fn, ".gz") {
		zr, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return CsvReadCloser{}, fmt.Errorf("%q: %w", fn, err)
		}
		r, closer = zr, multiCloser{zr, fh}
	}
	if enc != nil {
		r = enc.NewDecoder().Reader(r)
	}
	cr, err := newCsvReader(r)
	if err != nil {
		closer.Close()
		return CsvReadCloser{}, err
	}
	return CsvReadCloser{cr, closer}, nil
}

func newCsvReader(r io.Reader) (*csv.Reader, error) {
	br := bufio.NewReaderSize(r, 1<<20)
	b, err := br.Peek(1024)
	if err != nil && len(b) == 0 {
		return nil, err
	}
	cr := csv.NewReader(br)
	cr.ReuseRecord = true
	cr.Comma = guessSeparator(b)
	return cr, nil
}

// guessSeparator returns the most frequent of , ; TAB | outside quotes
// in the first line of b, or ',' if none of them occurs.
func guessSeparator(b []byte) rune {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[:i]
	}
	const candidates = ",;\t|"
	var counts [len(candidates)]int
	var quoted bool
	for _, c := range b {
		if c == '"' {
			quoted = !quoted
			continue
		}
		if quoted {
			continue
		}
		if i := strings.IndexByte(candidates, c); i >= 0 {
			counts[i]++
		}
	}
	sep, most := rune(','), 0
	for i, n := range counts {
		if n > most {
			sep, most = rune(candidates[i]), n
		}
	}
	return sep
}

// ReadFrame reads the whole CSV into a Frame, the first record being the header.
//
// With infer, a column whose non-empty values all parse as integers
// is converted to int64, one that parses as floats to float64;
// empty cells become nil.
// Otherwise every value is kept as string.
func ReadFrame(cr *csv.Reader, infer bool) (*Frame, error) {
	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	cols := make([]Series, len(header))
	for i, h := range header {
		cols[i].Name = h
	}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		for i, s := range rec {
			cols[i].Values = append(cols[i].Values, s)
		}
	}
	if infer {
		for i := range cols {
			cols[i].infer()
		}
	}
	return NewFrame(cols...)
}

func (s *Series) infer() {
	ints, floats := true, true
	for _, v := range s.Values {
		t := v.(string)
		if t == "" {
			continue
		}
		if ints {
			if _, err := strconv.ParseInt(t, 10, 64); err != nil {
				ints = false
			}
		}
		if !ints {
			if _, ok := parseFloat(t); !ok {
				floats = false
				break
			}
		}
	}
	for i, v := range s.Values {
		t := v.(string)
		switch {
		case t == "" && (ints || floats):
			s.Values[i] = nil
		case ints:
			s.Values[i], _ = strconv.ParseInt(t, 10, 64)
		case floats:
			s.Values[i], _ = parseFloat(t)
		}
	}
}

// parseFloat parses decimal notation only: NaN, Inf and hex floats are text.
func parseFloat(s string) (float64, bool) {
	if u := strings.TrimLeft(s, "+-"); len(u) > 1 && u[0] == '0' && (u[1] == 'x' || u[1] == 'X') {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
