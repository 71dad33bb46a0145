// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package tabexport_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/UNO-SOFT/tabexport"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fn, []byte(content), 0o644))
	return fn
}

func readFrame(t *testing.T, fn, encName string, infer bool) *tabexport.Frame {
	t.Helper()
	cr, err := tabexport.OpenCsv(fn, encName)
	require.NoError(t, err)
	defer cr.Close()
	df, err := tabexport.ReadFrame(cr.Reader, infer)
	require.NoError(t, err)
	return df
}

func TestReadFrameSeparator(t *testing.T) {
	fn := writeFile(t, "a.csv", "First Name;Age\nAlice;25\nBob;30\n")
	df := readFrame(t, fn, "", false)
	assert.Equal(t, []string{"First Name", "Age"}, df.Columns())
	assert.Equal(t, []any{"Bob", "30"}, df.Row(1))
}

func TestReadFrameGuessSeparator(t *testing.T) {
	for _, tc := range []struct {
		Name, Content string
		Columns       []string
		Last          []any
	}{
		{"single column", "Name\nAlice\nBob\n", []string{"Name"}, []any{"Bob"}},
		{"hyphen", "Hire-Date,Age\n2020-01-01,3\n", []string{"Hire-Date", "Age"}, []any{"2020-01-01", "3"}},
		{"dot", "col.1,col.2\na,b\n", []string{"col.1", "col.2"}, []any{"a", "b"}},
		{"tab", "a b\tc\n1\t2\n", []string{"a b", "c"}, []any{"1", "2"}},
		{"pipe", "a|b\n1|2\n", []string{"a", "b"}, []any{"1", "2"}},
		{"quoted", "\"x,y\";z\n1;2\n", []string{"x,y", "z"}, []any{"1", "2"}},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			df := readFrame(t, writeFile(t, "a.csv", tc.Content), "", false)
			assert.Equal(t, tc.Columns, df.Columns())
			assert.Equal(t, tc.Last, df.Row(df.Len()-1))
		})
	}
}

func TestReadFrameInferKeepsSpecialFloats(t *testing.T) {
	fn := writeFile(t, "a.csv", "name,score,hex\nNaN,1,0x1p-2\ninf,infinity,-0X10\n")
	df := readFrame(t, fn, "", true)
	assert.Equal(t, []any{"NaN", "inf"}, df.Column("name"))
	assert.Equal(t, []any{"1", "infinity"}, df.Column("score"))
	assert.Equal(t, []any{"0x1p-2", "-0X10"}, df.Column("hex"))
}

func TestReadFrameInfer(t *testing.T) {
	fn := writeFile(t, "a.csv", "name,age,score,note\nAlice,25,1.5,x\nBob,,2,\n")
	df := readFrame(t, fn, "utf-8", true)
	require.Equal(t, 2, df.Len())
	assert.Equal(t, []any{"Alice", int64(25), 1.5, "x"}, df.Row(0))
	assert.Equal(t, []any{"Bob", nil, 2.0, ""}, df.Row(1))
}

func TestOpenCsvGzip(t *testing.T) {
	var sb strings.Builder
	zw := gzip.NewWriter(&sb)
	_, err := zw.Write([]byte("a,b\n1,2\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	fn := writeFile(t, "a.csv.gz", sb.String())

	df := readFrame(t, fn, "", true)
	assert.Equal(t, []string{"a", "b"}, df.Columns())
	assert.Equal(t, []any{int64(1), int64(2)}, df.Row(0))
}

func TestOpenCsvCharset(t *testing.T) {
	b, err := charmap.ISO8859_2.NewEncoder().String("név,város\nÁrvíztűrő,Győr\n")
	require.NoError(t, err)
	fn := writeFile(t, "a.csv", b)

	df := readFrame(t, fn, "iso-8859-2", false)
	assert.Equal(t, []string{"név", "város"}, df.Columns())
	assert.Equal(t, []any{"Árvíztűrő", "Győr"}, df.Row(0))
}

func TestGetEncoding(t *testing.T) {
	enc, err := tabexport.GetEncoding("UTF-8")
	require.NoError(t, err)
	assert.Nil(t, enc)

	_, err = tabexport.GetEncoding("no-such-charset")
	assert.Error(t, err)
}
