// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDemo(t *testing.T) {
	dir := t.TempDir()
	var out strings.Builder
	require.NoError(t, run(context.Background(), []string{"demo", "-dir", dir}, &out))
	assert.Equal(t,
		"Excel file successfully created at: "+filepath.Join(dir, "employee_data.xlsx")+"\n"+
			"Excel file successfully created at: "+filepath.Join(dir, "employee_report.xlsx")+"\n",
		out.String())
	for _, fn := range []string{"employee_data.xlsx", "employee_report.xlsx"} {
		_, err := os.Stat(filepath.Join(dir, fn))
		assert.NoError(t, err)
	}
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("people.csv", []byte("Name;Age\nAlice;25\nBob;30\n"), 0o644))

	var out strings.Builder
	require.NoError(t, run(context.Background(), []string{"convert", "-bold-header", "people.csv"}, &out))
	wd, err := os.Getwd()
	require.NoError(t, err)
	path := filepath.Join(wd, "people.xlsx")
	assert.Equal(t, "Excel file successfully created at: "+path+"\n", out.String())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Name", "Age"}, {"Alice", "25"}, {"Bob", "30"}}, rows)
	typ, err := f.GetCellType("Sheet1", "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)
}

func TestConvertOutputName(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("in.csv", []byte("a,b\n1,x\n"), 0o644))

	var out strings.Builder
	require.NoError(t, run(context.Background(),
		[]string{"convert", "-sheet", "data", "-no-infer", "in.csv", "renamed"}, &out))
	assert.Contains(t, out.String(), "renamed.xlsx")
}

func TestConvertMissingInput(t *testing.T) {
	chdir(t, t.TempDir())
	err := run(context.Background(), []string{"convert", "nope.csv"}, &strings.Builder{})
	require.Error(t, err)
	_, statErr := os.Stat("nope.xlsx")
	assert.True(t, os.IsNotExist(statErr))
}

// chdir changes the working directory to dir and restores it when the test
// finishes, like testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatal(err)
		}
	})
}
