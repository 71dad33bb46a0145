// Copyright 2021, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/UNO-SOFT/zlog/v2"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/UNO-SOFT/tabexport"
	"github.com/UNO-SOFT/tabexport/export"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

func main() {
	if err := Main(); err != nil {
		logger.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

func Main() error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return run(ctx, os.Args[1:], os.Stdout)
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	demoFS := flag.NewFlagSet("demo", flag.ContinueOnError)
	flagDemoDir := demoFS.String("dir", "", "output directory (default: current directory)")
	demoCmd := ffcli.Command{Name: "demo", FlagSet: demoFS,
		ShortUsage: "demo [-dir D]",
		ShortHelp:  "write the sample employee tables",
		Exec: func(ctx context.Context, args []string) error {
			exp := newExporter()
			if *flagDemoDir != "" {
				dir, err := filepath.Abs(*flagDemoDir)
				if err != nil {
					return err
				}
				exp.Getwd = func() (string, error) { return dir, nil }
			}
			return demo(exp, stdout)
		},
	}

	convFS := flag.NewFlagSet("convert", flag.ContinueOnError)
	flagEnc := convFS.String("charset", tabexport.EncName, "csv charset name")
	flagNoInfer := convFS.Bool("no-infer", false, "keep every cell as text")
	flagBold := convFS.Bool("bold-header", false, "bold header row")
	flagSheet := convFS.String("sheet", "", "sheet name (default Sheet1)")
	convertCmd := ffcli.Command{Name: "convert", FlagSet: convFS,
		ShortUsage: "convert [flags] input.csv[.gz] [output[.xlsx]]",
		ShortHelp:  "convert a CSV file to xlsx",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return flag.ErrHelp
			}
			exp := newExporter()
			exp.SheetName = *flagSheet
			exp.Header.FontBold = *flagBold
			out := ""
			if len(args) > 1 {
				out = args[1]
			}
			res, err := convert(exp, args[0], out, *flagEnc, !*flagNoInfer)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, res.Message())
			return nil
		},
	}

	fs := flag.NewFlagSet("csv2xlsx", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	app := ffcli.Command{Name: "csv2xlsx", FlagSet: fs,
		ShortUsage:  "csv2xlsx [-v] <demo|convert> [flags] [args]",
		Subcommands: []*ffcli.Command{&demoCmd, &convertCmd},
		Exec: func(ctx context.Context, args []string) error {
			return flag.ErrHelp
		},
	}
	if err := app.Parse(args); err != nil {
		return err
	}
	return app.Run(ctx)
}

func newExporter() *export.Exporter {
	return &export.Exporter{Logger: logger}
}

// demo exports the sample table twice, once without and once with the extension.
func demo(exp *export.Exporter, stdout io.Writer) error {
	df, err := tabexport.NewFrame(
		tabexport.Series{Name: "Name", Values: []any{"Alice", "Bob", "Charlie", "Diana"}},
		tabexport.Series{Name: "Age", Values: []any{25, 30, 35, 28}},
		tabexport.Series{Name: "City", Values: []any{"New York", "Los Angeles", "Chicago", "Houston"}},
		tabexport.Series{Name: "Salary", Values: []any{70000, 85000, 92000, 76000}},
	)
	if err != nil {
		return err
	}
	for _, fn := range []string{"employee_data", "employee_report.xlsx"} {
		res, err := exp.Export(df, fn)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, res.Message())
	}
	return nil
}

// convert reads the CSV file inFn and exports it to outFn,
// which defaults to inFn's base name without the .csv[.gz] suffix.
func convert(exp *export.Exporter, inFn, outFn, encName string, infer bool) (export.Result, error) {
	cr, err := tabexport.OpenCsv(inFn, encName)
	if err != nil {
		return export.Result{}, fmt.Errorf("open %q: %w", inFn, err)
	}
	defer cr.Close()
	df, err := tabexport.ReadFrame(cr.Reader, infer)
	if err != nil {
		return export.Result{}, fmt.Errorf("read %q: %w", inFn, err)
	}
	if outFn == "" {
		outFn = strings.TrimSuffix(strings.TrimSuffix(filepath.Base(inFn), ".gz"), ".csv")
		if outFn == "" || outFn == "-" || outFn == "." {
			outFn = "stdin"
		}
	}
	logger.Debug("convert", "input", inFn, "output", outFn, "rows", df.Len(), "columns", df.Columns())
	return exp.Export(df, outFn)
}
