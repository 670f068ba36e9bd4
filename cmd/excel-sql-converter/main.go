// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Command excel-sql-converter translates Excel formulas into SQL
// expression fragments, either one-shot from the command line or as an
// HTTP service.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	excelsql "github.com/Mohammed87FS/excel-sql-converter"
	"github.com/Mohammed87FS/excel-sql-converter/web"
)

// mappingsFile is the on-disk shape of the -mappings JSON file.
type mappingsFile struct {
	ColumnMappings map[string]string `json:"column_mappings"`
	SheetMappings  map[string]string `json:"sheet_mappings"`
	CurrentSheet   string            `json:"current_sheet"`
}

func main() {
	var (
		formula  = flag.String("formula", "", "Translate one formula and exit")
		demo     = flag.Bool("demo", false, "Run the built-in demonstration and exit")
		serve    = flag.Bool("serve", false, "Start the HTTP API")
		port     = flag.Int("port", 8080, "HTTP API port")
		mappings = flag.String("mappings", "", "Path to a JSON file with column/sheet mappings")
	)
	flag.Parse()

	opts, err := loadOptions(*mappings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading mappings: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *demo:
		runDemo()
	case *formula != "":
		translateOne(opts, *formula)
	case *serve:
		if err := web.NewServer(*port, excelsql.New(opts)).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// loadOptions reads translator options from a JSON file. An empty path
// means defaults.
func loadOptions(path string) (*excelsql.Options, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file mappingsFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	opts := excelsql.DefaultOptions()
	if file.ColumnMappings != nil {
		opts.ColumnMappings = file.ColumnMappings
	}
	if file.SheetMappings != nil {
		opts.SheetMappings = file.SheetMappings
	}
	if file.CurrentSheet != "" {
		opts.CurrentSheet = file.CurrentSheet
	}
	return opts, nil
}

func translateOne(opts *excelsql.Options, formula string) {
	tr := excelsql.New(opts)
	sql := tr.Translate(formula)

	fmt.Println(sql)
	if refs := excelsql.References(formula); len(refs) > 0 {
		fmt.Printf("References: %s\n", strings.Join(refs, ", "))
	}
	if excelsql.NeedsReview(sql) {
		fmt.Fprintln(os.Stderr, "Note: output contains comment markers and needs manual review")
	}
}

// runDemo translates a representative formula set against alphabetic
// column mappings (A -> col_a ... Z -> col_z) with Sheet2 mapped to
// other_table.
func runDemo() {
	columns := make(map[string]string, 26)
	for i := 0; i < 26; i++ {
		columns[string(rune('A'+i))] = fmt.Sprintf("col_%c", 'a'+i)
	}
	tr := excelsql.New(&excelsql.Options{
		ColumnMappings: columns,
		SheetMappings:  map[string]string{"Sheet2": "other_table"},
		CurrentSheet:   "Sheet1",
	})

	formulas := []string{
		"=A2*B2",
		"=SUM(C2:C10)",
		`=IF(D2>100,"High","Low")`,
		"=ROUND(E2/F2, 2)",
		"=(G2-H2)/H2",
		"=I2*(1+J2)",
		"=IFERROR(K2/L2, 0)",
		"=Table[[#This Row],[Amount]]*Table[[#This Row],[Price]]",
		"=Sheet2!A2+Sheet2!B2",
		"=IF(AND(M2>0,N2<100),M2*0.1,0)",
	}

	fmt.Println("Excel Formula to SQL Conversion")
	fmt.Println(strings.Repeat("=", 60))
	for _, formula := range formulas {
		fmt.Printf("Excel: %s\n", formula)
		fmt.Printf("SQL:   %s\n", tr.Translate(formula))
		if refs := excelsql.References(formula); len(refs) > 0 {
			fmt.Printf("Reads: %s\n", strings.Join(refs, ", "))
		}
		fmt.Println(strings.Repeat("-", 60))
	}
}
