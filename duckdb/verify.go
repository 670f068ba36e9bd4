// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package duckdb

import (
	"fmt"

	excelsql "github.com/Mohammed87FS/excel-sql-converter"
)

// Translate converts a formula using the mappings derived from the loaded
// schema, without executing it.
func (e *Engine) Translate(sheet, formula string) string {
	return excelsql.New(e.TranslatorOptions(sheet)).Translate(formula)
}

// Evaluate translates a formula against a loaded sheet and runs it
// row-wise, SELECT <fragment> FROM <table>, returning one value per data
// row. Fragments carrying comment markers (ranges, lookups, translation
// errors) are rejected rather than sent to the database, since a marker
// means the SQL is not executable as-is.
func (e *Engine) Evaluate(sheet, formula string) ([]interface{}, error) {
	fragment, tableName, err := e.executableFragment(sheet, formula)
	if err != nil {
		return nil, err
	}

	rows, err := e.db.Query(fmt.Sprintf("SELECT %s FROM %s", fragment, tableName))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %q: %w", formula, err)
	}
	defer rows.Close()

	var results []interface{}
	for rows.Next() {
		var v interface{}
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, v)
	}
	return results, rows.Err()
}

// EvaluateAggregate runs a formula whose translation collapses the table
// to a single value, such as SUM or COUNT over a column reference.
func (e *Engine) EvaluateAggregate(sheet, formula string) (interface{}, error) {
	fragment, tableName, err := e.executableFragment(sheet, formula)
	if err != nil {
		return nil, err
	}

	var v interface{}
	if err := e.db.QueryRow(fmt.Sprintf("SELECT %s FROM %s", fragment, tableName)).Scan(&v); err != nil {
		return nil, fmt.Errorf("failed to evaluate %q: %w", formula, err)
	}
	return v, nil
}

// executableFragment translates a formula and gates it for execution: the
// sheet must be loaded and the fragment must be marker-free.
func (e *Engine) executableFragment(sheet, formula string) (fragment, tableName string, err error) {
	tableName, ok := e.GetTableName(sheet)
	if !ok {
		return "", "", fmt.Errorf("sheet %s not loaded", sheet)
	}

	fragment = e.Translate(sheet, formula)
	if excelsql.NeedsReview(fragment) {
		return "", "", fmt.Errorf("formula %q needs manual review: %s", formula, fragment)
	}
	return fragment, tableName, nil
}
