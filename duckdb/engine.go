// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package duckdb backs the formula translator with a real SQL engine. It
// loads tabular sheet data into an in-memory DuckDB database, derives the
// column and sheet mappings the translator needs from the loaded schema,
// and executes translated fragments so their output can be verified
// against live data instead of read by eye.
package duckdb

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"sync"

	_ "github.com/marcboeker/go-duckdb"

	excelsql "github.com/Mohammed87FS/excel-sql-converter"
)

// Engine wraps an in-memory DuckDB database holding one table per loaded
// sheet. It hands the translator its mappings and runs translated
// fragments as queries.
type Engine struct {
	db            *sql.DB
	mu            sync.RWMutex
	tables        map[string]*TableInfo        // sheet name -> table info
	columnMapping map[string]map[string]string // sheet -> excel col (A,B,C) -> sql col name
	initialized   bool
}

// TableInfo stores metadata about a loaded sheet's backing table.
type TableInfo struct {
	TableName string
	SheetName string
	RowCount  int
	Columns   []ColumnInfo
}

// ColumnInfo stores metadata about one column of a backing table.
type ColumnInfo struct {
	Name     string // SQL column name
	ExcelCol string // Excel column letter (A, B, C, ...)
	DataType string // DuckDB data type
	ColIndex int    // 0-based column index
}

// Config holds configuration options for the DuckDB engine.
type Config struct {
	// MemoryLimit sets the maximum memory DuckDB can use (e.g., "4GB")
	MemoryLimit string
	// Threads sets the number of threads DuckDB should use (0 = auto)
	Threads int
}

// DefaultConfig returns the default configuration for the DuckDB engine.
func DefaultConfig() *Config {
	return &Config{
		MemoryLimit: "1GB",
		Threads:     0, // auto-detect
	}
}

// NewEngine creates an engine with default configuration.
func NewEngine() (*Engine, error) {
	return NewEngineWithConfig(DefaultConfig())
}

// NewEngineWithConfig creates an engine with custom configuration.
func NewEngineWithConfig(cfg *Config) (*Engine, error) {
	// Open in-memory DuckDB database
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB: %w", err)
	}

	e := &Engine{
		db:            db,
		tables:        make(map[string]*TableInfo),
		columnMapping: make(map[string]map[string]string),
	}

	if err := e.applyConfig(cfg); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply config: %w", err)
	}

	e.initialized = true
	return e, nil
}

// applyConfig applies configuration settings to the DuckDB database.
func (e *Engine) applyConfig(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	if cfg.MemoryLimit != "" {
		if _, err := e.db.Exec(fmt.Sprintf("SET memory_limit = '%s'", cfg.MemoryLimit)); err != nil {
			return fmt.Errorf("failed to set memory_limit: %w", err)
		}
	}

	if cfg.Threads > 0 {
		if _, err := e.db.Exec(fmt.Sprintf("SET threads = %d", cfg.Threads)); err != nil {
			return fmt.Errorf("failed to set threads: %w", err)
		}
	}

	return nil
}

// LoadSheetData loads one sheet's rows into a DuckDB table named after the
// sheet. Column names derive from the headers; a column whose values are
// all numeric becomes DOUBLE, everything else VARCHAR. The per-letter
// column mapping recorded here is what TranslatorOptions later hands to
// the translator.
func (e *Engine) LoadSheetData(sheet string, headers []string, rows [][]interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return fmt.Errorf("engine not initialized")
	}
	if len(headers) == 0 {
		return fmt.Errorf("sheet %s has no columns", sheet)
	}

	tableName := sanitizeTableName(sheet)
	colNames := make([]string, len(headers))
	colTypes := inferColumnTypes(len(headers), rows)

	columns := make([]string, len(headers))
	for i, h := range headers {
		colName := sanitizeColumnName(h)
		if colName == "" {
			colName = fmt.Sprintf("col%d", i+1)
		}
		colNames[i] = colName
		columns[i] = fmt.Sprintf("%s %s", colName, colTypes[i])
	}

	createQuery := fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)", tableName, strings.Join(columns, ", "))
	if _, err := e.db.Exec(createQuery); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	if len(rows) > 0 {
		placeholders := make([]string, len(headers))
		for i := range headers {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		}

		insertQuery := fmt.Sprintf(
			"INSERT INTO %s VALUES (%s)",
			tableName, strings.Join(placeholders, ", "),
		)

		stmt, err := e.db.Prepare(insertQuery)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, row := range rows {
			args := make([]interface{}, len(headers))
			for i := range headers {
				if i < len(row) {
					args[i] = row[i]
				} else {
					args[i] = nil
				}
			}
			if _, err := stmt.Exec(args...); err != nil {
				return fmt.Errorf("failed to insert row: %w", err)
			}
		}
	}

	info, err := e.getTableInfo(tableName, sheet)
	if err != nil {
		return fmt.Errorf("failed to get table info: %w", err)
	}
	e.tables[sheet] = info

	e.columnMapping[sheet] = make(map[string]string)
	for i, colName := range colNames {
		e.columnMapping[sheet][columnIndexToLetter(i)] = colName
	}

	return nil
}

// getTableInfo retrieves metadata about a DuckDB table.
func (e *Engine) getTableInfo(tableName, sheetName string) (*TableInfo, error) {
	info := &TableInfo{
		TableName: tableName,
		SheetName: sheetName,
	}

	var count int
	if err := e.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", tableName)).Scan(&count); err != nil {
		return nil, err
	}
	info.RowCount = count

	rows, err := e.db.Query(fmt.Sprintf("DESCRIBE %s", tableName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colIndex := 0
	for rows.Next() {
		var colName, colType string
		var null, key, defaultVal, extra sql.NullString
		if err := rows.Scan(&colName, &colType, &null, &key, &defaultVal, &extra); err != nil {
			return nil, err
		}
		info.Columns = append(info.Columns, ColumnInfo{
			Name:     colName,
			ExcelCol: columnIndexToLetter(colIndex),
			DataType: colType,
			ColIndex: colIndex,
		})
		colIndex++
	}

	return info, rows.Err()
}

// TranslatorOptions builds translator options from the loaded schema:
// column mappings for the given sheet, table mappings for every loaded
// sheet. The maps are fresh copies, detached from engine state.
func (e *Engine) TranslatorOptions(currentSheet string) *excelsql.Options {
	e.mu.RLock()
	defer e.mu.RUnlock()

	opts := excelsql.DefaultOptions()
	opts.CurrentSheet = currentSheet
	opts.ColumnMappings = make(map[string]string)
	opts.SheetMappings = make(map[string]string)

	if mapping, ok := e.columnMapping[currentSheet]; ok {
		for letter, colName := range mapping {
			opts.ColumnMappings[letter] = colName
		}
	}
	for sheet, info := range e.tables {
		opts.SheetMappings[sheet] = info.TableName
	}
	return opts
}

// Query executes a raw SQL query and returns the results.
func (e *Engine) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return e.db.Query(query, args...)
}

// QueryRow executes a query that returns at most one row.
func (e *Engine) QueryRow(query string, args ...interface{}) *sql.Row {
	return e.db.QueryRow(query, args...)
}

// Exec executes a query that doesn't return rows.
func (e *Engine) Exec(query string, args ...interface{}) (sql.Result, error) {
	return e.db.Exec(query, args...)
}

// GetColumnName returns the SQL column name for an Excel column reference.
func (e *Engine) GetColumnName(sheet, excelCol string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if mapping, ok := e.columnMapping[sheet]; ok {
		if sqlCol, ok := mapping[strings.ToUpper(excelCol)]; ok {
			return sqlCol, true
		}
	}
	return "", false
}

// GetTableName returns the SQL table name for a sheet.
func (e *Engine) GetTableName(sheet string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if info, ok := e.tables[sheet]; ok {
		return info.TableName, true
	}
	return "", false
}

// GetTableInfo returns the metadata recorded when a sheet was loaded.
func (e *Engine) GetTableInfo(sheet string) (*TableInfo, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	info, ok := e.tables[sheet]
	return info, ok
}

// Sheets returns the names of all loaded sheets.
func (e *Engine) Sheets() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	sheets := make([]string, 0, len(e.tables))
	for sheet := range e.tables {
		sheets = append(sheets, sheet)
	}
	return sheets
}

// Close closes the DuckDB database connection and releases resources.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

// IsInitialized returns whether the engine has been initialized.
func (e *Engine) IsInitialized() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initialized
}

// GetDB returns the underlying database connection for advanced operations.
func (e *Engine) GetDB() *sql.DB {
	return e.db
}

// Helper functions

// inferColumnTypes picks a DuckDB type per column: DOUBLE when every
// non-nil value in the column is numeric, VARCHAR otherwise (including
// all-nil and empty columns).
func inferColumnTypes(numCols int, rows [][]interface{}) []string {
	types := make([]string, numCols)
	for i := range types {
		numeric := false
		for _, row := range rows {
			if i >= len(row) || row[i] == nil {
				continue
			}
			if !isNumeric(row[i]) {
				numeric = false
				break
			}
			numeric = true
		}
		if numeric {
			types[i] = "DOUBLE"
		} else {
			types[i] = "VARCHAR"
		}
	}
	return types
}

func isNumeric(v interface{}) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// sanitizeTableName converts a sheet name to a valid SQL table name.
func sanitizeTableName(name string) string {
	reg := regexp.MustCompile(`[^a-zA-Z0-9_]`)
	sanitized := reg.ReplaceAllString(name, "_")

	// Ensure it starts with a letter
	if len(sanitized) > 0 && (sanitized[0] >= '0' && sanitized[0] <= '9') {
		sanitized = "t_" + sanitized
	}

	return strings.ToLower(sanitized)
}

// sanitizeColumnName converts a column header to a valid SQL column name.
func sanitizeColumnName(name string) string {
	reg := regexp.MustCompile(`[^a-zA-Z0-9_]`)
	sanitized := reg.ReplaceAllString(name, "_")

	if len(sanitized) > 0 && (sanitized[0] >= '0' && sanitized[0] <= '9') {
		sanitized = "c_" + sanitized
	}

	return strings.ToLower(sanitized)
}

// columnIndexToLetter converts a 0-based column index to Excel column letter (A, B, ..., Z, AA, AB, ...).
func columnIndexToLetter(index int) string {
	result := ""
	for {
		result = string(rune('A'+index%26)) + result
		index = index/26 - 1
		if index < 0 {
			break
		}
	}
	return result
}

// columnLetterToIndex converts an Excel column letter to a 0-based index.
func columnLetterToIndex(letter string) int {
	result := 0
	for i := 0; i < len(letter); i++ {
		result = result*26 + int(letter[i]-'A') + 1
	}
	return result - 1
}
