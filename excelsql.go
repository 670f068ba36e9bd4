// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package excelsql translates Excel-style formula expressions into SQL
// expression fragments. The pipeline tokenizes a formula, parses it with
// Excel operator precedence into an AST, and renders SQL using caller
// supplied column and sheet name mappings. Constructs with no expression
// level SQL equivalent (ranges, lookups, conditional aggregates, unknown
// functions) surface as inert /* ... */ comments for manual follow-up
// instead of being guessed or dropped.
package excelsql

import (
	"fmt"
	"strings"

	"github.com/tiendc/go-deepcopy"
)

// Options configures a Translator.
type Options struct {
	// ColumnMappings maps spreadsheet column letters ("A", "B") to SQL
	// column names. Letters without an entry fall back to their lowercase
	// form.
	ColumnMappings map[string]string
	// SheetMappings maps sheet names to SQL table names. Sheets without an
	// entry fall back to the lowercased sheet name.
	SheetMappings map[string]string
	// CurrentSheet is the sheet the translated formulas live on. Only
	// references to other sheets are table-qualified in the output.
	CurrentSheet string
	// CacheSize bounds the translation result cache; zero disables it.
	CacheSize int
}

// DefaultOptions returns translator options with empty mappings, Sheet1 as
// the current sheet and result caching enabled.
func DefaultOptions() *Options {
	return &Options{
		ColumnMappings: map[string]string{},
		SheetMappings:  map[string]string{},
		CurrentSheet:   "Sheet1",
		CacheSize:      1024,
	}
}

// Clone returns a deep copy, so options handed to another component do not
// share the underlying maps with the caller.
func (o *Options) Clone() (*Options, error) {
	clone := &Options{}
	if err := deepcopy.Copy(clone, o); err != nil {
		return nil, fmt.Errorf("clone options: %w", err)
	}
	return clone, nil
}

// Translator converts formulas into SQL fragments. It is safe for
// concurrent use: every Translate call runs the pipeline on its own
// scanner and parser state, and the result cache carries its own lock.
type Translator struct {
	opts  *Options
	cache *resultCache
}

// New creates a Translator. A nil opts gets DefaultOptions. The options
// are deep-copied, so later changes to the caller's maps do not leak into
// the translator.
func New(opts *Options) *Translator {
	if opts == nil {
		opts = DefaultOptions()
	}
	if clone, err := opts.Clone(); err == nil {
		opts = clone
	}
	t := &Translator{opts: opts}
	if opts.CacheSize > 0 {
		t.cache = newResultCache(opts.CacheSize)
	}
	return t
}

// Translate converts one formula, with or without its leading =. It never
// fails: any tokenizer, parser or converter problem degrades into an inert
// SQL comment embedding the original formula and the error, so callers
// always receive a string. Any /* ... */ marker in the output means the
// fragment needs manual review before execution.
func (t *Translator) Translate(formula string) string {
	if t.cache != nil {
		if sql, ok := t.cache.Load(formula); ok {
			return sql
		}
	}
	sql := t.translate(formula)
	if t.cache != nil {
		t.cache.Store(formula, sql)
	}
	return sql
}

// TranslateAll translates formulas in order, one result per input.
func (t *Translator) TranslateAll(formulas []string) []string {
	results := make([]string, len(formulas))
	for i, formula := range formulas {
		results[i] = t.Translate(formula)
	}
	return results
}

// Options returns a deep copy of the translator's options.
func (t *Translator) Options() *Options {
	clone, err := t.opts.Clone()
	if err != nil {
		return t.opts
	}
	return clone
}

// translate runs the pipeline once. The deferred recover is the single
// boundary the never-throws contract hangs on: nothing below it is
// expected to panic, but if anything does, the caller still gets the
// annotated comment instead of a crash.
func (t *Translator) translate(formula string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = errorComment(formula, fmt.Errorf("%v", r))
		}
	}()

	tokens := Tokenize(formula)
	root, err := NewParser(tokens).Parse()
	if err != nil {
		return errorComment(formula, err)
	}

	conv := NewConverter(t.opts.ColumnMappings, t.opts.SheetMappings)
	return conv.Convert(root, t.opts.CurrentSheet)
}

// ConvertFormula translates a single formula with explicit mappings, the
// one-call form of the pipeline.
func ConvertFormula(formula string, columnMappings, sheetMappings map[string]string, currentSheet string) string {
	t := New(&Options{
		ColumnMappings: columnMappings,
		SheetMappings:  sheetMappings,
		CurrentSheet:   currentSheet,
	})
	return t.Translate(formula)
}

// NeedsReview reports whether a translated fragment contains an inert
// comment marker (a range, lookup, conditional aggregate, unknown function
// or pipeline error) and so cannot be executed as-is.
func NeedsReview(sql string) bool {
	return strings.Contains(sql, "/*")
}

func errorComment(formula string, err error) string {
	return "/* ERROR converting formula: " + formula + " - " + err.Error() + " */"
}
