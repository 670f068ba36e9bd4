// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package excelsql

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	cellAxisStripRe = regexp.MustCompile(`[$\d]`)
	thisRowColRe    = regexp.MustCompile(`\[\[#This Row\],\[([^\]]+)\]\]`)
	simpleColRe     = regexp.MustCompile(`^\[([^\]]+)\]$`)
	specialRowRe    = regexp.MustCompile(`#\w+\s+Row`)
	tableSelectorRe = regexp.MustCompile(`#(All|Headers|Totals|Data)\b`)
	multiColSpanRe  = regexp.MustCompile(`\]:\[`)
	nonWordRe       = regexp.MustCompile(`\W`)
)

// binaryOps maps formula operators to their SQL spelling. ^ is absent
// because it renders as a POWER call, not infix.
var binaryOps = map[string]string{
	"+":  "+",
	"-":  "-",
	"*":  "*",
	"/":  "/",
	"&":  "||",
	"=":  "=",
	"<>": "!=",
	"<":  "<",
	">":  ">",
	"<=": "<=",
	">=": ">=",
}

// Converter renders an AST into a SQL expression fragment using the
// caller-supplied name mappings. Mappings are read-only to the converter;
// missing keys fall back to derived lowercase names rather than failing.
type Converter struct {
	columnMappings map[string]string
	sheetMappings  map[string]string
	currentSheet   string
}

// NewConverter creates a converter over the given column and sheet
// mappings. Either map may be nil.
func NewConverter(columnMappings, sheetMappings map[string]string) *Converter {
	return &Converter{
		columnMappings: columnMappings,
		sheetMappings:  sheetMappings,
	}
}

// Convert walks the tree and returns the SQL fragment. currentSheet is the
// sheet the formula lives on: references to it stay bare, references to
// any other sheet are qualified with the mapped table name.
func (c *Converter) Convert(root Node, currentSheet string) string {
	c.currentSheet = currentSheet
	return root.sql(c)
}

func (n *NumberNode) sql(c *Converter) string {
	return formatNumber(n.Value)
}

func (n *StringNode) sql(c *Converter) string {
	return "'" + strings.ReplaceAll(n.Value, "'", "''") + "'"
}

func (n *CellRefNode) sql(c *Converter) string {
	letters := cellAxisStripRe.ReplaceAllString(n.Cell, "")
	column, ok := c.columnMappings[letters]
	if !ok {
		column = strings.ToLower(letters)
	}
	if n.Sheet != "" && n.Sheet != c.currentSheet {
		table, ok := c.sheetMappings[n.Sheet]
		if !ok {
			table = strings.ToLower(n.Sheet)
		}
		return table + "." + column
	}
	return column
}

func (n *RangeRefNode) sql(c *Converter) string {
	// A range is not a scalar expression; surface it for manual follow-up.
	return "/* RANGE: " + n.Range + " */"
}

// sql recovers a plain column name from structured-reference syntax with
// three heuristics tried in order: the [[#This Row],[Col]] form, the bare
// [Col] form, then a scrub of special-row markers and punctuation falling
// back to the table name. Selector forms with no expression-level SQL
// equivalent ([#All], [#Headers], [#Totals], [#Data], multi-column spans)
// surface as annotated comments instead of a guessed column.
func (n *TableRefNode) sql(c *Converter) string {
	if m := thisRowColRe.FindStringSubmatch(n.Column); m != nil {
		return normalizeColumnName(m[1])
	}

	scrubbed := specialRowRe.ReplaceAllString(n.Column, "")
	if tableSelectorRe.MatchString(scrubbed) || multiColSpanRe.MatchString(n.Column) {
		return "/* TODO: " + n.Full + " - unsupported structured reference selector */"
	}

	if m := simpleColRe.FindStringSubmatch(n.Column); m != nil {
		return normalizeColumnName(m[1])
	}

	name := strings.Trim(n.Column, "[]")
	name = specialRowRe.ReplaceAllString(name, "")
	name = strings.Trim(name, ",[] ")
	if normalized := normalizeColumnName(name); normalized != "" {
		return normalized
	}
	return strings.ToLower(n.Table)
}

func (n *BinaryOpNode) sql(c *Converter) string {
	left := n.Left.sql(c)
	right := n.Right.sql(c)

	if n.Op == "^" {
		return "POWER(" + left + ", " + right + ")"
	}
	op, ok := binaryOps[n.Op]
	if !ok {
		op = n.Op
	}
	return "(" + left + " " + op + " " + right + ")"
}

func (n *UnaryOpNode) sql(c *Converter) string {
	operand := n.Operand.sql(c)
	if n.Op == "-" {
		return "(-" + operand + ")"
	}
	return operand
}

func (n *FunctionNode) sql(c *Converter) string {
	args := make([]string, len(n.Args))
	for i, arg := range n.Args {
		args[i] = arg.sql(c)
	}
	return renderFunction(n.Name, args)
}

// formatNumber renders a numeric literal. Integral values keep a trailing
// .0 (1 -> "1.0") so numeric literals read unambiguously as floats;
// everything else uses the shortest round-trip form.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// normalizeColumnName folds a raw column label into a SQL-safe identifier:
// non-word characters become underscores, trimmed at the ends, lowercased.
func normalizeColumnName(name string) string {
	return strings.ToLower(strings.Trim(nonWordRe.ReplaceAllString(name, "_"), "_"))
}
