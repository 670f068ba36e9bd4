// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package excelsql

import "strings"

// ruleKind selects the rendering strategy for a recognized function.
type ruleKind int

const (
	ruleCall        ruleKind = iota // NAME(all args), possibly renamed
	ruleFirstArg                    // NAME(first arg), NULL when absent
	ruleCase                        // IF -> CASE WHEN ... END
	ruleCoalesce                    // IFERROR -> COALESCE
	ruleJoin                        // AND/OR -> parenthesized infix join
	ruleNot                         // NOT (x), NOT (TRUE) when empty
	ruleRestructure                 // inert TODO comment with rewrite advice
)

// funcRule is one entry of the dispatch table: how a function renders and,
// for restructure markers, what rewrite the comment should suggest.
type funcRule struct {
	kind   ruleKind
	name   string
	advice string
}

// functionRules maps canonical (uppercased) function names to their
// translation rule. Names absent from the table render as inert comments
// preserving the call, never silently dropped. Lookups and conditional
// aggregates need relational restructuring (JOINs, WHERE clauses) that
// expression-level translation cannot provide, so they only ever emit
// restructure markers.
var functionRules = map[string]funcRule{
	// Direct aggregate and math pass-through
	"SUM":   {kind: ruleCall, name: "SUM"},
	"AVG":   {kind: ruleCall, name: "AVG"},
	"COUNT": {kind: ruleCall, name: "COUNT"},
	"MIN":   {kind: ruleCall, name: "MIN"},
	"MAX":   {kind: ruleCall, name: "MAX"},
	"ROUND": {kind: ruleCall, name: "ROUND"},
	"ABS":   {kind: ruleCall, name: "ABS"},
	"SQRT":  {kind: ruleCall, name: "SQRT"},

	// Text
	"CONCAT":      {kind: ruleCall, name: "CONCAT"},
	"CONCATENATE": {kind: ruleCall, name: "CONCAT"},
	"TRIM":        {kind: ruleFirstArg, name: "TRIM"},
	"UPPER":       {kind: ruleFirstArg, name: "UPPER"},
	"LOWER":       {kind: ruleFirstArg, name: "LOWER"},
	"LEN":         {kind: ruleFirstArg, name: "LENGTH"},

	// Conditionals and logic
	"IF":      {kind: ruleCase},
	"IFERROR": {kind: ruleCoalesce},
	"AND":     {kind: ruleJoin, name: "AND"},
	"OR":      {kind: ruleJoin, name: "OR"},
	"NOT":     {kind: ruleNot},

	// Lookups: need JOINs
	"INDEX":   {kind: ruleRestructure, advice: "Convert to JOIN"},
	"MATCH":   {kind: ruleRestructure, advice: "Convert to JOIN"},
	"VLOOKUP": {kind: ruleRestructure, advice: "Convert to JOIN"},
	"HLOOKUP": {kind: ruleRestructure, advice: "Convert to JOIN"},
	"XLOOKUP": {kind: ruleRestructure, advice: "Convert to JOIN"},

	// Conditional aggregates: need WHERE clauses
	"COUNTIF":    {kind: ruleRestructure, advice: "Convert to WHERE clause"},
	"SUMIF":      {kind: ruleRestructure, advice: "Convert to WHERE clause"},
	"COUNTIFS":   {kind: ruleRestructure, advice: "Convert to WHERE clause"},
	"SUMIFS":     {kind: ruleRestructure, advice: "Convert to WHERE clause"},
	"AVERAGEIFS": {kind: ruleRestructure, advice: "Convert to WHERE clause"},
}

// renderFunction renders a call through the dispatch table, args already
// converted to SQL.
func renderFunction(name string, args []string) string {
	upper := strings.ToUpper(name)
	argList := strings.Join(args, ", ")

	rule, ok := functionRules[upper]
	if !ok {
		return "/* " + upper + "(" + argList + ") */"
	}

	switch rule.kind {
	case ruleCall:
		return rule.name + "(" + argList + ")"

	case ruleFirstArg:
		if len(args) == 0 {
			return rule.name + "(NULL)"
		}
		return rule.name + "(" + args[0] + ")"

	case ruleCase:
		if len(args) < 2 {
			break
		}
		elseVal := "NULL"
		if len(args) > 2 {
			elseVal = args[2]
		}
		return "CASE WHEN " + args[0] + " THEN " + args[1] + " ELSE " + elseVal + " END"

	case ruleCoalesce:
		if len(args) < 2 {
			break
		}
		return "COALESCE(" + args[0] + ", " + args[1] + ")"

	case ruleJoin:
		return "(" + strings.Join(args, " "+rule.name+" ") + ")"

	case ruleNot:
		if len(args) == 0 {
			return "NOT (TRUE)"
		}
		return "NOT (" + args[0] + ")"

	case ruleRestructure:
		return "/* TODO: " + upper + "(" + argList + ") - " + rule.advice + " */"
	}

	// Under-provisioned IF/IFERROR land here with the unknowns.
	return "/* " + upper + "(" + argList + ") */"
}
