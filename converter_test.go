// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package excelsql

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// demoColumnMappings maps every column letter A-Z to col_a .. col_z.
func demoColumnMappings() map[string]string {
	mappings := make(map[string]string, 26)
	for i := 0; i < 26; i++ {
		mappings[string(rune('A'+i))] = fmt.Sprintf("col_%c", 'a'+i)
	}
	return mappings
}

func TestConvertOperatorPrecedence(t *testing.T) {
	tests := []struct {
		formula string
		want    string
	}{
		{"A1+B1*C1", "(a + (b * c))"},
		{"(A1+B1)*C1", "((a + b) * c)"},
		{"2^3^2", "POWER(2.0, POWER(3.0, 2.0))"},
		{"A1+1>B1*2", "((a + 1.0) > (b * 2.0))"},
		{"A1&B1", "(a || b)"},
		{"A1<>B1", "(a != b)"},
		{"A1<=B1", "(a <= b)"},
		{"-A1", "(-a)"},
		{"+A1", "a"},
		{"A1^2", "POWER(a, 2.0)"},
	}

	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			// No explicit mappings: letters fall back to lowercase.
			assert.Equal(t, tt.want, ConvertFormula(tt.formula, nil, nil, "Sheet1"))
		})
	}
}

func TestConvertNumberLiterals(t *testing.T) {
	tests := []struct {
		formula string
		want    string
	}{
		{"1", "1.0"},
		{"100", "100.0"},
		{"0.5", "0.5"},
		{"3.14", "3.14"},
		{"50%", "0.5"},
		{"2.5%", "0.025"},
		{"-5", "(-5.0)"},
	}

	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertFormula(tt.formula, nil, nil, "Sheet1"))
		})
	}
}

func TestConvertStringEscaping(t *testing.T) {
	assert.Equal(t, "'hello'", ConvertFormula(`"hello"`, nil, nil, "Sheet1"))
	assert.Equal(t, "'it''s'", ConvertFormula(`"it's"`, nil, nil, "Sheet1"))
	assert.Equal(t, "(a || 'it''s')", ConvertFormula(`A1&"it's"`, nil, nil, "Sheet1"))
}

func TestConvertCellRefMappings(t *testing.T) {
	mappings := map[string]string{"A": "amount", "B": "price"}

	assert.Equal(t, "(amount * price)", ConvertFormula("A2*B2", mappings, nil, "Sheet1"))
	// Unmapped letters fall back to lowercase, dollars and digits stripped.
	assert.Equal(t, "(amount + z)", ConvertFormula("$A$2+Z9", mappings, nil, "Sheet1"))
}

func TestConvertSheetQualification(t *testing.T) {
	cols := demoColumnMappings()
	sheets := map[string]string{"Sheet2": "other_table"}

	// Cross-sheet references qualify with the mapped table name.
	got := ConvertFormula("Sheet2!A2+Sheet2!B2", cols, sheets, "Sheet1")
	assert.Equal(t, "(other_table.col_a + other_table.col_b)", got)

	// References to the formula's own sheet stay bare.
	got = ConvertFormula("Sheet2!A2+Sheet2!B2", cols, sheets, "Sheet2")
	assert.Equal(t, "(col_a + col_b)", got)

	// Unmapped sheets fall back to the lowercased sheet name.
	got = ConvertFormula("Archive!A2", cols, nil, "Sheet1")
	assert.Equal(t, "archive.col_a", got)
}

func TestConvertRangeBecomesComment(t *testing.T) {
	got := ConvertFormula("SUM(C2:C10)", nil, nil, "Sheet1")
	assert.Equal(t, "SUM(/* RANGE: C2:C10 */)", got)
	assert.True(t, NeedsReview(got))
}

func TestConvertFunctions(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		want    string
	}{
		{"round", "ROUND(E2/F2, 2)", "ROUND((e / f), 2.0)"},
		{"abs", "ABS(A1)", "ABS(a)"},
		{"if with else", `IF(D2>100,"High","Low")`, "CASE WHEN (d > 100.0) THEN 'High' ELSE 'Low' END"},
		{"if without else", "IF(A1>1,B1)", "CASE WHEN (a > 1.0) THEN b ELSE NULL END"},
		{"iferror", "IFERROR(K2/L2, 0)", "COALESCE((k / l), 0.0)"},
		{"and", "AND(M2>0, N2<100)", "((m > 0.0) AND (n < 100.0))"},
		{"or", "OR(A1=1, A1=2)", "((a = 1.0) OR (a = 2.0))"},
		{"not", "NOT(A1>1)", "NOT ((a > 1.0))"},
		{"len renames", "LEN(A1)", "LENGTH(a)"},
		{"trim", "TRIM(A1)", "TRIM(a)"},
		{"upper", "UPPER(A1)", "UPPER(a)"},
		{"concat", `CONCAT(A1, " ", B1)`, "CONCAT(a, ' ', b)"},
		{"concatenate renames", "CONCATENATE(A1, B1)", "CONCAT(a, b)"},
		{"nested", "IF(AND(M2>0, N2<100), M2*0.1, 0)", "CASE WHEN ((m > 0.0) AND (n < 100.0)) THEN (m * 0.1) ELSE 0.0 END"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertFormula(tt.formula, nil, nil, "Sheet1"))
		})
	}
}

func TestConvertRestructureMarkers(t *testing.T) {
	// Lookups and conditional aggregates cannot translate at expression
	// level; they must surface as TODO comments naming the function.
	tests := []struct {
		formula string
		name    string
		advice  string
	}{
		{"VLOOKUP(A1, D1, 2)", "VLOOKUP", "Convert to JOIN"},
		{"INDEX(A1, 2)", "INDEX", "Convert to JOIN"},
		{"MATCH(A1, B1)", "MATCH", "Convert to JOIN"},
		{"SUMIF(A1, B1)", "SUMIF", "Convert to WHERE clause"},
		{"COUNTIFS(A1, B1)", "COUNTIFS", "Convert to WHERE clause"},
		{"SUMIFS(A1, B1, C1)", "SUMIFS", "Convert to WHERE clause"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertFormula(tt.formula, nil, nil, "Sheet1")
			assert.Contains(t, got, "TODO")
			assert.Contains(t, got, tt.name)
			assert.Contains(t, got, tt.advice)
			assert.True(t, NeedsReview(got))
		})
	}
}

func TestConvertUnknownFunctionPreserved(t *testing.T) {
	got := ConvertFormula("FROBNICATE(A1, 2)", nil, nil, "Sheet1")
	assert.Equal(t, "/* FROBNICATE(a, 2.0) */", got)

	// AVERAGE is deliberately not in the dispatch table; SQL uses AVG.
	got = ConvertFormula("AVERAGE(A1)", nil, nil, "Sheet1")
	assert.Equal(t, "/* AVERAGE(a) */", got)
}

func TestConvertMalformedConditionalsFallThrough(t *testing.T) {
	// IF and IFERROR below their minimum arity keep the generic comment
	// path instead of emitting broken CASE or COALESCE forms.
	assert.Equal(t, "/* IF(a) */", ConvertFormula("IF(A1)", nil, nil, "Sheet1"))
	assert.Equal(t, "/* IFERROR(a) */", ConvertFormula("IFERROR(A1)", nil, nil, "Sheet1"))
}

func TestConvertTableRefHeuristics(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		want    string
	}{
		{"this row", "Table[[#This Row],[Amount]]", "amount"},
		{"simple column", "Table[Price]", "price"},
		{"column with space", "Orders[Unit Price]", "unit_price"},
		{"totals row form", "Table[[#Totals Row],[Amount]]", "amount"},
		{"empty specifier falls back to table", "Inventory[]", "inventory"},
		{"this row pair", "Table[[#This Row],[Amount]]*Table[[#This Row],[Price]]", "(amount * price)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertFormula(tt.formula, nil, nil, "Sheet1"))
		})
	}
}

func TestConvertExoticTableSelectors(t *testing.T) {
	// Selector forms with no expression-level equivalent surface as
	// comments instead of a guessed column name.
	for _, formula := range []string{
		"Table[#All]",
		"Table[#Headers]",
		"Table[#Totals]",
		"Sales[[Amount]:[Price]]",
	} {
		t.Run(formula, func(t *testing.T) {
			got := ConvertFormula(formula, nil, nil, "Sheet1")
			assert.Contains(t, got, "TODO")
			assert.Contains(t, got, "unsupported structured reference selector")
			assert.True(t, NeedsReview(got))
		})
	}
}

func TestConvertErrorDegradesToComment(t *testing.T) {
	tests := []struct {
		name    string
		formula string
	}{
		{"stray operator", "=*A1"},
		{"unmatched paren", "=(A1"},
		{"unknown characters", "=A1+@#"},
		{"trailing garbage", "=A1 B1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertFormula(tt.formula, nil, nil, "Sheet1")
			assert.Contains(t, got, "/* ERROR converting formula: "+tt.formula)
			assert.True(t, NeedsReview(got))
		})
	}
}

func TestConvertCleanFormulasHaveNoErrorMarker(t *testing.T) {
	// Pure arithmetic over numbers and cells with balanced parentheses
	// always yields executable output.
	for _, formula := range []string{
		"1+2*3",
		"(A1+B1)/(C1-D1)",
		"A1^B1^C1",
		"-A1*+B1",
		"A1&B1&C1",
		"((((A1))))",
	} {
		got := ConvertFormula(formula, nil, nil, "Sheet1")
		assert.NotContains(t, got, "/* ERROR", formula)
		assert.False(t, NeedsReview(got), formula)
	}
}
