// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package excelsql

import "fmt"

// TokenType identifies the lexical class of a formula token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenUnknown

	// Literals
	TokenNumber // 123, 45.67, 50%
	TokenString // "hello"

	// References
	TokenCellRef  // A1, $B$2
	TokenRangeRef // A1:B10
	TokenTableRef // Table[[#This Row],[Amount]]
	TokenSheetRef // Sheet2! or 'My Sheet'!

	// Structure
	TokenFunction // SUM, IF, VLOOKUP (identifier followed by '(')
	TokenOperator // + - * / ^ & = <> < > <= >=
	TokenLParen   // (
	TokenRParen   // )
	TokenComma    // ,
	TokenPercent  // stray % not attached to a number
)

// tokenTypeNames maps token types to their canonical names.
var tokenTypeNames = map[TokenType]string{
	TokenEOF:      "END_OF_STREAM",
	TokenUnknown:  "UNKNOWN",
	TokenNumber:   "NUMBER",
	TokenString:   "STRING",
	TokenCellRef:  "CELL_REF",
	TokenRangeRef: "RANGE_REF",
	TokenTableRef: "TABLE_REF",
	TokenSheetRef: "SHEET_REF",
	TokenFunction: "FUNCTION",
	TokenOperator: "OPERATOR",
	TokenLParen:   "LPAREN",
	TokenRParen:   "RPAREN",
	TokenComma:    "COMMA",
	TokenPercent:  "PERCENT",
}

// String returns the canonical name of the token type.
func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a single lexical unit of a formula. Value holds the textual
// payload. Number tokens additionally carry the parsed value in Num, so a
// percent literal like 50% keeps its folded value (0.5) without re-lexing.
// Table reference tokens carry the split payload in Table, Column and Full.
// Pos is the zero-based offset into the normalized formula string and is
// used for diagnostics only.
type Token struct {
	Type   TokenType
	Value  string
	Num    float64
	Table  string
	Column string
	Full   string
	Pos    int
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("Token{%s, %q, pos:%d}", t.Type, t.Value, t.Pos)
}
