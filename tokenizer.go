// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package excelsql

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	tableRefHeadRe = regexp.MustCompile(`^[A-Za-z_]\w*\[`)
	identRe        = regexp.MustCompile(`^[A-Za-z_]\w*`)
	bareSheetRe    = regexp.MustCompile(`^[A-Za-z_]\w*!`)
	rangeRefRe     = regexp.MustCompile(`^\$?[A-Za-z]+\$?\d+:\$?[A-Za-z]+\$?\d+`)
	cellRefRe      = regexp.MustCompile(`^\$?[A-Za-z]+\$?\d+`)
	numberRe       = regexp.MustCompile(`^(?:\d+\.?\d*|\.\d+)`)
	funcNameRe     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*`)
)

// operators recognized by the tokenizer. Multi-character operators come
// first: the list is scanned in order and <= must shadow <, etc.
var operators = []string{"<>", "<=", ">=", "<", ">", "=", "+", "-", "*", "/", "^", "&"}

// Tokenizer scans a single formula string into a flat token sequence. All
// scanner state lives on the instance and is confined to one Tokenize call;
// create a fresh Tokenizer per formula.
type Tokenizer struct {
	formula string
	pos     int
	length  int
}

// NewTokenizer prepares a tokenizer for the given formula. Leading equals
// signs and surrounding whitespace are stripped up front, so "=A1+B1" and
// "A1+B1" scan identically.
func NewTokenizer(formula string) *Tokenizer {
	normalized := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(formula), "="))
	return &Tokenizer{formula: normalized, length: len(normalized)}
}

// Tokenize scans the whole formula. It never fails: characters no matcher
// recognizes become UNKNOWN tokens so the parser can report them with a
// position instead of the input being silently reshaped. The returned
// sequence always ends with exactly one END_OF_STREAM token.
func (t *Tokenizer) Tokenize() []Token {
	// The matcher order is a correctness invariant: earlier rules shadow
	// ambiguous prefixes of later ones (Table[ before Sheet!, A1:B2 before
	// A1, 50% before the bare operators).
	matchers := []func() *Token{
		t.matchString,
		t.matchTableRef,
		t.matchSheetRef,
		t.matchRange,
		t.matchCellRef,
		t.matchNumber,
		t.matchFunction,
		t.matchOperator,
		t.matchPunctuation,
	}

	var tokens []Token
	for t.pos < t.length {
		if isSpace(t.formula[t.pos]) {
			t.pos++
			continue
		}

		var tok *Token
		for _, match := range matchers {
			if tok = match(); tok != nil {
				break
			}
		}
		if tok == nil {
			tok = &Token{Type: TokenUnknown, Value: string(t.formula[t.pos]), Pos: t.pos}
			t.pos++
		}
		tokens = append(tokens, *tok)
	}

	tokens = append(tokens, Token{Type: TokenEOF, Pos: t.pos})
	return tokens
}

// Tokenize scans formula into tokens using a throwaway Tokenizer.
func Tokenize(formula string) []Token {
	return NewTokenizer(formula).Tokenize()
}

// matchString scans a double-quoted string literal. A doubled quote ("")
// is an escaped literal quote. An unterminated string at end of input is
// returned best-effort rather than rejected.
func (t *Tokenizer) matchString() *Token {
	if t.formula[t.pos] != '"' {
		return nil
	}
	start := t.pos
	t.pos++

	var b strings.Builder
	for t.pos < t.length {
		if t.formula[t.pos] == '"' {
			if t.pos+1 < t.length && t.formula[t.pos+1] == '"' {
				b.WriteByte('"')
				t.pos += 2
				continue
			}
			t.pos++
			return &Token{Type: TokenString, Value: b.String(), Pos: start}
		}
		b.WriteByte(t.formula[t.pos])
		t.pos++
	}
	return &Token{Type: TokenString, Value: b.String(), Pos: start}
}

// matchTableRef scans a structured table reference such as
// Table[[#This Row],[Amount]]. The bracketed specifier may nest, so the
// scan counts bracket depth to find the matching close instead of stopping
// at the first ].
func (t *Tokenizer) matchTableRef() *Token {
	rest := t.formula[t.pos:]
	if !tableRefHeadRe.MatchString(rest) {
		return nil
	}
	start := t.pos
	table := identRe.FindString(rest)
	t.pos += len(table)

	depth := 0
	columnStart := t.pos
	for t.pos < t.length {
		switch t.formula[t.pos] {
		case '[':
			depth++
		case ']':
			depth--
		}
		t.pos++
		if depth == 0 {
			break
		}
	}

	full := t.formula[start:t.pos]
	return &Token{
		Type:   TokenTableRef,
		Value:  full,
		Table:  table,
		Column: t.formula[columnStart:t.pos],
		Full:   full,
		Pos:    start,
	}
}

// matchSheetRef scans a sheet qualifier: either 'Sheet Name'! with quote
// doubling inside, or a bare Identifier!. Both are only recognized when the
// terminating ! is present; otherwise the scan backtracks entirely.
func (t *Tokenizer) matchSheetRef() *Token {
	start := t.pos

	if t.formula[t.pos] == '\'' {
		t.pos++
		var b strings.Builder
		for t.pos < t.length {
			if t.formula[t.pos] == '\'' {
				if t.pos+1 < t.length && t.formula[t.pos+1] == '\'' {
					b.WriteByte('\'')
					t.pos += 2
					continue
				}
				break
			}
			b.WriteByte(t.formula[t.pos])
			t.pos++
		}
		if t.pos+1 < t.length && t.formula[t.pos] == '\'' && t.formula[t.pos+1] == '!' {
			t.pos += 2
			return &Token{Type: TokenSheetRef, Value: b.String(), Pos: start}
		}
		t.pos = start
		return nil
	}

	if m := bareSheetRe.FindString(t.formula[t.pos:]); m != "" {
		t.pos += len(m)
		return &Token{Type: TokenSheetRef, Value: m[:len(m)-1], Pos: start}
	}
	return nil
}

// matchRange scans an A1:B10 style range. Tried before the single-cell
// matcher so the left endpoint is not truncated into a lone cell ref.
func (t *Tokenizer) matchRange() *Token {
	m := rangeRefRe.FindString(t.formula[t.pos:])
	if m == "" {
		return nil
	}
	tok := &Token{Type: TokenRangeRef, Value: strings.ToUpper(m), Pos: t.pos}
	t.pos += len(m)
	return tok
}

// matchCellRef scans a single A1 style reference, case-insensitively,
// normalized to uppercase. Absolute markers ($A$1) are preserved.
func (t *Tokenizer) matchCellRef() *Token {
	m := cellRefRe.FindString(t.formula[t.pos:])
	if m == "" {
		return nil
	}
	tok := &Token{Type: TokenCellRef, Value: strings.ToUpper(m), Pos: t.pos}
	t.pos += len(m)
	return tok
}

// matchNumber scans an integer or decimal literal. A percent sign directly
// after the digits (no intervening whitespace) is consumed and folds the
// value by /100, so 50% carries 0.5.
func (t *Tokenizer) matchNumber() *Token {
	m := numberRe.FindString(t.formula[t.pos:])
	if m == "" {
		return nil
	}
	start := t.pos
	t.pos += len(m)

	value, _ := strconv.ParseFloat(m, 64)
	if t.pos < t.length && t.formula[t.pos] == '%' {
		t.pos++
		return &Token{Type: TokenNumber, Value: m + "%", Num: value / 100, Pos: start}
	}
	return &Token{Type: TokenNumber, Value: m, Num: value, Pos: start}
}

// matchFunction scans a function name: an identifier (dots allowed, so
// CEILING.MATH works) immediately followed by an opening parenthesis. The
// parenthesis is lookahead only and stays in the stream; the name is
// uppercased for canonical dispatch downstream.
func (t *Tokenizer) matchFunction() *Token {
	m := funcNameRe.FindString(t.formula[t.pos:])
	if m == "" {
		return nil
	}
	if t.pos+len(m) >= t.length || t.formula[t.pos+len(m)] != '(' {
		return nil
	}
	tok := &Token{Type: TokenFunction, Value: strings.ToUpper(m), Pos: t.pos}
	t.pos += len(m)
	return tok
}

func (t *Tokenizer) matchOperator() *Token {
	rest := t.formula[t.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			tok := &Token{Type: TokenOperator, Value: op, Pos: t.pos}
			t.pos += len(op)
			return tok
		}
	}
	return nil
}

func (t *Tokenizer) matchPunctuation() *Token {
	var typ TokenType
	switch t.formula[t.pos] {
	case '(':
		typ = TokenLParen
	case ')':
		typ = TokenRParen
	case ',':
		typ = TokenComma
	case '%':
		// % not glued to a number literal
		typ = TokenPercent
	default:
		return nil
	}
	tok := &Token{Type: typ, Value: string(t.formula[t.pos]), Pos: t.pos}
	t.pos++
	return tok
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
