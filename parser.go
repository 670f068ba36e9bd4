// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package excelsql

import "fmt"

// ParseError describes a structural problem in a formula: a token that
// cannot begin an expression, an unmatched parenthesis, a dangling sheet
// qualifier, or trailing input after a complete expression. Pos is the
// offset of the offending token in the normalized formula.
type ParseError struct {
	Pos  int
	Got  string
	Want string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: unexpected %s, want %s", e.Pos, e.Got, e.Want)
}

// Parser builds a single AST from a token sequence. The position cursor
// advances monotonically; a consumed token is never re-read. State is
// confined to one Parse call.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser prepares a parser for the given token sequence, which must end
// with an END_OF_STREAM token (Tokenize guarantees this).
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes the whole stream and returns the root node. Malformed
// input is rejected with a *ParseError rather than silently patched; the
// top-level driver is responsible for degrading that to an annotated
// comment.
func (p *Parser) Parse() (Node, error) {
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.Type != TokenEOF {
		return nil, &ParseError{Pos: tok.Pos, Got: describeToken(tok), Want: "end of formula"}
	}
	return node, nil
}

func (p *Parser) current() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	if len(p.tokens) == 0 {
		return Token{Type: TokenEOF}
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) advance() {
	p.pos++
}

func (p *Parser) parseExpression() (Node, error) {
	return p.parseComparison()
}

// parseComparison handles = <> < > <= >=, the loosest level,
// left-associative.
func (p *Parser) parseComparison() (Node, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.current()
		if tok.Type != TokenOperator || !isComparisonOp(tok.Value) {
			return left, nil
		}
		p.advance()
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		left = &BinaryOpNode{Op: tok.Value, Left: left, Right: right}
	}
}

// parseConcat handles the & string concatenation operator,
// left-associative.
func (p *Parser) parseConcat() (Node, error) {
	left, err := p.parseAddition()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokenOperator && p.current().Value == "&" {
		p.advance()
		right, err := p.parseAddition()
		if err != nil {
			return nil, err
		}
		left = &BinaryOpNode{Op: "&", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAddition() (Node, error) {
	left, err := p.parseMultiplication()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.current()
		if tok.Type != TokenOperator || (tok.Value != "+" && tok.Value != "-") {
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplication()
		if err != nil {
			return nil, err
		}
		left = &BinaryOpNode{Op: tok.Value, Left: left, Right: right}
	}
}

func (p *Parser) parseMultiplication() (Node, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.current()
		if tok.Type != TokenOperator || (tok.Value != "*" && tok.Value != "/") {
			return left, nil
		}
		p.advance()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &BinaryOpNode{Op: tok.Value, Left: left, Right: right}
	}
}

// parsePower handles ^, the one right-associative operator: 2^3^2 parses
// as 2^(3^2), so the right operand recurses into this level instead of
// looping.
func (p *Parser) parsePower() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.current().Type == TokenOperator && p.current().Value == "^" {
		p.advance()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		return &BinaryOpNode{Op: "^", Left: left, Right: right}, nil
	}
	return left, nil
}

// parseUnary handles prefix - and +, recursing into itself so chains like
// --A1 nest.
func (p *Parser) parseUnary() (Node, error) {
	tok := p.current()
	if tok.Type == TokenOperator && (tok.Value == "-" || tok.Value == "+") {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryOpNode{Op: tok.Value, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Node, error) {
	tok := p.current()

	switch tok.Type {
	case TokenNumber:
		p.advance()
		return &NumberNode{Value: tok.Num}, nil

	case TokenString:
		p.advance()
		return &StringNode{Value: tok.Value}, nil

	case TokenSheetRef:
		// A sheet qualifier attaches to the cell or range that follows it.
		sheet := tok.Value
		p.advance()
		next := p.current()
		switch next.Type {
		case TokenCellRef:
			p.advance()
			return &CellRefNode{Cell: next.Value, Sheet: sheet}, nil
		case TokenRangeRef:
			p.advance()
			return &RangeRefNode{Range: next.Value, Sheet: sheet}, nil
		}
		return nil, &ParseError{Pos: next.Pos, Got: describeToken(next), Want: "cell or range after sheet qualifier"}

	case TokenCellRef:
		p.advance()
		return &CellRefNode{Cell: tok.Value}, nil

	case TokenRangeRef:
		p.advance()
		return &RangeRefNode{Range: tok.Value}, nil

	case TokenTableRef:
		p.advance()
		return &TableRefNode{Table: tok.Table, Column: tok.Column, Full: tok.Full}, nil

	case TokenFunction:
		return p.parseFunction()

	case TokenLParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		closing := p.current()
		if closing.Type != TokenRParen {
			return nil, &ParseError{Pos: closing.Pos, Got: describeToken(closing), Want: "closing parenthesis"}
		}
		p.advance()
		return expr, nil
	}

	return nil, &ParseError{Pos: tok.Pos, Got: describeToken(tok), Want: "expression"}
}

// parseFunction parses NAME(arg, arg, ...). The argument list tolerates a
// trailing comma before the close and an unclosed call at end of input;
// both terminate the list.
func (p *Parser) parseFunction() (Node, error) {
	name := p.current().Value
	p.advance()

	if p.current().Type != TokenLParen {
		return &FunctionNode{Name: name}, nil
	}
	p.advance()

	var args []Node
	for p.current().Type != TokenRParen && p.current().Type != TokenEOF {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if p.current().Type == TokenComma {
			p.advance()
		} else if p.current().Type == TokenRParen {
			break
		}
	}
	if p.current().Type == TokenRParen {
		p.advance()
	}
	return &FunctionNode{Name: name, Args: args}, nil
}

func isComparisonOp(op string) bool {
	switch op {
	case "=", "<>", "<", ">", "<=", ">=":
		return true
	}
	return false
}

func describeToken(tok Token) string {
	if tok.Type == TokenEOF {
		return "end of formula"
	}
	return fmt.Sprintf("%s %q", tok.Type, tok.Value)
}
