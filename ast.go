// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package excelsql

// Node is a formula AST node. The implementation set is closed: sql is
// unexported, so every variant lives in this package and must provide its
// SQL rendering. Adding a node type without one is a compile error, not a
// silent fallthrough.
//
// Trees are built once by the parser and never mutated afterwards; each
// node exclusively owns its children.
type Node interface {
	sql(c *Converter) string
}

// NumberNode is a numeric literal. Percent literals arrive with the value
// already folded, so 50% carries 0.5.
type NumberNode struct {
	Value float64
}

// StringNode is a text literal with quote escapes already resolved.
type StringNode struct {
	Value string
}

// CellRefNode is a single A1-style reference. Sheet is empty for
// unqualified references.
type CellRefNode struct {
	Cell  string
	Sheet string
}

// RangeRefNode is an A1:B10-style range. Sheet is empty for unqualified
// references.
type RangeRefNode struct {
	Range string
	Sheet string
}

// TableRefNode is a structured table reference. Column holds the raw
// bracketed specifier (nested brackets included); Full holds the entire
// original text.
type TableRefNode struct {
	Table  string
	Column string
	Full   string
}

// FunctionNode is a call with its ordered argument expressions.
type FunctionNode struct {
	Name string
	Args []Node
}

// BinaryOpNode applies an infix operator to two operands.
type BinaryOpNode struct {
	Op    string
	Left  Node
	Right Node
}

// UnaryOpNode applies a prefix operator to a single operand.
type UnaryOpNode struct {
	Op      string
	Operand Node
}

var (
	_ Node = (*NumberNode)(nil)
	_ Node = (*StringNode)(nil)
	_ Node = (*CellRefNode)(nil)
	_ Node = (*RangeRefNode)(nil)
	_ Node = (*TableRefNode)(nil)
	_ Node = (*FunctionNode)(nil)
	_ Node = (*BinaryOpNode)(nil)
	_ Node = (*UnaryOpNode)(nil)
)
