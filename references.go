// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package excelsql

import (
	"strings"

	"github.com/xuri/efp"
)

// References lists the cell, range and table references a formula reads,
// in first-appearance order with duplicates collapsed. Cross-sheet
// references come back as "Sheet!A1" with the sheet quoting removed;
// absolute markers ($A$1) are stripped. The list tells a reviewer which
// inputs a translated fragment depends on; it does not affect translation.
func References(formula string) []string {
	ps := efp.ExcelParser()
	tokens := ps.Parse(strings.TrimLeft(formula, "="))
	if tokens == nil {
		return nil
	}

	var refs []string
	seen := make(map[string]bool)
	for _, token := range tokens {
		if token.TType != efp.TokenTypeOperand || token.TSubType != efp.TokenSubTypeRange {
			continue
		}
		ref := normalizeReference(token.TValue)
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs
}

// normalizeReference strips absolute markers and sheet-name quoting from
// one operand reference.
func normalizeReference(ref string) string {
	ref = strings.ReplaceAll(ref, "$", "")
	if i := strings.Index(ref, "!"); i >= 0 {
		sheet := strings.Trim(ref[:i], "'")
		cell := ref[i+1:]
		if sheet == "" || cell == "" {
			return strings.Trim(ref, "'")
		}
		return sheet + "!" + cell
	}
	return ref
}
