// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package web

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	excelsql "github.com/Mohammed87FS/excel-sql-converter"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type translateRequest struct {
	Formula        string            `json:"formula"`
	ColumnMappings map[string]string `json:"column_mappings,omitempty"`
	SheetMappings  map[string]string `json:"sheet_mappings,omitempty"`
	CurrentSheet   string            `json:"current_sheet,omitempty"`
}

type translateBatchRequest struct {
	Formulas       []string          `json:"formulas"`
	ColumnMappings map[string]string `json:"column_mappings,omitempty"`
	SheetMappings  map[string]string `json:"sheet_mappings,omitempty"`
	CurrentSheet   string            `json:"current_sheet,omitempty"`
}

type translateResult struct {
	ID          string   `json:"id"`
	Formula     string   `json:"formula"`
	SQL         string   `json:"sql"`
	References  []string `json:"references"`
	NeedsReview bool     `json:"needs_review"`
}

type translateBatchResult struct {
	ID      string            `json:"id"`
	Count   int               `json:"count"`
	Results []translateResult `json:"results"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]string{"status": "ok"})
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Formula == "" {
		writeError(w, http.StatusBadRequest, "formula is required")
		return
	}

	tr := s.translatorFor(req.ColumnMappings, req.SheetMappings, req.CurrentSheet)
	sql := tr.Translate(req.Formula)

	writeSuccess(w, translateResult{
		ID:          uuid.NewString(),
		Formula:     req.Formula,
		SQL:         sql,
		References:  excelsql.References(req.Formula),
		NeedsReview: excelsql.NeedsReview(sql),
	})
}

func (s *Server) handleTranslateBatch(w http.ResponseWriter, r *http.Request) {
	var req translateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Formulas) == 0 {
		writeError(w, http.StatusBadRequest, "formulas is required")
		return
	}

	tr := s.translatorFor(req.ColumnMappings, req.SheetMappings, req.CurrentSheet)
	batch := tr.TranslateBatch(req.Formulas)

	results := make([]translateResult, len(batch))
	for i, res := range batch {
		results[i] = translateResult{
			ID:          uuid.NewString(),
			Formula:     res.Formula,
			SQL:         res.SQL,
			References:  res.Refs,
			NeedsReview: res.NeedsReview,
		}
	}

	writeSuccess(w, translateBatchResult{
		ID:      uuid.NewString(),
		Count:   len(results),
		Results: results,
	})
}

// translatorFor picks the server translator unless the request carries its
// own mappings, in which case a request-scoped one is built on top of the
// defaults.
func (s *Server) translatorFor(columns, sheets map[string]string, currentSheet string) *excelsql.Translator {
	if columns == nil && sheets == nil && currentSheet == "" {
		return s.translator
	}

	opts := excelsql.DefaultOptions()
	if columns != nil {
		opts.ColumnMappings = columns
	}
	if sheets != nil {
		opts.SheetMappings = sheets
	}
	if currentSheet != "" {
		opts.CurrentSheet = currentSheet
	}
	return excelsql.New(opts)
}

func writeJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{Success: false, Error: message})
}
