// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerNilTranslator(t *testing.T) {
	srv := NewServer(0, nil)
	require.NotNil(t, srv.Router())

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	// Default options mean unmapped lowercase column names.
	_, env := postJSON(t, ts.URL+"/api/translate", translateRequest{Formula: "=A2*B2"})
	require.True(t, env.Success)

	var result translateResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "(a * b)", result.SQL)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/nope")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTranslateMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/translate")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthIgnoresBody(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health?verbose=1")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json"))
}
