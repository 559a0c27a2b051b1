// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxivlens/pkg/types"
)

func testResults() Results {
	return Results{
		Query: "cs.AI",
		Papers: []*types.Paper{
			{
				ID:         "2301.07041",
				Title:      "Attention Is Not Enough",
				Summary:    "We revisit attention mechanisms.",
				FinalScore: 0.84,
				Relevant:   true,
				Reasons:    []string{"on topic"},
			},
		},
	}
}

func TestIndexServesHTML(t *testing.T) {
	e := New(testResults())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Attention Is Not Enough")
	assert.Contains(t, rec.Body.String(), "on topic")
}

func TestAPIPapersServesJSON(t *testing.T) {
	e := New(testResults())

	req := httptest.NewRequest(http.MethodGet, "/api/papers", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got Results
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "cs.AI", got.Query)
	require.Len(t, got.Papers, 1)
	assert.Equal(t, "2301.07041", got.Papers[0].ID)
	assert.InDelta(t, 0.84, got.Papers[0].FinalScore, 1e-9)
}

func TestIndexEmptyRun(t *testing.T) {
	e := New(Results{Query: "cs.AI", FellBack: true})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No papers to display.")
	assert.Contains(t, rec.Body.String(), "embedding ranking instead")
}
