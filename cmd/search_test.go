package cmd

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/iksnae/pephub-client/internal"
	"github.com/iksnae/pephub-client/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchReply() map[string]any {
	return map[string]any{
		"count":  3,
		"limit":  2,
		"offset": 0,
		"items": []any{
			map[string]any{"namespace": "databio", "name": "example", "tag": "default", "number_of_samples": 4, "description": "an  example\nproject", "last_update_date": "2024-05-01T10:00:00"},
			map[string]any{"namespace": "databio", "name": "secret", "tag": "v1", "is_private": true},
		},
	}
}

func TestSearchCommand(t *testing.T) {
	hub := testutil.NewHubServer(t)
	hub.Handle(http.MethodGet, "/api/v1/namespaces/databio/projects", http.StatusOK, searchReply())

	res := runCommand(t, t.TempDir(), nil, "search", "databio", "--query", "rna", "--limit", "2", "--hub-url", hub.URL)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "Showing 2 of 3 project(s) in databio")
	assert.Contains(t, res.stdout, "databio/example:default")
	assert.Contains(t, res.stdout, "an example project")
	assert.Contains(t, res.stdout, "2024-05-01")
	assert.Contains(t, res.stdout, "databio/secret:v1 (private)")
	assert.Contains(t, res.stdout, "More results: --offset 2")

	query := hub.Requests()[0].Query
	assert.Equal(t, "rna", query["q"])
	assert.Equal(t, "2", query["limit"])
	assert.Equal(t, "0", query["offset"])
	assert.NotContains(t, query, "filter_by")
}

func TestSearchCommand_DateFilterAndJSON(t *testing.T) {
	hub := testutil.NewHubServer(t)
	hub.Handle(http.MethodGet, "/api/v1/namespaces/geo/projects", http.StatusOK, searchReply())

	res := runCommand(t, t.TempDir(), nil, "search", "geo", "--json",
		"--filter-by", "submission_date", "--start-date", "2024/01/01", "--end-date", "2024/06/30", "--hub-url", hub.URL)
	require.NoError(t, res.err)

	var result internal.SearchResult
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &result))
	assert.Equal(t, 3, result.Count)
	assert.Len(t, result.Items, 2)

	query := hub.Requests()[0].Query
	assert.Equal(t, "submission_date", query["filter_by"])
	assert.Equal(t, "2024/01/01", query["filter_start_date"])
	assert.Equal(t, "2024/06/30", query["filter_end_date"])
	assert.Equal(t, "100", query["limit"])
}

func TestSearchCommand_Errors(t *testing.T) {
	hub := testutil.NewHubServer(t)
	hub.Handle(http.MethodGet, "/api/v1/namespaces/databio/projects", http.StatusUnprocessableEntity, nil)

	res := runCommand(t, t.TempDir(), nil, "search", "databio", "--filter-by", "yesterday", "--hub-url", hub.URL)
	require.Error(t, res.err)
	assert.Empty(t, hub.Requests())

	res = runCommand(t, t.TempDir(), nil, "search", "databio", "--hub-url", hub.URL)
	require.Error(t, res.err)
	assert.True(t, internal.IsKind(res.err, internal.KindUnprocessable))

	res = runCommand(t, t.TempDir(), nil, "search", "nobody", "--hub-url", hub.URL)
	require.Error(t, res.err)
	assert.True(t, internal.IsNotFound(res.err))
}

func TestSearchCommand_Empty(t *testing.T) {
	hub := testutil.NewHubServer(t)
	hub.Handle(http.MethodGet, "/api/v1/namespaces/empty/projects", http.StatusOK, map[string]any{"count": 0, "items": []any{}})

	res := runCommand(t, t.TempDir(), nil, "search", "empty", "--hub-url", hub.URL)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "No projects found in empty")
}
