package cmd

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/iksnae/pephub-client/internal"
	"github.com/iksnae/pephub-client/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLocalProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "samples.csv", "sample_name,protocol\ns1,RNA\n")
	return testutil.WriteFile(t, dir, "project_config.yaml", "pep_version: 2.1.0\nname: demo\nsample_table: samples.csv\n")
}

func TestPushCommand(t *testing.T) {
	hub := testutil.NewHubServer(t)
	hub.Handle(http.MethodPost, "/api/v1/namespaces/databio/projects/json", http.StatusAccepted, nil)
	dataDir := t.TempDir()
	require.NoError(t, internal.NewCredentialStore(filepath.Join(dataDir, "jwt.txt")).Save("jwt-push"))

	res := runCommand(t, dataDir, nil, "push", writeLocalProject(t),
		"--namespace", "databio", "--name", "example", "--tag", "v1", "--private", "--force", "--hub-url", hub.URL)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Project 'databio/example:v1' was successfully uploaded")

	requests := hub.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "Bearer jwt-push", requests[0].Header.Get("Authorization"))

	var payload struct {
		PEPDict   internal.ProjectDict `json:"pep_dict"`
		Tag       string               `json:"tag"`
		IsPrivate bool                 `json:"is_private"`
		Overwrite bool                 `json:"overwrite"`
	}
	testutil.JSONUnmarshal(t, requests[0].Body, &payload)
	assert.Equal(t, "v1", payload.Tag)
	assert.True(t, payload.IsPrivate)
	assert.True(t, payload.Overwrite)
	assert.Equal(t, "example", payload.PEPDict.Name())
	assert.Len(t, payload.PEPDict.SampleList, 1)
}

func TestPushCommand_DefaultsToConfigName(t *testing.T) {
	hub := testutil.NewHubServer(t)
	hub.Handle(http.MethodPost, "/api/v1/namespaces/databio/projects/json", http.StatusAccepted, nil)
	dataDir := t.TempDir()
	path := writeLocalProject(t)

	res := runCommand(t, dataDir, nil, "push", path, "--namespace", "databio", "--hub-url", hub.URL)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Project 'databio/demo:default' was successfully uploaded")

	store, err := internal.OpenHistoryReadOnly(filepath.Join(dataDir, "history.db"))
	require.NoError(t, err)
	defer store.Close()
	entries, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "push", entries[0].Action)
	assert.Equal(t, "databio/demo:default", entries[0].RegistryPath)
	assert.Equal(t, path, entries[0].Target)
}

func TestPushCommand_Conflict(t *testing.T) {
	hub := testutil.NewHubServer(t)
	hub.Handle(http.MethodPost, "/api/v1/namespaces/databio/projects/json", http.StatusConflict, map[string]string{"detail": "exists"})

	res := runCommand(t, t.TempDir(), nil, "push", writeLocalProject(t), "--namespace", "databio", "--hub-url", hub.URL)
	require.Error(t, res.err)
	assert.True(t, internal.IsKind(res.err, internal.KindConflict))
}

func TestPushCommand_RequiresNamespace(t *testing.T) {
	res := runCommand(t, t.TempDir(), nil, "push", writeLocalProject(t))
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "namespace")
}

func TestPushCommand_MissingFile(t *testing.T) {
	hub := testutil.NewHubServer(t)
	res := runCommand(t, t.TempDir(), nil, "push", filepath.Join(t.TempDir(), "absent.yaml"), "--namespace", "databio", "--hub-url", hub.URL)
	require.Error(t, res.err)
	assert.Empty(t, hub.Requests())
}
