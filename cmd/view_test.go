package cmd

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/iksnae/pephub-client/internal"
	"github.com/iksnae/pephub-client/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const viewPath = "/api/v1/projects/databio/example/views/rna"

func TestViewGetCommand(t *testing.T) {
	hub := testutil.NewHubServer(t)
	hub.Handle(http.MethodGet, viewPath, http.StatusOK, hostedProject())

	res := runCommand(t, t.TempDir(), nil, "view", "get", "databio/example", "rna", "--format", "json", "--hub-url", hub.URL)
	require.NoError(t, res.err)

	var project internal.ProjectDict
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &project))
	assert.Len(t, project.SampleList, 2)
	assert.Equal(t, "true", hub.Requests()[0].Query["raw"])
}

func TestViewGetCommand_Output(t *testing.T) {
	hub := testutil.NewHubServer(t)
	hub.Handle(http.MethodGet, viewPath, http.StatusOK, hostedProject())
	outDir := t.TempDir()

	res := runCommand(t, t.TempDir(), nil, "view", "get", "databio/example", "rna", "-o", outDir, "--hub-url", hub.URL)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "View 'rna' was downloaded successfully")
	assert.FileExists(t, filepath.Join(outDir, "databio_example_rna", "example_rna_sample_table.csv"))

	res = runCommand(t, t.TempDir(), nil, "view", "get", "databio/example", "rna", "-o", outDir, "--hub-url", hub.URL)
	require.Error(t, res.err)
	assert.True(t, internal.IsKind(res.err, internal.KindPEPAlreadyExists))
}

func TestViewCreateCommand(t *testing.T) {
	hub := testutil.NewHubServer(t)
	hub.Handle(http.MethodPost, viewPath, http.StatusAccepted, nil)

	res := runCommand(t, t.TempDir(), nil, "view", "create", "databio/example", "rna", "-s", "s1", "--sample", "s2", "--hub-url", hub.URL)
	require.NoError(t, res.err)

	var names []string
	testutil.JSONUnmarshal(t, hub.Requests()[0].Body, &names)
	assert.Equal(t, []string{"s1", "s2"}, names)

	res = runCommand(t, t.TempDir(), nil, "view", "create", "databio/example", "rna", "--hub-url", hub.URL)
	require.NoError(t, res.err)
	assert.JSONEq(t, `[]`, string(hub.Requests()[1].Body))
}

func TestViewSampleCommands(t *testing.T) {
	hub := testutil.NewHubServer(t)
	hub.Handle(http.MethodPost, viewPath+"/s3", http.StatusAccepted, nil)
	hub.Handle(http.MethodDelete, viewPath+"/s3", http.StatusAccepted, nil)
	hub.Handle(http.MethodDelete, viewPath, http.StatusAccepted, nil)
	dataDir := t.TempDir()

	res := runCommand(t, dataDir, nil, "view", "add-sample", "databio/example", "rna", "s3", "--hub-url", hub.URL)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Sample 's3' added to view 'rna'")

	res = runCommand(t, dataDir, nil, "view", "remove-sample", "databio/example", "rna", "s3", "--hub-url", hub.URL)
	require.NoError(t, res.err)

	res = runCommand(t, dataDir, nil, "view", "delete", "databio/example", "rna", "--hub-url", hub.URL)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "View 'rna' deleted")

	res = runCommand(t, dataDir, nil, "view", "add-sample", "databio/example", "rna", "s9", "--hub-url", hub.URL)
	require.Error(t, res.err)
	assert.True(t, internal.IsKind(res.err, internal.KindNotFound))

	methods := []string{}
	for _, r := range hub.Requests() {
		methods = append(methods, r.Method)
	}
	assert.Equal(t, []string{http.MethodPost, http.MethodDelete, http.MethodDelete, http.MethodPost}, methods)
}

func TestViewGetCommand_CSV(t *testing.T) {
	hub := testutil.NewHubServer(t)
	hub.Handle(http.MethodGet, viewPath, http.StatusOK, hostedProject())

	res := runCommand(t, t.TempDir(), nil, "view", "get", "databio/example", "rna", "--format", "csv", "--hub-url", hub.URL)
	require.NoError(t, res.err)
	assert.Equal(t, "sample_name,protocol\nGSM1,RNA\nGSM2,ATAC\n", res.stdout)
}
