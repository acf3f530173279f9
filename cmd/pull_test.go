package cmd

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/pephub-client/internal"
	"github.com/iksnae/pephub-client/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hostedProject() map[string]any {
	return map[string]any{
		"config": map[string]any{"pep_version": "2.1.0", "name": "GSE124224", "description": "demo"},
		"sample_list": []any{
			map[string]any{"sample_name": "GSM1", "protocol": "RNA"},
			map[string]any{"sample_name": "GSM2", "protocol": "ATAC"},
		},
		"subsample_list": []any{
			map[string]any{"sample_name": "GSM1", "subsample_name": "r1"},
		},
	}
}

func TestPullCommand(t *testing.T) {
	hub := testutil.NewHubServer(t)
	hub.Handle(http.MethodGet, "/api/v1/projects/geo/GSE124224", http.StatusOK, hostedProject())
	dataDir := t.TempDir()
	outDir := t.TempDir()
	require.NoError(t, internal.NewCredentialStore(filepath.Join(dataDir, "jwt.txt")).Save("jwt-1"))

	res := runCommand(t, dataDir, nil, "pull", "geo/GSE124224", "--output", outDir, "--hub-url", hub.URL)
	require.NoError(t, res.err)

	folder := filepath.Join(outDir, "geo_GSE124224")
	assert.Contains(t, res.stdout, "Project was downloaded successfully -> "+folder)
	for _, name := range []string{"GSE124224_config.yaml", "GSE124224_sample_table.csv", "GSE124224_subsample_table1.csv"} {
		assert.FileExists(t, filepath.Join(folder, name))
	}

	requests := hub.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "Bearer jwt-1", requests[0].Header.Get("Authorization"))
	assert.Equal(t, "default", requests[0].Query["tag"])

	// a second pull refuses to overwrite
	res = runCommand(t, dataDir, nil, "pull", "geo/GSE124224", "--output", outDir, "--hub-url", hub.URL)
	require.Error(t, res.err)
	assert.True(t, internal.IsKind(res.err, internal.KindPEPAlreadyExists))

	res = runCommand(t, dataDir, nil, "pull", "geo/GSE124224", "--output", outDir, "--force", "--hub-url", hub.URL)
	require.NoError(t, res.err)
}

func TestPullCommand_ZipAndJustName(t *testing.T) {
	hub := testutil.NewHubServer(t)
	hub.Handle(http.MethodGet, "/api/v1/projects/geo/GSE124224", http.StatusOK, hostedProject())
	outDir := t.TempDir()

	res := runCommand(t, t.TempDir(), nil, "pull", "geo/GSE124224:v2", "--zip", "--just-name", "-o", outDir, "--hub-url", hub.URL)
	require.NoError(t, res.err)

	archive := filepath.Join(outDir, "GSE124224.zip")
	assert.FileExists(t, archive)
	assert.Contains(t, res.stdout, archive)
	assert.Equal(t, "v2", hub.Requests()[0].Query["tag"])
}

func TestPullCommand_Errors(t *testing.T) {
	hub := testutil.NewHubServer(t)
	dataDir := t.TempDir()

	res := runCommand(t, dataDir, nil, "pull", "geo/missing", "-o", t.TempDir(), "--hub-url", hub.URL)
	require.Error(t, res.err)
	assert.True(t, internal.IsKind(res.err, internal.KindNotFound))
	assert.Contains(t, res.err.Error(), "File does not exist, or you are unauthorized.")

	res = runCommand(t, dataDir, nil, "pull", "not-a-registry-path", "--hub-url", hub.URL)
	require.Error(t, res.err)

	res = runCommand(t, dataDir, nil, "pull", "geo/GSE124224", "-o", filepath.Join(t.TempDir(), "absent"), "--hub-url", hub.URL)
	require.Error(t, res.err)

	// failed pulls are still recorded
	_, err := os.Stat(filepath.Join(dataDir, "history.db"))
	assert.NoError(t, err)
}
