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

func TestInspectCommand_Hosted(t *testing.T) {
	hub := testutil.NewHubServer(t)
	hub.Handle(http.MethodGet, "/api/v1/projects/geo/GSE124224", http.StatusOK, hostedProject())

	res := runCommand(t, t.TempDir(), nil, "inspect", "geo/GSE124224", "--sample", "1", "--hub-url", hub.URL)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "Name:        GSE124224")
	assert.Contains(t, res.stdout, "Description: demo")
	assert.Contains(t, res.stdout, "Columns:     sample_name, protocol")
	assert.Contains(t, res.stdout, "Subsamples:  table 1, 1 row(s)")
	assert.Contains(t, res.stdout, "GSM1,RNA")
	assert.NotContains(t, res.stdout, "GSM2")
}

func TestInspectCommand_Local(t *testing.T) {
	res := runCommand(t, t.TempDir(), nil, "inspect", writeLocalProject(t), "--format", "json")
	require.NoError(t, res.err)

	var project internal.ProjectDict
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &project))
	assert.Equal(t, "demo", project.Name())
	assert.Len(t, project.SampleList, 1)
}

func TestInspectCommand_CSV(t *testing.T) {
	res := runCommand(t, t.TempDir(), nil, "inspect", writeLocalProject(t), "--format", "csv")
	require.NoError(t, res.err)
	assert.Equal(t, "sample_name,protocol\ns1,RNA\n", res.stdout)
}

func TestInspectCommand_Errors(t *testing.T) {
	res := runCommand(t, t.TempDir(), nil, "inspect", writeLocalProject(t), "--format", "xml")
	assert.Error(t, res.err)

	res = runCommand(t, t.TempDir(), nil, "inspect", "missing.yaml")
	assert.Error(t, res.err)
}
