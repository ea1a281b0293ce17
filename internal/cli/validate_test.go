package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOK(t *testing.T) {
	out, err := execute(t, nil, "validate", filepath.Join("testdata", "motor.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
}

func TestValidateReportsAllErrors(t *testing.T) {
	out, err := execute(t, nil, "validate", filepath.Join("testdata", "invalid.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "E101")
	assert.Contains(t, out, "E110")
}

func TestValidateJSON(t *testing.T) {
	out, err := execute(t, nil, "--format", "json", "validate", filepath.Join("testdata", "invalid.yaml"))
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, data["valid"])
}

func TestValidateMissingFile(t *testing.T) {
	_, err := execute(t, nil, "validate", filepath.Join("testdata", "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
