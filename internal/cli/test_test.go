package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `
name: pair
decks:
  - [a, b, a, b]
steps:
  - start: true
  - flip: 0
  - flip: 2
    expect:
      coins: 1
      matched: [0, 2]
`

const failingScenario = `
name: wrong
decks:
  - [a, b, a, b]
steps:
  - start: true
  - flip: 0
  - flip: 1
    expect:
      coins: 1
`

func runTestCommand(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestTestCommand_MissingArg(t *testing.T) {
	_, err := runTestCommand(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommand_NonExistentPath(t *testing.T) {
	_, err := runTestCommand(t, "text", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenario path not found")
}

func TestTestCommand_EmptyDir(t *testing.T) {
	out, err := runTestCommand(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommand_Passing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pair.yaml"), passingScenario)

	out, err := runTestCommand(t, "text", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ pair")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_FailingJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pair.yaml"), passingScenario)
	writeFile(t, filepath.Join(dir, "wrong.yaml"), failingScenario)

	out, err := runTestCommand(t, "json", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
}

func TestTestCommand_Filter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pair.yaml"), passingScenario)
	writeFile(t, filepath.Join(dir, "wrong.yaml"), failingScenario)

	out, err := runTestCommand(t, "text", dir, "--filter", "pa*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_SingleFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "wrong.yaml")
	writeFile(t, file, failingScenario)

	out, err := runTestCommand(t, "text", file)
	require.Error(t, err)
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "coins: want 1, got 0")
}

func TestTestCommand_GoldenUpdateThenMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pair.yaml"), passingScenario)

	out, err := runTestCommand(t, "text", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "golden updated")

	golden := filepath.Join(dir, "golden", "pair.golden")
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario_name": "pair"`)

	out, err = runTestCommand(t, "text", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ pair (golden)")

	writeFile(t, golden, "{}\n")
	out, err = runTestCommand(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommand_HarnessScenarios(t *testing.T) {
	out, err := runTestCommand(t, "text", "../harness/testdata/scenarios")
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ complete_level (golden)")
	assert.Contains(t, out, "✓ mismatch_settles (golden)")
}
