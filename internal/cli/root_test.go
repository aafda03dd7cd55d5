package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "petsy", cmd.Use)
	assert.Contains(t, cmd.Long, "memory-matching")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"play", "serve", "test", "trace", "validate"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestGameCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	play, _, err := cmd.Find([]string{"play"})
	require.NoError(t, err)
	for _, name := range []string{"config", "journal", "seed", "log", "inline"} {
		assert.NotNil(t, play.Flags().Lookup(name), "play --%s", name)
	}

	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	for _, name := range []string{"addr", "config", "journal", "seed"} {
		assert.NotNil(t, serve.Flags().Lookup(name), "serve --%s", name)
	}
	assert.Equal(t, ":8080", serve.Flags().Lookup("addr").DefValue)
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"validate", "rules.cue", "--format", "yaml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestPlay_BadConfigIsCommandError(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"play", "--config", "/nonexistent/rules.cue"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load rules")
}
