package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenario(t, `
name: basic
description: "basic flip"
config: rules.cue
decks:
  - [a, b, a, b]
steps:
  - start: true
  - flip: 0
    expect:
      flipped: [0]
      accepted: true
assertions:
  - type: event_count
    event: flipped
    count: 1
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "basic", s.Name)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "rules.cue"), s.Config)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, "start", s.Steps[0].Action())
	assert.Equal(t, "flip", s.Steps[1].Action())
	require.NotNil(t, s.Steps[1].Expect.Flipped)
	assert.Equal(t, []int{0}, *s.Steps[1].Expect.Flipped)
	require.Len(t, s.Assertions, 1)
}

func TestLoadScenario_FlipZeroIsAnAction(t *testing.T) {
	path := writeScenario(t, `
name: zero
steps:
  - flip: 0
`)
	s, err := LoadScenario(path)
	require.NoError(t, err)
	require.NotNil(t, s.Steps[0].Flip)
	assert.Equal(t, 0, *s.Steps[0].Flip)
}

func TestLoadScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing name",
			yaml: "steps:\n  - start: true\n",
			want: "name is required",
		},
		{
			name: "no steps",
			yaml: "name: x\n",
			want: "at least one step",
		},
		{
			name: "unknown field",
			yaml: "name: x\nbogus: 1\nsteps:\n  - start: true\n",
			want: "field bogus not found",
		},
		{
			name: "empty step",
			yaml: "name: x\nsteps:\n  - expect:\n      coins: 1\n",
			want: "no action",
		},
		{
			name: "two actions",
			yaml: "name: x\nsteps:\n  - start: true\n    ack: true\n",
			want: "multiple actions",
		},
		{
			name: "bad duration",
			yaml: "name: x\nsteps:\n  - advance: soon\n",
			want: "advance",
		},
		{
			name: "odd deck",
			yaml: "name: x\ndecks:\n  - [a, b, a]\nsteps:\n  - start: true\n",
			want: "decks[0]",
		},
		{
			name: "token thrice",
			yaml: "name: x\ndecks:\n  - [a, a, a, a]\nsteps:\n  - start: true\n",
			want: `token "a" appears 4 times`,
		},
		{
			name: "unknown phase",
			yaml: "name: x\nsteps:\n  - start: true\n    expect:\n      phase: paused\n",
			want: "unknown phase",
		},
		{
			name: "accepted on non-flip",
			yaml: "name: x\nsteps:\n  - start: true\n    expect:\n      accepted: true\n",
			want: "only applies to flip",
		},
		{
			name: "unknown event",
			yaml: "name: x\nsteps:\n  - start: true\nassertions:\n  - type: event_count\n    event: jumped\n",
			want: `unknown event "jumped"`,
		},
		{
			name: "short order",
			yaml: "name: x\nsteps:\n  - start: true\nassertions:\n  - type: event_order\n    events: [tick]\n",
			want: "at least 2 events",
		},
		{
			name: "unknown assertion",
			yaml: "name: x\nsteps:\n  - start: true\nassertions:\n  - type: state_equals\n",
			want: "unknown assertion type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
