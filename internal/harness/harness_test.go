package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Scenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func intp(v int) *int { return &v }

func TestRun_ReportsExpectMismatch(t *testing.T) {
	s := &Scenario{
		Name:  "wrong",
		Decks: [][]string{{"a", "b", "a", "b"}},
		Steps: []Step{
			{Start: true},
			{Flip: intp(0)},
			{Flip: intp(2), Expect: &Expect{Coins: intp(2), Matched: &[]int{0, 1}}},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "steps[2] (flip): matched mismatch")
	assert.Contains(t, result.Errors[1], "coins: want 2, got 1")
}

func TestRun_AckWithoutPopup(t *testing.T) {
	s := &Scenario{
		Name:  "early-ack",
		Steps: []Step{{Start: true}, {Ack: true}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "no popup to acknowledge")
}

func TestRun_BadConfig(t *testing.T) {
	s := &Scenario{
		Name:   "bad-config",
		Config: filepath.Join(t.TempDir(), "missing.cue"),
		Steps:  []Step{{Start: true}},
	}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load rules")
}

func TestRun_DeterministicTrace(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/time_expired.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
	assert.Equal(t, first.Popups, second.Popups)
}
