package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{"mismatch_settles", "complete_level"} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
			require.NoError(t, err)

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestMarshalSnapshot_Format(t *testing.T) {
	data, err := MarshalSnapshot("x", NewResult())
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"scenario_name\": \"x\",\n  \"popups\": [],\n  \"trace\": []\n}\n", string(data))
}
