package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	r := NewResult()
	r.Trace = []TraceEvent{
		{Seq: 1, Kind: "session_reset", Level: 1},
		{Seq: 2, Kind: "level_started", Level: 1, TimeLeft: 30},
		{Seq: 3, Kind: "flipped", Level: 1, TimeLeft: 30, Indices: []int{0}},
		{Seq: 4, Kind: "flipped", Level: 1, TimeLeft: 30, Indices: []int{1}},
		{Seq: 5, Kind: "mismatched", Level: 1, TimeLeft: 30, Indices: []int{0, 1}},
		{Seq: 6, AtMS: 700, Kind: "settled", Level: 1, TimeLeft: 30, Indices: []int{0, 1}},
	}
	r.Popups = []string{"Time's up! You earned 0 coins."}
	return r
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	errs := EvaluateAssertions(sampleResult(), []Assertion{
		{Type: "event_count", Event: "flipped", Count: 2},
		{Type: "event_count", Event: "matched", Count: 0},
		{Type: "event_order", Events: []string{"level_started", "mismatched", "settled"}},
		{Type: "popup_count", Count: 1},
		{Type: "popup_contains", Message: "Time's up"},
	})
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	errs := EvaluateAssertions(sampleResult(), []Assertion{
		{Type: "event_count", Event: "flipped", Count: 3},
		{Type: "event_order", Events: []string{"settled", "mismatched"}},
		{Type: "popup_count", Count: 0},
		{Type: "popup_contains", Message: "Level 1 complete"},
	})
	require.Len(t, errs, 4)
	assert.Contains(t, errs[0], "Expected: 3 flipped events")
	assert.Contains(t, errs[0], "Actual: 2 flipped events")
	assert.Contains(t, errs[1], "then mismatched not found")
	assert.Contains(t, errs[2], "Expected: 0 popups")
	assert.Contains(t, errs[3], `a popup containing "Level 1 complete"`)
}

func TestAssertionError_IncludesTrace(t *testing.T) {
	err := &AssertionError{
		Type:     "event_count",
		Expected: "1 matched events",
		Actual:   "0 matched events",
		Trace:    sampleResult().Trace,
	}
	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: event_count")
	assert.Contains(t, msg, "[6] t=700ms settled level=1 coins=0 time_left=30 indices=[0 1]")
}
