package memory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/petsy/internal/memory"
	"github.com/roach88/petsy/internal/testutil"
)

func newSession(t *testing.T, layouts ...[]memory.Token) (*memory.Session, *fixture, *testutil.RecordingNotifier) {
	t.Helper()
	f := newFixture(t, layouts...)
	n := &testutil.RecordingNotifier{}
	return memory.NewSession(f.engine, n), f, n
}

func TestSession_LevelCompleteWaitsForAck(t *testing.T) {
	s, f, n := newSession(t, level1)
	s.Start()

	for _, pair := range [][2]int{{0, 2}, {1, 4}, {3, 5}} {
		s.Flip(pair[0])
		s.Flip(pair[1])
	}

	popups := n.Popups()
	require.Len(t, popups, 1)
	assert.Equal(t, "Level 1 complete! You have 3 coins.", popups[0].Message)
	assert.Equal(t, 1, f.engine.Level(), "no advance before acknowledgement")
	assert.Equal(t, memory.PhaseComplete, f.engine.Phase())

	require.True(t, n.AckLast())
	assert.Equal(t, 2, f.engine.Level())
	assert.Equal(t, memory.PhasePlaying, f.engine.Phase())
	assert.Equal(t, 3, f.engine.Coins())

	// A second acknowledgement of the same popup is ignored.
	n.AckLast()
	assert.Equal(t, 2, f.engine.Level())
}

func TestSession_TimeExpiredRestartsOnAck(t *testing.T) {
	s, f, n := newSession(t, level1)
	s.Start()
	s.Flip(0)
	s.Flip(2)

	f.sched.Advance(30 * time.Second)

	popups := n.Popups()
	require.Len(t, popups, 1)
	assert.Equal(t, "Time's up! You earned 1 coins.", popups[0].Message)
	assert.Equal(t, memory.PhaseExpired, f.engine.Phase())
	assert.Equal(t, 1, f.engine.Coins(), "engine does not restart by itself")

	require.True(t, n.AckLast())
	assert.Equal(t, memory.PhasePlaying, f.engine.Phase())
	assert.Equal(t, 1, f.engine.Level())
	assert.Equal(t, 0, f.engine.Coins())
	assert.Equal(t, 30, f.engine.TimeLeft())
}

func TestSession_RestartVoidsOpenPopup(t *testing.T) {
	s, f, n := newSession(t, level1, level1)
	s.Start()
	f.sched.Advance(30 * time.Second)
	require.Len(t, n.Popups(), 1)

	s.Restart()
	s.Flip(0)
	s.Flip(2)
	coins := f.engine.Coins()

	n.AckLast()
	assert.Equal(t, coins, f.engine.Coins(), "stale acknowledgement ignored")
	assert.Equal(t, []int{0, 2}, f.engine.Snapshot().Matched)
}
