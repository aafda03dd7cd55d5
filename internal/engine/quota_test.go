package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryPost_NoLimitByDefault(t *testing.T) {
	l := quietLoop()
	for i := 0; i < 100; i++ {
		require.NoError(t, l.TryPost(func() {}))
	}
	assert.Equal(t, 100, l.Pending())
}

func TestTryPost_RefusesAtLimit(t *testing.T) {
	l := NewLoop(WithLogger(quietLoop().logger), WithName("ws"), WithMaxPending(3))
	for i := 0; i < 3; i++ {
		require.NoError(t, l.TryPost(func() {}))
	}

	err := l.TryPost(func() {})
	require.Error(t, err)

	var qe *QueueFullError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "ws", qe.Loop)
	assert.Equal(t, 3, qe.Pending)
	assert.Equal(t, 3, qe.Limit)
	assert.True(t, IsQueueFull(fmt.Errorf("flip: %w", err)))
	assert.Contains(t, err.Error(), "loop ws is busy")

	// Post bypasses the quota.
	assert.True(t, l.Post(func() {}))
	assert.Equal(t, 4, l.Pending())
}

func TestTryPost_AfterStop(t *testing.T) {
	l := quietLoop()
	l.Stop()
	assert.ErrorIs(t, l.TryPost(func() {}), ErrStopped)
	assert.False(t, IsQueueFull(ErrStopped))
}
