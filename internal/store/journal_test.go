package store

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/petsy/internal/memory"
)

func TestAppendEvent_RequiresSession(t *testing.T) {
	s := createTestStore(t)
	err := s.AppendEvent(context.Background(), Entry{
		SessionID: "missing",
		Seq:       1,
		Event:     memory.Event{Kind: memory.EventTick},
	})
	assert.Error(t, err, "foreign key should reject unknown session")
}

func TestAppendEvent_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	require.NoError(t, s.CreateSession(ctx, "s1", "test"))

	events := []memory.Event{
		{Kind: memory.EventLevelStarted, Level: 1, TimeLeft: 30, Generation: 2},
		{Kind: memory.EventFlipped, Level: 1, TimeLeft: 30, Indices: []int{0}, Generation: 2},
		{Kind: memory.EventFlipped, Level: 1, TimeLeft: 30, Indices: []int{2}, Generation: 2},
		{Kind: memory.EventMatched, Level: 1, Coins: 1, TimeLeft: 30, Indices: []int{0, 2}, Generation: 2},
	}
	for i, ev := range events {
		require.NoError(t, s.AppendEvent(ctx, Entry{SessionID: "s1", Seq: int64(i + 1), Event: ev}))
	}

	got, err := s.ReadEvents(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, len(events))
	for i, e := range got {
		assert.Equal(t, int64(i+1), e.Seq)
		assert.Equal(t, "s1", e.SessionID)
		assert.Equal(t, events[i], e.Event)
	}
}

func TestAppendEvent_DuplicateSeqIgnored(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	require.NoError(t, s.CreateSession(ctx, "s1", ""))

	e := Entry{SessionID: "s1", Seq: 1, Event: memory.Event{Kind: memory.EventTick, TimeLeft: 29}}
	require.NoError(t, s.AppendEvent(ctx, e))
	e.Event.TimeLeft = 5
	require.NoError(t, s.AppendEvent(ctx, e))

	got, err := s.ReadEvents(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 29, got[0].Event.TimeLeft, "first write wins")
}

func TestReadEvents_EmptySession(t *testing.T) {
	s := createTestStore(t)
	got, err := s.ReadEvents(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListSessions_Summaries(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	empty, err := s.ListSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, s.CreateSession(ctx, "b", "second"))
	require.NoError(t, s.CreateSession(ctx, "a", "first"))

	for i, ev := range []memory.Event{
		{Kind: memory.EventLevelComplete, Level: 1, Coins: 3},
		{Kind: memory.EventLevelStarted, Level: 2, Coins: 3},
		{Kind: memory.EventTimeExpired, Level: 2, Coins: 4},
	} {
		require.NoError(t, s.AppendEvent(ctx, Entry{SessionID: "b", Seq: int64(i + 1), Event: ev}))
	}

	got, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, SessionSummary{ID: "b", Label: "second", Events: 3, MaxLevel: 2, MaxCoins: 4, Completes: 1, Expiries: 1}, got[0])
	assert.Equal(t, SessionSummary{ID: "a", Label: "first"}, got[1])

	ok, err := s.SessionExists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRecorder_JournalsEngineEvents(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rec, err := NewRecorder(ctx, s, NewFixedGenerator("session-1"), "cli", logger)
	require.NoError(t, err)
	assert.Equal(t, "session-1", rec.SessionID())

	rec.OnEvent(memory.Event{Kind: memory.EventSessionReset, Level: 1})
	rec.OnEvent(memory.Event{Kind: memory.EventLevelStarted, Level: 1, TimeLeft: 30})

	got, err := s.ReadEvents(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, memory.EventSessionReset, got[0].Event.Kind)
	assert.Equal(t, memory.EventLevelStarted, got[1].Event.Kind)
	assert.Equal(t, int64(2), got[1].Seq)
}
