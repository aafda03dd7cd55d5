package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/petsy/internal/memory"
)

// Entry is one journalled engine event.
type Entry struct {
	SessionID string       `json:"session_id"`
	Seq       int64        `json:"seq"`
	Event     memory.Event `json:"event"`
}

// CreateSession inserts a session row.
// Uses ON CONFLICT(id) DO NOTHING for idempotency.
func (s *Store) CreateSession(ctx context.Context, id, label string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, label)
		VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, label)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// AppendEvent writes an entry. Duplicate (session, seq) pairs are silently
// ignored so a retried write is harmless.
//
// The session referenced by SessionID must exist (foreign key constraint).
func (s *Store) AppendEvent(ctx context.Context, e Entry) error {
	indices := e.Event.Indices
	if indices == nil {
		indices = []int{}
	}
	indicesJSON, err := json.Marshal(indices)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events
		(session_id, seq, kind, level, coins, time_left, generation, indices)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`,
		e.SessionID,
		e.Seq,
		string(e.Event.Kind),
		e.Event.Level,
		e.Event.Coins,
		e.Event.TimeLeft,
		int64(e.Event.Generation),
		string(indicesJSON),
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}
