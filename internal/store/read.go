package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/petsy/internal/memory"
)

// SessionSummary describes one journalled session.
type SessionSummary struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Events    int    `json:"events"`
	MaxLevel  int    `json:"max_level"`
	MaxCoins  int    `json:"max_coins"`
	Completes int    `json:"levels_completed"`
	Expiries  int    `json:"time_expiries"`
}

// ListSessions returns all sessions in creation order.
// Returns an empty slice (not nil) when the journal is empty.
func (s *Store) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.label,
		       COUNT(e.seq),
		       COALESCE(MAX(e.level), 0),
		       COALESCE(MAX(e.coins), 0),
		       COALESCE(SUM(CASE WHEN e.kind = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN e.kind = ? THEN 1 ELSE 0 END), 0)
		FROM sessions s
		LEFT JOIN events e ON e.session_id = s.id
		GROUP BY s.id
		ORDER BY s.rowid ASC
	`, string(memory.EventLevelComplete), string(memory.EventTimeExpired))
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []SessionSummary{}
	for rows.Next() {
		var ss SessionSummary
		if err := rows.Scan(&ss.ID, &ss.Label, &ss.Events, &ss.MaxLevel, &ss.MaxCoins, &ss.Completes, &ss.Expiries); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, ss)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadEvents returns every entry of a session ordered by seq.
// Returns an empty slice (not nil) if the session has no events.
func (s *Store) ReadEvents(ctx context.Context, sessionID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, kind, level, coins, time_left, generation, indices
		FROM events
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e           Entry
			kind        string
			generation  int64
			indicesJSON string
		)
		if err := rows.Scan(&e.Seq, &kind, &e.Event.Level, &e.Event.Coins, &e.Event.TimeLeft, &generation, &indicesJSON); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var indices []int
		if err := json.Unmarshal([]byte(indicesJSON), &indices); err != nil {
			return nil, fmt.Errorf("unmarshal indices for seq %d: %w", e.Seq, err)
		}
		if len(indices) > 0 {
			e.Event.Indices = indices
		}
		e.SessionID = sessionID
		e.Event.Kind = memory.EventKind(kind)
		e.Event.Generation = uint64(generation)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return entries, nil
}

// SessionExists reports whether a session id is present.
func (s *Store) SessionExists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("query session: %w", err)
	}
	return n > 0, nil
}
