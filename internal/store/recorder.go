package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/petsy/internal/memory"
)

// Recorder journals engine events. It implements memory.Listener and is
// called on the game loop.
//
// ERROR HANDLING: a failed write is logged and the game continues; the
// journal must never stall play.
type Recorder struct {
	store     *Store
	sessionID string
	clock     *Clock
	logger    *slog.Logger
}

// NewRecorder creates a session row and returns a recorder bound to it.
func NewRecorder(ctx context.Context, st *Store, ids IDGenerator, label string, logger *slog.Logger) (*Recorder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	id := ids.Generate()
	if err := st.CreateSession(ctx, id, label); err != nil {
		return nil, fmt.Errorf("new recorder: %w", err)
	}
	logger.Debug("journal session created", "session", id, "label", label)
	return &Recorder{
		store:     st,
		sessionID: id,
		clock:     NewClock(),
		logger:    logger,
	}, nil
}

// SessionID returns the journal session id.
func (r *Recorder) SessionID() string { return r.sessionID }

// OnEvent implements memory.Listener.
func (r *Recorder) OnEvent(ev memory.Event) {
	entry := Entry{
		SessionID: r.sessionID,
		Seq:       r.clock.Next(),
		Event:     ev,
	}
	if err := r.store.AppendEvent(context.Background(), entry); err != nil {
		r.logger.Error("journal write failed",
			"session", r.sessionID,
			"seq", entry.Seq,
			"kind", ev.Kind,
			"error", err,
		)
	}
}
