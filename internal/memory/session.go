package memory

import (
	"fmt"
	"log/slog"
)

// Session drives an Engine through levels. It turns terminal events into
// popups and only advances or restarts once the popup is acknowledged.
type Session struct {
	engine   *Engine
	notifier PopupNotifier
	logger   *slog.Logger

	// popups counts notifications; an acknowledgement is honoured only if no
	// newer popup or restart has happened since it was issued.
	popups uint64
}

// NewSession attaches a session to engine. The session registers itself as
// an engine listener.
func NewSession(engine *Engine, notifier PopupNotifier) *Session {
	s := &Session{
		engine:   engine,
		notifier: notifier,
		logger:   engine.logger,
	}
	engine.AddListener(s)
	return s
}

// Engine returns the driven engine.
func (s *Session) Engine() *Engine { return s.engine }

// Start begins a new session at level 1.
func (s *Session) Start() {
	s.engine.InitSession()
	s.engine.StartLevel()
}

// Restart abandons the current session (including any open popup) and
// starts over at level 1.
func (s *Session) Restart() {
	s.popups++
	s.Start()
}

// Flip forwards to the engine.
func (s *Session) Flip(index int) bool {
	return s.engine.Flip(index)
}

// OnEvent implements Listener.
func (s *Session) OnEvent(ev Event) {
	switch ev.Kind {
	case EventLevelComplete:
		msg := fmt.Sprintf("Level %d complete! You have %d coins.", ev.Level, ev.Coins)
		s.notify(msg, func() {
			s.engine.AdvanceLevel()
		})
	case EventTimeExpired:
		msg := fmt.Sprintf("Time's up! You earned %d coins.", ev.Coins)
		s.notify(msg, func() {
			s.Start()
		})
	}
}

func (s *Session) notify(msg string, next func()) {
	s.popups++
	id := s.popups
	done := false
	s.logger.Debug("popup", "message", msg, "popup", id)
	s.notifier.Notify(msg, func() {
		if done || id != s.popups {
			s.logger.Debug("stale acknowledgement ignored", "popup", id)
			return
		}
		done = true
		next()
	})
}
