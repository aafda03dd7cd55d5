package memory

// EventKind distinguishes engine events.
type EventKind string

const (
	EventSessionReset  EventKind = "session_reset"
	EventLevelStarted  EventKind = "level_started"
	EventFlipped       EventKind = "flipped"
	EventMatched       EventKind = "matched"
	EventMismatched    EventKind = "mismatched"
	EventSettled       EventKind = "settled"
	EventTick          EventKind = "tick"
	EventLevelComplete EventKind = "level_complete"
	EventTimeExpired   EventKind = "time_expired"
)

// Terminal reports whether the event ends a level. The engine does nothing
// after a terminal event until the caller advances or restarts.
func (k EventKind) Terminal() bool {
	return k == EventLevelComplete || k == EventTimeExpired
}

// Event describes one engine state transition.
//
// Indices holds the card indices involved (one for flipped, two for
// matched/mismatched/settled) and is empty otherwise.
type Event struct {
	Kind       EventKind `json:"kind"`
	Level      int       `json:"level"`
	Coins      int       `json:"coins"`
	TimeLeft   int       `json:"time_left"`
	Indices    []int     `json:"indices,omitempty"`
	Generation uint64    `json:"generation"`
}

// Listener receives engine events synchronously on the engine's thread.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// OnEvent implements Listener.
func (f ListenerFunc) OnEvent(ev Event) { f(ev) }
