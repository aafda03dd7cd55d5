package testutil

import (
	"sync"

	"github.com/roach88/petsy/internal/memory"
)

// RecordingPresenter keeps every rendered frame.
type RecordingPresenter struct {
	mu     sync.Mutex
	frames []memory.Frame
}

// Render implements memory.Presenter.
func (p *RecordingPresenter) Render(f memory.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = append(p.frames, f)
}

// Frames returns a copy of the rendered frames.
func (p *RecordingPresenter) Frames() []memory.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]memory.Frame, len(p.frames))
	copy(out, p.frames)
	return out
}

// Last returns the most recent frame and whether there was one.
func (p *RecordingPresenter) Last() (memory.Frame, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.frames) == 0 {
		return memory.Frame{}, false
	}
	return p.frames[len(p.frames)-1], true
}

// Popup is a notification captured by RecordingNotifier.
type Popup struct {
	Message     string
	Acknowledge func()
}

// RecordingNotifier captures popups without acknowledging them.
type RecordingNotifier struct {
	mu     sync.Mutex
	popups []Popup
}

// Notify implements memory.PopupNotifier.
func (n *RecordingNotifier) Notify(message string, onAcknowledge func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.popups = append(n.popups, Popup{Message: message, Acknowledge: onAcknowledge})
}

// Popups returns the captured popups in order.
func (n *RecordingNotifier) Popups() []Popup {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Popup, len(n.popups))
	copy(out, n.popups)
	return out
}

// AckLast acknowledges the most recent popup. It reports false if none was
// shown.
func (n *RecordingNotifier) AckLast() bool {
	n.mu.Lock()
	if len(n.popups) == 0 {
		n.mu.Unlock()
		return false
	}
	ack := n.popups[len(n.popups)-1].Acknowledge
	n.mu.Unlock()
	ack()
	return true
}

// EventLog records engine events.
type EventLog struct {
	mu     sync.Mutex
	events []memory.Event
}

// OnEvent implements memory.Listener.
func (l *EventLog) OnEvent(ev memory.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

// Events returns a copy of the recorded events.
func (l *EventLog) Events() []memory.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]memory.Event, len(l.events))
	copy(out, l.events)
	return out
}

// Count returns how many events of kind were recorded.
func (l *EventLog) Count(kind memory.EventKind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ev := range l.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// Kinds returns the recorded event kinds in order.
func (l *EventLog) Kinds() []memory.EventKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]memory.EventKind, len(l.events))
	for i, ev := range l.events {
		out[i] = ev.Kind
	}
	return out
}

// FixedDealer deals scripted layouts in order, one per StartLevel. When the
// script runs out it deals the symbols unshuffled (a,b,c,a,b,c).
type FixedDealer struct {
	mu      sync.Mutex
	layouts [][]memory.Token
	next    int
}

// NewFixedDealer creates a dealer from per-level layouts.
func NewFixedDealer(layouts ...[]memory.Token) *FixedDealer {
	return &FixedDealer{layouts: layouts}
}

// Deal implements memory.Dealer.
func (d *FixedDealer) Deal(_ int, symbols []memory.Token) memory.Deck {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.next < len(d.layouts) {
		layout := d.layouts[d.next]
		d.next++
		return memory.NewDeck(layout)
	}
	layout := make([]memory.Token, 0, len(symbols)*2)
	layout = append(layout, symbols...)
	layout = append(layout, symbols...)
	return memory.NewDeck(layout)
}
