package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/roach88/petsy/internal/memory"
)

// FrameMsg carries a rendered frame into the program.
type FrameMsg struct {
	Frame memory.Frame
}

// PopupMsg carries a popup into the program. Ack must be handed back to the
// Controller, which runs it on the game loop.
type PopupMsg struct {
	Message string
	Ack     func()
}

// Bridge implements memory.Presenter and memory.PopupNotifier by forwarding
// to a tea.Program. Messages sent before Attach are dropped.
type Bridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// NewBridge creates an unattached bridge.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach routes future messages to send (usually tea.Program.Send).
func (b *Bridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

// Render implements memory.Presenter.
func (b *Bridge) Render(f memory.Frame) {
	b.deliver(FrameMsg{Frame: f})
}

// Notify implements memory.PopupNotifier.
func (b *Bridge) Notify(message string, onAcknowledge func()) {
	b.deliver(PopupMsg{Message: message, Ack: onAcknowledge})
}

func (b *Bridge) deliver(msg tea.Msg) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send != nil {
		send(msg)
	}
}
