package tui

import (
	"github.com/roach88/petsy/internal/engine"
	"github.com/roach88/petsy/internal/memory"
)

// Controller receives player intent from the model.
type Controller interface {
	Flip(index int)
	Restart()
	Acknowledge(ack func())
}

// LoopController posts player intent onto the game loop.
type LoopController struct {
	Loop    *engine.Loop
	Session *memory.Session
}

// Flip implements Controller.
func (c LoopController) Flip(index int) {
	c.Loop.Post(func() { c.Session.Flip(index) })
}

// Restart implements Controller.
func (c LoopController) Restart() {
	c.Loop.Post(c.Session.Restart)
}

// Acknowledge implements Controller.
func (c LoopController) Acknowledge(ack func()) {
	if ack != nil {
		c.Loop.Post(ack)
	}
}
