package memory

import "slices"

// Phase is the lifecycle position of the current level.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhasePlaying  Phase = "playing"
	PhaseComplete Phase = "complete"
	PhaseExpired  Phase = "expired"
)

// Frame is an immutable snapshot handed to a Presenter.
type Frame struct {
	Deck     Deck  `json:"deck"`
	Flipped  []int `json:"flipped"`
	Matched  []int `json:"matched"`
	Level    int   `json:"level"`
	Coins    int   `json:"coins"`
	TimeLeft int   `json:"time_left"`
	Phase    Phase `json:"phase"`
}

// FaceUp reports whether the card at index is showing its token.
func (f Frame) FaceUp(index int) bool {
	return slices.Contains(f.Flipped, index) || slices.Contains(f.Matched, index)
}

// IsMatched reports whether the card at index has been matched.
func (f Frame) IsMatched(index int) bool {
	return slices.Contains(f.Matched, index)
}

// Presenter draws frames. Render is called after every state change and
// must not call back into the engine.
type Presenter interface {
	Render(Frame)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(Frame)

// Render implements Presenter.
func (f PresenterFunc) Render(fr Frame) { f(fr) }

// PopupNotifier shows a modal message. onAcknowledge must be invoked once the
// viewer dismisses it, on the engine's thread.
type PopupNotifier interface {
	Notify(message string, onAcknowledge func())
}

type nopPresenter struct{}

func (nopPresenter) Render(Frame) {}
