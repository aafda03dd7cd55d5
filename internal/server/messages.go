package server

import "github.com/roach88/petsy/internal/memory"

// Client to server message types.
const (
	MsgFlip    = "flip"
	MsgAck     = "ack"
	MsgRestart = "restart"
)

// Server to client message types.
const (
	MsgFrame = "frame"
	MsgPopup = "popup"
	MsgError = "error"
)

// ClientMessage is a command from the browser.
type ClientMessage struct {
	Type  string `json:"type"`
	Index *int   `json:"index,omitempty"`
}

// ServerMessage is pushed to the browser.
type ServerMessage struct {
	Type    string     `json:"type"`
	Frame   *FrameView `json:"frame,omitempty"`
	Message string     `json:"message,omitempty"`
}

// CardView is one card as the client sees it. Token is empty while the card
// is face-down.
type CardView struct {
	Index   int    `json:"index"`
	Token   string `json:"token,omitempty"`
	FaceUp  bool   `json:"face_up"`
	Matched bool   `json:"matched"`
}

// FrameView is a frame with face-down tokens hidden.
type FrameView struct {
	Cards    []CardView `json:"cards"`
	Level    int        `json:"level"`
	Coins    int        `json:"coins"`
	TimeLeft int        `json:"time_left"`
	Phase    string     `json:"phase"`
}

// NewFrameView hides every face-down token in f.
func NewFrameView(f memory.Frame) *FrameView {
	cards := make([]CardView, len(f.Deck))
	for i, c := range f.Deck {
		cv := CardView{
			Index:   c.Index,
			FaceUp:  f.FaceUp(i),
			Matched: f.IsMatched(i),
		}
		if cv.FaceUp {
			cv.Token = string(c.Token)
		}
		cards[i] = cv
	}
	return &FrameView{
		Cards:    cards,
		Level:    f.Level,
		Coins:    f.Coins,
		TimeLeft: f.TimeLeft,
		Phase:    string(f.Phase),
	}
}
