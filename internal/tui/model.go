package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/petsy/internal/memory"
)

// lowTime is the countdown value at which the timer turns red.
const lowTime = 5

// Model is the bubbletea model for one game.
type Model struct {
	ctrl   Controller
	styles Styles

	frame  memory.Frame
	popup  *PopupMsg
	cursor int
	width  int
}

// NewModel creates a model that forwards input to ctrl.
func NewModel(ctrl Controller, styles Styles) Model {
	return Model{
		ctrl:   ctrl,
		styles: styles,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Cursor returns the highlighted card index.
func (m Model) Cursor() int { return m.cursor }

// Frame returns the last frame received.
func (m Model) Frame() memory.Frame { return m.frame }

// Popup returns the open popup message, if any.
func (m Model) Popup() (string, bool) {
	if m.popup == nil {
		return "", false
	}
	return m.popup.Message, true
}

// Columns is the grid width used for n cards.
func Columns(n int) int {
	if n <= 0 {
		return 1
	}
	return int(math.Ceil(math.Sqrt(float64(n))))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		m.frame = msg.Frame
		if m.cursor >= len(m.frame.Deck) {
			m.cursor = 0
		}
		return m, nil

	case PopupMsg:
		m.popup = &msg
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}

	if m.popup != nil {
		switch msg.String() {
		case "enter", " ", "esc":
			m.ctrl.Acknowledge(m.popup.Ack)
			m.popup = nil
		}
		return m, nil
	}

	n := len(m.frame.Deck)
	cols := Columns(n)
	switch msg.String() {
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}
	case "down", "j":
		if m.cursor+cols < n {
			m.cursor += cols
		}
	case "enter", " ":
		if n > 0 {
			m.ctrl.Flip(m.cursor)
		}
	case "r":
		m.ctrl.Restart()
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render("Petsy"))
	sb.WriteString("\n\n")
	sb.WriteString(m.statusLine())
	sb.WriteString("\n\n")
	sb.WriteString(m.grid())
	sb.WriteString("\n")

	if m.popup != nil {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Popup.Render(m.popup.Message + "\n\n[enter] continue"))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Help.Render("arrows/hjkl move • enter flip • r restart • q quit"))
	return sb.String()
}

func (m Model) statusLine() string {
	timeStyle := m.styles.Stat
	if m.frame.Phase == memory.PhasePlaying && m.frame.TimeLeft <= lowTime {
		timeStyle = m.styles.LowTime
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Stat.Render(fmt.Sprintf("Level %d", m.frame.Level)),
		m.styles.Stat.Render(fmt.Sprintf("Coins %d", m.frame.Coins)),
		timeStyle.Render(fmt.Sprintf("Time %ds", m.frame.TimeLeft)),
	)
}

func (m Model) grid() string {
	n := len(m.frame.Deck)
	if n == 0 {
		return m.styles.Help.Render("dealing...")
	}
	cols := Columns(n)

	var rows []string
	for start := 0; start < n; start += cols {
		end := min(start+cols, n)
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cells = append(cells, m.card(i))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) card(i int) string {
	face := "?"
	if m.frame.FaceUp(i) {
		face = string(m.frame.Deck[i].Token)
	}

	style := m.styles.CardDown
	switch {
	case i == m.cursor && m.popup == nil:
		style = m.styles.Cursor
	case m.frame.IsMatched(i):
		style = m.styles.CardMatched
	case m.frame.FaceUp(i):
		style = m.styles.CardUp
	}
	return style.Render(face)
}
