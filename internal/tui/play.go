package tui

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/roach88/petsy/internal/engine"
	"github.com/roach88/petsy/internal/memory"
)

// PlayConfig configures an interactive terminal game.
type PlayConfig struct {
	Rules     memory.Rules
	Dealer    memory.Dealer
	Listeners []memory.Listener
	Logger    *slog.Logger

	// ProgramOptions are passed to tea.NewProgram (e.g. tea.WithAltScreen).
	ProgramOptions []tea.ProgramOption
}

// Play runs a game in the terminal until the player quits or ctx is done.
func Play(ctx context.Context, cfg PlayConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loop := engine.NewLoop(engine.WithLogger(logger), engine.WithName("tui"))
	bridge := NewBridge()

	opts := []memory.Option{
		memory.WithPresenter(bridge),
		memory.WithLogger(logger),
	}
	if cfg.Dealer != nil {
		opts = append(opts, memory.WithDealer(cfg.Dealer))
	}
	for _, l := range cfg.Listeners {
		opts = append(opts, memory.WithListener(l))
	}
	eng := memory.NewEngine(cfg.Rules, loop, opts...)
	session := memory.NewSession(eng, bridge)

	model := NewModel(LoopController{Loop: loop, Session: session}, DefaultStyles())
	programOpts := append([]tea.ProgramOption{tea.WithContext(ctx)}, cfg.ProgramOptions...)
	program := tea.NewProgram(model, programOpts...)
	bridge.Attach(program.Send)

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	loopDone := make(chan error, 1)
	go func() {
		loopDone <- loop.Run(loopCtx)
	}()

	loop.Post(session.Start)

	_, err := program.Run()

	// Detach before stopping so a late frame cannot block on a dead program.
	bridge.Attach(nil)
	loop.Stop()
	if loopErr := <-loopDone; loopErr != nil && !errors.Is(loopErr, context.Canceled) {
		logger.Error("game loop stopped with error", "error", loopErr)
	}

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
