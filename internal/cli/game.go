package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/petsy/internal/config"
	"github.com/roach88/petsy/internal/memory"
	"github.com/roach88/petsy/internal/store"
)

// GameOptions are the flags shared by play and serve.
type GameOptions struct {
	Config  string
	Journal string
	Seed    uint64
}

// loadRules loads the rule file, mapping config errors to exit code 2.
func loadRules(path string) (memory.Rules, error) {
	rules, err := config.Load(path)
	if err != nil {
		return memory.Rules{}, WrapExitError(ExitCommandError, "failed to load rules", err)
	}
	return rules, nil
}

// openJournal opens the journal, or returns nil when no path is set.
func openJournal(path string) (*store.Store, error) {
	if path == "" {
		return nil, nil
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	return st, nil
}

// newDealer returns a seeded dealer, or nil for the engine's random default.
func (o GameOptions) newDealer() memory.Dealer {
	if o.Seed == 0 {
		return nil
	}
	return memory.NewSeededDealer(o.Seed)
}

// openLogFile returns a writer for log output; "" discards.
func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open log file", err)
	}
	return f, func() { f.Close() }, nil
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func closeJournal(st *store.Store, logger *slog.Logger) {
	if st == nil {
		return
	}
	if err := st.Close(); err != nil {
		logger.Error("error closing journal", "error", err)
	}
}
