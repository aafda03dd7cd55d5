package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/roach88/petsy/internal/memory"
	"github.com/roach88/petsy/internal/store"
	"github.com/roach88/petsy/internal/tui"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	GameOptions
	LogFile string
	Inline  bool
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long: `Play a game in the terminal.

Arrow keys (or hjkl) move, enter flips, r restarts, q quits.
Logs are written to --log (discarded by default) so they never
draw over the board.

Examples:
  petsy play
  petsy play --config rules.cue --seed 42
  petsy play --journal ./petsy.db --log ./petsy.log -v`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "CUE rules file")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "SQLite journal path (optional)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "deal seed (0 = random)")
	cmd.Flags().StringVar(&opts.LogFile, "log", "", "log file path")
	cmd.Flags().BoolVar(&opts.Inline, "inline", false, "render inline instead of the alternate screen")

	return cmd
}

func runPlay(opts *PlayOptions, cmd *cobra.Command) error {
	w, closeLog, err := openLogFile(opts.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := newLogger(w, opts.Verbose)

	rules, err := loadRules(opts.Config)
	if err != nil {
		return err
	}

	st, err := openJournal(opts.Journal)
	if err != nil {
		return err
	}
	defer closeJournal(st, logger)

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var listeners []memory.Listener
	if st != nil {
		rec, err := store.NewRecorder(ctx, st, store.UUIDv7Generator{}, "tui", logger)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to start journal", err)
		}
		logger.Info("journaling game", "session", rec.SessionID())
		listeners = append(listeners, rec)
	}

	var programOpts []tea.ProgramOption
	if !opts.Inline {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	programOpts = append(programOpts,
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	err = tui.Play(ctx, tui.PlayConfig{
		Rules:          rules,
		Dealer:         opts.newDealer(),
		Listeners:      listeners,
		Logger:         logger,
		ProgramOptions: programOpts,
	})
	if err != nil && !isCancel(err) {
		return WrapExitError(ExitFailure, "game error", err)
	}
	return nil
}
