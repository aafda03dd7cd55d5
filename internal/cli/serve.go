package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/roach88/petsy/internal/memory"
	"github.com/roach88/petsy/internal/server"
	"github.com/roach88/petsy/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	GameOptions
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve games over websockets",
		Long: `Serve games over websockets.

Each connection to /ws plays its own game. Clients send
{"type":"flip","index":N}, {"type":"ack"} and {"type":"restart"};
the server pushes "frame" and "popup" messages. GET /healthz reports
the number of connected players.

Examples:
  petsy serve --addr :8080
  petsy serve --config rules.cue --journal ./petsy.db -v`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.Config, "config", "", "CUE rules file")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "SQLite journal path (optional)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "deal seed for every game (0 = random)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)
	if !opts.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

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

	srvOpts := server.Options{
		Rules:  rules,
		Logger: logger,
		Store:  st,
		IDs:    store.UUIDv7Generator{},
	}
	if opts.Seed != 0 {
		srvOpts.NewDealer = func() memory.Dealer { return opts.newDealer() }
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Serving games on %s (ws path /ws). Press Ctrl-C to stop.\n", opts.Addr)
	if err := server.New(srvOpts).ListenAndServe(ctx, opts.Addr); err != nil && !isCancel(err) {
		return WrapExitError(ExitFailure, "server error", err)
	}
	logger.Info("server stopped gracefully")
	return nil
}
