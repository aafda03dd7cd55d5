package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/petsy/internal/memory"
	"github.com/roach88/petsy/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Kind     string // optional event kind filter
}

// TraceEvent is one journal entry in the timeline.
type TraceEvent struct {
	Seq      int64  `json:"seq"`
	Kind     string `json:"kind"`
	Level    int    `json:"level"`
	Coins    int    `json:"coins"`
	TimeLeft int    `json:"time_left"`
	Indices  []int  `json:"indices,omitempty"`
}

// TraceResult is the timeline of one session.
type TraceResult struct {
	Session  string       `json:"session"`
	Timeline []TraceEvent `json:"timeline"`
	Stats    TraceStats   `json:"stats"`
}

// TraceStats summarises a session.
type TraceStats struct {
	TotalEvents     int `json:"total_events"`
	Matches         int `json:"matches"`
	Mismatches      int `json:"mismatches"`
	LevelsCompleted int `json:"levels_completed"`
	TimeExpiries    int `json:"time_expiries"`
	MaxLevel        int `json:"max_level"`
	MaxCoins        int `json:"max_coins"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [session-id]",
		Short: "Inspect the game journal",
		Long: `Inspect games recorded with --journal.

Without a session id, lists every journalled session with a summary.
With a session id, prints that session's event timeline.

Examples:
  petsy trace --db ./petsy.db
  petsy trace --db ./petsy.db 0192f0c4-...
  petsy trace --db ./petsy.db 0192f0c4-... --kind matched --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runTraceList(opts, cmd)
			}
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only show events of this kind")

	return cmd
}

func formatterFor(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func runTraceList(opts *TraceOptions, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer st.Close()

	sessions, err := st.ListSessions(context.Background())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list sessions", err)
	}

	if formatter.JSON() {
		return formatter.Success(sessions)
	}
	if len(sessions) == 0 {
		formatter.Printf("No sessions recorded.\n")
		return nil
	}

	formatter.Printf("%-36s  %-10s  %6s  %5s  %5s  %8s  %8s\n",
		"SESSION", "LABEL", "EVENTS", "LEVEL", "COINS", "CLEARED", "EXPIRED")
	for _, s := range sessions {
		formatter.Printf("%-36s  %-10s  %6d  %5d  %5d  %8d  %8d\n",
			s.ID, s.Label, s.Events, s.MaxLevel, s.MaxCoins, s.Completes, s.Expiries)
	}
	return nil
}

func runTrace(opts *TraceOptions, sessionID string, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)
	ctx := context.Background()

	if opts.Kind != "" && !isEventKind(opts.Kind) {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown event kind %q", opts.Kind))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer st.Close()

	exists, err := st.SessionExists(ctx, sessionID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to look up session", err)
	}
	if !exists {
		return NewExitError(ExitCommandError, fmt.Sprintf("session not found: %s", sessionID))
	}

	entries, err := st.ReadEvents(ctx, sessionID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}

	result := buildTrace(sessionID, entries, opts.Kind)
	if formatter.JSON() {
		return formatter.Success(result)
	}
	outputTraceText(formatter, result)
	return nil
}

// buildTrace computes stats over every entry and filters the timeline by
// kind.
func buildTrace(sessionID string, entries []store.Entry, kind string) TraceResult {
	result := TraceResult{
		Session:  sessionID,
		Timeline: []TraceEvent{},
	}
	for _, e := range entries {
		ev := e.Event
		result.Stats.TotalEvents++
		result.Stats.MaxLevel = max(result.Stats.MaxLevel, ev.Level)
		result.Stats.MaxCoins = max(result.Stats.MaxCoins, ev.Coins)
		switch ev.Kind {
		case memory.EventMatched:
			result.Stats.Matches++
		case memory.EventMismatched:
			result.Stats.Mismatches++
		case memory.EventLevelComplete:
			result.Stats.LevelsCompleted++
		case memory.EventTimeExpired:
			result.Stats.TimeExpiries++
		}

		if kind != "" && string(ev.Kind) != kind {
			continue
		}
		result.Timeline = append(result.Timeline, TraceEvent{
			Seq:      e.Seq,
			Kind:     string(ev.Kind),
			Level:    ev.Level,
			Coins:    ev.Coins,
			TimeLeft: ev.TimeLeft,
			Indices:  ev.Indices,
		})
	}
	return result
}

func outputTraceText(f *OutputFormatter, result TraceResult) {
	f.Printf("Trace for session: %s\n\n", result.Session)
	f.Printf("Timeline:\n")
	for _, ev := range result.Timeline {
		line := fmt.Sprintf("  [%d] %-14s level=%d coins=%d time_left=%d", ev.Seq, ev.Kind, ev.Level, ev.Coins, ev.TimeLeft)
		if len(ev.Indices) > 0 {
			parts := make([]string, len(ev.Indices))
			for i, idx := range ev.Indices {
				parts[i] = fmt.Sprint(idx)
			}
			line += " cards=" + strings.Join(parts, ",")
		}
		f.Printf("%s\n", line)
	}
	s := result.Stats
	f.Printf("\nStats:\n")
	f.Printf("  Events:           %d\n", s.TotalEvents)
	f.Printf("  Matches:          %d\n", s.Matches)
	f.Printf("  Mismatches:       %d\n", s.Mismatches)
	f.Printf("  Levels completed: %d\n", s.LevelsCompleted)
	f.Printf("  Time expiries:    %d\n", s.TimeExpiries)
	f.Printf("  Best level:       %d\n", s.MaxLevel)
	f.Printf("  Best coins:       %d\n", s.MaxCoins)
}

func isEventKind(k string) bool {
	switch memory.EventKind(k) {
	case memory.EventSessionReset, memory.EventLevelStarted, memory.EventFlipped,
		memory.EventMatched, memory.EventMismatched, memory.EventSettled,
		memory.EventTick, memory.EventLevelComplete, memory.EventTimeExpired:
		return true
	}
	return false
}
