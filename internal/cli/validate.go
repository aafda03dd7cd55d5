package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/petsy/internal/config"
	"github.com/roach88/petsy/internal/memory"
)

// ErrCodeGeneric is used for failures that carry no config code.
const ErrCodeGeneric = "E_CONFIG"

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Levels int
}

// LevelPlan is what a rule file means for one level.
type LevelPlan struct {
	Level   int `json:"level"`
	Pairs   int `json:"pairs"`
	Cards   int `json:"cards"`
	Seconds int `json:"seconds"`
}

// ValidationResult is the validate command's payload.
type ValidationResult struct {
	Valid    bool        `json:"valid"`
	Tokens   []string    `json:"tokens"`
	TickMS   int64       `json:"tick_ms"`
	SettleMS int64       `json:"settle_ms"`
	Levels   []LevelPlan `json:"levels"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <rules.cue>",
		Short: "Validate a rules file",
		Long: `Validate a CUE rules file and show the levels it produces.

The file is checked against the built-in schema, tokens are normalised
and checked for duplicates, and the per-level pair count and time budget
are printed.

Examples:
  petsy validate rules.cue
  petsy validate rules.cue --levels 12 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Levels, "levels", 8, "number of levels to show")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)
	if opts.Levels < 1 {
		return NewExitError(ExitCommandError, "--levels must be at least 1")
	}

	formatter.VerboseLog("loading %s", path)
	rules, err := config.Load(path)
	if err != nil {
		code := ErrCodeGeneric
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) {
			code = cfgErr.Code
		}
		if outErr := formatter.Error(code, err.Error(), nil); outErr != nil {
			return outErr
		}
		exit := ExitFailure
		if code == config.ErrCodeRead {
			exit = ExitCommandError
		}
		return WrapExitError(exit, "invalid rules", err)
	}

	result := ValidationResult{
		Valid:    true,
		Tokens:   make([]string, len(rules.Tokens)),
		TickMS:   rules.Tick.Milliseconds(),
		SettleMS: rules.Settle.Milliseconds(),
		Levels:   PlanLevels(rules, opts.Levels),
	}
	for i, t := range rules.Tokens {
		result.Tokens[i] = string(t)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	formatter.Printf("✓ %s is valid\n\n", path)
	formatter.Printf("Tokens (%d): %v\n", len(result.Tokens), result.Tokens)
	formatter.Printf("Tick: %s  Settle: %s\n\n", rules.Tick, rules.Settle)
	formatter.Printf("%5s  %5s  %5s  %7s\n", "LEVEL", "PAIRS", "CARDS", "SECONDS")
	for _, lp := range result.Levels {
		formatter.Printf("%5d  %5d  %5d  %7d\n", lp.Level, lp.Pairs, lp.Cards, lp.Seconds)
	}
	return nil
}

// PlanLevels lists pair count and time budget for levels 1..n.
func PlanLevels(rules memory.Rules, n int) []LevelPlan {
	plans := make([]LevelPlan, n)
	for i := range plans {
		level := i + 1
		pairs := rules.PairCount(level)
		plans[i] = LevelPlan{
			Level:   level,
			Pairs:   pairs,
			Cards:   pairs * 2,
			Seconds: rules.TimeBudget(level),
		}
	}
	return plans
}
