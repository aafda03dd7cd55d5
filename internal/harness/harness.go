package harness

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/roach88/petsy/internal/config"
	"github.com/roach88/petsy/internal/memory"
	"github.com/roach88/petsy/internal/testutil"
)

// Harness runs one scenario against a real engine and session, using a
// manual scheduler so that time only moves on advance steps.
type Harness struct {
	sched    *testutil.ManualScheduler
	notifier *testutil.RecordingNotifier
	engine   *memory.Engine
	session  *memory.Session
	result   *Result
	seq      int64
}

// Run executes a scenario and returns its result. An error is returned only
// when the scenario cannot be set up; expectation failures are reported in
// the result.
func Run(scenario *Scenario) (*Result, error) {
	rules := config.Default()
	if scenario.Config != "" {
		var err error
		rules, err = config.Load(scenario.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules: %w", err)
		}
	}

	layouts := make([][]memory.Token, len(scenario.Decks))
	for i, deck := range scenario.Decks {
		layout := make([]memory.Token, len(deck))
		for j, tok := range deck {
			layout[j] = memory.Token(tok)
		}
		layouts[i] = layout
	}

	h := &Harness{
		sched:    testutil.NewManualScheduler(),
		notifier: &testutil.RecordingNotifier{},
		result:   NewResult(),
	}
	h.engine = memory.NewEngine(rules, h.sched,
		memory.WithDealer(testutil.NewFixedDealer(layouts...)),
		memory.WithListener(memory.ListenerFunc(h.record)),
		memory.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	h.session = memory.NewSession(h.engine, h.notifier)

	for i, step := range scenario.Steps {
		accepted, err := h.execute(step)
		if err != nil {
			h.result.AddError(fmt.Sprintf("steps[%d] (%s): %v", i, step.Action(), err))
			continue
		}
		if step.Expect != nil {
			for _, msg := range h.check(step.Expect, accepted) {
				h.result.AddError(fmt.Sprintf("steps[%d] (%s): %s", i, step.Action(), msg))
			}
		}
	}

	for _, p := range h.notifier.Popups() {
		h.result.Popups = append(h.result.Popups, p.Message)
	}

	for _, msg := range EvaluateAssertions(h.result, scenario.Assertions) {
		h.result.AddError(msg)
	}
	return h.result, nil
}

func (h *Harness) execute(step Step) (bool, error) {
	switch {
	case step.Start:
		h.session.Start()
	case step.Flip != nil:
		return h.session.Flip(*step.Flip), nil
	case step.Advance != "":
		d, err := time.ParseDuration(step.Advance)
		if err != nil {
			return false, err
		}
		h.sched.Advance(d)
	case step.Tick > 0:
		for range step.Tick {
			h.engine.Tick()
		}
	case step.Ack:
		if !h.notifier.AckLast() {
			return false, fmt.Errorf("no popup to acknowledge")
		}
	case step.Restart:
		h.session.Restart()
	}
	return true, nil
}

var equateEmpty = cmpopts.EquateEmpty()

func (h *Harness) check(want *Expect, accepted bool) []string {
	got := h.engine.Snapshot()
	var errs []string

	if want.Accepted != nil && *want.Accepted != accepted {
		errs = append(errs, fmt.Sprintf("accepted: want %v, got %v", *want.Accepted, accepted))
	}
	if want.Flipped != nil {
		if diff := cmp.Diff(*want.Flipped, got.Flipped, equateEmpty); diff != "" {
			errs = append(errs, fmt.Sprintf("flipped mismatch (-want +got):\n%s", diff))
		}
	}
	if want.Matched != nil {
		if diff := cmp.Diff(*want.Matched, got.Matched, equateEmpty); diff != "" {
			errs = append(errs, fmt.Sprintf("matched mismatch (-want +got):\n%s", diff))
		}
	}
	if want.Coins != nil && *want.Coins != got.Coins {
		errs = append(errs, fmt.Sprintf("coins: want %d, got %d", *want.Coins, got.Coins))
	}
	if want.Level != nil && *want.Level != got.Level {
		errs = append(errs, fmt.Sprintf("level: want %d, got %d", *want.Level, got.Level))
	}
	if want.TimeLeft != nil && *want.TimeLeft != got.TimeLeft {
		errs = append(errs, fmt.Sprintf("time_left: want %d, got %d", *want.TimeLeft, got.TimeLeft))
	}
	if want.Phase != "" && want.Phase != string(got.Phase) {
		errs = append(errs, fmt.Sprintf("phase: want %s, got %s", want.Phase, got.Phase))
	}
	return errs
}

func (h *Harness) record(ev memory.Event) {
	h.seq++
	h.result.Trace = append(h.result.Trace, TraceEvent{
		Seq:      h.seq,
		AtMS:     h.sched.Now().Milliseconds(),
		Kind:     string(ev.Kind),
		Level:    ev.Level,
		Coins:    ev.Coins,
		TimeLeft: ev.TimeLeft,
		Indices:  ev.Indices,
	})
}
