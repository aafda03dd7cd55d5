package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the full trace to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, ev := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] t=%dms %s level=%d coins=%d time_left=%d",
			ev.Seq, ev.AtMS, ev.Kind, ev.Level, ev.Coins, ev.TimeLeft)
		if len(ev.Indices) > 0 {
			fmt.Fprintf(&buf, " indices=%v", ev.Indices)
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion against the result and returns
// the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case "event_count":
			err = assertEventCount(result.Trace, a)
		case "event_order":
			err = assertEventOrder(result.Trace, a)
		case "popup_count":
			err = assertPopupCount(result, a)
		case "popup_contains":
			err = assertPopupContains(result, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

// assertEventCount checks that an event kind occurs exactly Count times.
func assertEventCount(trace []TraceEvent, a Assertion) error {
	n := 0
	for _, ev := range trace {
		if ev.Kind == a.Event {
			n++
		}
	}
	if n == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     "event_count",
		Expected: fmt.Sprintf("%d %s events", a.Count, a.Event),
		Actual:   fmt.Sprintf("%d %s events", n, a.Event),
		Trace:    trace,
	}
}

// assertEventOrder checks that the events appear in the given relative
// order. Intervening events are allowed.
func assertEventOrder(trace []TraceEvent, a Assertion) error {
	next := 0
	for _, ev := range trace {
		if next < len(a.Events) && ev.Kind == a.Events[next] {
			next++
		}
	}
	if next == len(a.Events) {
		return nil
	}
	return &AssertionError{
		Type:     "event_order",
		Expected: strings.Join(a.Events, " -> "),
		Actual:   fmt.Sprintf("matched %s, then %s not found", strings.Join(a.Events[:next], " -> "), a.Events[next]),
		Trace:    trace,
	}
}

func assertPopupCount(result *Result, a Assertion) error {
	if len(result.Popups) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     "popup_count",
		Expected: fmt.Sprintf("%d popups", a.Count),
		Actual:   fmt.Sprintf("%d popups %q", len(result.Popups), result.Popups),
		Trace:    result.Trace,
	}
}

func assertPopupContains(result *Result, a Assertion) error {
	for _, msg := range result.Popups {
		if strings.Contains(msg, a.Message) {
			return nil
		}
	}
	return &AssertionError{
		Type:     "popup_contains",
		Expected: fmt.Sprintf("a popup containing %q", a.Message),
		Actual:   fmt.Sprintf("popups %q", result.Popups),
		Trace:    result.Trace,
	}
}
