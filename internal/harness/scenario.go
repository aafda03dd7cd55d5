package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/petsy/internal/memory"
)

// Scenario defines a scripted game session with expected outcomes.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Config is an optional CUE rules file. Relative paths are resolved
	// against the scenario file's directory by LoadScenario.
	Config string `yaml:"config,omitempty"`

	// Decks are the card layouts dealt by successive StartLevel calls.
	// Once exhausted, levels are dealt unshuffled.
	Decks [][]string `yaml:"decks"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions"`
}

// Step is a single scripted action. Exactly one action field must be set.
type Step struct {
	Start   bool    `yaml:"start,omitempty"`
	Flip    *int    `yaml:"flip,omitempty"`
	Advance string  `yaml:"advance,omitempty"`
	Tick    int     `yaml:"tick,omitempty"`
	Ack     bool    `yaml:"ack,omitempty"`
	Restart bool    `yaml:"restart,omitempty"`
	Expect  *Expect `yaml:"expect,omitempty"`
}

// Expect is checked against the engine snapshot after the step runs.
// Unset fields are not checked.
type Expect struct {
	Accepted *bool  `yaml:"accepted,omitempty"`
	Flipped  *[]int `yaml:"flipped,omitempty"`
	Matched  *[]int `yaml:"matched,omitempty"`
	Coins    *int   `yaml:"coins,omitempty"`
	Level    *int   `yaml:"level,omitempty"`
	TimeLeft *int   `yaml:"time_left,omitempty"`
	Phase    string `yaml:"phase,omitempty"`
}

// Assertion is evaluated against the full trace after all steps run.
type Assertion struct {
	Type    string   `yaml:"type"`
	Event   string   `yaml:"event,omitempty"`
	Events  []string `yaml:"events,omitempty"`
	Count   int      `yaml:"count,omitempty"`
	Message string   `yaml:"message,omitempty"`
}

// Action returns the name of the step's action.
func (s Step) Action() string {
	switch {
	case s.Start:
		return "start"
	case s.Flip != nil:
		return "flip"
	case s.Advance != "":
		return "advance"
	case s.Tick > 0:
		return "tick"
	case s.Ack:
		return "ack"
	case s.Restart:
		return "restart"
	}
	return ""
}

func (s Step) actionCount() int {
	n := 0
	for _, set := range []bool{s.Start, s.Flip != nil, s.Advance != "", s.Tick != 0, s.Ack, s.Restart} {
		if set {
			n++
		}
	}
	return n
}

var validPhases = map[string]bool{
	string(memory.PhaseIdle):     true,
	string(memory.PhasePlaying):  true,
	string(memory.PhaseComplete): true,
	string(memory.PhaseExpired):  true,
}

var validEvents = map[string]bool{
	string(memory.EventSessionReset):  true,
	string(memory.EventLevelStarted):  true,
	string(memory.EventFlipped):       true,
	string(memory.EventMatched):       true,
	string(memory.EventMismatched):    true,
	string(memory.EventSettled):       true,
	string(memory.EventTick):          true,
	string(memory.EventLevelComplete): true,
	string(memory.EventTimeExpired):   true,
}

// LoadScenario reads and validates a scenario file.
// Unknown fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}

	if scenario.Config != "" && !filepath.IsAbs(scenario.Config) {
		scenario.Config = filepath.Join(filepath.Dir(path), scenario.Config)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}

	for i, deck := range s.Decks {
		if err := validateDeck(deck); err != nil {
			return fmt.Errorf("decks[%d]: %w", i, err)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateDeck(deck []string) error {
	if len(deck) == 0 || len(deck)%2 != 0 {
		return fmt.Errorf("deck must have an even, non-zero number of cards (got %d)", len(deck))
	}
	counts := make(map[string]int, len(deck)/2)
	for _, tok := range deck {
		counts[tok]++
	}
	for tok, n := range counts {
		if n != 2 {
			return fmt.Errorf("token %q appears %d times, want 2", tok, n)
		}
	}
	return nil
}

func validateStep(step Step) error {
	switch n := step.actionCount(); {
	case n == 0:
		return fmt.Errorf("no action (one of start, flip, advance, tick, ack, restart)")
	case n > 1:
		return fmt.Errorf("multiple actions in one step")
	}
	if step.Tick < 0 {
		return fmt.Errorf("tick count must be positive")
	}
	if step.Advance != "" {
		d, err := time.ParseDuration(step.Advance)
		if err != nil {
			return fmt.Errorf("advance: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("advance must be positive")
		}
	}
	if step.Expect != nil {
		if step.Expect.Phase != "" && !validPhases[step.Expect.Phase] {
			return fmt.Errorf("expect.phase: unknown phase %q", step.Expect.Phase)
		}
		if step.Expect.Accepted != nil && step.Flip == nil {
			return fmt.Errorf("expect.accepted only applies to flip steps")
		}
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case "event_count":
		if !validEvents[a.Event] {
			return fmt.Errorf("event_count: unknown event %q", a.Event)
		}
		if a.Count < 0 {
			return fmt.Errorf("event_count: count must be non-negative")
		}
	case "event_order":
		if len(a.Events) < 2 {
			return fmt.Errorf("event_order requires at least 2 events")
		}
		for _, ev := range a.Events {
			if !validEvents[ev] {
				return fmt.Errorf("event_order: unknown event %q", ev)
			}
		}
	case "popup_count":
		if a.Count < 0 {
			return fmt.Errorf("popup_count: count must be non-negative")
		}
	case "popup_contains":
		if a.Message == "" {
			return fmt.Errorf("popup_contains requires 'message' field")
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
