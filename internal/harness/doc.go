// Package harness runs scripted memory game scenarios.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: mismatch_then_match
//	description: "Cards flip back after the settle delay"
//	config: rules/quick.cue        # optional, relative to the scenario file
//	decks:                          # one layout per StartLevel, in order
//	  - [cat, dog, cat, fox, dog, fox]
//	steps:
//	  - start: true
//	  - flip: 0
//	  - flip: 1
//	    expect:
//	      flipped: [0, 1]
//	  - advance: 700ms
//	    expect:
//	      flipped: []
//	      coins: 0
//	assertions:
//	  - type: event_count
//	    event: settled
//	    count: 1
//
// # Step Types
//
// Each step does exactly one thing:
//
//   - start: begin a session (InitSession + StartLevel)
//   - flip: flip the card at the given index
//   - advance: move virtual time forward (Go duration string)
//   - tick: call Tick the given number of times
//   - ack: acknowledge the most recent popup
//   - restart: restart the session
//
// # Assertion Types
//
//   - event_count: an event kind occurs exactly count times
//   - event_order: event kinds occur in the given relative order
//   - popup_count: exactly count popups were shown
//   - popup_contains: some popup message contains the given text
//
// # Deterministic Testing
//
// Scenarios run with a manual scheduler (virtual time), scripted decks and a
// logical sequence counter, so traces are byte-identical across runs and
// can be compared against golden files.
package harness
