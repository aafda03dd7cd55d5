// Package memory implements the level/state engine of the Petsy
// memory-matching minigame.
//
// The engine owns the deck of matchable tokens, the flip/match/mismatch
// transitions, the per-level countdown and coin scoring. It renders through
// a Presenter and reports terminal events (level complete, time expired) to
// registered Listeners. Session wires those terminal events to a
// PopupNotifier and decides what happens after the player acknowledges.
//
// # Threading
//
// The engine is single-threaded: every exported method and every scheduled
// callback must run on one logical thread (see engine.Loop). No locks are
// taken.
//
// Scheduled callbacks (the countdown tick and the mismatch settle) are tagged
// with the generation that was current when they were armed. InitSession and
// StartLevel advance the generation, so a callback that belongs to an older
// level or session is ignored when it eventually fires.
//
// # Invariants
//
//   - len(flipped) <= 2
//   - flipped ∩ matched = ∅
//   - matched grows by exactly two indices per match and never shrinks
//     within a level
//   - coins never decrease within a session
//   - timeLeft never drops below 0 and time-expired fires at most once per
//     level
package memory
