// Package store provides an SQLite-backed journal of memory game events.
//
// The journal is an append-only audit log:
//   - Sessions: one row per hosted game (a CLI run or a websocket connection)
//   - Events: every engine event of that game, stamped with a logical seq
//
// It is never read back to resume play.
//
// # Ordering
//
// All ordering uses the seq column (a per-session logical clock), never
// timestamps. Reads always ORDER BY seq ASC.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
