// Package engine provides the single-writer event loop that hosts a memory
// game.
//
// ARCHITECTURE:
//
// Single-Writer Event Loop:
// Every piece of game state is mutated from one goroutine, the one running
// Loop.Run. Player input (websocket reads, key presses), countdown ticks and
// mismatch settles are all turned into tasks and processed in FIFO order.
// This gives the memory engine the cooperative, one-event-at-a-time model it
// relies on without any locks in game code.
//
// Timers:
// Loop.AfterFunc implements memory.Scheduler. The real timer fires on its own
// goroutine, which only posts the callback into the queue. A stopped timer
// never posts. A timer that fired but whose task is still queued is filtered
// by the memory engine's generation check.
//
// Task Processing Flow:
//  1. Post() appends a task to the FIFO queue (any goroutine)
//  2. Run() dequeues tasks one at a time
//  3. Panicking tasks are recovered and logged; the loop keeps going
package engine
