package memory

import "time"

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback already fired or was stopped.
	Stop() bool
}

// Scheduler arms one-shot callbacks. Callbacks must be delivered on the
// engine's thread, one at a time.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}
