// Package clock provides cancellable timer scheduling for single-threaded
// event loops. Callbacks never run concurrently with each other or with the
// code that scheduled them: each Scheduler delivers them from the owning loop.
package clock

import "time"

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call prevented the
	// callback from running; false means it already ran or was stopped.
	Stop() bool
}

// Scheduler schedules callbacks on the owner's event loop.
type Scheduler interface {
	// AfterFunc arranges for f to run once after d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer

	// Now returns the scheduler's current time.
	Now() time.Time
}
