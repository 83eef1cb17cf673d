// Package clock is the only place services read the time from.
package clock

import "time"

// Precision is the resolution every stored timestamp is kept at. Postgres
// timestamps hold microseconds, so anything finer would not survive a
// save and reload.
const Precision = time.Microsecond

// Clock tells services what time it is
type Clock interface {
	Now() time.Time
}

// System reads the wall clock
type System struct{}

// New returns the wall clock
func New() System {
	return System{}
}

// Now returns the current time in UTC at Precision
func (System) Now() time.Time {
	return time.Now().UTC().Truncate(Precision)
}

// Func adapts a plain function to Clock
type Func func() time.Time

// Now calls f
func (f Func) Now() time.Time {
	return f()
}
