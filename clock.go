package greenthreads

import (
	"sync/atomic"
	"time"
)

// Clock supplies the monotonic millisecond timestamps the scheduler uses
// for sleep wakeups and poll timeout computation.
//
// Implementations must never return a value lower than a previously
// returned value. The zero value of [SystemClock] is ready to use.
type Clock interface {
	NowMS() int64
}

// SystemClock is a [Clock] backed by the process's monotonic clock
// (time.Now's monotonic reading), anchored at the moment it is first
// used so that early timestamps stay small.
type SystemClock struct {
	anchor   time.Time
	anchored atomic.Bool
}

// NowMS returns the number of milliseconds elapsed since the clock's
// anchor point, established lazily on first call.
func (c *SystemClock) NowMS() int64 {
	if c.anchored.CompareAndSwap(false, true) {
		c.anchor = time.Now()
	}
	return time.Since(c.anchor).Milliseconds()
}

// ManualClock is a [Clock] for deterministic tests: time only advances
// when [ManualClock.Advance] is called.
type ManualClock struct {
	ms atomic.Int64
}

// NewManualClock returns a ManualClock starting at 0ms.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// NowMS returns the current simulated time.
func (c *ManualClock) NowMS() int64 {
	return c.ms.Load()
}

// Advance moves the simulated clock forward by delta milliseconds.
// delta must be non-negative; the clock never moves backward.
func (c *ManualClock) Advance(delta int64) {
	if delta < 0 {
		panic("greenthreads: ManualClock.Advance called with negative delta")
	}
	c.ms.Add(delta)
}
