package greenthreads

import "sync/atomic"

// Metrics holds the scheduler's lifetime counters: a cooperative
// scheduler has no per-task latency distribution to sample, only the
// coarser counts a metrics sink would poll — context switches, picks,
// sleeps, I/O waits, deadlocks, and fiber spawn/exit totals.
//
// All fields are accessed only by the scheduler's own goroutine except
// Snapshot, which an observer on another goroutine may call at any
// time; it reads through atomics so it never races the scheduler step.
type Metrics struct {
	switches  atomic.Int64
	picks     atomic.Int64
	sleeps    atomic.Int64
	ioWaits   atomic.Int64
	deadlocks atomic.Int64
	spawned   atomic.Int64
	exited    atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of Metrics, safe to read
// without synchronization.
type MetricsSnapshot struct {
	ContextSwitches int64
	Picks           int64
	Sleeps          int64
	IOWaits         int64
	Deadlocks       int64
	Spawned         int64
	Exited          int64
}

func (m *Metrics) recordSwitch()   { m.switches.Add(1) }
func (m *Metrics) recordPick()     { m.picks.Add(1) }
func (m *Metrics) recordSleep()    { m.sleeps.Add(1) }
func (m *Metrics) recordIOWait()   { m.ioWaits.Add(1) }
func (m *Metrics) recordDeadlock() { m.deadlocks.Add(1) }
func (m *Metrics) recordSpawn()    { m.spawned.Add(1) }
func (m *Metrics) recordExit()     { m.exited.Add(1) }

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		ContextSwitches: m.switches.Load(),
		Picks:           m.picks.Load(),
		Sleeps:          m.sleeps.Load(),
		IOWaits:         m.ioWaits.Load(),
		Deadlocks:       m.deadlocks.Load(),
		Spawned:         m.spawned.Load(),
		Exited:          m.exited.Load(),
	}
}
