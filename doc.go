// Package greenthreads implements a user-space cooperative scheduler:
// any number of "fibers" (green threads) are multiplexed onto the
// single OS thread that calls [Scheduler.Run], selected each step by a
// stride-scheduling algorithm, with no preemption and no multi-core
// parallelism.
//
// # Architecture
//
// A [Scheduler] holds a stride-keyed ready heap, an unordered sleep
// list, and an I/O wait set backed by a platform poller. Each step of
// [Scheduler.Run] drains expired sleepers and ready I/O, picks the
// fiber with the lowest stride pass, and switches into it until it
// yields, sleeps, blocks on I/O or a sync primitive, or terminates.
//
// Fibers are realized as goroutines paired with a one-slot rendezvous
// channel (see context.go): at most one fiber's goroutine is ever
// runnable at a time, which is what gives the scheduler its
// cooperative, single-logical-thread semantics even though the
// underlying goroutines are managed by the Go runtime.
//
// # Platform Support
//
// I/O polling uses platform-native readiness notification:
//   - Linux: epoll
//   - macOS: kqueue
//
// # Thread Safety
//
// A Scheduler is not safe for concurrent use. [Scheduler.Create],
// [Scheduler.Run], and [Scheduler.Shutdown] are meant to be called from
// the one goroutine driving the scheduler; every other operation
// (Yield, Sleep, Exit, Join, mutex/condvar operations) is meant to be
// called from within a fiber running under it.
//
// # Usage
//
//	sched, err := greenthreads.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sched.Create("worker", func(arg any) {
//	    fmt.Println("hello from a fiber:", arg)
//	    sched.Yield()
//	    fmt.Println("resumed")
//	}, "payload", 0)
//
//	if err := sched.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Types
//
// The package's error taxonomy is in errors.go: sentinel errors for
// misuse ([ErrUnknownFiber], [ErrSelfJoin], [ErrInvalidTickets], ...)
// and typed errors for runtime conditions ([DeadlockError],
// [CapacityError]), all usable with [errors.Is] and [errors.As].
package greenthreads
