// Package-level structured logging wiring for the scheduler.
//
// The scheduler logs sparingly and only at fiber-lifecycle and
// scheduling-anomaly boundaries (creation, termination, deadlock
// detection, shutdown) — this is not a request/response server with a
// log line per unit of work. Logging goes through logiface, a
// structured-logging facade, backed by stumpy (a JSON logger,
// logiface's reference backend) writing to os.Stderr by default.
package greenthreads

import (
	"os"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// stumpyEvent is the concrete event type produced by the stumpy
// backend; aliased here so option and scheduler signatures don't leak
// the stumpy import throughout the package.
type stumpyEvent = stumpy.Event

func defaultLogger() *logiface.Logger[*stumpyEvent] {
	return logiface.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(os.Stderr)),
		logiface.WithLevel[*stumpyEvent](logiface.LevelInformational),
	)
}

// newLifecycleLogRate returns a [catrate.Limiter] that caps fiber
// create/exit log lines to 200/second per category ("create" and
// "exit" are counted separately). A workload that spawns and
// retires thousands of short-lived fibers per second would otherwise
// turn the scheduler's debug logging into its own bottleneck; dropping
// the excess log lines (while every fiber still runs normally) keeps
// logging overhead bounded the way catrate's sliding-window limiter is
// built for.
func newLifecycleLogRate() *catrate.Limiter {
	return catrate.NewLimiter(map[time.Duration]int{
		time.Second: 200,
	})
}

// logFiberCreated logs a fiber's birth at debug level: id, name,
// tickets.
func logFiberCreated(l *logiface.Logger[*stumpyEvent], rate *catrate.Limiter, f *Fiber) {
	if _, ok := rate.Allow("create"); !ok {
		return
	}
	l.Debug().
		Uint64("fiber", f.ID).
		Str("name", f.Name).
		Int("tickets", f.Tickets).
		Log("fiber created")
}

// logFiberExited logs a fiber's termination at debug level: id and CPU
// time accrued.
func logFiberExited(l *logiface.Logger[*stumpyEvent], rate *catrate.Limiter, f *Fiber) {
	if _, ok := rate.Allow("exit"); !ok {
		return
	}
	l.Debug().
		Uint64("fiber", f.ID).
		Int64("cpu_time_ns", f.CPUTimeNS).
		Log("fiber exited")
}

// logDeadlock logs the scheduler observing no runnable, sleeping, or
// I/O-waiting fiber left — every remaining fiber is blocked on a mutex,
// condition variable, or join with no path to wake (deadlock
// condition).
func logDeadlock(l *logiface.Logger[*stumpyEvent], blocked int) {
	l.Err().
		Int("blocked_fibers", blocked).
		Log("scheduler deadlock: no fiber is runnable, sleeping, or awaiting i/o")
}

// logShutdown logs a graceful shutdown drain starting.
func logShutdown(l *logiface.Logger[*stumpyEvent], pending int) {
	l.Info().
		Int("pending_fibers", pending).
		Log("scheduler shutdown requested")
}
