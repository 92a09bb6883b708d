// Package greenthreads error types.
package greenthreads

import (
	"errors"
	"fmt"
)

var (
	// ErrStackAlloc is defined in stack.go (guard-page mmap/mprotect
	// failure).

	// ErrSchedulerRunning is returned by Run when called re-entrantly
	// from within a fiber body, or by a second concurrent call to Run.
	ErrSchedulerRunning = errors.New("greenthreads: scheduler is already running")

	// ErrSchedulerStopped names a stopped scheduler. No function in
	// this package returns it; Shutdown does not cause other
	// operations to fail.
	ErrSchedulerStopped = errors.New("greenthreads: scheduler is stopped")

	// ErrUnknownFiber is returned when an operation names a fiber ID
	// that was never created by this scheduler.
	ErrUnknownFiber = errors.New("greenthreads: unknown fiber id")

	// ErrSelfJoin is returned when a fiber attempts to join itself.
	ErrSelfJoin = errors.New("greenthreads: a fiber cannot join itself")

	// ErrJoinTerminated names a join target whose record was reaped.
	// No function in this package returns it: fiber records are never
	// reaped, and Join on a terminated fiber returns its retval.
	ErrJoinTerminated = errors.New("greenthreads: joined fiber already reaped")

	// ErrInvalidTickets is returned by SetTickets for a non-positive
	// ticket count; tickets must be >= 1.
	ErrInvalidTickets = errors.New("greenthreads: ticket count must be positive")
)

// DeadlockError reports that the scheduler found no fiber runnable,
// sleeping, or waiting on I/O while fibers remained blocked on a mutex,
// condition variable, or join.
type DeadlockError struct {
	BlockedFibers int
}

func (e *DeadlockError) Error() string {
	return fmt.Sprintf("greenthreads: deadlock: %d fiber(s) blocked with no path to wake", e.BlockedFibers)
}

// CapacityError reports that a fixed-capacity structure could not
// accept a new entry. No code path in this package returns it: the
// ready heap and I/O wait set both grow instead of failing (see
// DESIGN.md's resolution of the corresponding Open Question), and no
// option sets a hard capacity ceiling.
type CapacityError struct {
	Structure string
	Capacity  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("greenthreads: %s at capacity (%d)", e.Structure, e.Capacity)
}

// WrapError wraps an error with a message, preserving it for
// errors.Is/errors.As via %w.
func WrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}
