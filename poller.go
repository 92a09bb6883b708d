// greenthreads: I/O readiness polling.
//
// The scheduler step drains ready I/O with a single,
// platform-native poll call per tick: epoll on Linux, kqueue on
// Darwin (see poller_linux.go, poller_darwin.go), registering fds and
// returning ready events through the minimal readiness-list contract
// below rather than a callback-dispatch registry.
package greenthreads

// readyEvent reports one fd's readiness as observed by a single poll call.
type readyEvent struct {
	fd     int
	events pollEvents
}

// ioPoller is the minimal platform-polling contract the scheduler step
// needs: register/unregister interest, and block (up to timeoutMs, or
// indefinitely when negative) until at least one registered fd is
// ready or the timeout elapses.
type ioPoller interface {
	init() error
	close() error
	add(fd int, events pollEvents) error
	modify(fd int, events pollEvents) error
	remove(fd int) error
	// wait blocks up to timeoutMs (0 = non-blocking poll, <0 = block
	// indefinitely) and appends ready events to dst, returning the
	// extended slice.
	wait(timeoutMs int, dst []readyEvent) ([]readyEvent, error)
}
