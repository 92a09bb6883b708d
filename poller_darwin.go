//go:build darwin

package greenthreads

import (
	"golang.org/x/sys/unix"
)

// kqueuePoller implements [ioPoller] on top of kqueue (Kqueue /
// Kevent), simplified for a single cooperative caller the way
// poller_linux.go is.
type kqueuePoller struct {
	kq       int
	eventBuf [256]unix.Kevent_t
}

func newPoller() ioPoller {
	return &kqueuePoller{kq: -1}
}

func (p *kqueuePoller) init() error {
	kq, err := unix.Kqueue()
	if err != nil {
		return err
	}
	unix.CloseOnExec(kq)
	p.kq = kq
	return nil
}

func (p *kqueuePoller) close() error {
	if p.kq < 0 {
		return nil
	}
	err := unix.Close(p.kq)
	p.kq = -1
	return err
}

func (p *kqueuePoller) add(fd int, events pollEvents) error {
	return p.apply(fd, events, unix.EV_ADD|unix.EV_ENABLE)
}

func (p *kqueuePoller) modify(fd int, events pollEvents) error {
	// kqueue has no direct "modify"; delete both filters (ignoring
	// absent ones) and then add the new filter set.
	_ = p.remove(fd)
	return p.add(fd, events)
}

func (p *kqueuePoller) remove(fd int) error {
	changes := []unix.Kevent_t{
		mkEvent(fd, unix.EVFILT_READ, unix.EV_DELETE),
		mkEvent(fd, unix.EVFILT_WRITE, unix.EV_DELETE),
	}
	_, err := unix.Kevent(p.kq, changes, nil, nil)
	// Deleting a filter that was never added returns ENOENT; that is
	// not an error from the caller's point of view.
	if err == unix.ENOENT {
		return nil
	}
	return err
}

func (p *kqueuePoller) apply(fd int, events pollEvents, flags uint16) error {
	var changes []unix.Kevent_t
	if events&pollReadable != 0 {
		changes = append(changes, mkEvent(fd, unix.EVFILT_READ, flags))
	}
	if events&pollWritable != 0 {
		changes = append(changes, mkEvent(fd, unix.EVFILT_WRITE, flags))
	}
	if len(changes) == 0 {
		return nil
	}
	_, err := unix.Kevent(p.kq, changes, nil, nil)
	return err
}

func (p *kqueuePoller) wait(timeoutMs int, dst []readyEvent) ([]readyEvent, error) {
	var ts *unix.Timespec
	if timeoutMs >= 0 {
		t := unix.NsecToTimespec(int64(timeoutMs) * int64(1e6))
		ts = &t
	}
	n, err := unix.Kevent(p.kq, nil, p.eventBuf[:], ts)
	if err != nil {
		if err == unix.EINTR {
			return dst, nil
		}
		return dst, err
	}
	for i := 0; i < n; i++ {
		ev := p.eventBuf[i]
		var pe pollEvents
		switch ev.Filter {
		case unix.EVFILT_READ:
			pe = pollReadable
		case unix.EVFILT_WRITE:
			pe = pollWritable
		}
		dst = append(dst, readyEvent{fd: int(ev.Ident), events: pe})
	}
	return dst, nil
}

func mkEvent(fd int, filter int16, flags uint16) unix.Kevent_t {
	return unix.Kevent_t{
		Ident:  uint64(fd),
		Filter: filter,
		Flags:  flags,
	}
}
