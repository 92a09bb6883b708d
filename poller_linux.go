//go:build linux

package greenthreads

import (
	"golang.org/x/sys/unix"
)

// epollPoller implements [ioPoller] on top of epoll (EpollCreate1 /
// EpollCtl / EpollWait), simplified for a single cooperative caller:
// there is no concurrent registration, so the poller needs no lock. Scheduler state is only touched between suspension points
// on the one logical thread.
type epollPoller struct {
	epfd     int
	eventBuf [256]unix.EpollEvent
}

func newPoller() ioPoller {
	return &epollPoller{epfd: -1}
}

func (p *epollPoller) init() error {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return err
	}
	p.epfd = fd
	return nil
}

func (p *epollPoller) close() error {
	if p.epfd < 0 {
		return nil
	}
	err := unix.Close(p.epfd)
	p.epfd = -1
	return err
}

func (p *epollPoller) add(fd int, events pollEvents) error {
	ev := unix.EpollEvent{Events: toEpollMask(events), Fd: int32(fd)}
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev)
}

func (p *epollPoller) modify(fd int, events pollEvents) error {
	ev := unix.EpollEvent{Events: toEpollMask(events), Fd: int32(fd)}
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, &ev)
}

func (p *epollPoller) remove(fd int) error {
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

func (p *epollPoller) wait(timeoutMs int, dst []readyEvent) ([]readyEvent, error) {
	n, err := unix.EpollWait(p.epfd, p.eventBuf[:], timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return dst, nil
		}
		return dst, err
	}
	for i := 0; i < n; i++ {
		dst = append(dst, readyEvent{
			fd:     int(p.eventBuf[i].Fd),
			events: fromEpollMask(p.eventBuf[i].Events),
		})
	}
	return dst, nil
}

func toEpollMask(events pollEvents) uint32 {
	var m uint32
	if events&pollReadable != 0 {
		m |= unix.EPOLLIN
	}
	if events&pollWritable != 0 {
		m |= unix.EPOLLOUT
	}
	return m
}

func fromEpollMask(mask uint32) pollEvents {
	var e pollEvents
	if mask&(unix.EPOLLIN|unix.EPOLLHUP|unix.EPOLLERR) != 0 {
		e |= pollReadable
	}
	if mask&(unix.EPOLLOUT|unix.EPOLLHUP|unix.EPOLLERR) != 0 {
		e |= pollWritable
	}
	return e
}
