package greenthreads

import "golang.org/x/sys/unix"

// Read performs a non-blocking read on fd, suspending the calling fiber
// (via wait_io) on EAGAIN/EWOULDBLOCK and retrying once the scheduler
// reports fd readable. fd must already be in non-blocking
// mode (see SetNonblock).
func (s *Scheduler) Read(fd int, buf []byte) (int, error) {
	for {
		n, err := readFD(fd, buf)
		if err == nil {
			return n, nil
		}
		if !isAgain(err) {
			return n, err
		}
		if err := s.waitIO(fd, pollReadable); err != nil {
			return 0, err
		}
	}
}

// Write performs a non-blocking write on fd, suspending the calling
// fiber on EAGAIN/EWOULDBLOCK the same way Read does.
func (s *Scheduler) Write(fd int, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := writeFD(fd, buf[total:])
		if n > 0 {
			total += n
		}
		if err == nil {
			continue
		}
		if !isAgain(err) {
			return total, err
		}
		if err := s.waitIO(fd, pollWritable); err != nil {
			return total, err
		}
	}
	return total, nil
}

// Accept accepts one connection on a non-blocking listening fd,
// suspending the calling fiber until a connection is pending. The
// accepted connection's fd is put into non-blocking mode before
// return, so callers can use it directly with Read/Write.
func (s *Scheduler) Accept(fd int) (int, unix.Sockaddr, error) {
	for {
		connFD, sa, err := acceptFD(fd)
		if err == nil {
			if err := setNonblock(connFD, true); err != nil {
				_ = closeFD(connFD)
				return 0, nil, err
			}
			return connFD, sa, nil
		}
		if !isAgain(err) {
			return 0, nil, err
		}
		if err := s.waitIO(fd, pollReadable); err != nil {
			return 0, nil, err
		}
	}
}

// SetNonblock puts fd into non-blocking mode, required before using it
// with Read/Write/Accept under this scheduler.
func (s *Scheduler) SetNonblock(fd int) error {
	return setNonblock(fd, true)
}

func isAgain(err error) bool {
	return err == unix.EAGAIN || err == unix.EWOULDBLOCK
}
