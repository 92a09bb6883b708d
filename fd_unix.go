//go:build linux || darwin

package greenthreads

import (
	"golang.org/x/sys/unix"
)

// closeFD closes a file descriptor on Unix systems.
func closeFD(fd int) error {
	return unix.Close(fd)
}

// readFD reads from a file descriptor on Unix systems.
func readFD(fd int, buf []byte) (int, error) {
	return unix.Read(fd, buf)
}

// writeFD writes to a file descriptor on Unix systems.
func writeFD(fd int, buf []byte) (int, error) {
	return unix.Write(fd, buf)
}

// acceptFD accepts a connection on a listening fd.
func acceptFD(fd int) (int, unix.Sockaddr, error) {
	return unix.Accept(fd)
}

// setNonblock toggles O_NONBLOCK on fd. The I/O wrappers operate on
// non-blocking descriptors and suspend the fiber on EAGAIN instead of
// letting the OS thread block.
func setNonblock(fd int, nonblocking bool) error {
	return unix.SetNonblock(fd, nonblocking)
}
