//go:build linux || darwin

package greenthreads

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// allocStack reserves a guard-paged stack region of at least size bytes,
// following the same golang.org/x/sys/unix usage pattern the poller uses
// for epoll/kqueue: a single mmap call sized guardPage+usable, then
// mprotect(PROT_NONE) over the guard page.
func allocStack(size int) (*stackRegion, error) {
	pageSize := unix.Getpagesize()
	usable := roundUpPage(size, pageSize)
	total := pageSize + usable

	mem, err := unix.Mmap(-1, 0, total, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap: %v", ErrStackAlloc, err)
	}

	// Guard page occupies the first page; the usable region follows it,
	// so an underflowing write from the usable region faults immediately
	// rather than scribbling over a neighboring allocation.
	if err := unix.Mprotect(mem[:pageSize], unix.PROT_NONE); err != nil {
		_ = unix.Munmap(mem)
		return nil, fmt.Errorf("%w: mprotect guard page: %v", ErrStackAlloc, err)
	}

	base := uintptr(unsafe.Pointer(&mem[0])) + uintptr(pageSize)
	top := base + uintptr(usable)
	// 16-byte alignment at the top of the region context.init contract.
	top &^= 15

	return &stackRegion{
		guardAndUsable: mem,
		base:           base,
		top:            top,
		size:           usable,
	}, nil
}

// freeStack releases both the guard page and the usable pages atomically
// (: "free(ptr, size) releases both the guard and usable pages
// atomically" — a single munmap of the combined mapping satisfies this).
func freeStack(s *stackRegion) error {
	if s == nil || s.guardAndUsable == nil {
		return nil
	}
	mem := s.guardAndUsable
	s.guardAndUsable = nil
	return unix.Munmap(mem)
}
