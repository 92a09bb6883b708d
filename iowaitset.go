package greenthreads

// pollEvents is the interest mask a fiber can wait on: readable,
// writable, or both ("interest mask").
type pollEvents uint8

const (
	pollReadable pollEvents = 1 << iota
	pollWritable
)

// ioWaitEntry is one (fd, interest mask, fiber) triple.
type ioWaitEntry struct {
	fd     int
	events pollEvents
	fiber  *Fiber
}

// ioWaitSet is the parallel (poll descriptor, fiber) set.
// The source this is ported from fixes the capacity at 128 and leaves
// overflow undefined (§9, Open Question c); this implementation grows
// the backing slice instead of failing a wait_io call, the same
// resolution recommends for the ready heap's fixed-1024
// limitation — a blocking fiber that cannot be tracked would otherwise
// hang forever with no way to signal the caller short of a panic.
type ioWaitSet struct {
	entries []ioWaitEntry
}

// add appends an entry (step 1: "appends ... to the I/O wait set").
func (s *ioWaitSet) add(fd int, events pollEvents, f *Fiber) {
	s.entries = append(s.entries, ioWaitEntry{fd: fd, events: events, fiber: f})
}

// removeAt removes the entry at index i via swap-with-last (:
// "the entry is removed by swap-with-last").
func (s *ioWaitSet) removeAt(i int) {
	n := len(s.entries)
	s.entries[i] = s.entries[n-1]
	s.entries = s.entries[:n-1]
}

// removeFiber removes every entry belonging to f (used when a fiber's
// wait is satisfied through a path other than normal poll dispatch,
// e.g. scheduler shutdown).
func (s *ioWaitSet) removeFiber(f *Fiber) {
	for i := 0; i < len(s.entries); {
		if s.entries[i].fiber == f {
			s.removeAt(i)
			continue
		}
		i++
	}
}

func (s *ioWaitSet) empty() bool { return len(s.entries) == 0 }
