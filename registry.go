package greenthreads

// fiberRegistry is the global fiber enumeration list:
// every fiber created by a scheduler is linked onto it via globalNext and
// stays there for the fiber's entire lifetime, including after it
// terminates, so introspection (ListFibers, a debugger, a metrics sink)
// can walk every fiber a scheduler has ever created.
//
// Fiber records here are never garbage collected independently of the
// scheduler: a terminated fiber's TCB is retained so Join and
// post-mortem inspection keep working, and the whole list is dropped
// at once when the owning scheduler is. There is exactly one writer
// (the scheduler's own goroutine, between suspension points), so no
// lock is needed.
type fiberRegistry struct {
	head *Fiber
	n    int
}

func (r *fiberRegistry) add(f *Fiber) {
	f.globalNext = r.head
	r.head = f
	r.n++
}

// each calls fn for every registered fiber, in reverse creation order.
func (r *fiberRegistry) each(fn func(*Fiber)) {
	for f := r.head; f != nil; f = f.globalNext {
		fn(f)
	}
}

func (r *fiberRegistry) len() int { return r.n }

// ListFibers returns every fiber this scheduler has created, terminated
// ones included, in reverse creation order.
func (s *Scheduler) ListFibers() []*Fiber {
	out := make([]*Fiber, 0, s.registry.len())
	s.registry.each(func(f *Fiber) { out = append(out, f) })
	return out
}
