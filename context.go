package greenthreads

// fiberContext is a fiber's saved point of control: the thing a
// context switch suspends and resumes.
//
// Go offers no portable, toolchain-free way to save/restore a raw
// register file and stack pointer without either cgo or per-ABI
// assembly. This context is instead realized as a goroutine paired
// with a one-slot rendezvous channel: the fiber's entry function runs
// on its own goroutine (which owns its own, runtime-managed stack —
// the guard-paged region from stack.go is allocated and tracked for
// accounting and overflow-intent, but the goroutine itself runs on the
// Go runtime's stack, not that mapping), and "switching into" a
// context means signalling its resume channel and then blocking on the
// resumed-from context's own channel until control is handed back.
//
// The discipline this buys: at most one fiber's goroutine is ever
// runnable at a time, because every switch is a synchronous handoff —
// the switching-out side blocks before the switching-in side proceeds.
// That is exactly the cooperative, single-logical-thread semantics
// this package promises, even though the underlying goroutines could
// physically live on different OS threads.
type fiberContext struct {
	resume  chan struct{}
	started bool
}

func newFiberContext() *fiberContext {
	return &fiberContext{resume: make(chan struct{}, 1)}
}

// start launches the goroutine that will run body once this context is
// first switched into. The goroutine waits for the first resume signal
// before calling body, so body does not race the launching fiber.
func (c *fiberContext) start(body func()) {
	if c.started {
		panic("greenthreads: fiberContext started twice")
	}
	c.started = true
	go func() {
		<-c.resume
		body()
	}()
}

// switchTo hands control to next and blocks the caller until next (or
// whatever the scheduler later switches to) hands control back to cur
// by signalling cur's resume channel.
func switchTo(next, cur *fiberContext) {
	next.resume <- struct{}{}
	if cur != nil {
		<-cur.resume
	}
}

// wake signals a context without blocking the caller; used by a
// terminating fiber (Scheduler.finishCurrent) to hand control back to
// the driver loop, since it has no later turn of its own to block on.
func wake(c *fiberContext) {
	c.resume <- struct{}{}
}

// parkSelf blocks the calling fiber's goroutine until its context is
// signalled again — the receiving half of a switchTo or wake aimed at
// it. No code in this package calls it: fibers block through switchTo,
// and a fiber woken by a mutex unlock is only pushed onto the ready
// heap, to be resumed later by the driver loop.
func parkSelf(c *fiberContext) {
	<-c.resume
}
