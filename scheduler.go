package greenthreads

import (
	"runtime"
	"sync/atomic"
)

// Scheduler is the cooperative stride scheduler: one
// instance multiplexes any number of fibers onto the goroutine that
// calls [Scheduler.Run], selecting the next fiber by minimum stride
// pass each step, and draining expired sleepers and ready
// I/O before every pick.
//
// A Scheduler is not safe for concurrent use from multiple goroutines:
// every operation (Create, Yield, Sleep, mutex/condvar operations,
// Join) is expected to be called from a fiber running under this
// scheduler, or — for Create, Run, and Shutdown — from the single
// goroutine driving it.
type Scheduler struct {
	opts *schedulerOptions

	ready  readyHeap
	sleep  sleepList
	ioWait ioWaitSet
	poller ioPoller

	registry fiberRegistry
	byID     map[uint64]*Fiber

	current   *Fiber
	driverCtx *fiberContext

	// zombie holds the most recently terminated fiber whose stack has
	// not yet been reclaimed — released by the next runFiber call, per
	// the zombie pattern (a fiber's stack cannot be freed while its own
	// switch-out may still be in flight).
	zombie *Fiber

	nextID uint64

	Metrics Metrics

	running  atomic.Bool
	shutdown atomic.Bool

	runningSinceMS int64
}

// New constructs a Scheduler. The returned scheduler owns no OS
// resources until [Scheduler.Run] is called (the poller is opened
// there and closed when Run returns).
func New(opts ...Option) (*Scheduler, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	s := &Scheduler{
		opts:      cfg,
		byID:      make(map[uint64]*Fiber, cfg.readyCapacity),
		driverCtx: newFiberContext(),
		nextID:    1,
	}
	s.ready.items = make([]*Fiber, 0, cfg.readyCapacity)
	s.ioWait.entries = make([]ioWaitEntry, 0, cfg.ioWaitCapacity)
	return s, nil
}

// Create allocates a new fiber, gives it its own guard-paged stack
// region and goroutine-backed context, and enqueues it onto
// the ready heap with a fresh pass equal to the current minimum pass on
// the heap (so a newly created fiber does not have to wait an entire
// stride cycle behind fibers that have been running since before it
// existed). tickets <= 0 uses the scheduler's configured default.
func (s *Scheduler) Create(name string, entry EntryFunc, arg any, tickets int) (*Fiber, error) {
	if tickets <= 0 {
		tickets = s.opts.defaultTickets
	}
	stack, err := allocStack(s.opts.stackSize)
	if err != nil {
		return nil, WrapError("greenthreads: create fiber", ErrStackAlloc)
	}
	f := &Fiber{
		ID:          s.nextID,
		Name:        name,
		State:       FiberNew,
		entry:       entry,
		arg:         arg,
		Tickets:     tickets,
		stride:      strideFor(tickets),
		pass:        s.minPass(),
		waitingFD:   noFD,
		heapIndex:   -1,
		stack:       stack,
		createdAtMS: s.opts.clock.NowMS(),
		ctx:         newFiberContext(),
	}
	s.nextID++
	s.registry.add(f)
	s.byID[f.ID] = f

	f.ctx.start(func() {
		defer s.finishCurrent(f)
		f.entry(f.arg)
	})

	f.State = FiberReady
	s.ready.push(f)
	s.Metrics.recordSpawn()
	logFiberCreated(s.opts.logger, s.opts.logRate, f)
	return f, nil
}

func (s *Scheduler) minPass() uint64 {
	if len(s.ready.items) == 0 {
		return 0
	}
	min := s.ready.items[0].pass
	for _, f := range s.ready.items[1:] {
		if f.pass < min {
			min = f.pass
		}
	}
	return min
}

// Lookup returns the fiber with the given id, or nil if none exists.
func (s *Scheduler) Lookup(id uint64) *Fiber {
	return s.byID[id]
}

// SelfID returns the currently running fiber's id. Only meaningful
// when called from within a fiber body.
func (s *Scheduler) SelfID() uint64 {
	if s.current == nil {
		return 0
	}
	return s.current.ID
}

// SetTickets changes a fiber's ticket count, recomputing its stride.
// If the fiber is currently sitting on the ready heap the heap is
// re-fixed so the new stride takes effect without disturbing heap
// ordering in the meantime.
func (s *Scheduler) SetTickets(id uint64, tickets int) error {
	if tickets <= 0 {
		return ErrInvalidTickets
	}
	f := s.byID[id]
	if f == nil {
		return ErrUnknownFiber
	}
	f.Tickets = tickets
	f.stride = strideFor(tickets)
	s.ready.fix(f)
	return nil
}

// Yield suspends the current fiber cooperatively, returning it to the
// ready heap. Control returns to the calling fiber once the scheduler
// selects it again. Pass is advanced uniformly by runFiber on every
// pick, not here, so it applies the same way whether a fiber yields,
// sleeps, blocks on I/O, or waits on a mutex/condvar/join.
func (s *Scheduler) Yield() {
	f := s.requireCurrent("Yield")
	f.State = FiberReady
	s.ready.push(f)
	s.switchOut(f)
}

// Sleep suspends the current fiber until at least ms milliseconds have
// elapsed. ms <= 0 is treated as an immediate Yield.
func (s *Scheduler) Sleep(ms int64) {
	if ms <= 0 {
		s.Yield()
		return
	}
	f := s.requireCurrent("Sleep")
	f.wakeAtMS = s.opts.clock.NowMS() + ms
	f.State = FiberBlocked
	s.sleep.add(f)
	s.Metrics.recordSleep()
	s.switchOut(f)
}

// Exit terminates the current fiber with the given return value,
// waking any fiber blocked in Join on it, and does not return to the
// caller (it unwinds via runtime.Goexit, running the deferred
// finishCurrent exactly as a normal return from the entry function
// would).
func (s *Scheduler) Exit(retval any) {
	f := s.requireCurrent("Exit")
	f.retval = retval
	runtime.Goexit()
}

// Join blocks the current fiber until the target fiber terminates, then
// returns its retval. Returns ErrUnknownFiber or ErrSelfJoin as
// appropriate; a target that has already terminated yields its retval
// immediately.
func (s *Scheduler) Join(id uint64) (any, error) {
	target := s.byID[id]
	if target == nil {
		return nil, ErrUnknownFiber
	}
	cur := s.requireCurrent("Join")
	if target == cur {
		return nil, ErrSelfJoin
	}
	if target.State == FiberTerminated {
		return target.retval, nil
	}
	cur.State = FiberBlocked
	cur.next = target.joinWaiters
	target.joinWaiters = cur
	s.switchOut(cur)
	return target.retval, nil
}

// waitIO suspends the current fiber until fd becomes ready for events.
func (s *Scheduler) waitIO(fd int, events pollEvents) error {
	f := s.requireCurrent("wait_io")
	f.State = FiberBlocked
	f.waitingFD = fd
	s.ioWait.add(fd, events, f)
	if err := s.poller.add(fd, events); err != nil {
		s.ioWait.removeFiber(f)
		f.waitingFD = noFD
		f.State = FiberRunning
		return err
	}
	s.Metrics.recordIOWait()
	s.switchOut(f)
	f.waitingFD = noFD
	return nil
}

// switchOut hands control back to the scheduler's driver loop and
// blocks f's goroutine until the scheduler switches back into it.
func (s *Scheduler) switchOut(f *Fiber) {
	switchTo(s.driverCtx, f.ctx)
}

// finishCurrent runs as the deferred cleanup of every fiber body,
// whether it returned normally or called Exit (which unwinds via
// runtime.Goexit, still running deferred calls).
func (s *Scheduler) finishCurrent(f *Fiber) {
	f.State = FiberTerminated
	s.Metrics.recordExit()
	logFiberExited(s.opts.logger, s.opts.logRate, f)

	w := f.joinWaiters
	f.joinWaiters = nil
	for w != nil {
		next := w.next
		w.next = nil
		w.State = FiberReady
		s.ready.push(w)
		w = next
	}

	wake(s.driverCtx)
}

func (s *Scheduler) requireCurrent(op string) *Fiber {
	if s.current == nil {
		panic("greenthreads: " + op + " called with no fiber running")
	}
	return s.current
}

// Shutdown requests that Run return nil as soon as, after a pick, no
// fiber is ready, sleeping, or waiting on I/O. Fibers still blocked on
// a mutex, condition variable, or join at that point stay blocked and
// are not reported as a deadlock. It does not forcibly kill fibers, and
// Create still accepts new fibers afterwards. Safe to call from any
// fiber, or from the driving goroutine before Run is called.
func (s *Scheduler) Shutdown() {
	if s.shutdown.CompareAndSwap(false, true) {
		logShutdown(s.opts.logger, s.liveCount())
	}
}

func (s *Scheduler) liveCount() int {
	n := 0
	s.registry.each(func(f *Fiber) {
		if f.IsAlive() {
			n++
		}
	})
	return n
}

// Run drives the scheduler step until no fiber remains
// runnable, sleeping, or waiting on I/O. Returns *DeadlockError if
// fibers remain blocked on a mutex, condition variable, or join with
// nothing left to wake them, and ErrSchedulerRunning if called
// re-entrantly.
func (s *Scheduler) Run() error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrSchedulerRunning
	}
	defer s.running.Store(false)

	s.poller = newPoller()
	if err := s.poller.init(); err != nil {
		return WrapError("greenthreads: poller init", err)
	}
	defer s.poller.close()
	defer s.reclaimZombie()

	s.runningSinceMS = s.opts.clock.NowMS()

	var eventBuf []readyEvent
	for {
		now := s.opts.clock.NowMS()
		s.sleep.drainExpired(now, func(f *Fiber) {
			f.State = FiberReady
			s.ready.push(f)
		})

		if !s.ioWait.empty() || (s.ready.Len() == 0 && !s.sleep.empty()) {
			timeout := s.pollTimeout(now)
			var err error
			eventBuf, err = s.poller.wait(timeout, eventBuf[:0])
			if err != nil {
				return WrapError("greenthreads: poll", err)
			}
			s.dispatchReady(eventBuf)
		}

		f := s.ready.pop()
		if f == nil {
			if !s.sleep.empty() || !s.ioWait.empty() {
				continue
			}
			if blocked := s.countBlockedNotWaiting(); blocked > 0 {
				s.Metrics.recordDeadlock()
				logDeadlock(s.opts.logger, blocked)
				return &DeadlockError{BlockedFibers: blocked}
			}
			return nil
		}

		s.runFiber(f, s.opts.clock.NowMS())

		if s.shutdown.Load() && s.ready.Len() == 0 && s.sleep.empty() && s.ioWait.empty() {
			return nil
		}
	}
}

// countBlockedNotWaiting counts live fibers that are neither ready,
// sleeping, nor in the I/O wait set — i.e. parked on a mutex, condition
// variable, or join queue with nothing left to schedule.
func (s *Scheduler) countBlockedNotWaiting() int {
	n := 0
	s.registry.each(func(f *Fiber) {
		if f.State == FiberBlocked && f.waitingFD == noFD && !f.sleeping {
			n++
		}
	})
	return n
}

// pollTimeout computes how long the next poll call may block: 0 if
// fibers are ready to run this tick (non-blocking peek), up to the
// earliest sleeper's wakeup otherwise, or the configured idle timeout
// (default: block indefinitely) when nothing is sleeping.
func (s *Scheduler) pollTimeout(now int64) int {
	if s.ready.Len() > 0 {
		return 0
	}
	if wake, ok := s.sleep.nextWake(); ok {
		remaining := wake - now
		if remaining < 0 {
			remaining = 0
		}
		return int(remaining)
	}
	return s.opts.idlePollMs
}

func (s *Scheduler) dispatchReady(events []readyEvent) {
	for _, ev := range events {
		for i := 0; i < len(s.ioWait.entries); {
			entry := s.ioWait.entries[i]
			if entry.fd == ev.fd && entry.events&ev.events != 0 {
				s.ioWait.removeAt(i)
				_ = s.poller.remove(ev.fd)
				entry.fiber.State = FiberReady
				s.ready.push(entry.fiber)
				continue
			}
			i++
		}
	}
}

// runFiber performs one context switch into f and accounts for the
// wall-clock time it spent running.
//
// Two bookkeeping steps happen here, uniformly for every pick,
// regardless of how f eventually suspends (yield, sleep, I/O wait, a
// mutex/condvar/join block, or termination): f's pass is advanced by
// its stride before it resumes, and the stack of whichever fiber
// terminated on the previous pick is released now that the scheduler
// has switched off it (the zombie reclaim is always one pick behind
// the termination it reclaims, never the same one, so a fiber's stack
// is never freed while that fiber's goroutine might still be
// unwinding off of it).
func (s *Scheduler) runFiber(f *Fiber, stepStartMS int64) {
	s.reclaimZombie()

	f.pass += f.stride

	f.State = FiberRunning
	prev := s.current
	s.current = f
	s.Metrics.recordPick()

	switchTo(f.ctx, s.driverCtx)

	s.current = prev
	s.Metrics.recordSwitch()
	elapsed := s.opts.clock.NowMS() - stepStartMS
	if elapsed > 0 {
		f.CPUTimeNS += elapsed * int64(1e6)
	}

	if f.State == FiberTerminated {
		f.zombie = true
		s.zombie = f
	}
}

// reclaimZombie frees the stack of the one fiber parked as a zombie
// since the previous pick, if any. A no-op once reclaimed: freeStack
// is idempotent and s.zombie is cleared on the way out, so neither
// Run's deferred final call nor the next runFiber call double-frees.
func (s *Scheduler) reclaimZombie() {
	z := s.zombie
	if z == nil {
		return
	}
	s.zombie = nil
	_ = freeStack(z.stack)
	z.stack = nil
}
