package greenthreads

// Cond is a condition variable scoped to a single Scheduler.
// Wait atomically unlocks the associated mutex and blocks the
// calling fiber; there is no gap where another fiber could signal
// between the unlock and the block becoming visible, because both
// happen on the same logical thread before the fiber ever yields
// control back to the scheduler.
type Cond struct {
	sched              *Scheduler
	waitHead, waitTail *Fiber
}

// NewCond creates a Cond bound to s.
func (s *Scheduler) NewCond() *Cond {
	return &Cond{sched: s}
}

// Wait unlocks m, blocks the calling fiber until Signal or Broadcast
// wakes it, then reacquires m before returning.
func (c *Cond) Wait(m *Mutex) {
	cur := c.sched.requireCurrent("Cond.Wait")
	m.Unlock()

	cur.State = FiberBlocked
	cur.next = nil
	if c.waitTail == nil {
		c.waitHead = cur
	} else {
		c.waitTail.next = cur
	}
	c.waitTail = cur

	c.sched.switchOut(cur)
	m.Lock()
}

// Signal wakes at most one waiting fiber, FIFO.
func (c *Cond) Signal() {
	f := c.waitHead
	if f == nil {
		return
	}
	c.waitHead = f.next
	if c.waitHead == nil {
		c.waitTail = nil
	}
	f.next = nil
	f.State = FiberReady
	c.sched.ready.push(f)
}

// Broadcast wakes every waiting fiber.
func (c *Cond) Broadcast() {
	f := c.waitHead
	c.waitHead = nil
	c.waitTail = nil
	for f != nil {
		next := f.next
		f.next = nil
		f.State = FiberReady
		c.sched.ready.push(f)
		f = next
	}
}
