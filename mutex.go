package greenthreads

// Mutex is a cooperative mutual-exclusion lock scoped to a single
// Scheduler. Lock ownership transfers directly from an
// unlocking fiber to the next FIFO waiter — the woken fiber is already
// the owner by the time the scheduler runs it again, so Unlock never
// races a waiter's Lock.
type Mutex struct {
	sched              *Scheduler
	locked             bool
	owner              *Fiber
	waitHead, waitTail *Fiber
}

// NewMutex creates a Mutex bound to s.
func (s *Scheduler) NewMutex() *Mutex {
	return &Mutex{sched: s}
}

// Lock acquires the mutex, blocking the calling fiber if it is already
// held.
func (m *Mutex) Lock() {
	cur := m.sched.requireCurrent("Mutex.Lock")
	if !m.locked {
		m.locked = true
		m.owner = cur
		return
	}
	cur.State = FiberBlocked
	cur.next = nil
	if m.waitTail == nil {
		m.waitHead = cur
	} else {
		m.waitTail.next = cur
	}
	m.waitTail = cur
	m.sched.switchOut(cur)
}

// Unlock releases the mutex. If fibers are waiting, ownership passes
// directly to the longest-waiting one, which is marked ready; if none
// are waiting, the mutex becomes free.
func (m *Mutex) Unlock() {
	cur := m.sched.requireCurrent("Mutex.Unlock")
	if m.owner != cur {
		panic("greenthreads: Unlock called by a fiber that does not hold the mutex")
	}
	next := m.waitHead
	if next == nil {
		m.locked = false
		m.owner = nil
		return
	}
	m.waitHead = next.next
	if m.waitHead == nil {
		m.waitTail = nil
	}
	next.next = nil
	m.owner = next
	next.State = FiberReady
	m.sched.ready.push(next)
}

// TryLock acquires the mutex only if it is currently free, without
// blocking.
func (m *Mutex) TryLock() bool {
	cur := m.sched.requireCurrent("Mutex.TryLock")
	if m.locked {
		return false
	}
	m.locked = true
	m.owner = cur
	return true
}
