package greenthreads

// FiberState is a fiber's position in its lifecycle.
type FiberState int32

const (
	// FiberNew is the transient state between allocation and the first
	// enqueue onto the ready heap.
	FiberNew FiberState = iota
	// FiberReady means the fiber sits on the ready heap awaiting selection.
	FiberReady
	// FiberRunning means the fiber is the one currently executing.
	FiberRunning
	// FiberBlocked means the fiber sits on exactly one wait set (sleep
	// list, I/O wait set, or a mutex/condvar/join queue).
	FiberBlocked
	// FiberTerminated means the fiber has returned from its entry
	// function, called Exit, or been torn down by the scheduler.
	FiberTerminated
)

func (s FiberState) String() string {
	switch s {
	case FiberNew:
		return "NEW"
	case FiberReady:
		return "READY"
	case FiberRunning:
		return "RUNNING"
	case FiberBlocked:
		return "BLOCKED"
	case FiberTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// noFD is the sentinel for "not waiting on a file descriptor".
const noFD = -1

// stride's fixed numerator, C in stride = C / tickets.
const strideConstant = 10_000

// EntryFunc is a fiber's body. arg is the single opaque argument passed
// to [Scheduler.Create].
type EntryFunc func(arg any)

// Fiber is a thread-control-block: exactly one stack region, a saved
// context, scheduling accounting, and the intrusive links used to
// place it on at most one wait set at a time.
//
// All fields are touched only by the fiber's own goroutine, the
// scheduler step that is switching it in or out, or an observer fiber
// walking the global enumeration list between suspension points —
// never concurrently, by the cooperative discipline the scheduler
// enforces. No field needs a lock.
type Fiber struct {
	ID    uint64
	Name  string
	State FiberState

	entry EntryFunc
	arg   any

	// Stride-scheduling fields.
	Tickets int
	stride  uint64
	pass    uint64

	// Sleep list linkage.
	wakeAtMS int64
	sleeping bool

	// I/O wait set linkage.
	waitingFD int

	// next intrusively chains this fiber into at most one wait set:
	// the sleep list, an I/O wait entry's fiber slot carries no next
	// (the I/O wait set is array-based), a mutex wait queue, a condvar
	// wait queue, or — when this fiber is itself waiting on someone
	// else's termination — the target's join queue.
	next *Fiber

	// joinWaiters is the head of the list of fibers blocked in Join on
	// this fiber's termination. Each waiter is linked
	// via its own next field while parked here.
	joinWaiters *Fiber

	retval any

	// globalNext links every fiber ever created, for enumeration by
	// observers. Never unlinked, even after termination.
	globalNext *Fiber

	stack *stackRegion

	// heapIndex is this fiber's current slot in the ready heap's backing
	// slice, maintained by readyHeap.Swap so SetTickets can call
	// container/heap.Fix after a stride change without a linear scan.
	// Meaningless while the fiber is not on the ready heap.
	heapIndex int

	// CPUTimeNS accumulates wall-clock time this fiber has spent as the
	// Running fiber, timed across context switches.
	CPUTimeNS int64

	createdAtMS int64

	ctx *fiberContext

	zombie bool
}

// IsAlive reports whether the fiber has not yet terminated.
func (f *Fiber) IsAlive() bool {
	return f.State != FiberTerminated
}

// StackUsage estimates bytes of the fiber's stack currently in use.
// sp is the fiber's last-known stack pointer (for the Running fiber,
// pass the address of a local variable
// captured by the caller). Returns (usage, true) when sp falls within
// the fiber's allocated region, (0, false) otherwise (e.g. the main
// fiber, which has no stack region of its own).
func (f *Fiber) StackUsage(sp uintptr) (usage uintptr, ok bool) {
	if f.stack == nil {
		return 0, false
	}
	if sp < f.stack.base || sp > f.stack.top {
		return 0, false
	}
	return f.stack.top - sp, true
}
