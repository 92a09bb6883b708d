package greenthreads

import "testing"

// TestZombieStackReclaimed verifies that a terminated fiber's stack
// region is actually released (not merely tagged) once the scheduler
// has picked a successor, rather than leaking for the scheduler's
// lifetime.
func TestZombieStackReclaimed(t *testing.T) {
	sched, err := New(WithClock(NewManualClock()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var terminated *Fiber
	f, err := sched.Create("short-lived", func(arg any) {}, nil, 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	terminated = f

	// A second fiber guarantees there is a successor pick after the
	// first one terminates, so the zombie gets reclaimed within Run.
	if _, err := sched.Create("other", func(arg any) {
		sched.Yield()
	}, nil, 0); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := sched.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !terminated.zombie {
		t.Fatal("terminated fiber was never tagged as a zombie")
	}
	if terminated.stack != nil {
		t.Fatal("terminated fiber's stack region was not reclaimed")
	}
}

// TestZombieStackReclaimedOnLastFiber verifies the stack of the very
// last fiber to terminate in a run is still reclaimed, even though no
// further pick occurs to trigger runFiber's reclaim path — Run itself
// must reclaim on the way out.
func TestZombieStackReclaimedOnLastFiber(t *testing.T) {
	sched, err := New(WithClock(NewManualClock()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	f, err := sched.Create("only", func(arg any) {}, nil, 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := sched.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if f.stack != nil {
		t.Fatal("the last fiber's stack was not reclaimed when Run returned")
	}
}

// TestZombieReclaimedBeforeSuccessorRuns verifies the reclaim happens
// by the time the next-picked fiber actually runs, not merely by the
// time Run eventually returns: the zombie's stack is freed at the
// start of the very next runFiber call, strictly before that call
// switches into its fiber's body.
func TestZombieReclaimedBeforeSuccessorRuns(t *testing.T) {
	sched, err := New(WithClock(NewManualClock()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var stackAlreadyFreedWhenSuccessorRan bool
	first, err := sched.Create("first", func(arg any) {}, nil, 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := sched.Create("second", func(arg any) {
		stackAlreadyFreedWhenSuccessorRan = first.stack == nil
	}, nil, 0); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := sched.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !stackAlreadyFreedWhenSuccessorRan {
		t.Fatal("first fiber's stack was still allocated when the successor fiber ran; want it reclaimed before the next switch-out")
	}
}

// TestPassAdvancesAcrossSleep verifies pass advances on every pick even
// when a fiber suspends via Sleep rather than a bare Yield.
func TestPassAdvancesAcrossSleep(t *testing.T) {
	// Sleep needs real wall-clock progress for drainExpired to observe
	// the wakeup deadline elapsing, so this uses the default
	// SystemClock (as TestSleepScheduling does) rather than a
	// ManualClock, with a short real delay to keep the test fast.
	sched, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var passes []uint64
	f, err := sched.Create("sleeper", func(arg any) {
		for i := 0; i < 3; i++ {
			passes = append(passes, sched.current.pass)
			sched.Sleep(10)
		}
	}, nil, 20)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := sched.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(passes) != 3 {
		t.Fatalf("len(passes) = %d, want 3", len(passes))
	}
	stride := strideFor(f.Tickets)
	for i := 1; i < len(passes); i++ {
		if passes[i]-passes[i-1] != stride {
			t.Fatalf("pass delta across sleep at step %d = %d, want stride %d", i, passes[i]-passes[i-1], stride)
		}
	}
}

// TestPassAdvancesAcrossMutexBlock verifies pass advances on the pick
// that resumes a fiber after it was blocked in Mutex.Lock, not just on
// picks that follow a bare Yield.
func TestPassAdvancesAcrossMutexBlock(t *testing.T) {
	sched, err := New(WithClock(NewManualClock()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m := sched.NewMutex()

	var passBeforeLockCall uint64

	if _, err := sched.Create("holder", func(arg any) {
		m.Lock()
		// Hold the lock across a couple of rounds so the waiter's
		// Lock() call below genuinely blocks instead of succeeding
		// uncontended.
		sched.Yield()
		sched.Yield()
		m.Unlock()
	}, nil, 30); err != nil {
		t.Fatalf("Create: %v", err)
	}

	waiter, err := sched.Create("waiter", func(arg any) {
		sched.Yield() // let the holder take the lock first
		passBeforeLockCall = sched.current.pass
		m.Lock() // blocks: the holder still owns the mutex here
		if m.owner != sched.current {
			t.Errorf("waiter did not hold the mutex after Lock returned")
		}
	}, nil, 30)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := sched.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	stride := strideFor(waiter.Tickets)
	if waiter.pass != passBeforeLockCall+stride {
		t.Fatalf("waiter's pass after being woken from a blocking Mutex.Lock = %d, want exactly %d (passBeforeLockCall + stride)", waiter.pass, passBeforeLockCall+stride)
	}
}
