package greenthreads

import "testing"

// TestStrideWeighting exercises ticket-proportional fairness: two CPU-bound
// fibers with tickets {100, 50}; after 300 total picks, counts land
// within {200±10, 100±5}.
func TestStrideWeighting(t *testing.T) {
	sched, err := New(WithClock(NewManualClock()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	const totalPicks = 300
	picks := make(map[uint64]int)
	count := 0

	spin := func(arg any) {
		id := sched.SelfID()
		for count < totalPicks {
			picks[id]++
			count++
			sched.Yield()
		}
	}

	a, err := sched.Create("A", spin, nil, 100)
	if err != nil {
		t.Fatalf("Create A: %v", err)
	}
	b, err := sched.Create("B", spin, nil, 50)
	if err != nil {
		t.Fatalf("Create B: %v", err)
	}

	if err := sched.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if count != totalPicks {
		t.Fatalf("total picks = %d, want %d", count, totalPicks)
	}

	gotA, gotB := picks[a.ID], picks[b.ID]
	if gotA < 190 || gotA > 210 {
		t.Errorf("picks[A] = %d, want 200±10", gotA)
	}
	if gotB < 95 || gotB > 105 {
		t.Errorf("picks[B] = %d, want 100±5", gotB)
	}
}

// TestPassMonotonicity verifies a fiber's pass increases by exactly its
// stride on every scheduler pick ("pass monotonicity").
func TestPassMonotonicity(t *testing.T) {
	sched, err := New(WithClock(NewManualClock()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var passes []uint64
	const rounds = 6

	f, err := sched.Create("solo", func(arg any) {
		for i := 0; i < rounds; i++ {
			passes = append(passes, sched.current.pass)
			sched.Yield()
		}
	}, nil, 37)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := sched.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(passes) != rounds {
		t.Fatalf("len(passes) = %d, want %d", len(passes), rounds)
	}
	stride := strideFor(f.Tickets)
	for i := 1; i < len(passes); i++ {
		if passes[i]-passes[i-1] != stride {
			t.Fatalf("pass delta at step %d = %d, want stride %d", i, passes[i]-passes[i-1], stride)
		}
	}
}

// TestSetTicketsRecomputesStrideWithoutResettingPass verifies
// SetTickets recomputes stride immediately but leaves pass untouched
// by design.
func TestSetTicketsRecomputesStrideWithoutResettingPass(t *testing.T) {
	sched, err := New(WithClock(NewManualClock()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	f, err := sched.Create("f", func(arg any) {
		sched.Yield()
	}, nil, 100)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	passBefore := f.pass
	if err := sched.SetTickets(f.ID, 10); err != nil {
		t.Fatalf("SetTickets: %v", err)
	}
	if f.pass != passBefore {
		t.Fatalf("SetTickets changed pass from %d to %d", passBefore, f.pass)
	}
	if f.stride != strideFor(10) {
		t.Fatalf("stride = %d, want %d", f.stride, strideFor(10))
	}

	if err := sched.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
