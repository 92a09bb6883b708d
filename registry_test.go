package greenthreads

import "testing"

func TestFiberRegistryAddAndLen(t *testing.T) {
	var r fiberRegistry
	if r.len() != 0 {
		t.Fatalf("len() on empty registry = %d, want 0", r.len())
	}

	a := &Fiber{ID: 1}
	b := &Fiber{ID: 2}
	c := &Fiber{ID: 3}
	r.add(a)
	r.add(b)
	r.add(c)

	if r.len() != 3 {
		t.Fatalf("len() = %d, want 3", r.len())
	}
}

func TestFiberRegistryEachReverseOrder(t *testing.T) {
	var r fiberRegistry
	a := &Fiber{ID: 1}
	b := &Fiber{ID: 2}
	c := &Fiber{ID: 3}
	r.add(a)
	r.add(b)
	r.add(c)

	var order []uint64
	r.each(func(f *Fiber) { order = append(order, f.ID) })

	want := []uint64{3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("each visited %d fibers, want %d", len(order), len(want))
	}
	for i, id := range want {
		if order[i] != id {
			t.Fatalf("order[%d] = %d, want %d", i, order[i], id)
		}
	}
}

func TestFiberRegistryRetainsTerminatedFibers(t *testing.T) {
	var r fiberRegistry
	f := &Fiber{ID: 1, State: FiberReady}
	r.add(f)
	f.State = FiberTerminated

	found := false
	r.each(func(fb *Fiber) {
		if fb.ID == 1 {
			found = true
		}
	})
	if !found {
		t.Fatal("a terminated fiber should remain reachable via each")
	}
	if r.len() != 1 {
		t.Fatalf("len() after termination = %d, want 1 (retained)", r.len())
	}
}

func TestFiberRegistryEachEmpty(t *testing.T) {
	var r fiberRegistry
	calls := 0
	r.each(func(*Fiber) { calls++ })
	if calls != 0 {
		t.Fatalf("each on empty registry invoked fn %d times, want 0", calls)
	}
}
