package greenthreads

import "testing"

func TestMetricsSnapshot(t *testing.T) {
	var m Metrics
	m.recordSwitch()
	m.recordSwitch()
	m.recordPick()
	m.recordSleep()
	m.recordIOWait()
	m.recordDeadlock()
	m.recordSpawn()
	m.recordSpawn()
	m.recordSpawn()
	m.recordExit()

	snap := m.Snapshot()
	want := MetricsSnapshot{
		ContextSwitches: 2,
		Picks:           1,
		Sleeps:          1,
		IOWaits:         1,
		Deadlocks:       1,
		Spawned:         3,
		Exited:          1,
	}
	if snap != want {
		t.Fatalf("Snapshot() = %+v, want %+v", snap, want)
	}
}

// TestSchedulerMetricsIntegration exercises Metrics as updated by a real
// scheduler run rather than by calling the record* methods directly.
func TestSchedulerMetricsIntegration(t *testing.T) {
	sched, err := New(WithClock(NewManualClock()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := sched.Create("a", func(arg any) {
		sched.Yield()
		sched.Sleep(0)
	}, nil, 0); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := sched.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	snap := sched.Metrics.Snapshot()
	if snap.Spawned != 1 {
		t.Fatalf("Spawned = %d, want 1", snap.Spawned)
	}
	if snap.Exited != 1 {
		t.Fatalf("Exited = %d, want 1", snap.Exited)
	}
	if snap.Picks == 0 {
		t.Fatal("Picks should be > 0 after running a fiber")
	}
	if snap.ContextSwitches == 0 {
		t.Fatal("ContextSwitches should be > 0 after running a fiber")
	}
}
