package flip

import (
	"testing"
	"time"

	"tableflip.dev/readershell/pkg/settings"
	"tableflip.dev/readershell/pkg/store"
)

type fakeWake struct {
	acquired int
	released int
}

func (w *fakeWake) Acquire() error { w.acquired++; return nil }
func (w *fakeWake) Release() error { w.released++; return nil }

func newScheduler(t *testing.T) (*Scheduler, *store.Store, *fakeWake, chan struct{}) {
	t.Helper()
	st, err := store.Open(store.PathConfig(t.TempDir()), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	wake := &fakeWake{}
	ticks := make(chan struct{}, 16)
	s := New(st, wake, func() { ticks <- struct{}{} }, nil)
	return s, st, wake, ticks
}

func TestArmSetsActiveAndTakesWakeLock(t *testing.T) {
	s, st, wake, _ := newScheduler(t)
	defer s.Disarm(ReasonShutdown)

	s.Arm(true)

	if s.State() != Armed {
		t.Fatalf("expected armed, got %v", s.State())
	}
	if !st.Get().AutoFlip.Active {
		t.Fatal("arming should set autoFlip.active")
	}
	if wake.acquired != 1 {
		t.Fatalf("expected one wake lock acquire, got %d", wake.acquired)
	}
}

func TestArmOutsideReaderContextIsRefused(t *testing.T) {
	s, st, _, _ := newScheduler(t)

	s.Arm(false)

	if s.State() != Idle {
		t.Fatal("arming outside a reader context should be refused")
	}
	if st.Get().AutoFlip.Active {
		t.Fatal("active flag should stay false")
	}
}

func TestArmWithoutKeepAwakeSkipsWakeLock(t *testing.T) {
	s, st, wake, _ := newScheduler(t)
	defer s.Disarm(ReasonShutdown)

	st.Set(settings.Patch{AutoFlip: &settings.AutoFlipPatch{KeepAwake: settings.Bool(false)}})
	s.Arm(true)

	if wake.acquired != 0 {
		t.Fatal("keepAwake=false should not take the wake lock")
	}
}

func TestToggleOnThenOffLeavesNoPendingTicks(t *testing.T) {
	s, st, wake, ticks := newScheduler(t)

	steps := make(chan bool)
	s.sleepUntil = func(_ time.Time, cancel <-chan struct{}) bool {
		select {
		case ok := <-steps:
			return ok
		case <-cancel:
			return false
		}
	}

	s.Toggle(true)
	steps <- true
	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("expected a flip tick while armed")
	}

	s.Toggle(true)

	if s.State() != Idle {
		t.Fatal("second toggle should disarm")
	}
	if st.Get().AutoFlip.Active {
		t.Fatal("active flag should return to false")
	}
	if wake.released != 1 {
		t.Fatalf("wake lock should be released, got %d releases", wake.released)
	}

	// Time advancing after disarm must produce zero ticks.
	select {
	case <-ticks:
		t.Fatal("no ticks may fire after disarm")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDisarmIsIdempotent(t *testing.T) {
	s, st, _, _ := newScheduler(t)

	events := 0
	cancel := subscribeCount(st, &events)
	defer cancel()

	s.Arm(true)
	s.Disarm(ReasonNavigation)
	s.Disarm(ReasonNavigation)
	s.Disarm(ReasonShutdown)

	if s.State() != Idle {
		t.Fatal("scheduler should be idle")
	}
	// Arm commits one change, the first disarm another; the repeats none.
	if events != 2 {
		t.Fatalf("expected 2 store events, got %d", events)
	}
}

func subscribeCount(st *store.Store, n *int) func() {
	return st.Subscribe(func(settings.Settings) { *n++ })
}

func TestShutdownDisarmPersistsInactive(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(store.PathConfig(dir), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	s := New(st, nil, nil, nil)

	s.Arm(true)
	s.Disarm(ReasonShutdown)

	reopened, err := store.Open(store.PathConfig(dir), nil)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	if reopened.Get().AutoFlip.Active {
		t.Fatal("persisted record must carry autoFlip.active=false after shutdown")
	}
}

func TestTickScheduleSkipsMissedSlots(t *testing.T) {
	s, _, _, _ := newScheduler(t)

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	interval := 15 * time.Second

	// The loop stalled for ten intervals; the next wakeup must be a single
	// future slot, not a burst of catch-up ticks.
	s.now = func() time.Time { return start.Add(10 * interval) }

	var targets []time.Time
	s.sleepUntil = func(at time.Time, _ <-chan struct{}) bool {
		targets = append(targets, at)
		return false // one observation is enough
	}

	s.run(start, interval, make(chan struct{}))

	if len(targets) != 1 {
		t.Fatalf("expected a single sleep target, got %d", len(targets))
	}
	if want := start.Add(11 * interval); !targets[0].Equal(want) {
		t.Fatalf("next slot should be %v, got %v", want, targets[0])
	}
}

func TestStateString(t *testing.T) {
	if Idle.String() != "idle" || Armed.String() != "armed" {
		t.Fatal("unexpected state names")
	}
}
