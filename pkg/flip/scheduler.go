// Package flip arms and disarms the auto page-flip timer. The scheduler is
// a two-state machine; the active flag in the settings store is cleared
// before anything else on every disarm path, so a restart can never resume
// flipping on its own.
package flip

import (
	"time"

	"go.uber.org/zap"

	"tableflip.dev/readershell/pkg/settings"
	"tableflip.dev/readershell/pkg/store"
)

// State of the scheduler.
type State int

const (
	Idle State = iota
	Armed
)

func (s State) String() string {
	if s == Armed {
		return "armed"
	}
	return "idle"
}

// Reason a disarm happened.
type Reason string

const (
	ReasonToggle     Reason = "toggle"
	ReasonNavigation Reason = "navigation"
	ReasonShutdown   Reason = "shutdown"
)

// WakeLock keeps the system awake while flipping. Provided by the host
// shell; NopWakeLock suits tests and headless runs.
type WakeLock interface {
	Acquire() error
	Release() error
}

// NopWakeLock is a WakeLock that does nothing.
type NopWakeLock struct{}

func (NopWakeLock) Acquire() error { return nil }
func (NopWakeLock) Release() error { return nil }

// Scheduler owns the repeating flip timer.
type Scheduler struct {
	store *store.Store
	wake  WakeLock
	log   *zap.Logger

	// onFlip routes a tick into the shell's serialized dispatch. It must
	// not block for long; delivery is fire-and-forget.
	onFlip func()

	state  State
	cancel chan struct{}
	held   bool

	now func() time.Time
	// sleepUntil waits for the wall clock to reach t or cancel to close,
	// returning false when cancelled. Swapped out in tests.
	sleepUntil func(t time.Time, cancel <-chan struct{}) bool
}

// New returns an idle scheduler. All transitions must happen on the shell
// loop; the scheduler itself is not safe for concurrent use.
func New(st *store.Store, wake WakeLock, onFlip func(), log *zap.Logger) *Scheduler {
	if wake == nil {
		wake = NopWakeLock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		store:      st,
		wake:       wake,
		onFlip:     onFlip,
		log:        log,
		now:        time.Now,
		sleepUntil: sleepUntil,
	}
}

// State reports the current state.
func (s *Scheduler) State() State {
	return s.state
}

// Arm starts flipping: marks autoFlip.active in the store, begins ticking
// at the configured interval, and takes the wake lock when keepAwake is
// set. Arming while already armed, or outside a reader context, is a no-op.
func (s *Scheduler) Arm(inReader bool) {
	if s.state == Armed || !inReader {
		return
	}

	snap, _ := s.store.Set(settings.Patch{
		AutoFlip: &settings.AutoFlipPatch{Active: settings.Bool(true)},
	})

	if snap.AutoFlip.KeepAwake {
		if err := s.wake.Acquire(); err != nil {
			s.log.Warn("flip: wake lock acquire", zap.Error(err))
		} else {
			s.held = true
		}
	}

	s.state = Armed
	s.cancel = make(chan struct{})
	interval := time.Duration(snap.AutoFlip.Interval) * time.Second
	go s.run(s.now(), interval, s.cancel)

	s.log.Info("flip: armed", zap.Duration("interval", interval))
}

// Disarm stops flipping. The active flag is cleared first, then the timer
// is cancelled and the wake lock released. Disarming an idle scheduler does
// nothing, so repeated leave-reader events are harmless.
func (s *Scheduler) Disarm(why Reason) {
	if s.state != Armed {
		return
	}

	s.store.Set(settings.Patch{
		AutoFlip: &settings.AutoFlipPatch{Active: settings.Bool(false)},
	})

	close(s.cancel)
	s.cancel = nil
	s.state = Idle

	if s.held {
		if err := s.wake.Release(); err != nil {
			s.log.Warn("flip: wake lock release", zap.Error(err))
		}
		s.held = false
	}

	s.log.Info("flip: disarmed", zap.String("reason", string(why)))
}

// Toggle arms when idle and disarms when armed.
func (s *Scheduler) Toggle(inReader bool) {
	if s.state == Armed {
		s.Disarm(ReasonToggle)
	} else {
		s.Arm(inReader)
	}
}

// run emits one tick per interval. Each tick is scheduled against the arm
// time, not the previous fire, so late deliveries do not accumulate drift.
func (s *Scheduler) run(start time.Time, interval time.Duration, cancel <-chan struct{}) {
	for n := 1; ; n++ {
		next := start.Add(time.Duration(n) * interval)
		if !next.After(s.now()) {
			// Slot already passed while we were stalled; skip it rather
			// than firing a burst. At most one tick per interval.
			continue
		}
		if !s.sleepUntil(next, cancel) {
			return
		}
		if s.onFlip != nil {
			s.onFlip()
		}
	}
}

func sleepUntil(t time.Time, cancel <-chan struct{}) bool {
	timer := time.NewTimer(time.Until(t))
	defer timer.Stop()
	select {
	case <-cancel:
		return false
	case <-timer.C:
		return true
	}
}
