package clock

import (
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock tells time and schedules callbacks
type Clock = clockwork.Clock

// Timer is a pending callback created by Clock.AfterFunc
type Timer = clockwork.Timer

// Real returns the wall clock
func Real() Clock {
	return clockwork.NewRealClock()
}

// Fake is a virtual clock for tests. Time only moves when Advance is called.
//
// clockwork fires AfterFunc callbacks on their own goroutines, so Advance walks
// from one deadline to the next and waits for the callbacks due there before
// moving on. Timers scheduled by a callback fire in the same Advance when they
// fall due before its end.
type Fake struct {
	*clockwork.FakeClock

	mu    sync.Mutex
	seq   int
	armed []*fakeTimer
}

type fakeTimer struct {
	clockwork.Timer
	f    *Fake
	when time.Time
	seq  int
	done chan struct{}
}

var _ Clock = (*Fake)(nil)

func NewFake(start time.Time) *Fake {
	return &Fake{FakeClock: clockwork.NewFakeClockAt(start)}
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	f.seq++
	t := &fakeTimer{f: f, when: f.FakeClock.Now().Add(d), seq: f.seq, done: make(chan struct{})}
	f.armed = append(f.armed, t)
	f.mu.Unlock()

	t.Timer = f.FakeClock.AfterFunc(d, func() {
		defer close(t.done)
		fn()
	})
	return t
}

// Advance moves time forward by d, firing every timer that falls due on the way
// in deadline order.
func (f *Fake) Advance(d time.Duration) {
	target := f.FakeClock.Now().Add(d)
	for {
		due := f.popDue(target)
		if len(due) == 0 {
			if rest := target.Sub(f.FakeClock.Now()); rest > 0 {
				f.FakeClock.Advance(rest)
			}
			return
		}
		f.FakeClock.Advance(due[0].when.Sub(f.FakeClock.Now()))
		for _, t := range due {
			<-t.done
		}
	}
}

// Pending counts timers that have not fired or been stopped
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.armed)
}

// popDue removes and returns the timers sharing the earliest deadline, if that
// deadline is not after target
func (f *Fake) popDue(target time.Time) []*fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.armed) == 0 {
		return nil
	}
	sort.SliceStable(f.armed, func(i, j int) bool {
		if f.armed[i].when.Equal(f.armed[j].when) {
			return f.armed[i].seq < f.armed[j].seq
		}
		return f.armed[i].when.Before(f.armed[j].when)
	})
	when := f.armed[0].when
	if when.After(target) {
		return nil
	}
	n := 1
	for n < len(f.armed) && f.armed[n].when.Equal(when) {
		n++
	}
	due := append([]*fakeTimer(nil), f.armed[:n]...)
	f.armed = f.armed[n:]
	return due
}

func (t *fakeTimer) Stop() bool {
	t.f.mu.Lock()
	for i, other := range t.f.armed {
		if other == t {
			t.f.armed = append(t.f.armed[:i], t.f.armed[i+1:]...)
			break
		}
	}
	t.f.mu.Unlock()
	return t.Timer.Stop()
}
