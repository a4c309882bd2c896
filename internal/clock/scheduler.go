package clock

import (
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler runs delayed and periodic callbacks while holding a shared lock.
// Every callback is checked against its token under that lock, so a callback
// cancelled by a holder of the lock never runs afterwards.
type Scheduler struct {
	clock Clock
	lock  sync.Locker

	mu     sync.Mutex
	tokens map[*Token]struct{}
}

// Token identifies a scheduled callback
type Token struct {
	s         *Scheduler
	cancelled atomic.Bool

	mu    sync.Mutex
	timer Timer
}

func NewScheduler(c Clock, lock sync.Locker) *Scheduler {
	return &Scheduler{
		clock:  c,
		lock:   lock,
		tokens: make(map[*Token]struct{}),
	}
}

// Now reports the scheduler's current time
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// After runs fn once after d
func (s *Scheduler) After(d time.Duration, fn func()) *Token {
	t := s.track()
	t.setTimer(s.clock.AfterFunc(d, func() {
		s.lock.Lock()
		defer s.lock.Unlock()
		if t.cancelled.Load() {
			return
		}
		s.forget(t)
		fn()
	}))
	return t
}

// Every runs fn every d until the token is cancelled
func (s *Scheduler) Every(d time.Duration, fn func()) *Token {
	t := s.track()
	var run func()
	run = func() {
		s.lock.Lock()
		defer s.lock.Unlock()
		if t.cancelled.Load() {
			return
		}
		fn()
		if !t.cancelled.Load() {
			t.setTimer(s.clock.AfterFunc(d, run))
		}
	}
	t.setTimer(s.clock.AfterFunc(d, run))
	return t
}

// CancelAll cancels every pending callback
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	tokens := make([]*Token, 0, len(s.tokens))
	for t := range s.tokens {
		tokens = append(tokens, t)
	}
	s.mu.Unlock()

	for _, t := range tokens {
		t.Cancel()
	}
}

// Pending counts callbacks that are scheduled and not cancelled
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

func (s *Scheduler) track() *Token {
	t := &Token{s: s}
	s.mu.Lock()
	s.tokens[t] = struct{}{}
	s.mu.Unlock()
	return t
}

func (s *Scheduler) forget(t *Token) {
	s.mu.Lock()
	delete(s.tokens, t)
	s.mu.Unlock()
}

func (t *Token) setTimer(timer Timer) {
	t.mu.Lock()
	t.timer = timer
	t.mu.Unlock()
}

// Cancel stops the callback. It is safe to call more than once and on a nil token.
func (t *Token) Cancel() {
	if t == nil || t.cancelled.Swap(true) {
		return
	}
	t.mu.Lock()
	timer := t.timer
	t.mu.Unlock()
	if timer != nil {
		timer.Stop()
	}
	t.s.forget(t)
}

// Cancelled reports whether Cancel was called
func (t *Token) Cancelled() bool {
	return t != nil && t.cancelled.Load()
}
