// Package scheduler provides the delayed-task abstraction driving timed
// phase transitions. The core stays timer-free: a task fires at most once
// and calls back into an engine operation, which treats a stale firing as a
// no-op because the session has already left the expected phase.
package scheduler

import (
	"sync"
	"time"
)

type Scheduler struct {
	mu     sync.Mutex
	timers map[int64]*time.Timer
}

func New() *Scheduler {
	return &Scheduler{
		timers: make(map[int64]*time.Timer),
	}
}

// Schedule runs fn after d, replacing any pending task for the chat. One
// phase has at most one scheduled transition, so replacement on a new phase
// doubles as cancellation of the old one.
func (s *Scheduler) Schedule(chatID int64, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[chatID]; ok {
		t.Stop()
	}
	s.timers[chatID] = time.AfterFunc(d, func() {
		s.forget(chatID)
		fn()
	})
}

// Cancel stops any pending task for the chat. A task already running is not
// interrupted; the engine's phase check makes that harmless.
func (s *Scheduler) Cancel(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[chatID]; ok {
		t.Stop()
		delete(s.timers, chatID)
	}
}

// Stop cancels every pending task, for shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for chatID, t := range s.timers {
		t.Stop()
		delete(s.timers, chatID)
	}
}

func (s *Scheduler) forget(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, chatID)
}
