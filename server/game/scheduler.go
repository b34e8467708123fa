package game

import (
	"sync"
	"time"
)

type (
	// slotKind names one of the cancelable timer classes of a room.
	slotKind int

	// timerSlot identifies a single timer.  playerID is only set for
	// claim cooldown timers, which exist per player.
	timerSlot struct {
		kind     slotKind
		playerID string
	}

	// timerFire is delivered on the room's timer channel when a slot elapses.
	// The token must match the room's expectation or the fire is dropped.
	timerFire struct {
		slot  timerSlot
		token int64
	}

	// Scheduler owns the pending timers of one room.  Scheduling a slot
	// cancels any previous timer in the same slot, so at most one timer per
	// slot is ever in flight.
	Scheduler struct {
		mu        sync.Mutex
		nextToken int64
		stopped   bool
		timers    map[timerSlot]*time.Timer
	}
)

const (
	slotAutoFlip slotKind = iota + 1
	slotPendingFlipReveal
	slotClaimWindow
	slotClaimCooldown
	slotEndCountdown
)

// NewScheduler creates a Scheduler with no pending timers.
func NewScheduler() *Scheduler {
	s := Scheduler{
		timers: make(map[timerSlot]*time.Timer),
	}
	return &s
}

// Schedule starts a timer for the slot, replacing any pending timer in it,
// and returns the token the fire will carry.
func (s *Scheduler) Schedule(slot timerSlot, d time.Duration, c chan<- timerFire) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[slot]; ok {
		t.Stop()
	}
	s.nextToken++
	token := s.nextToken
	if s.stopped {
		return token
	}
	s.timers[slot] = time.AfterFunc(d, func() {
		f := timerFire{
			slot:  slot,
			token: token,
		}
		// the channel is buffered; a fire dropped under pressure is safe
		// because its token no longer matters once the room moves on
		select {
		case c <- f:
		default:
		}
	})
	return token
}

// Cancel stops the pending timer in the slot, if any.
func (s *Scheduler) Cancel(slot timerSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[slot]; ok {
		t.Stop()
		delete(s.timers, slot)
	}
}

// Stop cancels every pending timer and prevents new ones from starting.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for slot, t := range s.timers {
		t.Stop()
		delete(s.timers, slot)
	}
}
