// Package ratelimit gates outbound LLM calls behind two sliding windows:
// a short per-minute burst limit and a per-calendar-day cap. The two
// windows approximate the provider's own dual rate limits without access
// to the provider's counters.
package ratelimit

import (
	"sync"
	"time"
)

const minuteWindow = 60 * time.Second

// Limiter tracks recent call timestamps and decides whether another
// outbound call may be attempted. Safe for concurrent use; every
// prune+decide(+record) unit runs under one lock so two concurrent
// requests cannot both claim the last remaining slot.
type Limiter struct {
	mu          sync.Mutex
	maxPerMin   int
	maxPerDay   int
	minuteCalls []time.Time
	dayCalls    []time.Time

	// now is overridable in tests.
	now func() time.Time
}

// New creates a Limiter with the given ceilings.
func New(maxPerMinute, maxPerDay int) *Limiter {
	return &Limiter{
		maxPerMin: maxPerMinute,
		maxPerDay: maxPerDay,
		now:       time.Now,
	}
}

// Allow reports whether another call may be attempted right now.
// It prunes both windows but does not reserve a slot; callers that
// proceed must follow up with RecordCall per attempted call.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(l.now())
	return len(l.minuteCalls) < l.maxPerMin && len(l.dayCalls) < l.maxPerDay
}

// RecordCall registers one outbound call attempt in both windows.
// Call it once per actually-attempted provider call, not once per
// logical request: a request may spend several attempts on retries,
// and each one consumes provider quota.
func (l *Limiter) RecordCall() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)
	l.minuteCalls = append(l.minuteCalls, now)
	l.dayCalls = append(l.dayCalls, now)
}

// TimeUntilNextSlot returns how long until the minute window frees a
// slot, or zero if it is not saturated. Informational only.
func (l *Limiter) TimeUntilNextSlot() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if len(l.minuteCalls) < l.maxPerMin {
		return 0
	}
	wait := minuteWindow - now.Sub(l.minuteCalls[0])
	if wait < 0 {
		wait = 0
	}
	return wait
}

// RemainingToday returns how many calls are left under the daily cap.
func (l *Limiter) RemainingToday() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(l.now())
	remaining := l.maxPerDay - len(l.dayCalls)
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// prune drops minute records older than 60s and day records before the
// start of the current local day. The day boundary is computed fresh on
// every call so a check spanning midnight sees the new day immediately.
// Caller must hold l.mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-minuteWindow)
	l.minuteCalls = pruneBefore(l.minuteCalls, cutoff)

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	l.dayCalls = pruneBefore(l.dayCalls, startOfDay)
}

// pruneBefore removes leading timestamps strictly before cutoff.
// Records are appended in order, so only the prefix can be stale.
func pruneBefore(calls []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(calls) && calls[i].Before(cutoff) {
		i++
	}
	if i == 0 {
		return calls
	}
	return append(calls[:0], calls[i:]...)
}
