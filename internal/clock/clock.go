// Package clock abstracts timers so timed behavior can be tested
// deterministically.
package clock

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending callback. Stop reports whether it prevented the call.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Real schedules with [time.AfterFunc].
type Real struct{}

// AfterFunc calls [time.AfterFunc].
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Fake is a manually advanced [Clock].
//
// Callbacks run synchronously inside [Fake.Advance], in deadline order, with
// no lock held, so they may schedule further timers.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*fakeTimer
}

// NewFake returns a fake clock starting at a fixed UTC time.
func NewFake() *Fake {
	return &Fake{now: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)}
}

type fakeTimer struct {
	clock *Fake
	at    time.Time
	seq   uint64
	f     func()
	done  bool
}

// AfterFunc schedules f to run once d has elapsed on the fake clock.
func (c *Fake) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &fakeTimer{clock: c, at: c.now.Add(d), seq: c.seq, f: f}
	c.timers = append(c.timers, t)

	return t
}

// Stop cancels the timer.
func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.done {
		return false
	}

	t.done = true
	t.clock.removeLocked(t)

	return true
}

// Now returns the fake time.
func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Pending returns the number of timers that have not fired or been stopped.
func (c *Fake) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.timers)
}

// Advance moves the clock forward by d, firing every timer that comes due,
// including timers scheduled by callbacks during the advance.
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	end := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()

		next := c.nextDueLocked(end)
		if next == nil {
			c.now = end
			c.mu.Unlock()

			return
		}

		next.done = true
		c.removeLocked(next)

		if next.at.After(c.now) {
			c.now = next.at
		}

		c.mu.Unlock()

		next.f()
	}
}

func (c *Fake) nextDueLocked(end time.Time) *fakeTimer {
	if len(c.timers) == 0 {
		return nil
	}

	sort.Slice(c.timers, func(i, j int) bool {
		if c.timers[i].at.Equal(c.timers[j].at) {
			return c.timers[i].seq < c.timers[j].seq
		}

		return c.timers[i].at.Before(c.timers[j].at)
	})

	if c.timers[0].at.After(end) {
		return nil
	}

	return c.timers[0]
}

func (c *Fake) removeLocked(t *fakeTimer) {
	for i, other := range c.timers {
		if other == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)

			return
		}
	}
}
