package visibility

import (
	"sort"
	"time"
)

// Timer is the part of *time.Timer the controller needs.
type Timer interface {
	Stop() bool
}

// Clock schedules delayed callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// DispatchClock runs on wall time but hands every fired callback to
// dispatch, so it executes on the owner's goroutine instead of the timer's.
type DispatchClock struct {
	dispatch func(func())
}

func NewDispatchClock(dispatch func(func())) DispatchClock {
	return DispatchClock{dispatch: dispatch}
}

func (c DispatchClock) Now() time.Time { return time.Now() }

func (c DispatchClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, func() { c.dispatch(f) })
}

// ManualClock is simulated time. Callbacks fire synchronously inside Advance.
type ManualClock struct {
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Time
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time { return c.now }

func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.seq++
	t := &manualTimer{at: c.now.Add(d), seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward by d, firing due timers in deadline order.
// Timers created by a callback fire in the same call if they fall due.
func (c *ManualClock) Advance(d time.Duration) {
	end := c.now.Add(d)
	for {
		t := c.next(end)
		if t == nil {
			break
		}
		c.now = t.at
		t.fired = true
		t.f()
	}
	c.now = end
}

func (c *ManualClock) next(end time.Time) *manualTimer {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	c.timers = live
	sort.Slice(c.timers, func(i, j int) bool {
		if c.timers[i].at.Equal(c.timers[j].at) {
			return c.timers[i].seq < c.timers[j].seq
		}
		return c.timers[i].at.Before(c.timers[j].at)
	})
	if len(c.timers) == 0 || c.timers[0].at.After(end) {
		return nil
	}
	return c.timers[0]
}

// Pending counts timers that have neither fired nor been stopped.
func (c *ManualClock) Pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
