// Package frame drives per-refresh work. A Requester stands in for the
// display's "call me on the next refresh" primitive; a Scheduler turns it
// into a start/stop loop.
package frame

// Requester schedules fn for the next display refresh. The returned cancel
// func may be called any number of times.
type Requester interface {
	RequestFrame(fn func()) (cancel func())
}

type request struct {
	fn   func()
	done bool
}

// Manual refreshes only when Step is called. It is not safe for concurrent
// use: requests and steps must come from one goroutine.
type Manual struct {
	pending []*request
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) RequestFrame(fn func()) func() {
	r := &request{fn: fn}
	m.pending = append(m.pending, r)
	return func() { r.done = true }
}

// Step runs every live callback requested before the call and reports how
// many ran. Callbacks requested while stepping wait for the next Step.
func (m *Manual) Step() int {
	batch := m.pending
	m.pending = nil
	ran := 0
	for _, r := range batch {
		if r.done {
			continue
		}
		r.done = true
		r.fn()
		ran++
	}
	return ran
}

// StepN calls Step n times and returns the total callbacks run.
func (m *Manual) StepN(n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += m.Step()
	}
	return total
}

// Pending counts requests that would run on the next Step.
func (m *Manual) Pending() int {
	n := 0
	for _, r := range m.pending {
		if !r.done {
			n++
		}
	}
	return n
}
