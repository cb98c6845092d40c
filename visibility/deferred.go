package visibility

import "time"

// Deferred is a delayed action with at most one pending run. Re-arming
// replaces the pending run; a run that was cancelled after its timer had
// already fired is discarded when it arrives.
type Deferred struct {
	clock   Clock
	delay   time.Duration
	action  func()
	timer   Timer
	gen     uint64
	pending bool
}

func NewDeferred(clock Clock, delay time.Duration, action func()) *Deferred {
	return &Deferred{clock: clock, delay: delay, action: action}
}

// Arm schedules the action delay from now, cancelling any earlier arming.
func (d *Deferred) Arm() {
	d.Cancel()
	d.gen++
	gen := d.gen
	d.pending = true
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Cancel drops the pending run and reports whether there was one.
func (d *Deferred) Cancel() bool {
	if !d.pending {
		return false
	}
	d.pending = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return true
}

func (d *Deferred) Pending() bool { return d.pending }

func (d *Deferred) fire(gen uint64) {
	if !d.pending || gen != d.gen {
		return
	}
	d.pending = false
	d.timer = nil
	d.action()
}
