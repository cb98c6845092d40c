// Package visibility debounces the backend's recording flag into the
// indicator's show/hide lifecycle.
package visibility

import "time"

// DefaultHideDelay is how long the indicator keeps animating after
// recording stops.
const DefaultHideDelay = 300 * time.Millisecond

type State int

const (
	Hidden State = iota
	Visible
	FadingOut
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Visible:
		return "visible"
	case FadingOut:
		return "fading_out"
	}
	return "unknown"
}

// Hooks are called on the controller's goroutine after the state changes.
type Hooks struct {
	OnShow   func()              // Hidden -> Visible
	OnHide   func()              // FadingOut -> Hidden, or Close
	OnChange func(from, to State) // every transition
}

// Controller maps the external recording flag to a debounced State. It is
// not safe for concurrent use; the clock must deliver callbacks on the same
// goroutine that calls SetRecording.
type Controller struct {
	state State
	hooks Hooks
	hide  *Deferred
}

func NewController(clock Clock, delay time.Duration, hooks Hooks) *Controller {
	if delay < 0 {
		delay = DefaultHideDelay
	}
	c := &Controller{hooks: hooks}
	c.hide = NewDeferred(clock, delay, c.elapse)
	return c
}

func (c *Controller) State() State { return c.state }

// HidePending reports whether a hide is armed.
func (c *Controller) HidePending() bool { return c.hide.Pending() }

// SetRecording feeds the backend's recording flag.
func (c *Controller) SetRecording(recording bool) {
	switch c.state {
	case Hidden:
		if recording {
			c.set(Visible)
			if c.hooks.OnShow != nil {
				c.hooks.OnShow()
			}
		}
	case Visible:
		if !recording {
			c.set(FadingOut)
			c.hide.Arm()
		}
	case FadingOut:
		if recording {
			c.hide.Cancel()
			c.set(Visible)
		}
	}
}

// Close is unmount: drop any pending hide and go straight to Hidden.
func (c *Controller) Close() {
	c.hide.Cancel()
	if c.state == Hidden {
		return
	}
	c.set(Hidden)
	if c.hooks.OnHide != nil {
		c.hooks.OnHide()
	}
}

func (c *Controller) elapse() {
	if c.state != FadingOut {
		return
	}
	c.set(Hidden)
	if c.hooks.OnHide != nil {
		c.hooks.OnHide()
	}
}

func (c *Controller) set(to State) {
	from := c.state
	c.state = to
	if c.hooks.OnChange != nil {
		c.hooks.OnChange(from, to)
	}
}
