package hotkey

import (
	"sync"
	"sync/atomic"
	"time"
)

type Mode string

const (
	ModePTT    Mode = "ptt"
	ModeToggle Mode = "toggle"
)

// StartEvent asks the host to begin recording. Mode is the initial guess;
// a press shorter than the long-press threshold turns into a toggle.
type StartEvent struct {
	Mode Mode
}

// Hybrid turns one key into both push-to-talk and tap-to-toggle: a press
// starts recording at once; releasing after the threshold stops it, while
// releasing before it latches recording until the next press is released.
type Hybrid struct {
	startCh chan StartEvent
	stopCh  chan struct{}
	toggle  atomic.Bool
	quit    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewHybrid(hk Hotkey, longPress time.Duration) *Hybrid {
	h := &Hybrid{
		startCh: make(chan StartEvent, 1),
		stopCh:  make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go h.run(hk, longPress)
	return h
}

func (h *Hybrid) Start() <-chan StartEvent { return h.startCh }

// StopChan is signaled when recording should end, in either mode.
func (h *Hybrid) StopChan() <-chan struct{} { return h.stopCh }

// IsToggle reports whether the current recording was latched by a tap.
func (h *Hybrid) IsToggle() bool { return h.toggle.Load() }

// Close stops the state machine and waits for it. It does not unregister
// the underlying hotkey.
func (h *Hybrid) Close() {
	h.once.Do(func() { close(h.quit) })
	<-h.done
}

func (h *Hybrid) run(hk Hotkey, longPress time.Duration) {
	defer close(h.done)
	for {
		// idle: any press starts immediately
		if !h.wait(hk.Keydown()) {
			return
		}
		h.toggle.Store(false)
		select {
		case h.startCh <- StartEvent{Mode: ModePTT}:
		case <-h.quit:
			return
		}

		timer := time.NewTimer(longPress)
		select {
		case <-timer.C:
			// held: stop on release
			if !h.wait(hk.Keyup()) {
				return
			}
		case <-hk.Keyup():
			timer.Stop()
			h.toggle.Store(true)
			// latched: the next press stops on its release
			if !h.wait(hk.Keydown()) || !h.wait(hk.Keyup()) {
				return
			}
		case <-h.quit:
			timer.Stop()
			return
		}
		select {
		case h.stopCh <- struct{}{}:
		default:
		}
	}
}

func (h *Hybrid) wait(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-h.quit:
		return false
	}
}
