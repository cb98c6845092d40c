package frame

import (
	"sync"
	"time"
)

// DefaultFPS matches the refresh rate the overlay animates at.
const DefaultFPS = 30

// Ticker is a Manual requester stepped by a wall-clock ticker. Every step
// is handed to dispatch so callbacks run on the owner's UI goroutine
// (fyne.Do, a tea.Program, an event loop). RequestFrame must be called from
// that same goroutine.
type Ticker struct {
	*Manual

	interval time.Duration
	dispatch func(func())
	stopCh   chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewTicker starts stepping at fps. A nil dispatch steps on the ticker
// goroutine itself, which is only safe if nothing else touches the requester.
func NewTicker(fps int, dispatch func(func())) *Ticker {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if dispatch == nil {
		dispatch = func(f func()) { f() }
	}
	t := &Ticker{
		Manual:   NewManual(),
		interval: time.Second / time.Duration(fps),
		dispatch: dispatch,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *Ticker) Interval() time.Duration { return t.interval }

func (t *Ticker) run() {
	defer close(t.done)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
			t.dispatch(func() { t.Manual.Step() })
		}
	}
}

// Close stops the ticker goroutine and waits for it to exit. Pending
// requests are dropped. Safe to call more than once.
func (t *Ticker) Close() {
	t.once.Do(func() { close(t.stopCh) })
	<-t.done
}
