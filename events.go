package main

import (
	"sync"
	"time"
)

// EventSink abstracts the display layer so the terminal, headless and GUI
// hosts receive the same recording events. Implementations may be called
// from any goroutine and must hand the event to their UI goroutine.
type EventSink interface {
	RecordingStart()
	RecordingStop()
	RecordingTick(elapsed time.Duration)
	AudioLevel(level float64)
}

const recordingTickInterval = 100 * time.Millisecond

// recorder stands in for the dictation backend: it owns the recording flag
// and reports start, stop and elapsed time to a sink.
type recorder struct {
	sink     EventSink
	interval time.Duration

	mu     sync.Mutex
	active bool
	stop   chan struct{}
	done   chan struct{}
}

func newRecorder(sink EventSink, interval time.Duration) *recorder {
	if interval <= 0 {
		interval = recordingTickInterval
	}
	return &recorder{sink: sink, interval: interval}
}

// Start begins a recording. It reports false if one is already active.
func (r *recorder) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active {
		return false
	}
	r.active = true
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	r.sink.RecordingStart()
	go r.tick(time.Now(), r.stop, r.done)
	return true
}

// Stop ends the active recording and waits for its ticker before reporting
// the stop, so no tick follows it.
func (r *recorder) Stop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return false
	}
	r.active = false
	close(r.stop)
	<-r.done
	r.sink.RecordingStop()
	return true
}

func (r *recorder) Toggle() {
	r.mu.Lock()
	active := r.active
	r.mu.Unlock()
	if active {
		r.Stop()
	} else {
		r.Start()
	}
}

func (r *recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *recorder) Close() { r.Stop() }

func (r *recorder) tick(start time.Time, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			r.sink.RecordingTick(time.Since(start))
		}
	}
}
