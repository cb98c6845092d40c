package main

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recordedSink struct {
	mu     sync.Mutex
	events []string
	ticks  []time.Duration
}

func (s *recordedSink) add(e string) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

func (s *recordedSink) RecordingStart() { s.add("start") }
func (s *recordedSink) RecordingStop()  { s.add("stop") }
func (s *recordedSink) AudioLevel(float64) {}
func (s *recordedSink) RecordingTick(d time.Duration) {
	s.mu.Lock()
	s.events = append(s.events, "tick")
	s.ticks = append(s.ticks, d)
	s.mu.Unlock()
}

func (s *recordedSink) snapshot() ([]string, []time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...), append([]time.Duration(nil), s.ticks...)
}

func TestRecorderTicksBetweenStartAndStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &recordedSink{}
	rec := newRecorder(sink, 5*time.Millisecond)
	require.True(t, rec.Start())
	assert.False(t, rec.Start(), "already recording")
	assert.True(t, rec.Active())

	require.Eventually(t, func() bool {
		_, ticks := sink.snapshot()
		return len(ticks) >= 2
	}, time.Second, time.Millisecond)

	require.True(t, rec.Stop())
	assert.False(t, rec.Stop())
	assert.False(t, rec.Active())

	events, ticks := sink.snapshot()
	assert.Equal(t, "start", events[0])
	assert.Equal(t, "stop", events[len(events)-1])
	for i := 1; i < len(ticks); i++ {
		assert.GreaterOrEqual(t, ticks[i], ticks[i-1])
	}

	time.Sleep(20 * time.Millisecond)
	after, _ := sink.snapshot()
	assert.Equal(t, events, after, "no tick after stop")
}

func TestRecorderToggle(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &recordedSink{}
	rec := newRecorder(sink, time.Hour)
	rec.Toggle()
	assert.True(t, rec.Active())
	rec.Toggle()
	assert.False(t, rec.Active())
	rec.Toggle()
	rec.Close()
	rec.Close()

	events, _ := sink.snapshot()
	assert.Equal(t, []string{"start", "stop", "start", "stop"}, events)
}
