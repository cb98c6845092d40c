package visibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	shows, hides int
	trail        []State
}

func newTestController() (*Controller, *ManualClock, *recorder) {
	clock := NewManualClock(time.Unix(0, 0))
	rec := &recorder{}
	c := NewController(clock, DefaultHideDelay, Hooks{
		OnShow:   func() { rec.shows++ },
		OnHide:   func() { rec.hides++ },
		OnChange: func(_, to State) { rec.trail = append(rec.trail, to) },
	})
	return c, clock, rec
}

func TestStartsHidden(t *testing.T) {
	c, _, rec := newTestController()
	assert.Equal(t, Hidden, c.State())
	c.SetRecording(false)
	assert.Equal(t, Hidden, c.State())
	assert.Empty(t, rec.trail)
}

func TestShowImmediately(t *testing.T) {
	c, _, rec := newTestController()
	c.SetRecording(true)
	assert.Equal(t, Visible, c.State())
	assert.Equal(t, 1, rec.shows)

	c.SetRecording(true)
	assert.Equal(t, 1, rec.shows)
}

func TestHideAfterDelay(t *testing.T) {
	c, clock, rec := newTestController()
	c.SetRecording(true)
	c.SetRecording(false)
	require.Equal(t, FadingOut, c.State())
	assert.True(t, c.HidePending())

	clock.Advance(299 * time.Millisecond)
	assert.Equal(t, FadingOut, c.State())
	assert.Equal(t, 0, rec.hides)

	clock.Advance(time.Millisecond)
	assert.Equal(t, Hidden, c.State())
	assert.Equal(t, 1, rec.hides)

	clock.Advance(5 * time.Second)
	assert.Equal(t, 1, rec.hides)
	assert.Equal(t, []State{Visible, FadingOut, Hidden}, rec.trail)
}

func TestDebounceRapidToggle(t *testing.T) {
	c, clock, rec := newTestController()
	c.SetRecording(true)
	c.SetRecording(false)
	clock.Advance(100 * time.Millisecond)
	c.SetRecording(true)
	assert.Equal(t, Visible, c.State())
	assert.False(t, c.HidePending())

	clock.Advance(time.Second)
	assert.Equal(t, Visible, c.State())
	assert.Equal(t, 0, rec.hides)
	assert.Equal(t, 1, rec.shows)
	assert.NotContains(t, rec.trail, Hidden)
}

func TestRestartedFadeUsesFreshDelay(t *testing.T) {
	c, clock, rec := newTestController()
	c.SetRecording(true)
	c.SetRecording(false)
	clock.Advance(200 * time.Millisecond)
	c.SetRecording(true)
	c.SetRecording(false)

	clock.Advance(200 * time.Millisecond)
	assert.Equal(t, FadingOut, c.State())
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, Hidden, c.State())
	assert.Equal(t, 1, rec.hides)
	assert.Equal(t, 0, clock.Pending())
}

func TestCloseWhileFading(t *testing.T) {
	c, clock, rec := newTestController()
	c.SetRecording(true)
	c.SetRecording(false)
	c.Close()
	assert.Equal(t, Hidden, c.State())
	assert.Equal(t, 1, rec.hides)

	clock.Advance(time.Second)
	assert.Equal(t, 1, rec.hides)

	c.Close()
	assert.Equal(t, 1, rec.hides)
}

func TestCloseWhileVisible(t *testing.T) {
	c, _, rec := newTestController()
	c.SetRecording(true)
	c.Close()
	assert.Equal(t, Hidden, c.State())
	assert.Equal(t, 1, rec.hides)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "hidden", Hidden.String())
	assert.Equal(t, "visible", Visible.String())
	assert.Equal(t, "fading_out", FadingOut.String())
	assert.Equal(t, "unknown", State(9).String())
}
