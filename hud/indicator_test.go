package hud

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxhud/config"
	"voxhud/frame"
	"voxhud/render"
	"voxhud/visibility"
	"voxhud/wave"
)

type harness struct {
	ind    *Indicator
	frames *frame.Manual
	clock  *visibility.ManualClock
	drawn  []uint64
	trail  []visibility.State
}

func newHarness(t *testing.T, src wave.Source) *harness {
	t.Helper()
	h := &harness{
		frames: frame.NewManual(),
		clock:  visibility.NewManualClock(time.Unix(1000, 0)),
	}
	h.ind = New(config.Default(), Deps{
		Frames:  h.frames,
		Clock:   h.clock,
		Source:  src,
		OnFrame: func(n uint64) { h.drawn = append(h.drawn, n) },
		OnState: func(s visibility.State) { h.trail = append(h.trail, s) },
	})
	t.Cleanup(h.ind.Close)
	return h
}

func TestRecordingSession(t *testing.T) {
	h := newHarness(t, wave.Fixed(0.8))
	ind := h.ind
	require.Equal(t, visibility.Hidden, ind.State())
	assert.False(t, ind.Running())

	ind.RecordingStart()
	assert.Equal(t, visibility.Visible, ind.State())
	assert.True(t, ind.Running())

	assert.Equal(t, 10, h.frames.StepN(10))
	assert.Equal(t, uint64(10), ind.Frame())
	assert.InDelta(t, 0.8, ind.Amplitude().Current, 0.05)
	require.Len(t, ind.Bars(), 12)
	for i, b := range ind.Bars() {
		assert.GreaterOrEqual(t, b, 4.0, "bar %d", i)
		assert.LessOrEqual(t, b, 32.0, "bar %d", i)
	}
	visibleOpacity := ind.Opacity()
	assert.Greater(t, visibleOpacity, 0.8)

	ind.RecordingStop()
	assert.Equal(t, visibility.FadingOut, ind.State())
	h.frames.StepN(3)
	assert.Equal(t, uint64(13), ind.Frame(), "loop keeps running while fading out")
	assert.Less(t, ind.Opacity(), visibleOpacity)

	h.clock.Advance(299 * time.Millisecond)
	assert.Equal(t, visibility.FadingOut, ind.State())
	assert.True(t, ind.Running())

	h.clock.Advance(time.Millisecond)
	assert.Equal(t, visibility.Hidden, ind.State())
	assert.False(t, ind.Running())
	assert.Equal(t, 1, ind.Scheduler().Stops())

	assert.Zero(t, h.frames.StepN(5))
	assert.Equal(t, uint64(13), ind.Frame())
	assert.Len(t, h.drawn, 13)
	assert.Equal(t, []visibility.State{visibility.Visible, visibility.FadingOut, visibility.Hidden}, h.trail)

	stats := ind.Stats()
	assert.Equal(t, uint64(13), stats.Rendered)
	assert.Zero(t, stats.Skipped)
}

func TestRapidToggleKeepsLoop(t *testing.T) {
	h := newHarness(t, wave.Fixed(0.5))
	ind := h.ind

	ind.RecordingStart()
	h.frames.Step()
	ind.RecordingStop()
	h.clock.Advance(100 * time.Millisecond)
	ind.RecordingStart()

	assert.Equal(t, visibility.Visible, ind.State())
	h.clock.Advance(time.Second)
	assert.Equal(t, visibility.Visible, ind.State())
	assert.Equal(t, 1, ind.Scheduler().Starts())
	assert.Zero(t, ind.Scheduler().Stops())
	assert.Equal(t, 2, ind.Recordings())

	assert.Equal(t, 1, h.frames.StepN(1))
}

func TestSecondSessionPrimesAgain(t *testing.T) {
	src := &wave.Pushed{}
	h := newHarness(t, src)
	ind := h.ind

	ind.AudioLevel(0.9)
	ind.RecordingStart()
	h.frames.StepN(2)
	assert.InDelta(t, 0.9, ind.Amplitude().Current, 1e-9)

	ind.RecordingStop()
	h.clock.Advance(time.Second)
	require.Equal(t, visibility.Hidden, ind.State())

	ind.AudioLevel(0.1)
	ind.RecordingStart()
	h.frames.Step()
	assert.InDelta(t, 0.1, ind.Amplitude().Current, 1e-9)

	ind.AudioLevel(0.6)
	h.frames.Step()
	assert.InDelta(t, 0.1+0.5*wave.DefaultK, ind.Amplitude().Current, 1e-9)
}

func TestFilterNeverJumpsWithinSession(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	h := newHarness(t, wave.NewSynthetic(wave.DefaultNoise, rng))
	ind := h.ind

	ind.RecordingStart()
	h.frames.Step()
	prev := ind.Amplitude().Current
	for i := 0; i < 200; i++ {
		h.frames.Step()
		cur := ind.Amplitude().Current
		assert.LessOrEqual(t, cur-prev, wave.DefaultK+1e-12)
		assert.GreaterOrEqual(t, cur-prev, -wave.DefaultK-1e-12)
		assert.GreaterOrEqual(t, cur, 0.0)
		assert.LessOrEqual(t, cur, 1.0)
		prev = cur
	}
}

func TestRecordingDuration(t *testing.T) {
	h := newHarness(t, wave.Fixed(0))
	ind := h.ind

	ind.RecordingStart()
	h.clock.Advance(1200 * time.Millisecond)
	ind.RecordingStop()
	assert.Equal(t, 1200*time.Millisecond, ind.Duration())

	ind.RecordingStart()
	assert.Zero(t, ind.Duration())
	ind.RecordingTick(500 * time.Millisecond)
	h.clock.Advance(2 * time.Second)
	ind.RecordingStop()
	assert.Equal(t, 500*time.Millisecond, ind.Duration())

	ind.RecordingTick(9 * time.Second)
	assert.Equal(t, 500*time.Millisecond, ind.Duration(), "ticks after stop are ignored")
}

func TestAudioLevelIgnoredForOtherSources(t *testing.T) {
	h := newHarness(t, wave.Fixed(0.3))
	h.ind.AudioLevel(1)
	h.ind.RecordingStart()
	h.frames.Step()
	assert.InDelta(t, 0.3, h.ind.Amplitude().Current, 1e-9)
}

func TestMissingSurfaceSkipsFrames(t *testing.T) {
	h := newHarness(t, wave.Fixed(0.5))
	ind := h.ind

	ind.RecordingStart()
	ind.Surface().Release()
	assert.NotPanics(t, func() { h.frames.StepN(3) })

	stats := ind.Stats()
	assert.Equal(t, uint64(3), stats.Skipped)
	assert.Zero(t, stats.Rendered)
	assert.Empty(t, h.drawn)
	assert.Equal(t, uint64(3), ind.Frame())
}

func TestCloseTearsDown(t *testing.T) {
	h := newHarness(t, wave.Fixed(0.5))
	ind := h.ind

	ind.RecordingStart()
	h.frames.Step()
	ind.RecordingStop()
	ind.Close()

	assert.Equal(t, visibility.Hidden, ind.State())
	assert.False(t, ind.Running())
	assert.False(t, ind.Surface().Attached())
	assert.Zero(t, h.clock.Pending())

	h.clock.Advance(time.Second)
	assert.Zero(t, h.frames.StepN(3))

	ind.RecordingStart()
	assert.Equal(t, visibility.Hidden, ind.State())
	ind.Close()
}

func TestDrawsToSurface(t *testing.T) {
	h := newHarness(t, wave.Fixed(1))
	h.ind.RecordingStart()
	h.frames.StepN(10)

	img := h.ind.Surface().Image()
	require.NotNil(t, img)
	start, stride := render.NewRenderer(render.DefaultStyle()).Layout(160, 12)
	x := int(start+5*stride) + 1
	assert.NotZero(t, img.Pix[img.PixOffset(x, 20)+3])
}

func TestScaleFromDeps(t *testing.T) {
	ind := New(nil, Deps{
		Frames: frame.NewManual(),
		Clock:  visibility.NewManualClock(time.Time{}),
		Scale:  2,
	})
	defer ind.Close()
	assert.Equal(t, 320, ind.Surface().Image().Bounds().Dx())
}

func TestFadeSettles(t *testing.T) {
	f := NewFade(30)
	for i := 0; i < 60; i++ {
		f.Step(1)
	}
	assert.InDelta(t, 1, f.Value(), 1e-3)
	for i := 0; i < 60; i++ {
		assert.GreaterOrEqual(t, f.Step(0), 0.0)
	}
	assert.InDelta(t, 0, f.Value(), 1e-3)
	f.Reset()
	assert.Zero(t, f.Value())
}
