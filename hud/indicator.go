// Package hud wires the smoother, synthesizer, renderer, scheduler and
// visibility controller into one recording indicator.
package hud

import (
	"time"

	"voxhud/config"
	"voxhud/frame"
	"voxhud/log"
	"voxhud/render"
	"voxhud/visibility"
	"voxhud/wave"
)

// Deps are the host-provided capabilities. Frames and Clock are required
// and must deliver callbacks on the goroutine that drives the Indicator.
type Deps struct {
	Frames frame.Requester
	Clock  visibility.Clock
	Source wave.Source // nil: synthetic level with the configured noise
	Scale  float64     // 0: config scale, then 1

	Trace   bool                   // append every frame to the amplitude log
	OnFrame func(frame uint64)     // after a frame is drawn
	OnState func(visibility.State) // after every visibility change
}

// Indicator is not safe for concurrent use. Hosts feed it from their UI
// goroutine, typically through an EventSink that dispatches there.
type Indicator struct {
	source   wave.Source
	smoother wave.Smoother
	synth    wave.Synth
	renderer *render.Renderer
	surface  *render.Surface
	sched    *frame.Scheduler
	vis      *visibility.Controller
	fade     *Fade
	clock    visibility.Clock

	amp        wave.Amplitude
	bars       []float64
	primed     bool
	skipLogged bool
	stats      log.FrameStats
	shownAt    time.Time

	recording  bool
	startedAt  time.Time
	duration   time.Duration
	recordings int
	closed     bool

	trace   bool
	onFrame func(uint64)
	onState func(visibility.State)
}

func New(cfg *config.Config, deps Deps) *Indicator {
	if cfg == nil {
		cfg = config.Default()
	}
	scale := deps.Scale
	if scale <= 0 {
		scale = cfg.Canvas.Scale
	}
	if scale <= 0 {
		scale = 1
	}
	source := deps.Source
	if source == nil {
		source = wave.NewSynthetic(cfg.Motion.Noise, nil)
	}

	ind := &Indicator{
		source:   source,
		smoother: wave.NewSmoother(cfg.Motion.Smoothing),
		synth:    wave.NewSynth(cfg.Bars.Count, cfg.Bars.Base, cfg.Bars.Max),
		renderer: render.NewRenderer(render.Style{
			BarWidth:    cfg.Bars.Width,
			Gap:         cfg.Bars.Gap,
			Color:       cfg.BarColor(),
			BottomAlpha: cfg.Colors.BottomAlpha,
			Glow:        cfg.GlowColor(),
			GlowBlur:    cfg.Colors.GlowBlur,
		}),
		surface: render.NewSurface(cfg.Canvas.Width, cfg.Canvas.Height, scale),
		fade:    NewFade(cfg.Motion.FPS),
		clock:   deps.Clock,
		trace:   deps.Trace,
		onFrame: deps.OnFrame,
		onState: deps.OnState,
	}
	ind.sched = frame.NewScheduler(deps.Frames, ind.tick)
	ind.vis = visibility.NewController(deps.Clock, cfg.HideDelay(), visibility.Hooks{
		OnShow:   ind.show,
		OnHide:   ind.hide,
		OnChange: ind.changed,
	})
	return ind
}

func (ind *Indicator) RecordingStart() {
	if ind.closed {
		return
	}
	if !ind.recording {
		ind.recording = true
		ind.recordings++
		ind.startedAt = ind.clock.Now()
		ind.duration = 0
		log.RecordingStart()
	}
	ind.vis.SetRecording(true)
}

func (ind *Indicator) RecordingStop() {
	if ind.closed {
		return
	}
	if ind.recording {
		ind.recording = false
		if ind.duration == 0 {
			ind.duration = ind.clock.Now().Sub(ind.startedAt)
		}
		log.RecordingStop(ind.duration)
	}
	ind.vis.SetRecording(false)
}

// RecordingTick records the backend's elapsed recording time for display.
func (ind *Indicator) RecordingTick(d time.Duration) {
	if ind.recording {
		ind.duration = d
	}
}

// AudioLevel feeds a pushed level. It is ignored unless the source is a
// *wave.Pushed.
func (ind *Indicator) AudioLevel(level float64) {
	if p, ok := ind.source.(*wave.Pushed); ok {
		p.Push(level)
	}
}

func (ind *Indicator) State() visibility.State { return ind.vis.State() }

func (ind *Indicator) Recording() bool { return ind.recording }

func (ind *Indicator) Amplitude() wave.Amplitude { return ind.amp }

// Bars returns the heights drawn by the last frame. The slice is reused.
func (ind *Indicator) Bars() []float64 { return ind.bars }

func (ind *Indicator) Frame() uint64 { return ind.sched.Frame() }

func (ind *Indicator) Running() bool { return ind.sched.Running() }

func (ind *Indicator) Scheduler() *frame.Scheduler { return ind.sched }

func (ind *Indicator) Surface() *render.Surface { return ind.surface }

func (ind *Indicator) Opacity() float64 { return ind.fade.Value() }

func (ind *Indicator) Duration() time.Duration { return ind.duration }

func (ind *Indicator) Recordings() int { return ind.recordings }

func (ind *Indicator) Stats() log.FrameStats { return ind.stats }

// Close stops the loop, drops any pending hide and releases the surface.
// Safe to call more than once.
func (ind *Indicator) Close() {
	if ind.closed {
		return
	}
	ind.closed = true
	ind.recording = false
	ind.vis.Close()
	ind.sched.Stop()
	ind.surface.Release()
}

func (ind *Indicator) tick(n uint64) {
	target := ind.source.Level(n)
	if ind.primed {
		ind.amp = ind.smoother.Advance(ind.amp, target)
	} else {
		ind.amp = ind.smoother.Prime(target)
		ind.primed = true
	}
	ind.bars = ind.synth.BarsInto(ind.bars, n, ind.amp.Current)

	want := 0.0
	if ind.vis.State() == visibility.Visible {
		want = 1
	}
	ind.renderer.SetOpacity(ind.fade.Step(want))

	ind.stats.Frames++
	if err := ind.renderer.Draw(ind.surface, ind.bars); err != nil {
		ind.stats.Skipped++
		if !ind.skipLogged {
			ind.skipLogged = true
			log.FrameSkipped(n, err)
		}
		return
	}
	ind.stats.Rendered++
	if ind.trace {
		log.Amplitude(n, target, ind.amp.Current)
	}
	if ind.onFrame != nil {
		ind.onFrame(n)
	}
}

func (ind *Indicator) show() {
	ind.primed = false
	ind.skipLogged = false
	ind.stats = log.FrameStats{}
	ind.shownAt = ind.clock.Now()
	ind.fade.Reset()
	ind.sched.Start()
}

func (ind *Indicator) hide() {
	ind.sched.Stop()
	ind.stats.Visible = ind.clock.Now().Sub(ind.shownAt)
	log.Frames(ind.stats)
}

func (ind *Indicator) changed(from, to visibility.State) {
	log.Visibility(from.String(), to.String())
	if ind.onState != nil {
		ind.onState(to)
	}
}
