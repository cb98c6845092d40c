package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"voxhud/config"
	"voxhud/frame"
	"voxhud/hud"
	"voxhud/log"
	"voxhud/render"
	"voxhud/visibility"
)

// TUI message types
type RecordingStartMsg struct{}
type RecordingStopMsg struct{}
type RecordingTickMsg struct{ Elapsed time.Duration }
type AudioLevelMsg struct{ Level float64 }
type callMsg func() // deferred work from a DispatchClock timer
type tickMsg time.Time

const (
	traceLen   = 90 // frames of amplitude history in the --trace plot
	meterWidth = 32
)

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

var (
	recStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	standbyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	boldHelp     = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
	graphStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6AE3FF"))
)

type keyMap struct {
	Toggle key.Binding
	Quit   key.Binding
}

var tuiKeys = keyMap{
	Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// tuiSink forwards recorder events into the program's Update loop.
type tuiSink struct{}

func (tuiSink) RecordingStart()                     { tuiSend(RecordingStartMsg{}) }
func (tuiSink) RecordingStop()                      { tuiSend(RecordingStopMsg{}) }
func (tuiSink) RecordingTick(elapsed time.Duration) { tuiSend(RecordingTickMsg{Elapsed: elapsed}) }
func (tuiSink) AudioLevel(level float64)            { tuiSend(AudioLevelMsg{Level: level}) }

type tuiModel struct {
	ind      *hud.Indicator
	frames   *frame.Manual
	present  *render.HalfBlock
	meter    progress.Model
	rec      *recorder
	interval time.Duration
	rows     int // text lines the surface occupies

	trace   bool
	history []float64
	width   int
}

func newTUIModel(cfg *config.Config, o runOptions, dispatch func(func())) *tuiModel {
	m := &tuiModel{
		frames:   frame.NewManual(),
		present:  render.NewHalfBlock(cfg.BackgroundColor()),
		meter: progress.New(
			progress.WithScaledGradient("#1F6F8B", cfg.Colors.Bar),
			progress.WithoutPercentage(),
			progress.WithWidth(meterWidth),
		),
		interval: time.Second / time.Duration(cfg.Motion.FPS),
		trace:    o.trace,
	}
	m.ind = hud.New(cfg, hud.Deps{
		Frames:  m.frames,
		Clock:   visibility.NewDispatchClock(dispatch),
		Source:  newSource(cfg, o),
		Scale:   o.scale,
		Trace:   o.trace,
		OnFrame: m.onFrame,
	})
	m.rows = (m.ind.Surface().Image().Bounds().Dy() + 1) / 2
	return m
}

func (m *tuiModel) onFrame(uint64) {
	if !m.trace {
		return
	}
	m.history = append(m.history, m.ind.Amplitude().Current)
	if len(m.history) > traceLen {
		m.history = m.history[len(m.history)-traceLen:]
	}
}

func (m *tuiModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *tuiModel) Init() tea.Cmd {
	return m.tick()
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, tuiKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, tuiKeys.Toggle):
			if m.rec == nil {
				return m, nil
			}
			rec := m.rec
			// Toggle waits for the recorder, which sends back into this loop.
			return m, func() tea.Msg {
				rec.Toggle()
				return nil
			}
		}

	case tickMsg:
		m.frames.Step()
		return m, m.tick()

	case callMsg:
		msg()

	case RecordingStartMsg:
		m.ind.RecordingStart()

	case RecordingStopMsg:
		m.ind.RecordingStop()

	case RecordingTickMsg:
		m.ind.RecordingTick(msg.Elapsed)

	case AudioLevelMsg:
		m.ind.AudioLevel(msg.Level)
	}
	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder

	if m.ind.State() == visibility.Hidden {
		b.WriteString(strings.Repeat("\n", max(m.rows-1, 0)))
	} else {
		b.WriteString(m.present.Render(m.ind.Surface().Image()))
	}
	b.WriteString("\n\n")

	if m.ind.Recording() {
		b.WriteString(recStyle.Render(fmt.Sprintf("● REC %.1fs", m.ind.Duration().Seconds())))
	} else {
		b.WriteString(standbyStyle.Render("○ STANDBY"))
	}
	b.WriteString("\n")
	if m.ind.State() != visibility.Hidden {
		b.WriteString(m.meter.ViewAs(m.ind.Amplitude().Current))
	}
	b.WriteString("\n")

	if m.trace && len(m.history) > 1 {
		width := traceLen
		if m.width > 10 && m.width-10 < width {
			width = m.width - 10
		}
		plot := asciigraph.Plot(m.history,
			asciigraph.Height(6),
			asciigraph.Width(width),
			asciigraph.Caption("amplitude"))
		b.WriteString("\n" + graphStyle.Render(plot) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(boldHelp.Render("Ctrl+Shift+Space") + helpStyle.Render(" hold or tap to record · "))
	for i, k := range []key.Binding{tuiKeys.Toggle, tuiKeys.Quit} {
		if i > 0 {
			b.WriteString(helpStyle.Render(" · "))
		}
		b.WriteString(boldHelp.Render(k.Help().Key) + helpStyle.Render(" "+k.Help().Desc))
	}
	b.WriteString("\n" + helpStyle.Render("voxhud "+version))
	return b.String()
}

// runTUI hosts the indicator in the terminal until the user quits or ctx
// is done.
func runTUI(ctx context.Context, cfg *config.Config, o runOptions) error {
	if err := log.Init(); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer log.Close()
	log.SessionStart("tui", cfg.Bars.Count, cfg.Motion.FPS)

	m := newTUIModel(cfg, o, func(f func()) { tuiSend(callMsg(f)) })
	m.rec = newRecorder(tuiSink{}, recordingTickInterval)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	tuiMu.Lock()
	tuiProgram = p
	tuiMu.Unlock()

	stopHotkey := func() {}
	if !o.noHotkey {
		cleanup, err := startHotkey(ctx, m.rec, o.longPress)
		if err != nil {
			log.Errorf("hotkey register error: %v", err)
			return err
		}
		stopHotkey = cleanup
	}

	_, err := p.Run()

	tuiMu.Lock()
	tuiProgram = nil
	tuiMu.Unlock()

	stopHotkey()
	m.rec.Close()
	m.ind.Close()
	log.SessionEnd(m.ind.Recordings())

	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}
