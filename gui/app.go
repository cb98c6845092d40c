//go:build gui

// Package gui hosts the indicator in a frameless, always-on-top desktop
// window with a tray icon.
package gui

import (
	"image"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/go-gl/glfw/v3.3/glfw"

	"voxhud/config"
	"voxhud/frame"
	"voxhud/hud"
	"voxhud/log"
	"voxhud/render"
	"voxhud/visibility"
	"voxhud/wave"
)

const (
	trayIconSize = 64
	dockMargin   = 20
)

type Options struct {
	Scale  float64 // 0: the window canvas scale
	Source wave.Source
	Trace  bool
}

// App implements the host's EventSink. Its methods may be called from any
// goroutine; every indicator call is funneled through fyne.Do.
type App struct {
	cfg  *config.Config
	opts Options

	fyneApp fyne.App
	window  fyne.Window
	raster  *canvas.Raster
	ticker  *frame.Ticker
	ind     *hud.Indicator
	canvas  *image.RGBA
	posX    int
	posY    int

	onReady  func()
	onQuit   func()
	onToggle func()
}

func NewApp(cfg *config.Config, opts Options) *App {
	return &App{cfg: cfg, opts: opts}
}

// OnReady runs on the UI goroutine once the event loop has started.
func (a *App) OnReady(f func()) { a.onReady = f }

// OnQuit runs when the app is about to stop.
func (a *App) OnQuit(f func()) { a.onQuit = f }

// OnToggle is called from the tray menu on its own goroutine.
func (a *App) OnToggle(f func()) { a.onToggle = f }

func Run(a *App) error {
	a.fyneApp = app.NewWithID("io.voxhud.gui")
	a.fyneApp.Settings().SetTheme(newPillTheme(a.cfg.BackgroundColor()))

	if desk, ok := a.fyneApp.(desktop.App); ok {
		menu := fyne.NewMenu("voxhud",
			fyne.NewMenuItem("Start / Stop Recording", func() {
				if a.onToggle != nil {
					go a.onToggle()
				}
			}),
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Quit", func() {
				a.fyneApp.Quit()
			}),
		)
		desk.SetSystemTrayMenu(menu)
		a.setTrayIcon(false)
	}

	// Get primary monitor work area for positioning
	var screenW, screenH int
	if monitor := glfw.GetPrimaryMonitor(); monitor != nil {
		_, _, screenW, screenH = monitor.GetWorkarea()
	} else {
		screenW, screenH = 1920, 1080
	}

	if drv, ok := a.fyneApp.Driver().(desktop.Driver); ok {
		a.window = drv.CreateSplashWindow()
	} else {
		a.window = a.fyneApp.NewWindow("voxhud")
	}

	scale := a.opts.Scale
	if scale <= 0 {
		scale = float64(a.window.Canvas().Scale())
	}

	a.ticker = frame.NewTicker(a.cfg.Motion.FPS, fyne.Do)
	a.ind = hud.New(a.cfg, hud.Deps{
		Frames:  a.ticker,
		Clock:   visibility.NewDispatchClock(fyne.Do),
		Source:  a.opts.Source,
		Scale:   scale,
		Trace:   a.opts.Trace,
		OnFrame: func(uint64) { a.raster.Refresh() },
		OnState: a.stateChanged,
	})

	a.raster = canvas.NewRaster(a.present)
	size := fyne.NewSize(float32(a.cfg.Canvas.Width), float32(a.cfg.Canvas.Height))
	a.raster.SetMinSize(size)

	a.window.SetContent(a.raster)
	a.window.SetFixedSize(true)
	a.window.SetPadded(false)
	a.window.Resize(size)

	// bottom-center, above the dock
	a.posX = (screenW - int(size.Width)) / 2
	a.posY = screenH - int(size.Height) - dockMargin

	a.fyneApp.Lifecycle().SetOnStarted(func() {
		if a.onReady != nil {
			a.onReady()
		}
	})
	a.fyneApp.Lifecycle().SetOnStopped(func() {
		if a.onQuit != nil {
			a.onQuit()
		}
		a.ticker.Close()
		a.ind.Close()
	})

	// Run event loop without showing window (stays hidden until RecordingStart)
	a.fyneApp.Run()
	return nil
}

func (a *App) Quit() {
	if a.fyneApp != nil {
		fyne.Do(a.fyneApp.Quit)
	}
}

// Recordings is only meaningful after Run returns.
func (a *App) Recordings() int {
	if a.ind == nil {
		return 0
	}
	return a.ind.Recordings()
}

// present composites the surface over the pill background. The window
// scales the result to its pixel size.
func (a *App) present(w, h int) image.Image {
	a.canvas = render.Compose(a.canvas, a.ind.Surface(), a.cfg.BackgroundColor())
	return a.canvas
}

func (a *App) stateChanged(s visibility.State) {
	switch s {
	case visibility.Visible:
		a.setTrayIcon(true)
		a.show()
	case visibility.FadingOut:
		a.setTrayIcon(false)
	case visibility.Hidden:
		a.window.Hide()
	}
}

func (a *App) show() {
	// Configure GLFW attributes BEFORE showing
	if glfwWin := glfw.GetCurrentContext(); glfwWin != nil {
		glfwWin.SetPos(a.posX, a.posY)
		glfwWin.SetAttrib(glfw.FocusOnShow, glfw.False)
		glfwWin.SetAttrib(glfw.Floating, glfw.True)
		glfwWin.Show()
		return
	}
	a.window.Show()
}

func (a *App) setTrayIcon(recording bool) {
	desk, ok := a.fyneApp.(desktop.App)
	if !ok {
		return
	}
	style := render.DefaultStyle()
	style.Color = a.cfg.BarColor()
	b, err := render.Icon(trayIconSize, style, recording)
	if err != nil {
		log.Warnf("tray icon: %v", err)
		return
	}
	desk.SetSystemTrayIcon(fyne.NewStaticResource("tray.png", b))
}

// EventSink implementation

func (a *App) RecordingStart() { fyne.Do(func() { a.ind.RecordingStart() }) }

func (a *App) RecordingStop() { fyne.Do(func() { a.ind.RecordingStop() }) }

func (a *App) RecordingTick(elapsed time.Duration) {
	fyne.Do(func() { a.ind.RecordingTick(elapsed) })
}

func (a *App) AudioLevel(level float64) {
	fyne.Do(func() { a.ind.AudioLevel(level) })
}
