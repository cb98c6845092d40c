//go:build gui

package main

import (
	"context"
	"runtime"

	"voxhud/config"
	"voxhud/gui"
	"voxhud/log"
)

const guiAvailable = true

func runGUI(ctx context.Context, cfg *config.Config, o runOptions) error {
	if err := log.Init(); err != nil {
		return err
	}
	defer log.Close()
	log.SessionStart("gui", cfg.Bars.Count, cfg.Motion.FPS)

	// Fyne and GLFW must stay on the thread that called main.
	runtime.LockOSThread()

	app := gui.NewApp(cfg, gui.Options{
		Scale:  o.scale,
		Source: newSource(cfg, o),
		Trace:  o.trace,
	})
	rec := newRecorder(app, recordingTickInterval)
	app.OnQuit(rec.Close)

	var stopHotkey func()
	app.OnReady(func() {
		if o.noHotkey {
			return
		}
		cleanup, err := startHotkey(ctx, rec, o.longPress)
		if err != nil {
			log.Errorf("hotkey register error: %v", err)
			app.Quit()
			return
		}
		stopHotkey = cleanup
	})
	app.OnToggle(rec.Toggle)

	go func() {
		<-ctx.Done()
		app.Quit()
	}()

	err := gui.Run(app)
	if stopHotkey != nil {
		stopHotkey()
	}
	rec.Close()
	log.SessionEnd(app.Recordings())
	return err
}
