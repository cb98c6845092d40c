// Package doctor runs interactive checks of everything the indicator needs
// on this machine.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"voxhud/config"
	"voxhud/frame"
	"voxhud/hotkey"
	"voxhud/hud"
	"voxhud/shutdown"
	"voxhud/visibility"
	"voxhud/wave"
)

// Run executes the diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(cfg *config.Config, logDir string, withHotkey bool) int {
	resetTerminal()
	interrupted, stop := shutdown.Context(context.Background())
	defer stop()
	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-interrupted.Done():
			select {
			case <-finished:
				return
			default:
			}
			fmt.Println("\nInterrupted")
			os.Exit(1)
		case <-finished:
		}
	}()

	fmt.Println("voxhud doctor - system diagnostics")
	fmt.Println("==================================")

	allPass := true

	if withHotkey && !checkHotkey() {
		allPass = false
	}
	if !report("[2/3] Log directory", checkLogDir(logDir)) {
		allPass = false
	}
	if !report("[3/3] Headless frame", checkRender(cfg)) {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func report(title string, err error) bool {
	fmt.Println()
	fmt.Println(title)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Println("  PASS")
	return true
}

func checkHotkey() bool {
	fmt.Println()
	fmt.Println("[1/3] Hotkey detection")

	msg, err := hotkey.Diagnose()
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Printf("  %s\n", msg)
	fmt.Println("Press Ctrl+Shift+Space...")

	hk := hotkey.New()
	if err := hk.Register(); err != nil {
		fmt.Printf("  FAIL: could not register hotkey: %v\n", err)
		return false
	}
	defer hk.Unregister()

	select {
	case <-hk.Keydown():
		fmt.Println("  PASS: hotkey detected")
		select {
		case <-hk.Keyup():
		case <-time.After(5 * time.Second):
		}
		// the press may leave the terminal in raw mode
		resetTerminal()
		return true
	case <-time.After(10 * time.Second):
		fmt.Println("  FAIL: timeout waiting for hotkey")
		return false
	}
}

// checkLogDir creates dir and writes and removes a probe file in it.
func checkLogDir(dir string) error {
	if dir == "" {
		return errors.New("no log directory resolved")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	probe := filepath.Join(dir, ".voxhud-doctor")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("write %s: %w", dir, err)
	}
	return os.Remove(probe)
}

// checkRender runs one simulated recording through the full pipeline and
// verifies that something was drawn and that the hide fired on time.
func checkRender(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	frames := frame.NewManual()
	clock := visibility.NewManualClock(time.Now())
	ind := hud.New(cfg, hud.Deps{Frames: frames, Clock: clock, Source: wave.Fixed(1)})
	defer ind.Close()

	ind.RecordingStart()
	frames.StepN(cfg.Motion.FPS)
	ind.RecordingStop()
	clock.Advance(cfg.HideDelay())

	if ind.State() != visibility.Hidden {
		return fmt.Errorf("indicator still %s after %s", ind.State(), cfg.HideDelay())
	}
	img := ind.Surface().Image()
	if img == nil {
		return errors.New("surface released early")
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return nil
		}
	}
	return errors.New("no pixels drawn")
}
