package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"voxhud/config"
	"voxhud/hotkey"
	"voxhud/log"
	"voxhud/shutdown"
	"voxhud/wave"
)

// runOptions are the host flags shared by the terminal, headless and GUI
// hosts. Zero values keep the config file setting.
type runOptions struct {
	scale     float64
	fps       int
	source    string
	trace     bool
	noHotkey  bool
	script    string
	headless  bool
	longPress time.Duration
}

var runOpts runOptions

func addHostFlags(cmd *cobra.Command, o *runOptions) {
	f := cmd.Flags()
	f.Float64Var(&o.scale, "scale", 0, "pixel density of the surface (default: 0.5 in a terminal, 1 otherwise)")
	f.IntVar(&o.fps, "fps", 0, "frames per second (default: config motion.fps)")
	f.StringVar(&o.source, "source", "synthetic", "amplitude source: synthetic or pushed")
	f.BoolVar(&o.trace, "trace", false, "log every frame's amplitude and plot its history")
	f.BoolVar(&o.noHotkey, "no-hotkey", false, "do not register the global hotkey")
	f.DurationVar(&o.longPress, "longpress", 350*time.Millisecond, "long-press threshold for push-to-talk vs tap (e.g., 350ms)")
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Show the indicator in the terminal, or headless when stdin is not a terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := hostConfig(&runOpts)
			if err != nil {
				return err
			}
			ctx, cancel := shutdown.Context(cmd.Context())
			defer cancel()

			if runOpts.headless || runOpts.script != "" || !term.IsTerminal(int(os.Stdin.Fd())) {
				in, closeIn, err := scriptInput(runOpts.script)
				if err != nil {
					return err
				}
				defer closeIn()
				return runHeadless(ctx, cfg, runOpts, in, cmd.OutOrStdout())
			}
			if runOpts.scale == 0 {
				runOpts.scale = 0.5
			}
			return runTUI(ctx, cfg, runOpts)
		},
	}
	addHostFlags(cmd, &runOpts)
	cmd.Flags().StringVar(&runOpts.script, "script", "", "read commands from a file instead of stdin (implies headless)")
	cmd.Flags().BoolVar(&runOpts.headless, "headless", false, "run without a display, driven by commands on stdin")
	return cmd
}

// hostConfig loads the config file and applies flag overrides.
func hostConfig(o *runOptions) (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if o.fps > 0 {
		cfg.Motion.FPS = o.fps
	}
	if o.scale < 0 {
		return nil, fmt.Errorf("--scale must be positive, got %v", o.scale)
	}
	switch o.source {
	case "synthetic", "pushed":
	default:
		return nil, fmt.Errorf("unknown --source %q (want synthetic or pushed)", o.source)
	}
	return cfg, nil
}

func newSource(cfg *config.Config, o runOptions) wave.Source {
	if o.source == "pushed" {
		return &wave.Pushed{}
	}
	return wave.NewSynthetic(cfg.Motion.Noise, nil)
}

func scriptInput(path string) (io.Reader, func(), error) {
	if path == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open script: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// startHotkey registers the global hotkey and forwards its hybrid
// push-to-talk and toggle gestures to rec until ctx is done. It returns a
// cleanup that unregisters the key.
func startHotkey(ctx context.Context, rec *recorder, longPress time.Duration) (func(), error) {
	hk := hotkey.New()
	if err := hk.Register(); err != nil {
		return nil, fmt.Errorf("register hotkey: %w", err)
	}
	hy := hotkey.NewHybrid(hk, longPress)
	ctx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		listenHotkey(ctx, hy, rec)
	}()
	return func() {
		stop()
		<-done
		hy.Close()
		hk.Unregister()
	}, nil
}

func listenHotkey(ctx context.Context, hy *hotkey.Hybrid, rec *recorder) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-hy.Start():
			log.Debug("hotkey_start_" + string(ev.Mode))
			rec.Start()
		case <-hy.StopChan():
			if hy.IsToggle() {
				log.Debug("hotkey_stop_toggle")
			} else {
				log.Debug("hotkey_stop_ptt")
			}
			rec.Stop()
		}
	}
}

func newGUICmd() *cobra.Command {
	var o runOptions
	cmd := &cobra.Command{
		Use:    "gui",
		Short:  "Show the indicator as a floating desktop overlay",
		Args:   cobra.NoArgs,
		Hidden: !guiAvailable,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := hostConfig(&o)
			if err != nil {
				return err
			}
			ctx, cancel := shutdown.Context(cmd.Context())
			defer cancel()
			return runGUI(ctx, cfg, o)
		},
	}
	addHostFlags(cmd, &o)
	return cmd
}
