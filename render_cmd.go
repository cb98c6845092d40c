package main

import (
	"fmt"
	"image"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"voxhud/config"
	"voxhud/frame"
	"voxhud/hud"
	"voxhud/render"
	"voxhud/visibility"
	"voxhud/wave"
)

type renderOptions struct {
	frames int
	fade   int
	every  int
	level  float64 // below zero: synthetic
	seed   uint64
	scale  float64
	out    string
}

func newRenderCmd() *cobra.Command {
	var o renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a simulated recording session to PNG files",
		Long: "render starts a recording, steps the requested number of frames on a\n" +
			"simulated clock, stops it and keeps stepping through the fade-out,\n" +
			"writing frame_NNNN.png files composited over the pill background.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(o.out, 0755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			written := 0
			err = renderSession(cfg, o, func(n uint64, png []byte) error {
				written++
				return os.WriteFile(filepath.Join(o.out, fmt.Sprintf("frame_%04d.png", n)), png, 0644)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frames to %s\n", written, o.out)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&o.frames, "frames", 30, "frames to render while recording")
	f.IntVar(&o.fade, "fade", 9, "frames to render after the recording stops")
	f.IntVar(&o.every, "every", 1, "write every Nth frame")
	f.Float64Var(&o.level, "level", -1, "fixed amplitude in [0,1] (default: synthetic)")
	f.Uint64Var(&o.seed, "seed", 1, "seed for the synthetic amplitude")
	f.Float64Var(&o.scale, "scale", 2, "pixel density of the output")
	f.StringVar(&o.out, "out", "frames", "output directory")
	return cmd
}

// renderSession drives an indicator on a manual frame source and a manual
// clock, handing every written frame to write as PNG bytes.
func renderSession(cfg *config.Config, o renderOptions, write func(frame uint64, png []byte) error) error {
	if o.frames < 0 || o.fade < 0 {
		return fmt.Errorf("frame counts must not be negative")
	}
	if o.every <= 0 {
		o.every = 1
	}
	var src wave.Source = wave.NewSynthetic(cfg.Motion.Noise, rand.New(rand.NewPCG(o.seed, o.seed)))
	if o.level >= 0 {
		src = wave.Fixed(o.level)
	}

	frames := frame.NewManual()
	clock := visibility.NewManualClock(time.Unix(0, 0))
	step := time.Second / time.Duration(cfg.Motion.FPS)

	var (
		ind    *hud.Indicator
		canvas *image.RGBA
		werr   error
	)
	ind = hud.New(cfg, hud.Deps{
		Frames: frames,
		Clock:  clock,
		Source: src,
		Scale:  o.scale,
		OnFrame: func(n uint64) {
			if werr != nil || n%uint64(o.every) != 0 {
				return
			}
			canvas = render.Compose(canvas, ind.Surface(), cfg.BackgroundColor())
			png, err := render.EncodePNG(canvas)
			if err == nil {
				err = write(n, png)
			}
			werr = err
		},
	})
	defer ind.Close()

	advance := func(n int) error {
		for i := 0; i < n && werr == nil; i++ {
			if frames.Step() == 0 {
				break
			}
			clock.Advance(step)
		}
		return werr
	}

	ind.RecordingStart()
	if err := advance(o.frames); err != nil {
		return err
	}
	ind.RecordingStop()
	return advance(o.fade)
}
