package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth       = 160
	DefaultHeight      = 40
	DefaultBars        = 12
	DefaultBarWidth    = 3
	DefaultGap         = 2
	DefaultBase        = 4
	DefaultMax         = 32
	DefaultSmoothing   = 0.15
	DefaultFPS         = 30
	DefaultHideDelayMs = 300
	DefaultNoise       = 0.2
	DefaultBarColor    = "#6AE3FF"
	DefaultBackground  = "#151B2C"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Canvas CanvasConfig `yaml:"canvas" toml:"canvas"`
	Bars   BarsConfig   `yaml:"bars" toml:"bars"`
	Motion MotionConfig `yaml:"motion" toml:"motion"`
	Colors ColorConfig  `yaml:"colors" toml:"colors"`
}

type CanvasConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
	Scale  float64 `yaml:"scale" toml:"scale"` // 0 means ask the host
}

type BarsConfig struct {
	Count int     `yaml:"count" toml:"count"`
	Width float64 `yaml:"width" toml:"width"`
	Gap   float64 `yaml:"gap" toml:"gap"`
	Base  float64 `yaml:"base" toml:"base"`
	Max   float64 `yaml:"max" toml:"max"`
}

type MotionConfig struct {
	Smoothing   float64 `yaml:"smoothing" toml:"smoothing"`
	FPS         int     `yaml:"fps" toml:"fps"`
	HideDelayMs int     `yaml:"hide_delay_ms" toml:"hide_delay_ms"`
	Noise       float64 `yaml:"noise" toml:"noise"`
}

type ColorConfig struct {
	Bar             string  `yaml:"bar" toml:"bar"`
	BottomAlpha     float64 `yaml:"bottom_alpha" toml:"bottom_alpha"`
	Glow            string  `yaml:"glow" toml:"glow"`
	GlowAlpha       float64 `yaml:"glow_alpha" toml:"glow_alpha"`
	GlowBlur        float64 `yaml:"glow_blur" toml:"glow_blur"`
	Background      string  `yaml:"background" toml:"background"`
	BackgroundAlpha float64 `yaml:"background_alpha" toml:"background_alpha"`
}

func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{Width: DefaultWidth, Height: DefaultHeight},
		Bars: BarsConfig{
			Count: DefaultBars,
			Width: DefaultBarWidth,
			Gap:   DefaultGap,
			Base:  DefaultBase,
			Max:   DefaultMax,
		},
		Motion: MotionConfig{
			Smoothing:   DefaultSmoothing,
			FPS:         DefaultFPS,
			HideDelayMs: DefaultHideDelayMs,
			Noise:       DefaultNoise,
		},
		Colors: ColorConfig{
			Bar:             DefaultBarColor,
			BottomAlpha:     0.4,
			Glow:            DefaultBarColor,
			GlowAlpha:       0.5,
			GlowBlur:        8,
			Background:      DefaultBackground,
			BackgroundAlpha: 0.8,
		},
	}
}

// Load reads path over the defaults. ".toml" files are decoded as TOML,
// everything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := cfg.Encode(formatOf(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Encode renders cfg as "yaml" or "toml".
func (c *Config) Encode(format string) ([]byte, error) {
	switch format {
	case "yaml", "yml":
		return yaml.Marshal(c)
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}
}

func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}
	positive := func(v float64) bool { return v > 0 && !math.IsInf(v, 0) }

	check(positive(c.Canvas.Width) && positive(c.Canvas.Height), "canvas must be positive, got %gx%g", c.Canvas.Width, c.Canvas.Height)
	check(c.Canvas.Scale >= 0, "canvas.scale must not be negative, got %g", c.Canvas.Scale)
	check(c.Bars.Count > 0, "bars.count must be positive, got %d", c.Bars.Count)
	check(positive(c.Bars.Width), "bars.width must be positive, got %g", c.Bars.Width)
	check(c.Bars.Gap >= 0, "bars.gap must not be negative, got %g", c.Bars.Gap)
	check(c.Bars.Base >= 0 && c.Bars.Base <= c.Bars.Max, "bars.base must be in [0, max], got %g", c.Bars.Base)
	check(c.Motion.Smoothing > 0 && c.Motion.Smoothing <= 1, "motion.smoothing must be in (0, 1], got %g", c.Motion.Smoothing)
	check(c.Motion.FPS > 0, "motion.fps must be positive, got %d", c.Motion.FPS)
	check(c.Motion.HideDelayMs >= 0, "motion.hide_delay_ms must not be negative, got %d", c.Motion.HideDelayMs)
	check(c.Motion.Noise >= 0 && c.Motion.Noise <= 1, "motion.noise must be in [0, 1], got %g", c.Motion.Noise)
	for name, v := range map[string]string{"bar": c.Colors.Bar, "glow": c.Colors.Glow, "background": c.Colors.Background} {
		_, err := colorful.Hex(v)
		check(err == nil, "colors.%s: %q is not a hex color", name, v)
	}
	for name, v := range map[string]float64{"bottom_alpha": c.Colors.BottomAlpha, "glow_alpha": c.Colors.GlowAlpha, "background_alpha": c.Colors.BackgroundAlpha} {
		check(v >= 0 && v <= 1, "colors.%s must be in [0, 1], got %g", name, v)
	}
	check(c.Colors.GlowBlur >= 0, "colors.glow_blur must not be negative, got %g", c.Colors.GlowBlur)
	return errors.Join(errs...)
}

func (c *Config) HideDelay() time.Duration {
	return time.Duration(c.Motion.HideDelayMs) * time.Millisecond
}

func (c *Config) BarColor() color.NRGBA { return nrgba(c.Colors.Bar, 1) }

func (c *Config) GlowColor() color.NRGBA { return nrgba(c.Colors.Glow, c.Colors.GlowAlpha) }

func (c *Config) BackgroundColor() color.NRGBA {
	return nrgba(c.Colors.Background, c.Colors.BackgroundAlpha)
}

// nrgba parses hex, falling back to black for anything Validate would reject.
func nrgba(hex string, alpha float64) color.NRGBA {
	col, err := colorful.Hex(hex)
	if err != nil {
		col = colorful.Color{}
	}
	r, g, b := col.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(255 * math.Max(0, math.Min(1, alpha))))}
}

func isTOML(path string) bool {
	return formatOf(path) == "toml"
}

func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "yaml"
}
