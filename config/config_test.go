package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 160.0, cfg.Canvas.Width)
	assert.Equal(t, 12, cfg.Bars.Count)
	assert.Equal(t, 300*time.Millisecond, cfg.HideDelay())
	assert.Equal(t, color.NRGBA{R: 0x6A, G: 0xE3, B: 0xFF, A: 0xFF}, cfg.BarColor())
	assert.Equal(t, uint8(128), cfg.GlowColor().A)
	assert.Equal(t, color.NRGBA{R: 21, G: 27, B: 44, A: 204}, cfg.BackgroundColor())
}

func TestLoadYAMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hud.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bars:\n  count: 8\nmotion:\n  hide_delay_ms: 500\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Bars.Count)
	assert.Equal(t, 500*time.Millisecond, cfg.HideDelay())
	assert.Equal(t, 32.0, cfg.Bars.Max)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hud.toml")
	require.NoError(t, os.WriteFile(path, []byte("[colors]\nbar = \"#ff0000\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, cfg.BarColor())
	assert.Equal(t, 12, cfg.Bars.Count)
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"hud.yaml", "hud.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := Default()
			want.Bars.Count = 20
			want.Colors.Background = "#000000"
			require.NoError(t, Save(path, want))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hud.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bars:\n  count: 0\ncolors:\n  glow: teal\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "bars.count")
	assert.Contains(t, err.Error(), "colors.glow")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"smoothing", func(c *Config) { c.Motion.Smoothing = 1.5 }},
		{"fps", func(c *Config) { c.Motion.FPS = 0 }},
		{"base above max", func(c *Config) { c.Bars.Base = 40 }},
		{"negative delay", func(c *Config) { c.Motion.HideDelayMs = -1 }},
		{"alpha", func(c *Config) { c.Colors.BottomAlpha = 2 }},
		{"canvas", func(c *Config) { c.Canvas.Width = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mut(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	_, err := Default().Encode("ini")
	assert.Error(t, err)
}
