package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/asciiportrait"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 80, cfg.Width)
	assert.Equal(t, 60, cfg.Height)
	assert.True(t, cfg.Loop)
	assert.Equal(t, 3*time.Second, cfg.GetLoopDelay())
	assert.Equal(t, time.Second/60, cfg.FrameInterval())

	s, err := cfg.GetSchedule()
	require.NoError(t, err)
	assert.Equal(t, asciiportrait.DefaultSchedule, s)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Width, cfg.Width)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
width: 120
height: 40
loop: false
loop_delay: 500ms
phases: [1s, 1s, 500ms, 100ms, 400ms]
color: "38;5;250"
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 120, cfg.Width)
	assert.Equal(t, 40, cfg.Height)
	assert.False(t, cfg.Loop)
	assert.Equal(t, 500*time.Millisecond, cfg.GetLoopDelay())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 60, cfg.FPS, "unset keys keep their defaults")

	s, err := cfg.GetSchedule()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, s.Total())
	assert.Equal(t, 100*time.Millisecond, s[3].Duration)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: [not a number"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Width = 33
	cfg.Seed = 7
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORTRAIT_FONT", "/fonts/mono.ttf")
	t.Setenv("PORTRAIT_LOG_LEVEL", "warn")
	t.Setenv("PORTRAIT_LOG_FILE", "/tmp/portrait.log")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/fonts/mono.ttf", cfg.FontFamily)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "/tmp/portrait.log", cfg.Logging.File)
}

func TestResolveFlags(t *testing.T) {
	off, on := false, true
	cfg := DefaultConfig()
	cfg.Resolve(Flags{
		Width:     100,
		Loop:      &off,
		Sharpen:   &on,
		LoopDelay: time.Second,
		FPS:       30,
		Verbose:   true,
	})

	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 60, cfg.Height, "unset flags leave values alone")
	assert.False(t, cfg.Loop)
	assert.True(t, cfg.Sharpen)
	assert.Equal(t, time.Second, cfg.GetLoopDelay())
	assert.Equal(t, time.Second/30, cfg.FrameInterval())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative font", func(c *Config) { c.FontSize = -1 }},
		{"bad loop delay", func(c *Config) { c.LoopDelay = "soon" }},
		{"negative loop delay", func(c *Config) { c.LoopDelay = "-1s" }},
		{"four phases", func(c *Config) { c.Phases = []string{"1s", "1s", "1s", "1s"} }},
		{"bad phase", func(c *Config) { c.Phases = []string{"1s", "x", "1s", "1s", "1s"} }},
		{"zero phases", func(c *Config) { c.Phases = []string{"0s", "0s", "0s", "0s", "0s"} }},
		{"fps", func(c *Config) { c.FPS = 0 }},
		{"color", func(c *Config) { c.Color = "red" }},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestColorSGR(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Color = "#5f87af"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "38;5;67", cfg.ColorSGR())

	cfg.Color = "92"
	assert.Equal(t, "92", cfg.ColorSGR())
}

func TestOptionsBuildAnimator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 12, 6
	cfg.Seed = 5

	sched := asciiportrait.NewManualScheduler(asciiportrait.NewMockClock(time.Unix(0, 0)))
	opts := append(cfg.Options(nil), asciiportrait.WithScheduler(sched))
	a, err := asciiportrait.New(nopSurface{}, opts...)
	require.NoError(t, err)
	defer a.Close()

	w, h := a.Size()
	assert.Equal(t, [2]int{12, 6}, [2]int{w, h})
	assert.Equal(t, asciiportrait.DefaultSchedule, a.Schedule())
}

type nopSurface struct{}

func (nopSurface) Clear()                         {}
func (nopSurface) DrawGlyph(x, y float64, r rune) {}
func (nopSurface) DrawText(string)                {}
func (nopSurface) Present() error                 { return nil }
