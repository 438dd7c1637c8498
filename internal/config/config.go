// Package config loads portrait settings from YAML and merges command
// line overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wbrown/asciiportrait"
)

// Config holds all portrait settings.
type Config struct {
	// Grid
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	FontSize   float64 `yaml:"font_size"`
	FontFamily string  `yaml:"font_family"` // TrueType file for raster output

	// Lifecycle
	AutoStart bool     `yaml:"auto_start"`
	Loop      bool     `yaml:"loop"`
	LoopDelay string   `yaml:"loop_delay"`
	Phases    []string `yaml:"phases"` // five durations, cycle..reveal

	// Rendering
	Seed         uint64 `yaml:"seed"` // 0 picks a random seed
	Sharpen      bool   `yaml:"sharpen"`
	FPS          int    `yaml:"fps"`
	Color        string `yaml:"color"` // SGR foreground code or #rrggbb
	FallbackText string `yaml:"fallback_text"`
	Sound        bool   `yaml:"sound"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // stderr when empty
}

// DefaultConfig returns the stock settings.
func DefaultConfig() *Config {
	phases := make([]string, asciiportrait.PhaseCount)
	for i, p := range asciiportrait.DefaultSchedule {
		phases[i] = p.Duration.String()
	}
	return &Config{
		Width:        asciiportrait.DefaultWidth,
		Height:       asciiportrait.DefaultHeight,
		FontSize:     asciiportrait.DefaultFontSize,
		AutoStart:    true,
		Loop:         true,
		LoopDelay:    asciiportrait.DefaultLoopDelay.String(),
		Phases:       phases,
		FPS:          60,
		FallbackText: asciiportrait.DefaultFallbackText,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "portrait.yaml"
	}
	return filepath.Join(dir, "asciiportrait", "config.yaml")
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if font := os.Getenv("PORTRAIT_FONT"); font != "" {
		c.FontFamily = font
	}
	if level := os.Getenv("PORTRAIT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if file := os.Getenv("PORTRAIT_LOG_FILE"); file != "" {
		c.Logging.File = file
	}
}

// Flags carries command line overrides. Zero values and nil pointers
// mean the flag was not given.
type Flags struct {
	Width     int
	Height    int
	FontSize  float64
	Font      string
	Loop      *bool
	LoopDelay time.Duration
	Seed      uint64
	Sharpen   *bool
	FPS       int
	Color     string
	Sound     *bool
	Verbose   bool
	LogFile   string
}

// Resolve applies f over c.
func (c *Config) Resolve(f Flags) {
	if f.Width > 0 {
		c.Width = f.Width
	}
	if f.Height > 0 {
		c.Height = f.Height
	}
	if f.FontSize > 0 {
		c.FontSize = f.FontSize
	}
	if f.Font != "" {
		c.FontFamily = f.Font
	}
	if f.Loop != nil {
		c.Loop = *f.Loop
	}
	if f.LoopDelay > 0 {
		c.LoopDelay = f.LoopDelay.String()
	}
	if f.Seed != 0 {
		c.Seed = f.Seed
	}
	if f.Sharpen != nil {
		c.Sharpen = *f.Sharpen
	}
	if f.FPS > 0 {
		c.FPS = f.FPS
	}
	if f.Color != "" {
		c.Color = f.Color
	}
	if f.Sound != nil {
		c.Sound = *f.Sound
	}
	if f.Verbose {
		c.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		c.Logging.File = f.LogFile
	}
}

// GetLoopDelay returns the loop delay as a duration.
func (c *Config) GetLoopDelay() time.Duration {
	d, err := time.ParseDuration(c.LoopDelay)
	if err != nil {
		return asciiportrait.DefaultLoopDelay
	}
	return d
}

// GetSchedule returns the phase schedule. An empty phase list selects the
// default schedule.
func (c *Config) GetSchedule() (asciiportrait.Schedule, error) {
	if len(c.Phases) == 0 {
		return asciiportrait.DefaultSchedule, nil
	}
	if len(c.Phases) != asciiportrait.PhaseCount {
		return asciiportrait.Schedule{}, fmt.Errorf("phases: want %d durations, got %d",
			asciiportrait.PhaseCount, len(c.Phases))
	}
	var d [asciiportrait.PhaseCount]time.Duration
	for i, s := range c.Phases {
		v, err := time.ParseDuration(s)
		if err != nil {
			return asciiportrait.Schedule{}, fmt.Errorf("phase %d: %w", i+1, err)
		}
		d[i] = v
	}
	s := asciiportrait.ScheduleFromDurations(d)
	if err := s.Validate(); err != nil {
		return asciiportrait.Schedule{}, err
	}
	return s, nil
}

// FrameInterval returns the frame period for FPS.
func (c *Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return asciiportrait.DefaultFrameInterval
	}
	return time.Second / time.Duration(c.FPS)
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid grid size %dx%d", c.Width, c.Height)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("invalid font size %v", c.FontSize)
	}
	if d, err := time.ParseDuration(c.LoopDelay); err != nil || d < 0 {
		return fmt.Errorf("invalid loop delay %q", c.LoopDelay)
	}
	if _, err := c.GetSchedule(); err != nil {
		return err
	}
	if c.FPS < 1 || c.FPS > 240 {
		return fmt.Errorf("invalid fps %d (1-240)", c.FPS)
	}
	if _, err := asciiportrait.ForegroundSGR(c.Color); err != nil {
		return fmt.Errorf("invalid color %q: want an SGR foreground code such as 37 or 38;5;250, or #rrggbb", c.Color)
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	return nil
}

// ColorSGR returns the terminal colour as an SGR foreground code, or ""
// for the terminal default. The configuration must be valid.
func (c *Config) ColorSGR() string {
	code, err := asciiportrait.ForegroundSGR(c.Color)
	if err != nil {
		return ""
	}
	return code
}

// Options converts the configuration into animator options. The
// configuration must be valid.
func (c *Config) Options(logger *zap.Logger) []asciiportrait.Option {
	schedule, err := c.GetSchedule()
	if err != nil {
		schedule = asciiportrait.DefaultSchedule
	}
	opts := []asciiportrait.Option{
		asciiportrait.WithSize(c.Width, c.Height),
		asciiportrait.WithFontSize(c.FontSize),
		asciiportrait.WithFontFamily(c.FontFamily),
		asciiportrait.WithAutoStart(c.AutoStart),
		asciiportrait.WithLoop(c.Loop),
		asciiportrait.WithLoopDelay(c.GetLoopDelay()),
		asciiportrait.WithSchedule(schedule),
		asciiportrait.WithSharpen(c.Sharpen),
		asciiportrait.WithFallbackText(c.FallbackText),
	}
	if c.Seed != 0 {
		opts = append(opts, asciiportrait.WithSeed(c.Seed))
	}
	if logger != nil {
		opts = append(opts, asciiportrait.WithLogger(logger))
	}
	return opts
}
