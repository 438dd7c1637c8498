// Command portrait plays the ASCII portrait reveal in a terminal, prints
// it as ANSI text, or renders it offline to WebP, PNG or a frame log.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wbrown/asciiportrait/internal/config"
)

var (
	// Global flags
	configPath string
	verbose    bool
	logFile    string

	// Animation flags shared by every subcommand
	flagWidth    int
	flagHeight   int
	flagFontSize float64
	flagFont     string
	flagNoLoop   bool
	flagSeed     uint64
	flagSharpen  bool
	flagFPS      int
	flagColor    string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "portrait",
	Short: "Reveal an image as an animated ASCII portrait",
	Long: `portrait turns an image into a grid of ASCII glyphs and plays a
five-phase reveal: random cycling, gradual formation, detail refinement,
a short glitch and the final photo reveal.

Sources may be a file path, an http(s) URL, "-" for standard input or
camera:N for a capture device (camera support needs the gocv build tag).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		cfg.Resolve(flagsFrom(cmd))
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		// The full-screen player owns the terminal, so it never logs to
		// stderr.
		logger, err = newLogger(cfg.Logging, cmd.Name() == "play")
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Debug("configuration loaded", zap.String("path", path))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func flagsFrom(cmd *cobra.Command) config.Flags {
	f := config.Flags{
		Width:    flagWidth,
		Height:   flagHeight,
		FontSize: flagFontSize,
		Font:     flagFont,
		Seed:     flagSeed,
		FPS:      flagFPS,
		Color:    flagColor,
		Verbose:  verbose,
		LogFile:  logFile,
	}
	flags := cmd.Flags()
	if flags.Changed("no-loop") {
		loop := !flagNoLoop
		f.Loop = &loop
	}
	if flags.Changed("sharpen") {
		f.Sharpen = &flagSharpen
	}
	if flags.Changed("sound") {
		f.Sound = &flagSound
	}
	return f
}

func newLogger(lc config.LoggingConfig, quiet bool) (*zap.Logger, error) {
	if lc.File == "" && quiet {
		return zap.NewNop(), nil
	}
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	if lc.File != "" {
		zc.OutputPaths = []string{lc.File}
		zc.ErrorOutputPaths = []string{lc.File}
	}
	return zc.Build()
}

// signalContext cancels on interrupt or termination.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file (default: user config dir)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&logFile, "log-file", "", "Write logs to this file")

	pf.IntVar(&flagWidth, "width", 0, "Grid width in cells")
	pf.IntVar(&flagHeight, "height", 0, "Grid height in cells")
	pf.Float64Var(&flagFontSize, "font-size", 0, "Font size the cell metrics derive from")
	pf.StringVar(&flagFont, "font", "", "TrueType font for raster output")
	pf.BoolVar(&flagNoLoop, "no-loop", false, "Play the reveal once")
	pf.Uint64Var(&flagSeed, "seed", 0, "Random seed (0 picks one)")
	pf.BoolVar(&flagSharpen, "sharpen", false, "Sharpen the image before sampling")
	pf.IntVar(&flagFPS, "fps", 0, "Frames per second")
	pf.StringVar(&flagColor, "color", "", "terminal colour: SGR foreground code (32, 38;5;250) or #rrggbb")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(replayCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
