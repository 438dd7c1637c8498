package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wbrown/asciiportrait"
)

var flagOutput string

var renderCmd = &cobra.Command{
	Use:   "render SOURCE -o OUTPUT",
	Short: "Render one reveal offline",
	Long: `Renders a single reveal on a simulated clock, so output is the same
however fast the machine is. The output format follows the extension:

  .webp              animated WebP of every frame
  .png .jpg .gif     the final frame
  .flog              zstd frame log, play it back with "portrait replay"`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file (required)")
	renderCmd.MarkFlagRequired("output")
}

// offlineSurface is a Surface that needs finishing once the reveal ends.
type offlineSurface interface {
	asciiportrait.Surface
	finish() error
}

type webpOutput struct {
	*asciiportrait.RasterSurface
	rec  *asciiportrait.WebPRecorder
	path string
}

func (o *webpOutput) finish() error {
	f, err := os.Create(o.path)
	if err != nil {
		return err
	}
	if err := o.rec.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", o.path, err)
	}
	return f.Close()
}

type stillOutput struct {
	*asciiportrait.RasterSurface
	path string
}

func (o *stillOutput) finish() error {
	return o.SavePNG(o.path)
}

type flogOutput struct {
	*asciiportrait.FrameLogSurface
	file *os.File
}

func (o *flogOutput) finish() error {
	if err := o.Close(); err != nil {
		o.file.Close()
		return err
	}
	return o.file.Close()
}

func newOfflineSurface(path string, clock asciiportrait.Clock) (offlineSurface, error) {
	m := asciiportrait.NewMetrics(cfg.FontSize)
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".flog":
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		s, err := asciiportrait.NewFrameLogSurface(f, cfg.Width, cfg.Height, m, clock)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &flogOutput{FrameLogSurface: s, file: f}, nil
	case ".webp", ".png", ".jpg", ".jpeg", ".gif":
	default:
		return nil, fmt.Errorf("unsupported output format %q", ext)
	}

	atlas, err := asciiportrait.LoadGlyphAtlas(cfg.FontFamily, m)
	if err != nil {
		return nil, err
	}
	raster := asciiportrait.NewRasterSurface(cfg.Width, cfg.Height, m, atlas)
	if ext != ".webp" {
		return &stillOutput{RasterSurface: raster, path: path}, nil
	}
	rec := asciiportrait.NewWebPRecorder(clock)
	if cfg.Loop {
		rec.FinalHold = cfg.GetLoopDelay()
	}
	raster.OnPresent = rec.Capture
	return &webpOutput{RasterSurface: raster, rec: rec, path: path}, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	src, err := asciiportrait.ParseSource(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	clock := asciiportrait.NewMockClock(time.Unix(0, 0))
	sched := asciiportrait.NewManualScheduler(clock)

	out, err := newOfflineSurface(flagOutput, clock)
	if err != nil {
		return err
	}

	opts := append(cfg.Options(logger),
		asciiportrait.WithScheduler(sched),
		asciiportrait.WithAutoStart(true),
		asciiportrait.WithLoop(false),
	)
	anim, err := asciiportrait.New(out, opts...)
	if err != nil {
		return err
	}
	defer anim.Close()

	if err := anim.Load(ctx, src); err != nil {
		// The fallback frame was still drawn; keep it so the output
		// shows what went wrong.
		if ferr := out.finish(); ferr != nil {
			return errors.Join(err, ferr)
		}
		return err
	}

	frame := cfg.FrameInterval()
	limit := int(anim.Schedule().Total()/frame) + 2
	for i := 0; anim.State() == asciiportrait.StateAnimating; i++ {
		if i > limit {
			return fmt.Errorf("reveal did not finish after %d frames", i)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		sched.Advance(frame)
	}

	if err := out.finish(); err != nil {
		return err
	}
	logger.Info("rendered",
		zap.String("output", flagOutput),
		zap.Int("frames", anim.Snapshot().FrameCount))
	return nil
}
