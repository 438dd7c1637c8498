package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wbrown/asciiportrait"
)

var (
	flagFit    bool
	flagStatic bool
)

var printCmd = &cobra.Command{
	Use:   "print SOURCE",
	Short: "Animate the reveal as ANSI text on standard output",
	Long: `Writes the reveal to standard output, redrawing in place. Runs until
the reveal completes when looping is off, otherwise until interrupted.

With --static only the final portrait is printed, with no animation.`,
	Args: cobra.ExactArgs(1),
	RunE: runPrint,
}

func init() {
	printCmd.Flags().BoolVar(&flagFit, "fit", false, "Size the grid to the terminal")
	printCmd.Flags().BoolVar(&flagStatic, "static", false, "Print the final portrait only")
}

// terminalGrid returns the grid that fills the terminal, leaving the last
// row free for the cursor.
func terminalGrid() (cols, rows int, err error) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, 0, fmt.Errorf("--fit needs a terminal on standard output")
	}
	cols, rows, err = term.GetSize(fd)
	if err != nil {
		return 0, 0, err
	}
	return cols, max(rows-1, 1), nil
}

func runPrint(cmd *cobra.Command, args []string) error {
	src, err := asciiportrait.ParseSource(args[0])
	if err != nil {
		return err
	}
	if flagFit {
		cfg.Width, cfg.Height, err = terminalGrid()
		if err != nil {
			return err
		}
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	if flagStatic {
		img, err := src.Open(ctx)
		if err != nil {
			return fmt.Errorf("load %s: %w", src, err)
		}
		pixels := asciiportrait.NewPixelGrid(img, cfg.Width, cfg.Height, cfg.Sharpen)
		_, err = fmt.Fprint(os.Stdout, asciiportrait.RenderANSI(asciiportrait.TargetFromPixels(pixels), cfg.ColorSGR()))
		return err
	}

	surface, err := asciiportrait.NewANSISurface(os.Stdout, cfg.Width, cfg.Height,
		asciiportrait.NewMetrics(cfg.FontSize), cfg.ColorSGR())
	if err != nil {
		return err
	}
	if err := surface.Init(); err != nil {
		return err
	}
	defer surface.Restore()

	done := make(chan struct{})
	var once sync.Once
	finish := func() { once.Do(func() { close(done) }) }

	sched := asciiportrait.NewTickerScheduler(cfg.FrameInterval())
	sched.Start()
	defer sched.Stop()

	opts := append(cfg.Options(logger),
		asciiportrait.WithScheduler(sched),
		asciiportrait.WithOnComplete(func() {
			if !cfg.Loop {
				finish()
			}
		}),
	)
	anim, err := asciiportrait.New(surface, opts...)
	if err != nil {
		return err
	}
	defer anim.Close()

	if err := anim.Load(ctx, src); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		logger.Debug("interrupted", zap.Int("frames", anim.Snapshot().FrameCount))
	case <-done:
	}
	return nil
}
