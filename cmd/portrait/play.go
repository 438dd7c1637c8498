package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wbrown/asciiportrait"
	"github.com/wbrown/asciiportrait/internal/chime"
	"github.com/wbrown/asciiportrait/internal/watch"
	"github.com/wbrown/asciiportrait/tui"
)

var (
	flagWatch bool
	flagSound bool
)

var playCmd = &cobra.Command{
	Use:   "play SOURCE",
	Short: "Play the reveal full-screen in the terminal",
	Long: `Plays the reveal in the terminal until you quit.

Controls:
  space, p        Pause / resume
  r               Restart from phase 1
  q, Esc, Ctrl-C  Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload and restart when the source file changes")
	playCmd.Flags().BoolVar(&flagSound, "sound", false, "Play a tone as each phase begins")
}

func runPlay(cmd *cobra.Command, args []string) error {
	src, err := asciiportrait.ParseSource(args[0])
	if err != nil {
		return err
	}
	fileSrc, isFile := src.(asciiportrait.FileSource)
	if flagWatch && !isFile {
		return fmt.Errorf("--watch needs a file source, got %s", src)
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer screen.Fini()

	style := tcell.StyleDefault
	if code := cfg.ColorSGR(); code != "" {
		style = style.Foreground(tui.ColorFromSGR(code))
	}
	surface := tui.NewScreenSurface(screen, cfg.Width, cfg.Height,
		asciiportrait.NewMetrics(cfg.FontSize), style)

	var chimes *chime.Player
	if cfg.Sound {
		chimes = chime.New(logger)
		defer chimes.Close()
	}

	sched := asciiportrait.NewTickerScheduler(cfg.FrameInterval())
	sched.Start()
	defer sched.Stop()

	opts := append(cfg.Options(logger),
		asciiportrait.WithScheduler(sched),
		asciiportrait.WithOnPhaseChange(func(phase int, effect asciiportrait.Effect) {
			surface.SetStatus(tui.StatusText(phase, effect, false))
			if chimes != nil {
				chimes.PhaseChanged(phase)
			}
		}),
		asciiportrait.WithOnComplete(func() {
			surface.SetStatus(" complete  r:restart  q:quit ")
		}),
		asciiportrait.WithOnError(func(err error) {
			surface.SetStatus(" error: " + err.Error())
		}),
	)
	anim, err := asciiportrait.New(surface, opts...)
	if err != nil {
		return err
	}
	defer anim.Close()

	// A load failure leaves the fallback text on screen until the user
	// quits.
	if err := anim.Load(ctx, src); err != nil {
		logger.Error("load failed", zap.Error(err))
	}

	if flagWatch {
		w, err := watch.New(fileSrc.Path, 0, func(string) {
			logger.Info("source changed, reloading", zap.String("path", fileSrc.Path))
			if err := anim.Load(ctx, src); err != nil {
				logger.Error("reload failed", zap.Error(err))
			}
		}, logger)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	player := &tui.Player{
		Screen:   screen,
		Surface:  surface,
		Animator: anim,
		Logger:   logger,
	}
	return player.Run(ctx)
}
