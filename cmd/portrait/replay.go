package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wbrown/asciiportrait"
)

var flagSpeed float64

var replayCmd = &cobra.Command{
	Use:   "replay FILE.flog",
	Short: "Play back a frame log recorded by render",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	replayCmd.Flags().Float64Var(&flagSpeed, "speed", 1, "Playback speed multiplier")
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	log, err := asciiportrait.ReadFrameLog(f)
	if err != nil {
		return err
	}
	logger.Debug("replaying",
		zap.String("id", log.ID.String()),
		zap.Int("frames", len(log.Frames)),
		zap.Duration("duration", log.Duration()))

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()
	return log.Replay(ctx, os.Stdout, flagSpeed)
}
