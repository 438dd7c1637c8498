// Package chime plays a short tone as each reveal phase begins.
package chime

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

const (
	// SampleRate is the speaker sample rate.
	SampleRate = beep.SampleRate(44100)

	// ToneLength is how long each phase tone lasts.
	ToneLength = 60 * time.Millisecond
)

// phaseFrequencies rises through a pentatonic scale, one note per phase.
var phaseFrequencies = []float64{440, 494, 554, 659, 880}

// Frequency returns the tone pitch for a 1-based phase number.
func Frequency(phase int) float64 {
	if phase < 1 {
		phase = 1
	}
	if phase > len(phaseFrequencies) {
		phase = len(phaseFrequencies)
	}
	return phaseFrequencies[phase-1]
}

// Tone returns a streamer that plays the tone for phase for d.
func Tone(rate beep.SampleRate, phase int, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, Frequency(phase))
	if err != nil {
		return nil, fmt.Errorf("phase %d tone: %w", phase, err)
	}
	return beep.Take(rate.N(d), sine), nil
}

// Player plays phase tones on the system speaker. A player whose speaker
// failed to initialise stays silent.
type Player struct {
	mu      sync.Mutex
	enabled bool
	logger  *zap.Logger
}

// New initialises the speaker. Audio failure is not fatal: the returned
// player is usable but silent.
func New(logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Player{logger: logger}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		logger.Warn("audio initialization failed, running silent", zap.Error(err))
		return p
	}
	p.enabled = true
	return p
}

// Enabled reports whether tones reach the speaker.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// PhaseChanged plays the tone for phase. It matches the animator phase
// callback signature once the effect argument is dropped.
func (p *Player) PhaseChanged(phase int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	tone, err := Tone(SampleRate, phase, ToneLength)
	if err != nil {
		p.logger.Warn("tone failed", zap.Error(err))
		return
	}
	speaker.Play(tone)
}

// Close shuts the speaker down.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		speaker.Close()
		p.enabled = false
	}
}
