package asciiportrait

import (
	"fmt"
	"math"
	"time"
)

// PhaseCount is the number of phases in a reveal.
const PhaseCount = 5

// Effect identifies the per-frame mutation a phase applies.
type Effect int

const (
	EffectCycle Effect = iota + 1
	EffectForm
	EffectRefine
	EffectGlitch
	EffectReveal
)

// String returns the effect name used in logs.
func (e Effect) String() string {
	switch e {
	case EffectCycle:
		return "cycle"
	case EffectForm:
		return "form"
	case EffectRefine:
		return "refine"
	case EffectGlitch:
		return "glitch"
	case EffectReveal:
		return "reveal"
	default:
		return fmt.Sprintf("effect(%d)", int(e))
	}
}

// Phase is one entry of a Schedule.
type Phase struct {
	Duration time.Duration
	Effect   Effect
}

// Schedule lists the phases of one reveal in play order.
type Schedule [PhaseCount]Phase

// DefaultSchedule is the stock 6.2 second reveal.
var DefaultSchedule = Schedule{
	{Duration: 2000 * time.Millisecond, Effect: EffectCycle},
	{Duration: 2000 * time.Millisecond, Effect: EffectForm},
	{Duration: 1000 * time.Millisecond, Effect: EffectRefine},
	{Duration: 200 * time.Millisecond, Effect: EffectGlitch},
	{Duration: 1000 * time.Millisecond, Effect: EffectReveal},
}

// ScheduleFromDurations builds a schedule that keeps the stock effect
// order with custom durations.
func ScheduleFromDurations(d [PhaseCount]time.Duration) Schedule {
	s := DefaultSchedule
	for i := range s {
		s[i].Duration = d[i]
	}
	return s
}

// Total returns the summed duration of every phase.
func (s Schedule) Total() time.Duration {
	var total time.Duration
	for _, p := range s {
		total += p.Duration
	}
	return total
}

// Validate rejects negative durations and schedules with no running time.
func (s Schedule) Validate() error {
	for i, p := range s {
		if p.Duration < 0 {
			return fmt.Errorf("phase %d: negative duration %v", i+1, p.Duration)
		}
	}
	if s.Total() <= 0 {
		return fmt.Errorf("schedule has zero total duration")
	}
	return nil
}

// Position is where an elapsed time falls on the timeline.
type Position struct {
	Phase    int     // 1..PhaseCount
	Progress float64 // normalized progress within Phase, in [0, 1]
	Done     bool    // elapsed reached the end of the last phase
}

// Effect returns the effect of the phase the position is in.
func (p Position) Effect(s Schedule) Effect {
	if p.Phase < 1 || p.Phase > PhaseCount {
		return 0
	}
	return s[p.Phase-1].Effect
}

// Timeline maps elapsed animation time onto a schedule. It holds no
// timers; the caller ticks it once per frame.
type Timeline struct {
	schedule Schedule
	starts   [PhaseCount]time.Duration
	total    time.Duration
}

// NewTimeline caches the cumulative phase offsets of s.
func NewTimeline(s Schedule) *Timeline {
	tl := &Timeline{schedule: s}
	var acc time.Duration
	for i, p := range s {
		tl.starts[i] = acc
		acc += p.Duration
	}
	tl.total = acc
	return tl
}

// Schedule returns the schedule the timeline walks.
func (tl *Timeline) Schedule() Schedule {
	return tl.schedule
}

// Total returns the full reveal duration.
func (tl *Timeline) Total() time.Duration {
	return tl.total
}

// Locate returns the phase and progress for elapsed. A phase owns its end
// boundary: elapsed equal to the end of phase n still reports phase n with
// progress 1. Zero-length phases are never reported. Once elapsed reaches
// the total duration the position is Done and pinned to the end of the
// last non-empty phase.
func (tl *Timeline) Locate(elapsed time.Duration) Position {
	if elapsed < 0 {
		elapsed = 0
	}
	last := 0
	for i, p := range tl.schedule {
		if p.Duration <= 0 {
			continue
		}
		last = i + 1
		if elapsed <= tl.starts[i]+p.Duration {
			progress := float64(elapsed-tl.starts[i]) / float64(p.Duration)
			progress = math.Max(0, math.Min(progress, 1))
			return Position{
				Phase:    i + 1,
				Progress: progress,
				Done:     elapsed >= tl.total,
			}
		}
	}
	return Position{Phase: last, Progress: 1, Done: true}
}
