package asciiportrait

import (
	"math"
	"testing"
	"time"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func TestTimelineLocate(t *testing.T) {
	t.Parallel()

	tl := NewTimeline(DefaultSchedule)
	if tl.Total() != ms(6200) {
		t.Fatalf("Total() = %v, want 6.2s", tl.Total())
	}

	tests := []struct {
		elapsed  time.Duration
		phase    int
		progress float64
		done     bool
	}{
		{-ms(5), 1, 0, false},
		{0, 1, 0, false},
		{ms(1000), 1, 0.5, false},
		{ms(2000), 1, 1, false},
		{ms(2500), 2, 0.25, false},
		{ms(4500), 3, 0.5, false},
		{ms(5100), 4, 0.5, false},
		{ms(5200), 4, 1, false},
		{ms(5700), 5, 0.5, false},
		{ms(6200), 5, 1, true},
		{ms(9000), 5, 1, true},
	}
	for _, tt := range tests {
		pos := tl.Locate(tt.elapsed)
		if pos.Phase != tt.phase || math.Abs(pos.Progress-tt.progress) > 1e-9 || pos.Done != tt.done {
			t.Errorf("Locate(%v) = %+v, want phase %d progress %v done %v",
				tt.elapsed, pos, tt.phase, tt.progress, tt.done)
		}
	}
}

func TestTimelineSkipsEmptyPhases(t *testing.T) {
	t.Parallel()

	tl := NewTimeline(ScheduleFromDurations([PhaseCount]time.Duration{
		ms(100), 0, ms(100), ms(100), 0,
	}))

	if pos := tl.Locate(ms(150)); pos.Phase != 3 || pos.Progress != 0.5 {
		t.Errorf("Locate(150ms) = %+v, want phase 3 at 0.5", pos)
	}
	pos := tl.Locate(ms(300))
	if pos.Phase != 4 || !pos.Done {
		t.Errorf("Locate(300ms) = %+v, want phase 4 done", pos)
	}
	if pos := tl.Locate(ms(1000)); pos.Phase != 4 || pos.Progress != 1 || !pos.Done {
		t.Errorf("Locate(1s) = %+v, want pinned to phase 4", pos)
	}
}

func TestPositionEffect(t *testing.T) {
	t.Parallel()

	tl := NewTimeline(DefaultSchedule)
	want := []Effect{EffectCycle, EffectForm, EffectRefine, EffectGlitch, EffectReveal}
	for i, at := range []int{10, 2010, 4010, 5010, 5210} {
		if got := tl.Locate(ms(at)).Effect(DefaultSchedule); got != want[i] {
			t.Errorf("effect at %dms = %v, want %v", at, got, want[i])
		}
	}
	if (Position{}).Effect(DefaultSchedule) != 0 {
		t.Error("zero position should have no effect")
	}
	if EffectGlitch.String() != "glitch" {
		t.Errorf("EffectGlitch.String() = %q", EffectGlitch.String())
	}
}

func TestScheduleValidate(t *testing.T) {
	t.Parallel()

	if err := DefaultSchedule.Validate(); err != nil {
		t.Errorf("default schedule invalid: %v", err)
	}
	negative := ScheduleFromDurations([PhaseCount]time.Duration{ms(10), -ms(1), ms(10), ms(10), ms(10)})
	if err := negative.Validate(); err == nil {
		t.Error("negative duration should be rejected")
	}
	var empty Schedule
	if err := empty.Validate(); err == nil {
		t.Error("zero total should be rejected")
	}
}
