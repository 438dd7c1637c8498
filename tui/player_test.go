package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/asciiportrait"
)

type fakeController struct {
	mu    sync.Mutex
	state asciiportrait.State
	phase int
	calls []string
}

func (f *fakeController) State() asciiportrait.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeController) Snapshot() asciiportrait.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return asciiportrait.Snapshot{State: f.state, Phase: f.phase}
}

func (f *fakeController) Schedule() asciiportrait.Schedule {
	return asciiportrait.DefaultSchedule
}

func (f *fakeController) record(call string, next asciiportrait.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	f.state = next
}

func (f *fakeController) Pause()   { f.record("pause", asciiportrait.StatePaused) }
func (f *fakeController) Resume()  { f.record("resume", asciiportrait.StateAnimating) }
func (f *fakeController) Restart() { f.record("restart", asciiportrait.StateAnimating) }

func (f *fakeController) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func TestHandleKey(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		mod  tcell.ModMask
		want keyAction
	}{
		{tcell.KeyEscape, 0, tcell.ModNone, actionQuit},
		{tcell.KeyCtrlC, 0, tcell.ModCtrl, actionQuit},
		{tcell.KeyRune, 'q', tcell.ModNone, actionQuit},
		{tcell.KeyRune, ' ', tcell.ModNone, actionToggle},
		{tcell.KeyRune, 'p', tcell.ModNone, actionToggle},
		{tcell.KeyRune, 'r', tcell.ModNone, actionRestart},
		{tcell.KeyRune, 'x', tcell.ModNone, actionNone},
		{tcell.KeyEnter, 0, tcell.ModNone, actionNone},
	}
	for _, tt := range tests {
		got := handleKey(tcell.NewEventKey(tt.key, tt.r, tt.mod))
		assert.Equal(t, tt.want, got, "key %v rune %q", tt.key, tt.r)
	}
}

func TestPlayerRoutesKeys(t *testing.T) {
	screen := newSimScreen(t, 20, 10)
	ctrl := &fakeController{state: asciiportrait.StateAnimating}
	p := &Player{
		Screen:   screen,
		Surface:  NewScreenSurface(screen, 4, 2, asciiportrait.NewMetrics(12), tcell.StyleDefault),
		Animator: ctrl,
	}

	errc := make(chan error, 1)
	go func() { errc <- p.Run(context.Background()) }()

	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'p', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	require.Eventually(t, func() bool { return len(ctrl.Calls()) == 3 }, 2*time.Second, 5*time.Millisecond)

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("player did not quit")
	}
	assert.Equal(t, []string{"pause", "resume", "restart"}, ctrl.Calls())
}

func statusLine(s tcell.SimulationScreen) string {
	w, h := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		b.WriteRune(cellAt(s, x, h-1))
	}
	return b.String()
}

func TestToggleShowsPausedStatus(t *testing.T) {
	screen := newSimScreen(t, 60, 10)
	ctrl := &fakeController{state: asciiportrait.StateAnimating, phase: 2}
	p := &Player{
		Screen:   screen,
		Surface:  NewScreenSurface(screen, 4, 2, asciiportrait.NewMetrics(12), tcell.StyleDefault),
		Animator: ctrl,
	}

	p.toggle()
	line := statusLine(screen)
	assert.Contains(t, line, "phase 2/5")
	assert.Contains(t, line, "form")
	assert.Contains(t, line, "[paused]")

	p.toggle()
	require.NoError(t, p.Surface.Present())
	assert.NotContains(t, statusLine(screen), "[paused]")
	assert.Equal(t, []string{"pause", "resume"}, ctrl.Calls())
}

func TestToggleWithoutPhaseKeepsStatus(t *testing.T) {
	screen := newSimScreen(t, 60, 10)
	ctrl := &fakeController{state: asciiportrait.StateIdle}
	surface := NewScreenSurface(screen, 4, 2, asciiportrait.NewMetrics(12), tcell.StyleDefault)
	surface.SetStatus(" ready ")
	p := &Player{Screen: screen, Surface: surface, Animator: ctrl}

	p.toggle()
	require.NoError(t, surface.Present())
	assert.Contains(t, statusLine(screen), "ready")
}

func TestPlayerStopsOnContext(t *testing.T) {
	screen := newSimScreen(t, 20, 10)
	p := &Player{Screen: screen, Animator: &fakeController{}}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- p.Run(ctx) }()
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("player ignored cancellation")
	}
}

func TestStatusText(t *testing.T) {
	s := StatusText(4, asciiportrait.EffectGlitch, false)
	assert.Contains(t, s, "phase 4/5")
	assert.Contains(t, s, "glitch")
	assert.NotContains(t, s, "paused")
	assert.Contains(t, StatusText(1, asciiportrait.EffectCycle, true), "[paused]")
}
