package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/wbrown/asciiportrait"
)

// Controller is the part of an Animator the player drives.
type Controller interface {
	State() asciiportrait.State
	Snapshot() asciiportrait.Snapshot
	Schedule() asciiportrait.Schedule
	Pause()
	Resume()
	Restart()
}

type keyAction int

const (
	actionNone keyAction = iota
	actionQuit
	actionToggle
	actionRestart
)

// Player routes terminal events to a Controller.
type Player struct {
	Screen   tcell.Screen
	Surface  *ScreenSurface
	Animator Controller
	Logger   *zap.Logger
}

// Run handles key and resize events until the user quits, the screen
// closes or ctx is cancelled. Keys: space or p toggles pause, r restarts,
// q, Esc and Ctrl-C quit.
func (p *Player) Run(ctx context.Context) error {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Screen.ChannelEvents(events, quit)
	}()
	defer func() {
		close(quit)
		<-done
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch handleKey(ev) {
				case actionQuit:
					logger.Debug("quit requested")
					return nil
				case actionToggle:
					p.toggle()
				case actionRestart:
					p.Animator.Restart()
				}
			case *tcell.EventResize:
				p.Screen.Sync()
				if p.Surface != nil {
					p.Surface.Layout()
				}
				w, h := ev.Size()
				logger.Debug("resize", zap.Int("width", w), zap.Int("height", h))
			case *tcell.EventError:
				return fmt.Errorf("terminal: %w", ev)
			}
		}
	}
}

func (p *Player) toggle() {
	if p.Animator.State() == asciiportrait.StatePaused {
		p.Animator.Resume()
	} else {
		p.Animator.Pause()
	}
	p.showStatus(p.Animator.State() == asciiportrait.StatePaused)
}

// showStatus rewrites the status line for the current phase. No frames
// are drawn while paused, so a paused status is presented immediately.
func (p *Player) showStatus(paused bool) {
	if p.Surface == nil {
		return
	}
	snap := p.Animator.Snapshot()
	if snap.Phase < 1 || snap.Phase > asciiportrait.PhaseCount {
		return
	}
	effect := asciiportrait.Position{Phase: snap.Phase}.Effect(p.Animator.Schedule())
	p.Surface.SetStatus(StatusText(snap.Phase, effect, paused))
	if paused {
		_ = p.Surface.Present()
	}
}

func handleKey(ev *tcell.EventKey) keyAction {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return actionQuit
		case ' ', 'p', 'P':
			return actionToggle
		case 'r', 'R':
			return actionRestart
		}
	}
	return actionNone
}

// StatusText formats a status line for a phase change.
func StatusText(phase int, effect asciiportrait.Effect, paused bool) string {
	s := fmt.Sprintf(" phase %d/%d  %-7s", phase, asciiportrait.PhaseCount, effect)
	if paused {
		s += "  [paused]"
	}
	return s + "  space:pause  r:restart  q:quit "
}
