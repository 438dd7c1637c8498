// Package tui plays a portrait reveal in a full-screen terminal using
// tcell.
package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/wbrown/asciiportrait"
)

// ScreenSurface draws animator frames onto a tcell screen, centred in the
// visible area. The bottom row is reserved for a status line when one is
// set.
type ScreenSurface struct {
	mu      sync.Mutex
	screen  tcell.Screen
	metrics asciiportrait.Metrics
	style   tcell.Style
	dim     tcell.Style
	cols    int
	rows    int
	offX    int
	offY    int
	status  string
}

// NewScreenSurface creates a surface for a cols x rows grid on screen.
func NewScreenSurface(screen tcell.Screen, cols, rows int, m asciiportrait.Metrics, style tcell.Style) *ScreenSurface {
	s := &ScreenSurface{
		screen:  screen,
		metrics: m,
		style:   style,
		dim:     style.Dim(true),
		cols:    cols,
		rows:    rows,
	}
	s.Layout()
	return s
}

// Layout recomputes the grid offset from the current screen size. Call it
// after a resize.
func (s *ScreenSurface) Layout() {
	w, h := s.screen.Size()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offX = max((w-s.cols)/2, 0)
	s.offY = max((h-1-s.rows)/2, 0)
}

// Offset returns the screen position of cell (0, 0).
func (s *ScreenSurface) Offset() (x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offX, s.offY
}

// SetStatus replaces the status line text.
func (s *ScreenSurface) SetStatus(text string) {
	s.mu.Lock()
	s.status = text
	s.mu.Unlock()
}

func (s *ScreenSurface) Clear() {
	s.screen.Clear()
}

func (s *ScreenSurface) DrawGlyph(x, y float64, r rune) {
	col, row := s.metrics.Cell(x, y)
	s.put(col, row, r, s.style)
}

func (s *ScreenSurface) put(col, row int, r rune, style tcell.Style) {
	if col < 0 || col >= s.cols || row < 0 || row >= s.rows {
		return
	}
	s.mu.Lock()
	x, y := s.offX+col, s.offY+row
	s.mu.Unlock()
	s.screen.SetContent(x, y, r, nil, style)
}

// DrawText centres text on the grid.
func (s *ScreenSurface) DrawText(text string) {
	lines := strings.Split(text, "\n")
	top := (s.rows - len(lines)) / 2
	for i, line := range lines {
		runes := []rune(line)
		left := max((s.cols-len(runes))/2, 0)
		for j, r := range runes {
			s.put(left+j, top+i, r, s.style)
		}
	}
}

func (s *ScreenSurface) Present() error {
	s.mu.Lock()
	status := s.status
	s.mu.Unlock()
	if status != "" {
		_, h := s.screen.Size()
		for i, r := range []rune(status) {
			s.screen.SetContent(i, h-1, r, nil, s.dim)
		}
	}
	s.screen.Show()
	return nil
}

// ColorFromSGR converts an SGR foreground code (30-37, 90-97, 38;5;N or
// 38;2;R;G;B) to a tcell colour. Unknown codes map to ColorDefault.
func ColorFromSGR(code string) tcell.Color {
	if !asciiportrait.IsForegroundSGR(code) {
		return tcell.ColorDefault
	}
	parts := strings.Split(code, ";")
	n := make([]int, len(parts))
	for i, p := range parts {
		n[i], _ = strconv.Atoi(p)
	}
	switch {
	case len(n) == 1 && n[0] >= 90:
		return tcell.PaletteColor(n[0] - 90 + 8)
	case len(n) == 1:
		return tcell.PaletteColor(n[0] - 30)
	case len(n) == 3:
		return tcell.PaletteColor(n[2])
	default:
		return tcell.NewRGBColor(int32(n[2]), int32(n[3]), int32(n[4]))
	}
}
