package asciiportrait

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	ESC = "\u001b"

	hideCursor  = ESC + "[?25l"
	showCursor  = ESC + "[?25h"
	clearScreen = ESC + "[2J"
	cursorHome  = ESC + "[H"
	resetAttrs  = ESC + "[0m"
)

// cellBuffer is a text grid addressed in surface units.
type cellBuffer struct {
	metrics Metrics
	cols    int
	rows    int
	cells   []rune
}

func newCellBuffer(cols, rows int, m Metrics) cellBuffer {
	b := cellBuffer{metrics: m, cols: cols, rows: rows, cells: make([]rune, cols*rows)}
	b.Clear()
	return b
}

func (b *cellBuffer) Clear() {
	for i := range b.cells {
		b.cells[i] = ' '
	}
}

func (b *cellBuffer) DrawGlyph(x, y float64, r rune) {
	col, row := b.metrics.Cell(x, y)
	b.set(col, row, r)
}

func (b *cellBuffer) set(col, row int, r rune) {
	if col < 0 || col >= b.cols || row < 0 || row >= b.rows {
		return
	}
	b.cells[row*b.cols+col] = r
}

// DrawText centres each line of text on the grid.
func (b *cellBuffer) DrawText(text string) {
	lines := strings.Split(text, "\n")
	top := (b.rows - len(lines)) / 2
	for i, line := range lines {
		runes := []rune(line)
		left := (b.cols - len(runes)) / 2
		if left < 0 {
			left = 0
		}
		for j, r := range runes {
			b.set(left+j, top+i, r)
		}
	}
}

// Lines returns the rows drawn since the last Clear.
func (b *cellBuffer) Lines() []string {
	lines := make([]string, b.rows)
	for row := range lines {
		lines[row] = string(b.cells[row*b.cols : (row+1)*b.cols])
	}
	return lines
}

// ANSISurface renders frames as text to a terminal stream. Every Present
// homes the cursor and rewrites the whole grid in place.
type ANSISurface struct {
	cellBuffer
	w     io.Writer
	color string
	sb    strings.Builder
}

// NewANSISurface creates a surface for a cols x rows grid. fg is an SGR
// foreground code such as "37" or "38;5;250"; empty leaves the terminal
// colour alone.
func NewANSISurface(w io.Writer, cols, rows int, m Metrics, fg string) (*ANSISurface, error) {
	if fg != "" && !IsForegroundSGR(fg) {
		return nil, fmt.Errorf("not a foreground colour code: %q", fg)
	}
	return &ANSISurface{
		cellBuffer: newCellBuffer(cols, rows, m),
		w:          w,
		color:      fg,
	}, nil
}

// Init hides the cursor and clears the screen.
func (s *ANSISurface) Init() error {
	_, err := io.WriteString(s.w, hideCursor+clearScreen+cursorHome)
	return err
}

// Restore resets attributes and shows the cursor again.
func (s *ANSISurface) Restore() error {
	_, err := io.WriteString(s.w, resetAttrs+showCursor+"\n")
	return err
}

func (s *ANSISurface) Present() error {
	s.sb.Reset()
	s.sb.WriteString(cursorHome)
	if s.color != "" {
		s.sb.WriteString(formatSGR(s.color))
	}
	for row := 0; row < s.rows; row++ {
		if row > 0 {
			s.sb.WriteString("\r\n")
		}
		for _, r := range s.cells[row*s.cols : (row+1)*s.cols] {
			s.sb.WriteRune(r)
		}
	}
	if s.color != "" {
		s.sb.WriteString(resetAttrs)
	}
	_, err := io.WriteString(s.w, s.sb.String())
	return err
}

// RenderANSI renders g as plain text lines, wrapped in the SGR colour fg
// when it is set.
func RenderANSI(g *Grid, fg string) string {
	var sb strings.Builder
	for _, line := range g.Lines() {
		if fg != "" {
			sb.WriteString(formatSGR(fg))
		}
		sb.WriteString(line)
		if fg != "" {
			sb.WriteString(resetAttrs)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func formatSGR(code string) string {
	return ESC + "[" + code + "m"
}

// IsForegroundSGR reports whether code is a foreground colour selector:
// 30-37, 90-97, 38;5;N or 38;2;R;G;B.
func IsForegroundSGR(code string) bool {
	parts := strings.Split(code, ";")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return false
		}
		nums[i] = n
	}
	switch {
	case len(nums) == 1:
		return (nums[0] >= 30 && nums[0] <= 37) || (nums[0] >= 90 && nums[0] <= 97)
	case nums[0] == 38 && len(nums) == 3:
		return nums[1] == 5
	case nums[0] == 38 && len(nums) == 5:
		return nums[1] == 2
	}
	return false
}
