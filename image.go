package asciiportrait

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"github.com/wbrown/asciiportrait/imageutil"
)

var (
	// DefaultBackground and DefaultForeground are the raster colours:
	// dark glyphs on paper, so the reveal reads like the photograph.
	DefaultBackground = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	DefaultForeground = color.RGBA{R: 24, G: 24, B: 24, A: 255}
)

// RasterSurface draws glyphs into an in-memory RGBA image using a
// GlyphAtlas.
type RasterSurface struct {
	Background color.Color
	Foreground color.Color

	// OnPresent, if set, receives the finished frame. The image is reused
	// by the next Clear, so callers must copy what they keep.
	OnPresent func(frame *image.RGBA) error

	img     *image.RGBA
	atlas   *GlyphAtlas
	metrics Metrics
	cols    int
	rows    int
	frames  int
}

// NewRasterSurface creates a surface sized for a cols x rows grid. The
// image is ceil(cols x CellWidth) by ceil(rows x CellHeight) pixels.
func NewRasterSurface(cols, rows int, m Metrics, atlas *GlyphAtlas) *RasterSurface {
	w, h := m.Size(cols, rows)
	s := &RasterSurface{
		Background: DefaultBackground,
		Foreground: DefaultForeground,
		img:        image.NewRGBA(image.Rect(0, 0, w, h)),
		atlas:      atlas,
		metrics:    m,
		cols:       cols,
		rows:       rows,
	}
	s.Clear()
	return s
}

func (s *RasterSurface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.Background), image.Point{}, draw.Src)
}

func (s *RasterSurface) DrawGlyph(x, y float64, r rune) {
	s.atlas.Draw(s.img, int(math.Round(x)), int(math.Round(y)), r, s.Foreground)
}

// DrawText centres each line of text on the grid.
func (s *RasterSurface) DrawText(text string) {
	lines := strings.Split(text, "\n")
	top := (s.rows - len(lines)) / 2
	for i, line := range lines {
		runes := []rune(line)
		left := (s.cols - len(runes)) / 2
		if left < 0 {
			left = 0
		}
		for j, r := range runes {
			x, y := s.metrics.Origin(left+j, top+i)
			s.DrawGlyph(x, y, r)
		}
	}
}

func (s *RasterSurface) Present() error {
	s.frames++
	if s.OnPresent != nil {
		return s.OnPresent(s.img)
	}
	return nil
}

// Image returns the frame buffer.
func (s *RasterSurface) Image() *image.RGBA { return s.img }

// Frames returns how many frames have been presented.
func (s *RasterSurface) Frames() int { return s.frames }

// SavePNG writes the current frame buffer to path. The format follows the
// file extension.
func (s *RasterSurface) SavePNG(path string) error {
	return imageutil.SaveImage(s.img, path)
}

// DefaultFinalHold is how long the last frame of a recording is shown.
const DefaultFinalHold = time.Second

// WebPRecorder collects presented raster frames and encodes them as an
// animated, lossless WebP. Identical consecutive frames are merged.
type WebPRecorder struct {
	// FinalHold is the display time of the last frame.
	FinalHold time.Duration
	// LoopCount is the number of plays, 0 for infinite.
	LoopCount uint16

	clock     Clock
	frames    []image.Image
	durations []uint
	last      time.Time
}

// NewWebPRecorder creates a recorder that times frames with clock.
func NewWebPRecorder(clock Clock) *WebPRecorder {
	return &WebPRecorder{
		FinalHold: DefaultFinalHold,
		clock:     clock,
	}
}

// Capture records frame; it has the signature of RasterSurface.OnPresent.
func (r *WebPRecorder) Capture(frame *image.RGBA) error {
	now := r.clock.Now()
	if n := len(r.frames); n > 0 {
		r.durations[n-1] += uint(now.Sub(r.last).Milliseconds())
		if prev, ok := r.frames[n-1].(*image.RGBA); ok && bytes.Equal(prev.Pix, frame.Pix) {
			r.last = now
			return nil
		}
	}
	c := image.NewRGBA(frame.Bounds())
	copy(c.Pix, frame.Pix)
	r.frames = append(r.frames, c)
	r.durations = append(r.durations, 0)
	r.last = now
	return nil
}

// Len returns the number of distinct frames recorded.
func (r *WebPRecorder) Len() int { return len(r.frames) }

// Encode writes the animation to w.
func (r *WebPRecorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrNoImage
	}
	durations := make([]uint, len(r.durations))
	copy(durations, r.durations)
	durations[len(durations)-1] += uint(r.FinalHold.Milliseconds())
	for i, d := range durations {
		if d == 0 {
			durations[i] = 1
		}
	}
	return nativewebp.EncodeAll(w, &nativewebp.Animation{
		Images:          r.frames,
		Durations:       durations,
		Disposals:       make([]uint, len(r.frames)),
		LoopCount:       r.LoopCount,
		BackgroundColor: 0xffffffff,
	}, nil)
}
