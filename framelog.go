package asciiportrait

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// frameLogMagic opens every frame log.
const frameLogMagic = "PFLOG1"

// FrameLogSurface records every presented frame, with its time offset
// from the first frame, to a zstd compressed text stream. Close must be
// called to flush the stream.
type FrameLogSurface struct {
	cellBuffer

	id     uuid.UUID
	clock  Clock
	enc    *zstd.Encoder
	bw     *bufio.Writer
	start  time.Time
	frames int
}

// NewFrameLogSurface starts a frame log on w for a cols x rows grid.
func NewFrameLogSurface(w io.Writer, cols, rows int, m Metrics, clock Clock) (*FrameLogSurface, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	s := &FrameLogSurface{
		cellBuffer: newCellBuffer(cols, rows, m),
		id:         uuid.New(),
		clock:      clock,
		enc:        enc,
		bw:         bufio.NewWriter(enc),
	}
	if _, err := fmt.Fprintf(s.bw, "%s %s %d %d\n", frameLogMagic, s.id, cols, rows); err != nil {
		enc.Close()
		return nil, err
	}
	return s, nil
}

// ID returns the identifier written in the log header.
func (s *FrameLogSurface) ID() uuid.UUID { return s.id }

// Frames returns how many frames have been written.
func (s *FrameLogSurface) Frames() int { return s.frames }

func (s *FrameLogSurface) Present() error {
	now := s.clock.Now()
	if s.frames == 0 {
		s.start = now
	}
	s.frames++
	if _, err := fmt.Fprintf(s.bw, "F %d\n", now.Sub(s.start).Milliseconds()); err != nil {
		return err
	}
	for _, line := range s.Lines() {
		if _, err := s.bw.WriteString(line); err != nil {
			return err
		}
		if err := s.bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and finishes the compressed stream. It does not close the
// underlying writer.
func (s *FrameLogSurface) Close() error {
	if err := s.bw.Flush(); err != nil {
		s.enc.Close()
		return err
	}
	return s.enc.Close()
}

// LoggedFrame is one recorded frame.
type LoggedFrame struct {
	Offset time.Duration
	Lines  []string
}

// FrameLog is a decoded frame log.
type FrameLog struct {
	ID     uuid.UUID
	Width  int
	Height int
	Frames []LoggedFrame
}

// ReadFrameLog decodes a log written by FrameLogSurface.
func ReadFrameLog(r io.Reader) (*FrameLog, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFrameLog, err)
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if !sc.Scan() {
		return nil, fmt.Errorf("%w: missing header", ErrBadFrameLog)
	}
	log, err := parseFrameLogHeader(sc.Text())
	if err != nil {
		return nil, err
	}

	for sc.Scan() {
		offset, err := parseFrameHeader(sc.Text())
		if err != nil {
			return nil, err
		}
		frame := LoggedFrame{Offset: offset, Lines: make([]string, log.Height)}
		for i := range frame.Lines {
			if !sc.Scan() {
				return nil, fmt.Errorf("%w: frame %d truncated", ErrBadFrameLog, len(log.Frames)+1)
			}
			frame.Lines[i] = sc.Text()
		}
		log.Frames = append(log.Frames, frame)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFrameLog, err)
	}
	return log, nil
}

func parseFrameLogHeader(line string) (*FrameLog, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 || fields[0] != frameLogMagic {
		return nil, fmt.Errorf("%w: bad header %q", ErrBadFrameLog, line)
	}
	id, err := uuid.Parse(fields[1])
	if err != nil {
		return nil, fmt.Errorf("%w: bad id: %v", ErrBadFrameLog, err)
	}
	w, errW := strconv.Atoi(fields[2])
	h, errH := strconv.Atoi(fields[3])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: bad size %s x %s", ErrBadFrameLog, fields[2], fields[3])
	}
	return &FrameLog{ID: id, Width: w, Height: h}, nil
}

func parseFrameHeader(line string) (time.Duration, error) {
	ms, ok := strings.CutPrefix(line, "F ")
	if !ok {
		return 0, fmt.Errorf("%w: expected frame header, got %q", ErrBadFrameLog, line)
	}
	n, err := strconv.ParseInt(ms, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: bad offset %q", ErrBadFrameLog, ms)
	}
	return time.Duration(n) * time.Millisecond, nil
}

// Duration returns the offset of the last frame.
func (l *FrameLog) Duration() time.Duration {
	if len(l.Frames) == 0 {
		return 0
	}
	return l.Frames[len(l.Frames)-1].Offset
}

// Replay writes each frame to w at its recorded offset, homing the cursor
// before every frame. speed scales playback; values <= 0 mean 1.
func (l *FrameLog) Replay(ctx context.Context, w io.Writer, speed float64) (err error) {
	if speed <= 0 {
		speed = 1
	}
	if _, err := io.WriteString(w, hideCursor+clearScreen); err != nil {
		return err
	}
	defer func() {
		if _, rerr := io.WriteString(w, resetAttrs+showCursor+"\n"); err == nil {
			err = rerr
		}
	}()

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	start := time.Now()
	var sb strings.Builder
	for _, f := range l.Frames {
		due := time.Duration(float64(f.Offset) / speed)
		if wait := due - time.Since(start); wait > 0 {
			timer.Reset(wait)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		sb.Reset()
		sb.WriteString(cursorHome)
		sb.WriteString(strings.Join(f.Lines, "\r\n"))
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}
