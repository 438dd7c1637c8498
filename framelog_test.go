package asciiportrait

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zstd"
)

func TestFrameLogRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	clock := NewMockClock(time.Unix(0, 0))
	m := NewMetrics(12)
	s, err := NewFrameLogSurface(&buf, 4, 2, m, clock)
	if err != nil {
		t.Fatalf("NewFrameLogSurface: %v", err)
	}

	g := NewGrid(4, 2)
	for i := 0; i < 3; i++ {
		g.Set(i, i%2, MaxGlyph)
		if err := renderFrame(s, g, m); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		clock.Advance(40 * time.Millisecond)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	log, err := ReadFrameLog(&buf)
	if err != nil {
		t.Fatalf("ReadFrameLog: %v", err)
	}
	if log.ID != s.ID() || log.Width != 4 || log.Height != 2 {
		t.Errorf("header = %v %dx%d, want %v 4x2", log.ID, log.Width, log.Height, s.ID())
	}
	want := []LoggedFrame{
		{Offset: 0, Lines: []string{"@   ", "    "}},
		{Offset: 40 * time.Millisecond, Lines: []string{"@   ", " @  "}},
		{Offset: 80 * time.Millisecond, Lines: []string{"@ @ ", " @  "}},
	}
	if diff := cmp.Diff(want, log.Frames); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}
	if log.Duration() != 80*time.Millisecond {
		t.Errorf("Duration() = %v", log.Duration())
	}
	if s.Frames() != 3 {
		t.Errorf("Frames() = %d", s.Frames())
	}
}

func compressed(t *testing.T, text string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	enc.Write([]byte(text))
	enc.Close()
	return &buf
}

func TestReadFrameLogRejectsBadInput(t *testing.T) {
	t.Parallel()

	inputs := map[string]*bytes.Buffer{
		"not zstd":       bytes.NewBufferString("plain text"),
		"empty":          compressed(t, ""),
		"bad magic":      compressed(t, "PFLOG9 0b3f9c1e-6c39-4a53-9a43-2f3b8d5e6a71 2 1\n"),
		"bad size":       compressed(t, "PFLOG1 0b3f9c1e-6c39-4a53-9a43-2f3b8d5e6a71 0 1\n"),
		"bad frame line": compressed(t, "PFLOG1 0b3f9c1e-6c39-4a53-9a43-2f3b8d5e6a71 2 1\nX 0\n@@\n"),
		"truncated":      compressed(t, "PFLOG1 0b3f9c1e-6c39-4a53-9a43-2f3b8d5e6a71 2 2\nF 0\n@@\n"),
	}
	for name, in := range inputs {
		if _, err := ReadFrameLog(in); !errors.Is(err, ErrBadFrameLog) {
			t.Errorf("%s: error = %v, want ErrBadFrameLog", name, err)
		}
	}
}

func TestFrameLogReplay(t *testing.T) {
	t.Parallel()

	log := &FrameLog{
		Width:  2,
		Height: 2,
		Frames: []LoggedFrame{
			{Offset: 0, Lines: []string{"@ ", "  "}},
			{Offset: 20 * time.Millisecond, Lines: []string{"@@", " ."}},
		},
	}
	var out bytes.Buffer
	if err := log.Replay(context.Background(), &out, 10); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	got := out.String()
	want := hideCursor + clearScreen +
		cursorHome + "@ \r\n  " +
		cursorHome + "@@\r\n ." +
		resetAttrs + showCursor + "\n"
	if got != want {
		t.Errorf("Replay wrote %q, want %q", got, want)
	}
}

func TestFrameLogReplayCancel(t *testing.T) {
	t.Parallel()

	log := &FrameLog{
		Width:  1,
		Height: 1,
		Frames: []LoggedFrame{
			{Offset: 0, Lines: []string{"@"}},
			{Offset: time.Hour, Lines: []string{"."}},
		},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err := log.Replay(ctx, &out, 1)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Replay error = %v, want deadline exceeded", err)
	}
	if strings.Contains(out.String(), ".") {
		t.Error("cancelled replay wrote the late frame")
	}
	if !strings.HasSuffix(out.String(), showCursor+"\n") {
		t.Error("cancelled replay should still restore the cursor")
	}
}
