package asciiportrait

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/wbrown/asciiportrait/imageutil"
)

func encodedPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := imageutil.EncodeImage(&buf, imageutil.CreateCheckerboardImage(32, 32, 8), "png"); err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}
	return buf.Bytes()
}

func TestParseSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg     string
		want    Source
		wantErr bool
	}{
		{arg: "face.png", want: FileSource{Path: "face.png"}},
		{arg: "https://example.com/me.jpg", want: URLSource{URL: "https://example.com/me.jpg"}},
		{arg: "http://localhost/me.png", want: URLSource{URL: "http://localhost/me.png"}},
		{arg: "camera:0", want: CameraSource{Device: 0}},
		{arg: "camera:2", want: CameraSource{Device: 2}},
		{arg: "camera:-1", wantErr: true},
		{arg: "camera:front", wantErr: true},
		{arg: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseSource(tt.arg)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSource(%q) should fail", tt.arg)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSource(%q): %v", tt.arg, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSource(%q) = %#v, want %#v", tt.arg, got, tt.want)
		}
	}

	stdin, err := ParseSource("-")
	if err != nil {
		t.Fatalf("ParseSource(-): %v", err)
	}
	if _, ok := stdin.(ReaderSource); !ok || stdin.String() != "stdin" {
		t.Errorf("ParseSource(-) = %#v, want stdin reader", stdin)
	}
}

func TestFileSource(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "board.png")
	if err := imageutil.SaveImage(imageutil.CreateCheckerboardImage(16, 16, 4), path); err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	img, err := FileSource{Path: path}.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Errorf("decoded width %d, want 16", img.Bounds().Dx())
	}

	img, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.png")}.Open(context.Background())
	if err == nil || img != nil {
		t.Errorf("missing file returned %v, %v", img, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (FileSource{Path: path}).Open(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled open error = %v", err)
	}
}

func TestURLSource(t *testing.T) {
	t.Parallel()

	body := encodedPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/me.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(body)
		case "/garbage":
			w.Write([]byte("<html>not an image</html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := URLSource{URL: srv.URL + "/me.png", Client: srv.Client()}
	img, err := src.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 32 {
		t.Errorf("decoded %v, want 32x32", img.Bounds())
	}

	for _, path := range []string{"/missing.png", "/garbage"} {
		img, err := URLSource{URL: srv.URL + path, Client: srv.Client()}.Open(context.Background())
		if err == nil || img != nil {
			t.Errorf("%s: got %v, %v; want an error", path, img, err)
		}
	}

	truncated := URLSource{URL: srv.URL + "/me.png", Client: srv.Client(), MaxBytes: 16}
	if _, err := truncated.Open(context.Background()); err == nil {
		t.Error("a body cut at MaxBytes should not decode")
	}
}

func TestReaderSource(t *testing.T) {
	t.Parallel()

	src := ReaderSource{Reader: bytes.NewReader(encodedPNG(t))}
	if src.String() != "reader" {
		t.Errorf("String() = %q", src.String())
	}
	img, err := src.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if img.Bounds().Dx() != 32 {
		t.Errorf("decoded width %d", img.Bounds().Dx())
	}
}

func TestCameraSourceName(t *testing.T) {
	t.Parallel()

	if got := (CameraSource{Device: 3}).String(); got != "camera:3" {
		t.Errorf("String() = %q", got)
	}
}
