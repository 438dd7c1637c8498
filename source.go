package asciiportrait

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/wbrown/asciiportrait/imageutil"
)

// DefaultMaxImageBytes caps how much a URLSource will download.
const DefaultMaxImageBytes = 32 << 20

// Source yields the image an Animator reveals.
type Source interface {
	Open(ctx context.Context) (image.Image, error)
	String() string
}

// FileSource decodes an image file from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Open(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := imageutil.LoadImage(s.Path)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (s FileSource) String() string { return s.Path }

// URLSource fetches an image over HTTP(S).
type URLSource struct {
	URL      string
	Client   *http.Client // http.DefaultClient when nil
	MaxBytes int64        // DefaultMaxImageBytes when zero
}

func (s URLSource) Open(ctx context.Context) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	limit := s.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxImageBytes
	}
	return decode(io.LimitReader(resp.Body, limit))
}

func (s URLSource) String() string { return s.URL }

// ReaderSource decodes an image from an already open stream, such as
// standard input. It can be opened once.
type ReaderSource struct {
	Name   string
	Reader io.Reader
}

func (s ReaderSource) Open(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decode(s.Reader)
}

func (s ReaderSource) String() string {
	if s.Name == "" {
		return "reader"
	}
	return s.Name
}

// CameraSource grabs a single frame from a capture device. It needs a
// build with the gocv tag.
type CameraSource struct {
	Device int
}

func (s CameraSource) Open(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return captureFrame(s.Device)
}

func (s CameraSource) String() string { return "camera:" + strconv.Itoa(s.Device) }

func decode(r io.Reader) (image.Image, error) {
	img, _, err := imageutil.DecodeImage(r)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// ParseSource interprets a command line source argument: "-" reads
// standard input, "camera:N" opens capture device N, http and https URLs
// are fetched, anything else is a file path.
func ParseSource(arg string) (Source, error) {
	switch {
	case arg == "":
		return nil, fmt.Errorf("empty source")
	case arg == "-":
		return ReaderSource{Name: "stdin", Reader: os.Stdin}, nil
	case strings.HasPrefix(arg, "http://"), strings.HasPrefix(arg, "https://"):
		return URLSource{URL: arg}, nil
	case strings.HasPrefix(arg, "camera:"):
		n, err := strconv.Atoi(strings.TrimPrefix(arg, "camera:"))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid camera device in %q", arg)
		}
		return CameraSource{Device: n}, nil
	default:
		return FileSource{Path: arg}, nil
	}
}
