package imageutil

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// decoder matches a format by its leading bytes.
type decoder struct {
	name   string
	match  func(head []byte) bool
	decode func(io.Reader) (image.Image, error)
}

func prefix(magic ...string) func([]byte) bool {
	return func(head []byte) bool {
		for _, m := range magic {
			if bytes.HasPrefix(head, []byte(m)) {
				return true
			}
		}
		return false
	}
}

// decoders are tried in order. TGA has no magic number and is the
// fallback. Do not route through image.Decode: the tga package registers
// itself with an empty magic string, which matches any input.
var decoders = []decoder{
	{"png", prefix("\x89PNG\r\n\x1a\n"), png.Decode},
	{"jpeg", prefix("\xff\xd8"), jpeg.Decode},
	{"gif", prefix("GIF87a", "GIF89a"), gif.Decode},
	{"bmp", prefix("BM"), bmp.Decode},
	{"tiff", prefix("II*\x00", "MM\x00*"), tiff.Decode},
	{"webp", func(head []byte) bool {
		return len(head) >= 12 && string(head[:4]) == "RIFF" && string(head[8:12]) == "WEBP"
	}, webp.Decode},
}

// DecodeImage decodes a raster image from r and reports its format.
// Supports PNG, JPEG, GIF, TIFF, BMP, WebP and TGA.
func DecodeImage(r io.Reader) (*RGBAImage, string, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(12)

	format, decode := "tga", tga.Decode
	for _, d := range decoders {
		if d.match(head) {
			format, decode = d.name, d.decode
			break
		}
	}
	img, err := decode(br)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s image: %w", format, err)
	}
	return RGBAImageFromImage(img), format, nil
}

// LoadImage loads an image from the specified path.
func LoadImage(path string) (*RGBAImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := DecodeImage(f)
	return img, err
}

// EncodeImage writes img to w in the named format
// ("png", "jpeg", "gif", "bmp", "tiff", "tga" or "webp").
func EncodeImage(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case "gif":
		return gif.Encode(w, img, nil)
	case "bmp":
		return bmp.Encode(w, img)
	case "tif", "tiff":
		return tiff.Encode(w, img, nil)
	case "tga":
		return tga.Encode(w, img)
	case "webp":
		return nativewebp.Encode(w, img, nil)
	default:
		return png.Encode(w, img)
	}
}

// SaveImage saves an image to the specified path.
// Format is determined by file extension; unknown extensions write PNG.
func SaveImage(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if err := EncodeImage(f, img, ext); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
