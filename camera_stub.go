//go:build !gocv

package asciiportrait

import "image"

func captureFrame(int) (image.Image, error) {
	return nil, ErrCameraUnavailable
}
