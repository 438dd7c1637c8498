//go:build gocv

package asciiportrait

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

func captureFrame(device int) (image.Image, error) {
	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}
	defer capture.Close()

	mat := gocv.NewMat()
	defer mat.Close()

	// The first frames of many webcams are dark while exposure settles.
	for i := 0; i < 5; i++ {
		if ok := capture.Read(&mat); !ok {
			return nil, fmt.Errorf("%w: device %d returned no frame", ErrCameraUnavailable, device)
		}
	}
	if mat.Empty() {
		return nil, fmt.Errorf("%w: device %d returned an empty frame", ErrCameraUnavailable, device)
	}
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert frame: %w", err)
	}
	return img, nil
}
