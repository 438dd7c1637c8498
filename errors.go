package asciiportrait

import "errors"

var (
	// ErrNilSurface is returned by New when no drawing surface is given.
	ErrNilSurface = errors.New("asciiportrait: nil surface")

	// ErrInvalidSize is returned for non-positive grid dimensions.
	ErrInvalidSize = errors.New("asciiportrait: invalid grid size")

	// ErrNoImage is returned when an operation needs a decoded image and
	// none is available.
	ErrNoImage = errors.New("asciiportrait: no image")

	// ErrCameraUnavailable is returned by CameraSource in builds without
	// camera support or when the device cannot be opened.
	ErrCameraUnavailable = errors.New("asciiportrait: camera unavailable")

	// ErrBadFrameLog is returned when a frame log is truncated or was not
	// written by FrameLogSurface.
	ErrBadFrameLog = errors.New("asciiportrait: bad frame log")
)
