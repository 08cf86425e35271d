package capture

import (
	"image"
	"time"
)

// Capturer grabs one screen image per call. The capture loop drives the
// pacing; Capture itself does not block on a frame clock.
type Capturer interface {
	Capture() (*image.RGBA, error)
}

// Frame is one captured screen image plus metadata. It lives from capture
// until its encoded bytes are handed to the transport, then is dropped.
type Frame struct {
	Image     *image.RGBA
	Width     int
	Height    int
	Timestamp time.Time
}
