//go:build !darwin

package capture

import (
	"image"

	"github.com/pkg/errors"
)

// ScreenCapturer is only implemented on macOS.
type ScreenCapturer struct{}

func NewScreenCapturer(displayIndex int) (*ScreenCapturer, error) {
	return nil, errors.New("screen capture is not supported on this platform")
}

func (c *ScreenCapturer) Capture() (*image.RGBA, error) {
	return nil, errors.New("screen capture unavailable")
}
