package display

import "image"

// FrameSink receives decoded frames and resolution announcements from the
// network goroutine. Implementations must make the hand-off thread-safe;
// the UI consumes the posted frame on its own loop.
type FrameSink interface {
	SetFrame(img *image.RGBA)
	SetRemoteSize(width, height int)
}
