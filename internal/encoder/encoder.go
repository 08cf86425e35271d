package encoder

import "image"

// Encoder encodes an image into bytes. SetQuality takes effect on the next
// Encode call, which is how the adaptive controller drives it between
// frames.
type Encoder interface {
	Encode(img *image.RGBA) ([]byte, error)
	SetQuality(quality int)
}
