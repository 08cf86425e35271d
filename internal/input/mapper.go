package input

import "math"

// FitTransform returns the scale and offsets that letterbox a remote frame
// into a local view while preserving aspect ratio.
func FitTransform(viewW, viewH, remoteW, remoteH float64) (scale, offsetX, offsetY float64) {
	scale = math.Min(viewW/remoteW, viewH/remoteH)
	offsetX = (viewW - remoteW*scale) / 2
	offsetY = (viewH - remoteH*scale) / 2
	return
}

// ToRemote maps a cursor position in view coordinates back into the remote
// screen's coordinate space, undoing the letterbox transform and clamping
// to the remote bounds. Positions over the letterbox bars clamp to the
// nearest edge.
func ToRemote(viewW, viewH, remoteW, remoteH float64, x, y float64) (int32, int32) {
	scale, offsetX, offsetY := FitTransform(viewW, viewH, remoteW, remoteH)
	rx := (x - offsetX) / scale
	ry := (y - offsetY) / scale
	return clamp(rx, remoteW), clamp(ry, remoteH)
}

func clamp(v, limit float64) int32 {
	if v < 0 {
		return 0
	}
	if v > limit-1 {
		return int32(limit - 1)
	}
	return int32(v)
}
