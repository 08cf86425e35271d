package protocol

import "encoding/binary"

// Resolution is the control payload the server sends when a session starts
// and whenever the captured screen size changes. The client needs it to map
// local cursor coordinates into the remote screen's space.
type Resolution struct {
	Width  uint32
	Height uint32
}

const resolutionSize = 8

// Marshal encodes the announcement as two big-endian uint32s.
func (r Resolution) Marshal() []byte {
	buf := make([]byte, resolutionSize)
	binary.BigEndian.PutUint32(buf[0:], r.Width)
	binary.BigEndian.PutUint32(buf[4:], r.Height)
	return buf
}

// ParseResolution decodes a control payload.
func ParseResolution(payload []byte) (Resolution, error) {
	if len(payload) != resolutionSize {
		return Resolution{}, Errorf("control payload is %d bytes, want %d", len(payload), resolutionSize)
	}
	return Resolution{
		Width:  binary.BigEndian.Uint32(payload[0:]),
		Height: binary.BigEndian.Uint32(payload[4:]),
	}, nil
}
