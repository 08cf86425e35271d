package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// PacketType is the 1-byte tag that opens every packet on the wire.
type PacketType byte

const (
	PacketFrame   PacketType = 0
	PacketInput   PacketType = 1
	PacketControl PacketType = 2
)

func (t PacketType) String() string {
	switch t {
	case PacketFrame:
		return "frame"
	case PacketInput:
		return "input"
	case PacketControl:
		return "control"
	}
	return fmt.Sprintf("unknown(%d)", byte(t))
}

// Wire layout: 1-byte type tag + 4-byte big-endian payload length + payload.
const (
	headerSize = 5

	// MaxPayload caps the advertised payload length. Anything larger is
	// treated as a corrupted stream, not a legitimate frame.
	MaxPayload = 16 << 20
)

// Packet is one length-prefixed unit on the wire.
type Packet struct {
	Type    PacketType
	Payload []byte
}

// Error reports a malformed packet or event. It is terminal for the
// session.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "protocol: " + e.Reason
}

// Errorf builds a protocol violation error.
func Errorf(format string, args ...interface{}) *Error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

// WritePacket serializes p to w as a single header write followed by the
// payload. The caller is responsible for serializing concurrent writers.
func WritePacket(w io.Writer, p Packet) error {
	if len(p.Payload) > MaxPayload {
		return Errorf("payload of %d bytes exceeds limit", len(p.Payload))
	}
	var hdr [headerSize]byte
	hdr[0] = byte(p.Type)
	binary.BigEndian.PutUint32(hdr[1:], uint32(len(p.Payload)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if len(p.Payload) == 0 {
		return nil
	}
	_, err := w.Write(p.Payload)
	return err
}

// ReadPacket reads exactly one packet from r, accumulating across however
// the underlying reads happen to be chunked. The payload is not touched
// until all of its bytes are in. io.EOF before the first header byte means
// a clean close; anything mid-packet surfaces as io.ErrUnexpectedEOF.
func ReadPacket(r io.Reader) (Packet, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Packet{}, err
	}
	typ := PacketType(hdr[0])
	switch typ {
	case PacketFrame, PacketInput, PacketControl:
	default:
		return Packet{}, Errorf("bad packet type 0x%02x", hdr[0])
	}
	n := binary.BigEndian.Uint32(hdr[1:])
	if n > MaxPayload {
		return Packet{}, Errorf("payload length %d exceeds limit", n)
	}
	p := Packet{Type: typ}
	if n > 0 {
		p.Payload = make([]byte, n)
		if _, err := io.ReadFull(r, p.Payload); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return Packet{}, err
		}
	}
	return p, nil
}
