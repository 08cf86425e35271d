package input

import (
	"encoding/binary"
	"fmt"

	"github.com/rootuserdj/DJ-Remote-Desktop/internal/protocol"
)

// EventType is the variant tag that opens every InputEvent payload.
type EventType byte

const (
	EventMouseMove   EventType = 0
	EventMouseButton EventType = 1
	EventMouseScroll EventType = 2
	EventKey         EventType = 3
)

func (t EventType) String() string {
	switch t {
	case EventMouseMove:
		return "mouse_move"
	case EventMouseButton:
		return "mouse_button"
	case EventMouseScroll:
		return "mouse_scroll"
	case EventKey:
		return "key"
	}
	return fmt.Sprintf("unknown(%d)", byte(t))
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = 0
	MouseButtonRight  MouseButton = 1
	MouseButtonMiddle MouseButton = 2
)

// Event is one input event. Which fields are meaningful depends on Type;
// coordinates are always in the remote screen's space.
type Event struct {
	Type EventType

	// EventMouseMove
	X, Y int32

	// EventMouseButton
	Button MouseButton

	// EventMouseButton, EventKey
	Pressed bool

	// EventMouseScroll
	DX, DY int32

	// EventKey
	Code uint16
}

func MouseMove(x, y int32) Event {
	return Event{Type: EventMouseMove, X: x, Y: y}
}

func MouseClick(button MouseButton, pressed bool) Event {
	return Event{Type: EventMouseButton, Button: button, Pressed: pressed}
}

func Scroll(dx, dy int32) Event {
	return Event{Type: EventMouseScroll, DX: dx, DY: dy}
}

func Key(code uint16, pressed bool) Event {
	return Event{Type: EventKey, Code: code, Pressed: pressed}
}

// Wire sizes per variant, tag byte included.
const (
	mouseMoveSize   = 9
	mouseButtonSize = 3
	mouseScrollSize = 9
	keySize         = 4
)

// Marshal encodes the event as its variant tag followed by fixed-width
// big-endian fields.
func (e Event) Marshal() []byte {
	switch e.Type {
	case EventMouseMove:
		buf := make([]byte, mouseMoveSize)
		buf[0] = byte(e.Type)
		binary.BigEndian.PutUint32(buf[1:], uint32(e.X))
		binary.BigEndian.PutUint32(buf[5:], uint32(e.Y))
		return buf
	case EventMouseButton:
		return []byte{byte(e.Type), byte(e.Button), boolByte(e.Pressed)}
	case EventMouseScroll:
		buf := make([]byte, mouseScrollSize)
		buf[0] = byte(e.Type)
		binary.BigEndian.PutUint32(buf[1:], uint32(e.DX))
		binary.BigEndian.PutUint32(buf[5:], uint32(e.DY))
		return buf
	case EventKey:
		buf := make([]byte, keySize)
		buf[0] = byte(e.Type)
		binary.BigEndian.PutUint16(buf[1:], e.Code)
		buf[3] = boolByte(e.Pressed)
		return buf
	}
	return []byte{byte(e.Type)}
}

// Unmarshal decodes an InputEvent packet payload. A bad tag or a length
// that does not match the variant is a protocol violation.
func Unmarshal(payload []byte) (Event, error) {
	if len(payload) == 0 {
		return Event{}, protocol.Errorf("empty input event")
	}
	typ := EventType(payload[0])
	switch typ {
	case EventMouseMove:
		if len(payload) != mouseMoveSize {
			return Event{}, badLength(typ, len(payload), mouseMoveSize)
		}
		return Event{
			Type: typ,
			X:    int32(binary.BigEndian.Uint32(payload[1:])),
			Y:    int32(binary.BigEndian.Uint32(payload[5:])),
		}, nil
	case EventMouseButton:
		if len(payload) != mouseButtonSize {
			return Event{}, badLength(typ, len(payload), mouseButtonSize)
		}
		return Event{
			Type:    typ,
			Button:  MouseButton(payload[1]),
			Pressed: payload[2] != 0,
		}, nil
	case EventMouseScroll:
		if len(payload) != mouseScrollSize {
			return Event{}, badLength(typ, len(payload), mouseScrollSize)
		}
		return Event{
			Type: typ,
			DX:   int32(binary.BigEndian.Uint32(payload[1:])),
			DY:   int32(binary.BigEndian.Uint32(payload[5:])),
		}, nil
	case EventKey:
		if len(payload) != keySize {
			return Event{}, badLength(typ, len(payload), keySize)
		}
		return Event{
			Type:    typ,
			Code:    binary.BigEndian.Uint16(payload[1:]),
			Pressed: payload[3] != 0,
		}, nil
	}
	return Event{}, protocol.Errorf("bad input event tag 0x%02x", payload[0])
}

func badLength(t EventType, got, want int) error {
	return protocol.Errorf("%s event is %d bytes, want %d", t, got, want)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
