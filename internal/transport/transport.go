package transport

import "github.com/rootuserdj/DJ-Remote-Desktop/internal/protocol"

// Sender sends whole packets.
type Sender interface {
	Send(p protocol.Packet) error
}

// Receiver blocks until a whole packet has been assembled.
type Receiver interface {
	Receive() (protocol.Packet, error)
}
