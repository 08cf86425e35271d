package transport

import (
	"io"
	"net"
	"sync"
	"syscall"

	"github.com/pkg/errors"

	"github.com/rootuserdj/DJ-Remote-Desktop/internal/protocol"
)

// ErrConnectionClosed reports that the peer went away: a clean close, a
// reset, or a stream that ended in the middle of a packet.
var ErrConnectionClosed = errors.New("connection closed")

// Conn frames packets over one persistent byte-stream connection. Sends
// from concurrent producers are serialized under a single mutex so a frame
// write can never interleave with an input write; this also preserves FIFO
// order per producer. Receives are not locked — the protocol has a single
// reader per endpoint.
type Conn struct {
	rwc io.ReadWriteCloser

	sendMu sync.Mutex
}

func New(rwc io.ReadWriteCloser) *Conn {
	return &Conn{rwc: rwc}
}

// Send writes one packet. It blocks on connection backpressure and is safe
// for concurrent use.
func (c *Conn) Send(p protocol.Packet) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return mapErr(protocol.WritePacket(c.rwc, p))
}

// Receive blocks until one full packet (header, then exactly the advertised
// payload length) is assembled, however the underlying reads are chunked.
// Closing the connection from another goroutine unblocks it.
func (c *Conn) Receive() (protocol.Packet, error) {
	p, err := protocol.ReadPacket(c.rwc)
	if err != nil {
		return protocol.Packet{}, mapErr(err)
	}
	return p, nil
}

// Close closes the underlying connection, failing any blocked Send or
// Receive.
func (c *Conn) Close() error {
	return c.rwc.Close()
}

// mapErr folds the various ways a TCP peer can vanish into
// ErrConnectionClosed. Protocol violations pass through untouched so
// callers can tell a corrupt stream from a dead one.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var perr *protocol.Error
	if errors.As(err, &perr) {
		return err
	}
	if errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return ErrConnectionClosed
	}
	return errors.Wrap(err, "transport")
}
