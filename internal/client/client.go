// Package client implements the controlling side: it connects to a server,
// renders the incoming frame stream, and forwards local input events.
package client

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rootuserdj/DJ-Remote-Desktop/internal/decoder"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/display"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/input"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/protocol"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/session"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/transport"
)

// Config holds the client's runtime settings.
type Config struct {
	Addr        string
	DialTimeout time.Duration
}

// Client runs the display loop on a background goroutine and forwards
// input events from the UI goroutine. No reconnection: once the session
// drops, the user starts a fresh one.
type Client struct {
	cfg  Config
	dec  decoder.Decoder
	sink display.FrameSink
	mgr  *session.Manager
	log  *logrus.Entry

	mu  sync.Mutex
	tc  *transport.Conn
	ctx context.Context
}

func New(cfg Config, dec decoder.Decoder, sink display.FrameSink, log *logrus.Entry) *Client {
	return &Client{
		cfg:  cfg,
		dec:  dec,
		sink: sink,
		mgr:  session.NewManager(log),
		log:  log,
	}
}

// Manager exposes the connection state machine.
func (c *Client) Manager() *session.Manager {
	return c.mgr
}

// Connect dials the server and starts the display loop. A refused or timed
// out dial surfaces as an Error status; there is no retry.
func (c *Client) Connect() error {
	if err := c.mgr.Dial(); err != nil {
		return err
	}
	conn, err := net.DialTimeout("tcp", c.cfg.Addr, c.cfg.DialTimeout)
	if err != nil {
		err = errors.Wrapf(err, "connect to %s", c.cfg.Addr)
		c.mgr.Fail(err)
		return err
	}
	ctx, err := c.mgr.Connect(conn)
	if err != nil {
		_ = conn.Close()
		return err
	}
	tc := transport.New(conn)
	c.mu.Lock()
	c.tc = tc
	c.ctx = ctx
	c.mu.Unlock()

	log := c.log.WithFields(logrus.Fields{
		"session": c.mgr.SessionID(),
		"server":  c.cfg.Addr,
	})
	log.Info("connected")
	go c.displayLoop(ctx, tc, log)
	return nil
}

// ForwardEvent sends one local input event, already mapped into remote
// coordinates. Events go out in generation order; the transport's send
// lock keeps them whole against concurrent traffic.
func (c *Client) ForwardEvent(ev input.Event) {
	c.mu.Lock()
	tc, ctx := c.tc, c.ctx
	c.mu.Unlock()
	if tc == nil || ctx.Err() != nil {
		return
	}
	if err := tc.Send(protocol.Packet{Type: protocol.PacketInput, Payload: ev.Marshal()}); err != nil {
		c.endSession(ctx, err, c.log)
	}
}

// Close is the explicit user disconnect.
func (c *Client) Close() {
	c.mgr.Stop()
}

// displayLoop receives packets until the session ends. Frames that fail to
// decode cost one frame; connection and protocol failures end the session.
func (c *Client) displayLoop(ctx context.Context, tc *transport.Conn, log *logrus.Entry) {
	for {
		pkt, err := tc.Receive()
		if err != nil {
			c.endSession(ctx, err, log)
			return
		}
		if ctx.Err() != nil {
			return
		}
		switch pkt.Type {
		case protocol.PacketFrame:
			img, err := c.dec.Decode(pkt.Payload)
			if err != nil {
				log.WithError(err).Warn("frame decode failed, skipping")
				continue
			}
			c.sink.SetFrame(img)
		case protocol.PacketControl:
			res, err := protocol.ParseResolution(pkt.Payload)
			if err != nil {
				c.endSession(ctx, err, log)
				return
			}
			log.WithFields(logrus.Fields{"width": res.Width, "height": res.Height}).
				Info("server announced resolution")
			c.sink.SetRemoteSize(int(res.Width), int(res.Height))
		case protocol.PacketInput:
			log.Warn("ignoring input packet from server")
		}
	}
}

// endSession records how the session ended; a clean server close becomes
// Disconnected, anything else Error. No-op after an explicit stop.
func (c *Client) endSession(ctx context.Context, err error, log *logrus.Entry) {
	if ctx.Err() != nil {
		return
	}
	if errors.Is(err, transport.ErrConnectionClosed) {
		log.Info("server closed the connection")
		c.mgr.Disconnect(nil)
		return
	}
	log.WithError(err).Error("session failed")
	c.mgr.Disconnect(err)
}
