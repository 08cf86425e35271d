package server

import (
	"fmt"
	"image"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rootuserdj/DJ-Remote-Desktop/internal/encoder"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/input"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/protocol"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/quality"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/session"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/transport"
)

type fakeCapturer struct {
	mu   sync.Mutex
	fail bool
}

func (c *fakeCapturer) setFail(fail bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail = fail
}

func (c *fakeCapturer) Capture() (*image.RGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return nil, errors.New("capture broke")
	}
	return image.NewRGBA(image.Rect(0, 0, 32, 24)), nil
}

type orderedInjector struct {
	mu    sync.Mutex
	calls []string
}

func (r *orderedInjector) record(s string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
	return nil
}

func (r *orderedInjector) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *orderedInjector) Move(x, y int32) error {
	return r.record(fmt.Sprintf("move(%d,%d)", x, y))
}
func (r *orderedInjector) Click(b input.MouseButton, down bool) error {
	return r.record(fmt.Sprintf("click(%d,%v)", b, down))
}
func (r *orderedInjector) Scroll(dx, dy int32) error {
	return r.record(fmt.Sprintf("scroll(%d,%d)", dx, dy))
}
func (r *orderedInjector) Key(code uint16, down bool) error {
	return r.record(fmt.Sprintf("key(%d,%v)", code, down))
}

func testLog() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func startServer(t *testing.T) (*Server, *fakeCapturer, *orderedInjector) {
	t.Helper()
	cap := &fakeCapturer{}
	inj := &orderedInjector{}
	srv, err := New(Config{
		ListenAddr: "127.0.0.1:0",
		FPS:        60,
		Quality:    quality.DefaultConfig(),
	}, cap, encoder.NewJPEGEncoder(70), inj, testLog())
	require.NoError(t, err)

	go func() {
		_ = srv.ListenAndServe()
	}()
	waitFor(t, func() bool { return srv.Addr() != nil }, "server never bound")
	t.Cleanup(srv.Stop)
	return srv, cap, inj
}

func dialServer(t *testing.T, srv *Server) (net.Conn, *transport.Conn) {
	t.Helper()
	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, transport.New(conn)
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestSessionAnnouncesResolutionThenStreamsFrames(t *testing.T) {
	srv, _, _ := startServer(t)
	_, tc := dialServer(t, srv)

	pkt, err := tc.Receive()
	require.NoError(t, err)
	require.Equal(t, protocol.PacketControl, pkt.Type)
	res, err := protocol.ParseResolution(pkt.Payload)
	require.NoError(t, err)
	assert.Equal(t, uint32(32), res.Width)
	assert.Equal(t, uint32(24), res.Height)

	for i := 0; i < 3; i++ {
		pkt, err = tc.Receive()
		require.NoError(t, err)
		require.Equal(t, protocol.PacketFrame, pkt.Type)
		assert.NotEmpty(t, pkt.Payload)
		// JPEG SOI marker: the payload is real encoder output.
		assert.Equal(t, []byte{0xff, 0xd8}, pkt.Payload[:2])
	}
}

func TestInputEventsAppliedInSendOrder(t *testing.T) {
	srv, _, inj := startServer(t)
	_, tc := dialServer(t, srv)

	events := []input.Event{
		input.MouseMove(100, 200),
		input.Key(0x00, true),
		input.Key(0x00, false),
	}
	for _, ev := range events {
		require.NoError(t, tc.Send(protocol.Packet{Type: protocol.PacketInput, Payload: ev.Marshal()}))
	}

	waitFor(t, func() bool { return len(inj.snapshot()) == 3 }, "events never applied")
	assert.Equal(t, []string{"move(100,200)", "key(0,true)", "key(0,false)"}, inj.snapshot())
}

func TestCaptureFailureSkipsFramesWithoutEndingSession(t *testing.T) {
	srv, cap, _ := startServer(t)
	_, tc := dialServer(t, srv)
	waitFor(t, srv.Manager().Active, "session never connected")

	cap.setFail(true)
	time.Sleep(100 * time.Millisecond)
	assert.True(t, srv.Manager().Active(), "session should survive capture errors")

	// Frames resume once capture recovers.
	cap.setFail(false)
	sawFrame := false
	for i := 0; i < 50 && !sawFrame; i++ {
		pkt, err := tc.Receive()
		require.NoError(t, err)
		sawFrame = pkt.Type == protocol.PacketFrame
	}
	assert.True(t, sawFrame)
}

func TestSecondConnectionRefusedWhileActive(t *testing.T) {
	srv, _, _ := startServer(t)
	dialServer(t, srv)
	waitFor(t, srv.Manager().Active, "session never connected")

	second, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer second.Close()

	// The server closes the intruder without sending anything.
	_ = second.SetReadDeadline(time.Now().Add(5 * time.Second))
	buf := make([]byte, 1)
	_, err = second.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
	assert.True(t, srv.Manager().Active(), "original session unaffected")
}

func TestServerListensAgainAfterClientLeaves(t *testing.T) {
	srv, _, _ := startServer(t)
	conn, _ := dialServer(t, srv)
	waitFor(t, srv.Manager().Active, "session never connected")

	_ = conn.Close()
	waitFor(t, func() bool {
		return srv.Manager().Status().State == session.StateListening
	}, "server never returned to listening")

	// A fresh client is admitted and gets the announcement.
	_, tc := dialServer(t, srv)
	pkt, err := tc.Receive()
	require.NoError(t, err)
	assert.Equal(t, protocol.PacketControl, pkt.Type)
}

func TestMalformedInputEndsSession(t *testing.T) {
	srv, _, _ := startServer(t)
	conn, tc := dialServer(t, srv)
	waitFor(t, srv.Manager().Active, "session never connected")

	require.NoError(t, tc.Send(protocol.Packet{Type: protocol.PacketInput, Payload: []byte{0xee, 0x01}}))

	waitFor(t, func() bool {
		return srv.Manager().Status().State == session.StateListening
	}, "server never dropped the bad client")

	// The server closed our connection; drain until the reads fail.
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		if _, err := tc.Receive(); err != nil {
			break
		}
	}
}

func TestViewOnlyDropsInput(t *testing.T) {
	inj := &orderedInjector{}
	srv, err := New(Config{
		ListenAddr: "127.0.0.1:0",
		FPS:        60,
		ViewOnly:   true,
		Quality:    quality.DefaultConfig(),
	}, &fakeCapturer{}, encoder.NewJPEGEncoder(70), inj, testLog())
	require.NoError(t, err)
	go func() { _ = srv.ListenAndServe() }()
	waitFor(t, func() bool { return srv.Addr() != nil }, "server never bound")
	t.Cleanup(srv.Stop)

	_, tc := dialServer(t, srv)
	require.NoError(t, tc.Send(protocol.Packet{Type: protocol.PacketInput, Payload: input.MouseMove(1, 2).Marshal()}))

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, inj.snapshot())
	assert.True(t, srv.Manager().Active())
}

func TestStopGoesIdle(t *testing.T) {
	srv, _, _ := startServer(t)
	dialServer(t, srv)
	waitFor(t, srv.Manager().Active, "session never connected")

	srv.Stop()
	waitFor(t, func() bool {
		return srv.Manager().Status().State == session.StateIdle
	}, "server never went idle")
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{ListenAddr: ":0", FPS: 0, Quality: quality.DefaultConfig()},
		&fakeCapturer{}, encoder.NewJPEGEncoder(70), &orderedInjector{}, testLog())
	assert.Error(t, err)

	_, err = New(Config{ListenAddr: ":0", FPS: 30, Quality: quality.Config{}},
		&fakeCapturer{}, encoder.NewJPEGEncoder(70), &orderedInjector{}, testLog())
	assert.Error(t, err)

	_, err = New(Config{ListenAddr: ":0", FPS: 30, Quality: quality.DefaultConfig()},
		&fakeCapturer{}, encoder.NewJPEGEncoder(70), nil, testLog())
	assert.Error(t, err, "nil injector without view-only")
}
