// Package server implements the sharing side: it listens for one client,
// streams encoded screen frames to it, and replays the client's input
// events on the host.
package server

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rootuserdj/DJ-Remote-Desktop/internal/capture"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/encoder"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/input"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/metrics"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/protocol"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/quality"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/session"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/transport"
)

// Config holds the server's runtime settings. ViewOnly is the explicit
// injection policy: when set, received input events are counted and
// dropped instead of replayed, and Injector may be nil.
type Config struct {
	ListenAddr string
	FPS        int
	ViewOnly   bool
	Quality    quality.Config
}

// Server accepts exactly one client at a time and runs the capture and
// input-apply loops for the active session.
type Server struct {
	cfg      Config
	capturer capture.Capturer
	enc      encoder.Encoder
	injector input.Injector
	mgr      *session.Manager
	log      *logrus.Entry

	mu       sync.Mutex
	ln       net.Listener
	stopping bool
}

func New(cfg Config, capturer capture.Capturer, enc encoder.Encoder, injector input.Injector, log *logrus.Entry) (*Server, error) {
	if cfg.FPS <= 0 {
		return nil, errors.Errorf("server: fps must be positive, got %d", cfg.FPS)
	}
	if _, err := quality.New(cfg.Quality); err != nil {
		return nil, err
	}
	if injector == nil && !cfg.ViewOnly {
		return nil, errors.New("server: injector required unless view-only")
	}
	return &Server{
		cfg:      cfg,
		capturer: capturer,
		enc:      enc,
		injector: injector,
		mgr:      session.NewManager(log),
		log:      log,
	}, nil
}

// Manager exposes the connection state machine.
func (s *Server) Manager() *session.Manager {
	return s.mgr
}

// Addr reports the bound listen address once ListenAndServe is up, nil
// before that.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// ListenAndServe blocks, accepting one client at a time, until Stop. While
// a session is active, further connection attempts are refused by closing
// them immediately.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		err = errors.Wrap(err, "listen")
		s.mgr.Fail(err)
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	if err := s.mgr.Listen(); err != nil {
		_ = ln.Close()
		return err
	}
	s.log.WithField("addr", ln.Addr().String()).Info("listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isStopping() {
				return nil
			}
			err = errors.Wrap(err, "accept")
			s.mgr.Fail(err)
			return err
		}
		if s.mgr.Active() {
			s.log.WithField("remote", conn.RemoteAddr().String()).
				Warn("refusing connection: a session is already active")
			_ = conn.Close()
			continue
		}
		go s.serve(conn)
	}
}

// Stop closes the listener and tears down any active session. Loops parked
// in blocking reads or writes fail as soon as their connection closes.
func (s *Server) Stop() {
	s.mu.Lock()
	s.stopping = true
	ln := s.ln
	s.mu.Unlock()
	if ln != nil {
		_ = ln.Close()
	}
	s.mgr.Stop()
}

func (s *Server) isStopping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopping
}

// serve runs one session to completion, then puts the server back into
// Listening unless the user stopped it.
func (s *Server) serve(conn net.Conn) {
	ctx, err := s.mgr.Connect(conn)
	if err != nil {
		// Lost the admission race, or the server is stopping.
		_ = conn.Close()
		return
	}
	metrics.Sessions.Inc()
	log := s.log.WithFields(logrus.Fields{
		"session": s.mgr.SessionID(),
		"remote":  conn.RemoteAddr().String(),
	})
	log.Info("client connected")

	tc := transport.New(conn)
	qc, _ := quality.New(s.cfg.Quality) // validated in New

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.captureLoop(ctx, tc, qc, log)
	}()
	go func() {
		defer wg.Done()
		s.applyLoop(ctx, tc, log)
	}()
	wg.Wait()

	if !s.isStopping() {
		if err := s.mgr.Listen(); err == nil {
			log.Info("session over, listening again")
		}
	}
}

// captureLoop grabs, encodes, and sends frames at the target period.
// Capture and encode failures cost one frame; send failures end the
// session.
func (s *Server) captureLoop(ctx context.Context, tc *transport.Conn, qc *quality.Controller, log *logrus.Entry) {
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FPS))
	defer ticker.Stop()

	var lastW, lastH int
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		img, err := s.capturer.Capture()
		if err != nil {
			metrics.FramesDropped.Inc()
			log.WithError(err).Warn("capture failed, skipping frame")
			continue
		}
		b := img.Bounds()
		frame := capture.Frame{
			Image:     img,
			Width:     b.Dx(),
			Height:    b.Dy(),
			Timestamp: time.Now(),
		}

		// Announce the resolution before the first frame and again if the
		// captured size ever changes, so the client can map coordinates.
		if frame.Width != lastW || frame.Height != lastH {
			lastW, lastH = frame.Width, frame.Height
			ann := protocol.Resolution{Width: uint32(frame.Width), Height: uint32(frame.Height)}
			if err := tc.Send(protocol.Packet{Type: protocol.PacketControl, Payload: ann.Marshal()}); err != nil {
				s.endSession(ctx, err, log)
				return
			}
			log.WithFields(logrus.Fields{"width": frame.Width, "height": frame.Height}).
				Info("announced resolution")
		}

		s.enc.SetQuality(qc.Level())
		data, err := s.enc.Encode(frame.Image)
		if err != nil {
			metrics.FramesDropped.Inc()
			log.WithError(err).Warn("encode failed, skipping frame")
			continue
		}
		level := qc.Observe(len(data))
		metrics.EncodeQuality.Set(float64(level))

		if err := tc.Send(protocol.Packet{Type: protocol.PacketFrame, Payload: data}); err != nil {
			s.endSession(ctx, err, log)
			return
		}
		metrics.FramesSent.Inc()
		metrics.FrameBytes.Add(float64(len(data)))
	}
}

// applyLoop replays the client's input events one at a time, in arrival
// order.
func (s *Server) applyLoop(ctx context.Context, tc *transport.Conn, log *logrus.Entry) {
	for {
		pkt, err := tc.Receive()
		if err != nil {
			s.endSession(ctx, err, log)
			return
		}
		if ctx.Err() != nil {
			return
		}
		switch pkt.Type {
		case protocol.PacketInput:
			ev, err := input.Unmarshal(pkt.Payload)
			if err != nil {
				s.endSession(ctx, err, log)
				return
			}
			if s.cfg.ViewOnly {
				metrics.InputEventsSkipped.Inc()
				continue
			}
			if err := input.Apply(s.injector, ev); err != nil {
				metrics.InputEventsSkipped.Inc()
				log.WithError(err).WithField("event", ev.Type.String()).
					Warn("input replay failed, skipping event")
				continue
			}
			metrics.InputEventsApplied.Inc()
		case protocol.PacketControl:
			log.Debug("ignoring control packet from client")
		case protocol.PacketFrame:
			log.Warn("ignoring frame packet from client")
		}
	}
}

// endSession records how the session ended. The first loop to get here
// wins; the ctx check stops the second loop's follow-up from overwriting
// the outcome or re-reporting an explicit stop.
func (s *Server) endSession(ctx context.Context, err error, log *logrus.Entry) {
	if ctx.Err() != nil {
		return
	}
	var perr *protocol.Error
	switch {
	case errors.As(err, &perr):
		log.WithError(err).Error("protocol violation, dropping client")
		s.mgr.Disconnect(err)
	case errors.Is(err, transport.ErrConnectionClosed):
		log.Info("client disconnected")
		s.mgr.Disconnect(nil)
	default:
		log.WithError(err).Error("session failed")
		s.mgr.Disconnect(err)
	}
}
