// File: server/session.go
// Package server: per-connection control loop.
// License: Apache-2.0
//
// A session runs on its own goroutine and is otherwise sequential:
// handshake, connect callback, then read → decode → message callback
// until the peer requests close or the read fails terminally. Nothing
// within one session runs concurrently with itself.

package server

import (
	"errors"
	"io"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/statewire/deltaws/protocol"
)

type session struct {
	srv  *Server
	conn *Conn
	log  *zap.Logger
}

func newSession(srv *Server, nc net.Conn) *session {
	c := newConn(nc)
	return &session{
		srv:  srv,
		conn: c,
		log:  srv.log.With(zap.String("remote", c.RemoteAddr().String())),
	}
}

// run drives the session through handshake, active loop, and cleanup.
// All failures stay local to this one connection.
func (s *session) run() {
	if !s.handshake() {
		s.conn.close()
		return
	}

	s.srv.registry.Add(s.conn)
	s.log.Info("client connected")
	if s.srv.onConnect != nil {
		s.srv.onConnect(s.srv, s.conn)
	}

	s.receiveLoop()

	s.srv.registry.Remove(s.conn)
	s.conn.close()
	s.log.Info("client disconnected")
}

// handshake reads the raw upgrade request, derives the accept token, and
// writes the 101 response. A request without the client key gets the
// fixed 400 reject response and no registry entry, no callback.
func (s *session) handshake() bool {
	buf := make([]byte, s.srv.cfg.ReadBufferSize)
	n, err := s.conn.netConn.Read(buf)
	if err != nil {
		s.log.Debug("handshake read failed", zap.Error(err))
		return false
	}

	key, err := protocol.ClientKey(buf[:n])
	if err != nil {
		s.log.Warn("handshake rejected", zap.Error(err))
		s.conn.writeRaw(protocol.RejectResponse())
		return false
	}

	resp := protocol.AcceptResponse(protocol.ComputeAcceptKey(key))
	if err := s.conn.writeRaw(resp); err != nil {
		s.log.Debug("handshake response write failed", zap.Error(err))
		return false
	}
	return true
}

// receiveLoop decodes inbound frames until the close sentinel, EOF, or a
// terminal read error. Timeout errors retry with bounded backoff; every
// other error, malformed frames included, ends the session.
func (s *session) receiveLoop() {
	retries := 0
	for {
		frame, err := protocol.DecodeFrame(s.conn.netConn)
		if err != nil {
			if isTransient(err) && retries < s.srv.cfg.MaxReadRetries {
				retries++
				s.log.Debug("transient read error, retrying",
					zap.Int("attempt", retries), zap.Error(err))
				time.Sleep(s.srv.cfg.RetryBackoff * time.Duration(retries))
				continue
			}
			if !errors.Is(err, io.EOF) {
				s.log.Debug("read failed, closing session", zap.Error(err))
			}
			return
		}
		retries = 0

		if frame.CloseRequested() {
			s.log.Debug("close requested by peer")
			return
		}
		if s.srv.onMessage != nil {
			s.srv.onMessage(s.srv, s.conn, frame.Payload)
		}
	}
}

// isTransient classifies read errors: only timeouts are worth retrying.
func isTransient(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
