// File: server/server.go
// Package server implements the deltaws listener/dispatcher: it accepts
// TCP connections, performs the WebSocket upgrade, and runs one session
// goroutine per client. The embedding application supplies a connect
// callback and a message callback and pushes state through Broadcast or
// the per-connection send methods.
// License: Apache-2.0

package server

import (
	"errors"
	"net"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/statewire/deltaws/internal/netutil"
	"github.com/statewire/deltaws/protocol"
)

// ErrServerClosed is returned by Serve after Close stops the listener.
var ErrServerClosed = errors.New("server closed")

// ConnectFunc is invoked once per successfully handshaken connection,
// synchronously, before the session's receive loop starts. It may write
// to the connection (e.g. send an initial state snapshot).
type ConnectFunc func(*Server, *Conn)

// MessageFunc is invoked once per successfully decoded inbound frame
// with the unmasked payload bytes. Interpretation of the payload is the
// application's business.
type MessageFunc func(*Server, *Conn, []byte)

// Server is the listener/dispatcher facade.
type Server struct {
	cfg      *Config
	log      *zap.Logger
	registry *Registry
	listener net.Listener

	onConnect ConnectFunc
	onMessage MessageFunc

	closed atomic.Bool
}

// Option customizes server initialization.
type Option func(*Server)

// WithLogger attaches a structured logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) { s.log = log }
}

// New binds the listen socket and builds the Server. The socket is
// created eagerly so Addr is valid before Serve is called.
func New(cfg *Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	ln, err := netutil.Listen(cfg.ListenAddr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:      cfg,
		log:      zap.NewNop(),
		registry: NewRegistry(),
		listener: ln,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Registry exposes the live connection set for broadcast-style callers.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Serve accepts connections until Close, spawning one session goroutine
// per accepted socket. An accept failure affects that iteration only:
// it is logged and the loop continues.
func (s *Server) Serve(onConnect ConnectFunc, onMessage MessageFunc) error {
	s.onConnect = onConnect
	s.onMessage = onMessage
	s.log.Info("listening", zap.String("addr", s.listener.Addr().String()))

	for {
		nc, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() {
				return ErrServerClosed
			}
			s.log.Warn("accept failed", zap.Error(err))
			continue
		}
		go newSession(s, nc).run()
	}
}

// Broadcast encodes m once and writes it to every registered connection.
// The registry lock is held for the whole iteration; write errors are
// logged and do not affect the remaining members.
func (s *Server) Broadcast(m protocol.Message) {
	frame := m.Encode()
	s.registry.ForEach(func(c *Conn) {
		if err := c.writeRaw(frame); err != nil {
			s.log.Debug("broadcast write failed",
				zap.String("remote", c.RemoteAddr().String()), zap.Error(err))
		}
	})
}

// Close stops the listener. Sessions already running keep going until
// their peers disconnect; the core has no session cancellation protocol.
func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.listener.Close()
}
