// File: server/conn.go
// Package server: per-client connection handle handed to callbacks.
// License: Apache-2.0

package server

import (
	"net"
	"sync"

	"github.com/statewire/deltaws/protocol"
)

// Conn wraps one accepted socket. The session goroutine owns the read
// side exclusively; writes may come from the session's callbacks and
// from Broadcast concurrently, so each frame write happens under wmu to
// keep frame bytes from interleaving on the wire.
type Conn struct {
	netConn net.Conn

	wmu sync.Mutex
}

func newConn(nc net.Conn) *Conn {
	return &Conn{netConn: nc}
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// SendMessage encodes m as one unmasked frame and writes it.
func (c *Conn) SendMessage(m protocol.Message) error {
	return c.writeRaw(m.Encode())
}

// SendText sends a text frame.
func (c *Conn) SendText(s string) error {
	return c.SendMessage(protocol.Text(s))
}

// SendBinary sends a binary frame.
func (c *Conn) SendBinary(b []byte) error {
	return c.SendMessage(protocol.Binary(b))
}

// SendDelta sends a structured delta as one binary frame.
func (c *Conn) SendDelta(d *protocol.Delta) error {
	return c.SendMessage(protocol.NewDelta(d))
}

func (c *Conn) writeRaw(frame []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err := c.netConn.Write(frame)
	return err
}

func (c *Conn) close() error {
	return c.netConn.Close()
}
