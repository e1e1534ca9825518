// File: internal/netutil/listen.go
// Package netutil creates listen sockets with SO_REUSEADDR set, so a
// restarted server can rebind its port without waiting out TIME_WAIT.
// License: Apache-2.0

package netutil

import (
	"context"
	"net"
)

// Listen binds a TCP listener on addr with SO_REUSEADDR applied where
// the platform supports it.
func Listen(addr string) (net.Listener, error) {
	lc := net.ListenConfig{Control: reuseAddrControl}
	return lc.Listen(context.Background(), "tcp", addr)
}
