//go:build !linux

// File: internal/netutil/listen_stub.go
// License: Apache-2.0

package netutil

import "syscall"

// Non-Linux platforms rely on the runtime's default socket options.
func reuseAddrControl(network, address string, c syscall.RawConn) error {
	return nil
}
