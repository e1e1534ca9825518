// File: protocol/handshake.go
// Package protocol: the HTTP upgrade handshake, reduced to what this
// server actually needs. The client key is located in the raw request
// bytes; no other HTTP semantics are inspected.
// License: Apache-2.0

package protocol

import (
	"bytes"
	"crypto/sha1"
	"encoding/base64"
	"errors"
)

// WebSocketGUID is the fixed protocol GUID from RFC6455 Section 1.3.
const WebSocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

const (
	acceptResponseFmt = "HTTP/1.1 101 Switching Protocols\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Accept: "
	rejectResponse = "HTTP/1.1 400 Bad Request\r\n\r\n"
)

// ErrMissingKey signals a request without a Sec-WebSocket-Key header.
// The connection is rejected and never registered.
var ErrMissingKey = errors.New("missing Sec-WebSocket-Key header")

var clientKeyPrefix = []byte("Sec-WebSocket-Key")

// ClientKey scans the raw upgrade request for the line carrying the
// client's handshake key and returns the key token.
func ClientKey(raw []byte) (string, error) {
	for _, line := range bytes.Split(raw, []byte("\r\n")) {
		if !bytes.HasPrefix(line, clientKeyPrefix) {
			continue
		}
		if idx := bytes.IndexByte(line, ':'); idx >= 0 {
			return string(bytes.TrimSpace(line[idx+1:])), nil
		}
	}
	return "", ErrMissingKey
}

// ComputeAcceptKey derives the accept token per RFC6455 Section 1.3:
// base64 of the SHA-1 digest of the client key concatenated with the GUID.
func ComputeAcceptKey(clientKey string) string {
	sum := sha1.Sum([]byte(clientKey + WebSocketGUID))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// AcceptResponse builds the fixed 101 upgrade response carrying acceptKey.
func AcceptResponse(acceptKey string) []byte {
	buf := make([]byte, 0, len(acceptResponseFmt)+len(acceptKey)+4)
	buf = append(buf, acceptResponseFmt...)
	buf = append(buf, acceptKey...)
	return append(buf, "\r\n\r\n"...)
}

// RejectResponse builds the fixed 400 response sent when the handshake
// cannot be completed.
func RejectResponse() []byte {
	return []byte(rejectResponse)
}
