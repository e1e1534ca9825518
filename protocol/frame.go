// File: protocol/frame.go
// Package protocol implements the WebSocket wire format used by deltaws:
// single unfragmented frames, client-masked inbound, unmasked outbound.
// License: Apache-2.0
//
// Fragmented messages (continuation frames) are a known, documented gap:
// DecodeFrame treats every frame as a complete message and does not
// reassemble continuations.

package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// Frame header bits and opcodes per RFC6455.
const (
	FinBit  = 0x80
	MaskBit = 0x80

	OpcodeText   = 0x1
	OpcodeBinary = 0x2
	OpcodeClose  = 0x8
)

// MaxFramePayload bounds a single inbound frame payload. Length fields
// beyond this are rejected before any allocation happens.
const MaxFramePayload = 1 << 20 // 1 MiB

// closeSentinel is close status 1001 with no reason text, which is what
// the browser side of the original application sends on page unload.
var closeSentinel = []byte{0x03, 0xE9}

var ErrFrameTooLarge = errors.New("frame payload exceeds maximum allowed size")

// Frame represents one decoded WebSocket frame.
type Frame struct {
	IsFinal bool
	Opcode  byte
	Masked  bool
	MaskKey [4]byte
	Payload []byte // unmasked
}

// CloseRequested reports whether the peer asked to end the session.
// The sentinel check is on the payload, not the opcode: a payload of
// {0x03, 0xE9} terminates the session regardless of the opcode bits.
func (f *Frame) CloseRequested() bool {
	return f.Opcode == OpcodeClose || bytes.Equal(f.Payload, closeSentinel)
}

// DecodeFrame parses one frame from r. Inbound frames are expected to be
// client-masked; the payload is unmasked in place before returning.
// A truncated frame surfaces as io.ErrUnexpectedEOF from the short read.
func DecodeFrame(r io.Reader) (*Frame, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}

	f := &Frame{
		IsFinal: hdr[0]&FinBit != 0,
		Opcode:  hdr[0] & 0x0F,
		Masked:  hdr[1]&MaskBit != 0,
	}

	length := uint64(hdr[1] & 0x7F)
	switch length {
	case 126:
		var ext [2]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			return nil, err
		}
		length = uint64(binary.BigEndian.Uint16(ext[:]))
	case 127:
		var ext [8]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			return nil, err
		}
		length = binary.BigEndian.Uint64(ext[:])
	}
	if length > MaxFramePayload {
		return nil, ErrFrameTooLarge
	}

	if f.Masked {
		if _, err := io.ReadFull(r, f.MaskKey[:]); err != nil {
			return nil, err
		}
	}

	f.Payload = make([]byte, length)
	if _, err := io.ReadFull(r, f.Payload); err != nil {
		return nil, err
	}
	if f.Masked {
		maskPayload(f.Payload, f.MaskKey)
	}
	return f, nil
}

// EncodeFrame serializes a single unfragmented, unmasked frame with the
// FIN bit set. Masking is client-to-server only; the server never masks.
func EncodeFrame(opcode byte, payload []byte) []byte {
	dst := make([]byte, 0, 10+len(payload))
	dst = append(dst, FinBit|opcode)
	dst = appendLengthPrefixed(dst, payload)
	return dst
}

// appendLengthPrefixed appends the three-tier length field for b followed
// by b itself: a direct byte below 126, marker 126 plus a big-endian
// uint16 up to 0xFFFF, marker 127 plus a big-endian uint64 beyond.
func appendLengthPrefixed(dst, b []byte) []byte {
	n := len(b)
	switch {
	case n < 126:
		dst = append(dst, byte(n))
	case n <= 0xFFFF:
		dst = append(dst, 126)
		dst = binary.BigEndian.AppendUint16(dst, uint16(n))
	default:
		dst = append(dst, 127)
		dst = binary.BigEndian.AppendUint64(dst, uint64(n))
	}
	return append(dst, b...)
}

// maskPayload XORs buf with key in place. Applying the same key twice at
// the same alignment is the identity, so masking and unmasking share it.
func maskPayload(buf []byte, key [4]byte) {
	for i := range buf {
		buf[i] ^= key[i%4]
	}
}
