// File: protocol/frame_test.go
// License: Apache-2.0

package protocol

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clientFrame builds a masked frame the way a browser client would.
func clientFrame(opcode byte, payload []byte, key [4]byte) []byte {
	dst := []byte{FinBit | opcode}
	n := len(payload)
	switch {
	case n < 126:
		dst = append(dst, byte(n)|MaskBit)
	case n <= 0xFFFF:
		dst = append(dst, 126|MaskBit)
		dst = binary.BigEndian.AppendUint16(dst, uint16(n))
	default:
		dst = append(dst, 127|MaskBit)
		dst = binary.BigEndian.AppendUint64(dst, uint64(n))
	}
	dst = append(dst, key[:]...)
	masked := make([]byte, n)
	copy(masked, payload)
	maskPayload(masked, key)
	return append(dst, masked...)
}

func TestRoundTripAllLengthTiers(t *testing.T) {
	key := [4]byte{0xA1, 0x02, 0x7F, 0xEE}
	for _, size := range []int{0, 1, 125, 126, 65535, 65536} {
		payload := make([]byte, size)
		for i := range payload {
			payload[i] = byte(i * 31)
		}

		// Server-encoded frame re-masked as a client would send it.
		encoded := EncodeFrame(OpcodeBinary, payload)
		require.Greater(t, len(encoded), len(payload), "size %d", size)

		f, err := DecodeFrame(bytes.NewReader(clientFrame(OpcodeBinary, payload, key)))
		require.NoError(t, err, "size %d", size)
		assert.True(t, f.IsFinal)
		assert.Equal(t, byte(OpcodeBinary), f.Opcode)
		assert.True(t, f.Masked)
		assert.Equal(t, payload, f.Payload, "size %d", size)
	}
}

func TestRoundTripText(t *testing.T) {
	f, err := DecodeFrame(bytes.NewReader(
		clientFrame(OpcodeText, []byte("Welcome!"), [4]byte{1, 2, 3, 4})))
	require.NoError(t, err)
	assert.Equal(t, byte(OpcodeText), f.Opcode)
	assert.Equal(t, "Welcome!", string(f.Payload))
}

func TestEncodeFrameHeader(t *testing.T) {
	frame := EncodeFrame(OpcodeText, []byte("hi"))
	assert.Equal(t, []byte{FinBit | OpcodeText, 2, 'h', 'i'}, frame)

	// Outbound frames are never masked.
	frame = EncodeFrame(OpcodeBinary, make([]byte, 126))
	assert.Equal(t, byte(FinBit|OpcodeBinary), frame[0])
	assert.Equal(t, byte(126), frame[1])
	assert.Zero(t, frame[1]&MaskBit)
	assert.Equal(t, uint16(126), binary.BigEndian.Uint16(frame[2:4]))
}

func TestMaskTwiceIsIdentity(t *testing.T) {
	key := [4]byte{0xDE, 0xAD, 0xBE, 0xEF}
	payload := []byte("any payload at all, any alignment 12345")
	buf := append([]byte(nil), payload...)
	maskPayload(buf, key)
	assert.NotEqual(t, payload, buf)
	maskPayload(buf, key)
	assert.Equal(t, payload, buf)
}

func TestCloseSentinel(t *testing.T) {
	key := [4]byte{9, 8, 7, 6}
	// The sentinel payload requests close regardless of opcode bits.
	for _, opcode := range []byte{OpcodeText, OpcodeBinary, OpcodeClose} {
		f, err := DecodeFrame(bytes.NewReader(clientFrame(opcode, []byte{0x03, 0xE9}, key)))
		require.NoError(t, err)
		assert.True(t, f.CloseRequested(), "opcode %#x", opcode)
	}

	f, err := DecodeFrame(bytes.NewReader(clientFrame(OpcodeBinary, []byte{0x03, 0xE8}, key)))
	require.NoError(t, err)
	assert.False(t, f.CloseRequested())
}

func TestDecodeEmptyInput(t *testing.T) {
	_, err := DecodeFrame(bytes.NewReader(nil))
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecodeTruncatedFrame(t *testing.T) {
	full := clientFrame(OpcodeBinary, []byte{1, 2, 3}, [4]byte{5, 5, 5, 5})
	for _, cut := range []int{1, 3, 5, len(full) - 1} {
		_, err := DecodeFrame(bytes.NewReader(full[:cut]))
		assert.Error(t, err, "cut at %d", cut)
	}
}

func TestDecodeOversizedFrame(t *testing.T) {
	hdr := []byte{FinBit | OpcodeBinary, 127 | MaskBit}
	hdr = binary.BigEndian.AppendUint64(hdr, MaxFramePayload+1)
	_, err := DecodeFrame(bytes.NewReader(hdr))
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}
