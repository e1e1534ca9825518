// File: protocol/message.go
// Package protocol: tagged application message variant and the flattened
// delta layout pushed to clients as incremental state updates.
// License: Apache-2.0

package protocol

import (
	"encoding/binary"
	"errors"
)

// MessageType tags the application payload kind at the encoder boundary.
type MessageType int

const (
	TextMessage MessageType = iota
	BinaryMessage
	DeltaMessage
)

// Pair is one key upsert inside a Delta.
type Pair struct {
	Key   []byte
	Value []byte
}

// Delta describes an incremental state update: an ordered sequence of key
// upserts followed by an ordered sequence of key deletions.
type Delta struct {
	Updates []Pair
	Deletes [][]byte
}

// Message is the unit the embedding application hands to the encoder.
// Exactly one of Data or Delta is meaningful, selected by Type.
type Message struct {
	Type  MessageType
	Data  []byte
	Delta *Delta
}

// Text builds a text message. Text frames carry opcode 1.
func Text(s string) Message {
	return Message{Type: TextMessage, Data: []byte(s)}
}

// Binary builds an opaque binary message (opcode 2).
func Binary(b []byte) Message {
	return Message{Type: BinaryMessage, Data: b}
}

// NewDelta builds a structured delta message (sent as opcode 2).
func NewDelta(d *Delta) Message {
	return Message{Type: DeltaMessage, Delta: d}
}

// Encode produces the complete outbound frame for m. Encoding never fails
// for well-formed messages; a DeltaMessage with a nil Delta is a caller
// contract violation and panics.
func (m Message) Encode() []byte {
	switch m.Type {
	case TextMessage:
		return EncodeFrame(OpcodeText, m.Data)
	case DeltaMessage:
		return EncodeFrame(OpcodeBinary, m.Delta.flatten())
	default:
		return EncodeFrame(OpcodeBinary, m.Data)
	}
}

// flatten serializes the delta: a 4-byte big-endian count of update pairs,
// each pair as length-prefixed key then length-prefixed value, then the
// 4-byte count of delete keys and each length-prefixed delete key. Every
// field uses the same three-tier length rule as the frame header.
func (d *Delta) flatten() []byte {
	dst := binary.BigEndian.AppendUint32(nil, uint32(len(d.Updates)))
	for _, p := range d.Updates {
		dst = appendLengthPrefixed(dst, p.Key)
		dst = appendLengthPrefixed(dst, p.Value)
	}
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(d.Deletes)))
	for _, k := range d.Deletes {
		dst = appendLengthPrefixed(dst, k)
	}
	return dst
}

var ErrTruncatedDelta = errors.New("truncated delta payload")

// ParseDelta is the inverse of the flattened layout above. Receiving
// clients use it to apply incremental updates.
func ParseDelta(b []byte) (*Delta, error) {
	d := &Delta{}
	updates, rest, err := readCount(b)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < updates; i++ {
		var key, val []byte
		if key, rest, err = readLengthPrefixed(rest); err != nil {
			return nil, err
		}
		if val, rest, err = readLengthPrefixed(rest); err != nil {
			return nil, err
		}
		d.Updates = append(d.Updates, Pair{Key: key, Value: val})
	}
	deletes, rest, err := readCount(rest)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < deletes; i++ {
		var key []byte
		if key, rest, err = readLengthPrefixed(rest); err != nil {
			return nil, err
		}
		d.Deletes = append(d.Deletes, key)
	}
	return d, nil
}

func readCount(b []byte) (uint32, []byte, error) {
	if len(b) < 4 {
		return 0, nil, ErrTruncatedDelta
	}
	return binary.BigEndian.Uint32(b), b[4:], nil
}

func readLengthPrefixed(b []byte) ([]byte, []byte, error) {
	if len(b) < 1 {
		return nil, nil, ErrTruncatedDelta
	}
	n := uint64(b[0])
	b = b[1:]
	switch n {
	case 126:
		if len(b) < 2 {
			return nil, nil, ErrTruncatedDelta
		}
		n = uint64(binary.BigEndian.Uint16(b))
		b = b[2:]
	case 127:
		if len(b) < 8 {
			return nil, nil, ErrTruncatedDelta
		}
		n = binary.BigEndian.Uint64(b)
		b = b[8:]
	}
	if uint64(len(b)) < n {
		return nil, nil, ErrTruncatedDelta
	}
	return b[:n], b[n:], nil
}
