// Package wire encodes and decodes envelopes using the Thrift binary
// message header, and frames them with a length prefix for stream
// transports. Payload bytes pass through opaque in both directions.
package wire

import (
	"encoding/binary"

	"github.com/DeluxeOwl/zerrors"
	"github.com/wirecall/wirecall/envelope"
)

type WireError string

const (
	ErrBadVersion    WireError = "bad_version"
	ErrUnknownKind   WireError = "unknown_kind"
	ErrShortFrame    WireError = "short_frame"
	ErrBadName       WireError = "bad_name"
	ErrKindInvalid   WireError = "kind_invalid"
	ErrFrameTooLarge WireError = "frame_too_large"
)

// Strict-format messages carry the protocol version in the high bits of
// the leading word, with the kind code in the low byte.
const (
	version1    = 0x80010000
	versionMask = 0xffff0000
	kindMask    = 0x000000ff
)

type Codec struct {
	strictWrite bool
}

type CodecOption func(*Codec)

// WithNonStrictWrite emits the pre-versioned header layout (name first,
// then a kind byte). Reads always accept both layouts.
func WithNonStrictWrite() CodecOption {
	return func(c *Codec) {
		c.strictWrite = false
	}
}

func NewCodec(opts ...CodecOption) *Codec {
	c := &Codec{strictWrite: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EncodeMessage renders the message header followed by the payload
// bytes, ready for framing.
func (c *Codec) EncodeMessage(env envelope.Envelope) ([]byte, error) {
	if !env.Kind().Valid() {
		return nil, zerrors.New(ErrKindInvalid).Errorf("kind: %d", int8(env.Kind()))
	}

	name := env.Name()
	payload := env.Payload()

	var buf []byte
	if c.strictWrite {
		buf = make([]byte, 0, 4+4+len(name)+4+len(payload))
		buf = binary.BigEndian.AppendUint32(buf, version1|uint32(env.Kind()))
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(name)))
		buf = append(buf, name...)
	} else {
		buf = make([]byte, 0, 4+len(name)+1+4+len(payload))
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(name)))
		buf = append(buf, name...)
		buf = append(buf, byte(env.Kind()))
	}
	buf = binary.BigEndian.AppendUint32(buf, uint32(env.SeqID()))
	buf = append(buf, payload...)

	return buf, nil
}

// DecodeMessage parses a message header from the front of frame and
// wraps the remainder as the opaque payload. An unrecognized kind code
// is an error at this layer: the codec treats it as a protocol
// violation, while the envelope registry itself stays judgment-free.
func (c *Codec) DecodeMessage(frame []byte) (envelope.Envelope, error) {
	var zero envelope.Envelope

	lead, rest, err := readUint32(frame)
	if err != nil {
		return zero, err
	}

	var (
		code int32
		name string
	)
	if int32(lead) < 0 {
		// Strict: version word, then name, then seqid.
		if lead&versionMask != version1 {
			return zero, zerrors.New(ErrBadVersion).Errorf("version word: %#08x", lead)
		}
		code = int32(lead & kindMask)
		name, rest, err = readString(rest)
		if err != nil {
			return zero, err
		}
	} else {
		// Non-strict: lead is the name length; kind byte follows the name.
		if int(lead) > len(rest) {
			return zero, zerrors.New(ErrShortFrame).Errorf("name length %d exceeds %d remaining bytes", lead, len(rest))
		}
		name, rest = string(rest[:lead]), rest[lead:]
		if len(rest) < 1 {
			return zero, zerrors.New(ErrShortFrame).Errorf("missing kind byte")
		}
		code, rest = int32(rest[0]), rest[1:]
	}

	seq, rest, err := readUint32(rest)
	if err != nil {
		return zero, err
	}

	ctor, ok := envelope.ConstructorFor(code)
	if !ok {
		return zero, zerrors.New(ErrUnknownKind).Errorf("kind code: %d", code)
	}

	return ctor(name, int32(seq), rest), nil
}

func readUint32(b []byte) (uint32, []byte, error) {
	if len(b) < 4 {
		return 0, nil, zerrors.New(ErrShortFrame).Errorf("want 4 bytes, have %d", len(b))
	}
	return binary.BigEndian.Uint32(b), b[4:], nil
}

func readString(b []byte) (string, []byte, error) {
	n, rest, err := readUint32(b)
	if err != nil {
		return "", nil, err
	}
	if int32(n) < 0 {
		return "", nil, zerrors.New(ErrBadName).Errorf("negative name length: %d", int32(n))
	}
	if int(n) > len(rest) {
		return "", nil, zerrors.New(ErrShortFrame).Errorf("name length %d exceeds %d remaining bytes", n, len(rest))
	}
	return string(rest[:n]), rest[n:], nil
}
