package wire

import (
	"encoding/binary"
	"io"

	"github.com/DeluxeOwl/zerrors"
	"github.com/wirecall/wirecall/envelope"
)

// DefaultMaxFrameSize bounds both inbound and outbound frames. 16 MiB
// is the customary framed-transport limit.
const DefaultMaxFrameSize = 16 << 20

// Framer reads and writes length-prefixed frames over a byte stream.
// The prefix is a 4-byte big-endian payload length.
//
// A Framer is not safe for concurrent use; give each connection its own.
type Framer struct {
	rw           io.ReadWriter
	maxFrameSize uint32
}

type FramerOption func(*Framer)

func WithMaxFrameSize(n uint32) FramerOption {
	return func(f *Framer) {
		f.maxFrameSize = n
	}
}

func NewFramer(rw io.ReadWriter, opts ...FramerOption) *Framer {
	f := &Framer{
		rw:           rw,
		maxFrameSize: DefaultMaxFrameSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Framer) WriteFrame(p []byte) error {
	if uint32(len(p)) > f.maxFrameSize {
		return zerrors.New(ErrFrameTooLarge).Errorf("frame size %d exceeds limit %d", len(p), f.maxFrameSize)
	}

	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(p)))

	if _, err := f.rw.Write(prefix[:]); err != nil {
		return zerrors.New(ErrShortFrame).WithError(err)
	}
	if _, err := f.rw.Write(p); err != nil {
		return zerrors.New(ErrShortFrame).WithError(err)
	}
	return nil
}

// ReadFrame returns the next frame's payload. io.EOF passes through
// untouched when the stream ends cleanly between frames.
func (f *Framer) ReadFrame() ([]byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(f.rw, prefix[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, zerrors.New(ErrShortFrame).WithError(err)
	}

	size := binary.BigEndian.Uint32(prefix[:])
	if size > f.maxFrameSize {
		return nil, zerrors.New(ErrFrameTooLarge).Errorf("frame size %d exceeds limit %d", size, f.maxFrameSize)
	}

	p := make([]byte, size)
	if _, err := io.ReadFull(f.rw, p); err != nil {
		return nil, zerrors.New(ErrShortFrame).WithError(err)
	}
	return p, nil
}

// WriteMessage encodes env with c and writes it as one frame.
func (f *Framer) WriteMessage(c *Codec, env envelope.Envelope) error {
	buf, err := c.EncodeMessage(env)
	if err != nil {
		return err
	}
	return f.WriteFrame(buf)
}

// ReadMessage reads one frame and decodes it with c.
func (f *Framer) ReadMessage(c *Codec) (envelope.Envelope, error) {
	frame, err := f.ReadFrame()
	if err != nil {
		return envelope.Envelope{}, err
	}
	return c.DecodeMessage(frame)
}
