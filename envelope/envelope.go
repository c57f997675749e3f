// Package envelope models the framing wrapper around a serialized RPC
// payload: a message kind, the method name, a correlation id and the
// already-serialized payload bytes. The payload is opaque at this layer;
// encoding and decoding of the surrounding frame lives in package wire.
package envelope

import (
	"bytes"
	"cmp"
	"fmt"
	"unicode/utf8"

	"github.com/DeluxeOwl/zerrors"
)

type EnvelopeError string

const (
	ErrTypeMismatch EnvelopeError = "type_mismatch"
	ErrKindInvalid  EnvelopeError = "kind_invalid"
	ErrNameNotText  EnvelopeError = "name_not_text"
)

// Envelope is one wire-level message. It is an immutable value: the
// fields are fixed at construction and envelopes may be shared across
// goroutines without synchronization.
type Envelope struct {
	kind    Kind
	name    string
	seqID   int32
	payload []byte
}

func newEnvelope(kind Kind, name string, seqID int32, payload []byte) Envelope {
	// Clone so later writes through the caller's slice cannot be
	// observed through the envelope.
	return Envelope{
		kind:    kind,
		name:    name,
		seqID:   seqID,
		payload: bytes.Clone(payload),
	}
}

// Call builds a request envelope for the named method.
func Call(name string, seqID int32, payload []byte) Envelope {
	return newEnvelope(KindCall, name, seqID, payload)
}

// Reply builds a response envelope. The seqid must echo the request's
// seqid unchanged.
func Reply(name string, seqID int32, payload []byte) Envelope {
	return newEnvelope(KindReply, name, seqID, payload)
}

// Exception builds an envelope carrying an out-of-band unexpected-error
// payload, distinct from in-IDL exceptions carried inside a Reply.
func Exception(name string, seqID int32, payload []byte) Envelope {
	return newEnvelope(KindException, name, seqID, payload)
}

// OneWay builds a request envelope for which no reply is ever sent.
func OneWay(name string, seqID int32, payload []byte) Envelope {
	return newEnvelope(KindOneWay, name, seqID, payload)
}

// New builds an envelope with the kind supplied as data, for callers
// that hold it as a decoded value rather than choosing a constructor.
// It rejects kinds outside the closed set and method names that are not
// valid UTF-8.
func New(kind Kind, name string, seqID int32, payload []byte) (Envelope, error) {
	if !kind.Valid() {
		return Envelope{}, zerrors.New(ErrKindInvalid).Errorf("kind: %d", int8(kind))
	}
	if !utf8.ValidString(name) {
		return Envelope{}, zerrors.New(ErrNameNotText).Errorf("name: %q", name)
	}
	return newEnvelope(kind, name, seqID, payload), nil
}

func (e Envelope) Kind() Kind { return e.kind }

// Name is the method being invoked or replied to.
func (e Envelope) Name() string { return e.name }

// SeqID is the correlation id chosen by the request issuer and echoed
// unchanged by the responder. It carries no ordering meaning.
func (e Envelope) SeqID() int32 { return e.seqID }

// Payload returns the serialized message content. Callers must not
// modify the returned bytes.
func (e Envelope) Payload() []byte { return e.payload }

// Equal reports whether both envelopes have the same kind, name, seqid
// and payload. Envelopes of different kinds are never equal.
func (e Envelope) Equal(other Envelope) bool {
	return e.kind == other.kind &&
		e.name == other.name &&
		e.seqID == other.seqID &&
		bytes.Equal(e.payload, other.payload)
}

// Compare orders envelopes lexicographically over
// (kind, name, seqid, payload). The ordering exists for deterministic
// sorting and dedup in tests and logs; wire messages have no intrinsic
// order.
func (e Envelope) Compare(other Envelope) int {
	if c := cmp.Compare(e.kind, other.kind); c != 0 {
		return c
	}
	if c := cmp.Compare(e.name, other.name); c != 0 {
		return c
	}
	if c := cmp.Compare(e.seqID, other.seqID); c != 0 {
		return c
	}
	return bytes.Compare(e.payload, other.payload)
}

// EqualAny is Equal over a dynamically-typed operand. Comparing against
// anything that is not an Envelope is a type mismatch error.
func (e Envelope) EqualAny(v any) (bool, error) {
	other, ok := v.(Envelope)
	if !ok {
		return false, zerrors.New(ErrTypeMismatch).Errorf("operand: %T", v)
	}
	return e.Equal(other), nil
}

// CompareAny is Compare over a dynamically-typed operand.
func (e Envelope) CompareAny(v any) (int, error) {
	other, ok := v.(Envelope)
	if !ok {
		return 0, zerrors.New(ErrTypeMismatch).Errorf("operand: %T", v)
	}
	return e.Compare(other), nil
}

// String renders a deterministic debug form, e.g.
// Call("ping", 42, 0102). Diagnostics only, not a wire format.
func (e Envelope) String() string {
	return fmt.Sprintf("%s(%q, %d, %x)", e.kind, e.name, e.seqID, e.payload)
}
