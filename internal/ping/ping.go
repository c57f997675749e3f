// Package ping holds the shared method names and payload shapes used by
// the example client and server. Payloads travel inside envelopes as
// opaque bytes; both ends must agree on the payload format out of band.
package ping

import (
	"fmt"

	"github.com/wirecall/wirecall/serde"
)

const (
	MethodPing   = "ping"
	MethodNotify = "notify"
)

type Args struct {
	Message string `json:"message" msgpack:"message"`
}

type Result struct {
	Message string `json:"message" msgpack:"message"`
}

// Fault is the out-of-band error payload carried by an Exception
// envelope when a request cannot be served.
type Fault struct {
	Code    string `json:"code"    msgpack:"code"`
	Message string `json:"message" msgpack:"message"`
}

const (
	FaultUnknownMethod = "unknown_method"
	FaultBadPayload    = "bad_payload"
)

type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatMsgpack:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown payload format %q", s)
	}
}

func ArgsSerde(f Format) serde.Serde[*Args, []byte] {
	return payloadSerde(f, func() *Args { return new(Args) })
}

func ResultSerde(f Format) serde.Serde[*Result, []byte] {
	return payloadSerde(f, func() *Result { return new(Result) })
}

func FaultSerde(f Format) serde.Serde[*Fault, []byte] {
	return payloadSerde(f, func() *Fault { return new(Fault) })
}

func payloadSerde[T any](f Format, factory func() T) serde.Serde[T, []byte] {
	if f == FormatMsgpack {
		return serde.NewMsgpack(factory)
	}
	return serde.NewJSON(factory)
}
