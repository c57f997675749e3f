package envelope

import "fmt"

// Kind discriminates the four wire message shapes.
//
// The integer codes are fixed by the Thrift message header and must
// round-trip exactly; this package carries them as opaque identifiers.
type Kind int8

const (
	KindCall      Kind = 1
	KindReply     Kind = 2
	KindException Kind = 3
	KindOneWay    Kind = 4
)

// Valid reports whether k is one of the four known kinds.
func (k Kind) Valid() bool {
	return k >= KindCall && k <= KindOneWay
}

func (k Kind) String() string {
	switch k {
	case KindCall:
		return "Call"
	case KindReply:
		return "Reply"
	case KindException:
		return "Exception"
	case KindOneWay:
		return "OneWay"
	default:
		return fmt.Sprintf("Kind(%d)", int8(k))
	}
}
