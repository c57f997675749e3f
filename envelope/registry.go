package envelope

// Constructor builds an envelope of a fixed kind from decoded header
// fields. The four variant constructors all satisfy it.
type Constructor func(name string, seqID int32, payload []byte) Envelope

// The table is fixed at compile time and never mutates, so lookups need
// no locking.
var constructors = map[int32]Constructor{
	int32(KindCall):      Call,
	int32(KindReply):     Reply,
	int32(KindException): Exception,
	int32(KindOneWay):    OneWay,
}

// ConstructorFor maps a wire kind code to the matching variant
// constructor. An unknown code returns ok=false rather than an error:
// the caller decides whether that is a protocol violation or a
// forward-compatibility signal.
func ConstructorFor(code int32) (Constructor, bool) {
	c, ok := constructors[code]
	return c, ok
}
