package envelope_test

import (
	"testing"

	"github.com/wirecall/wirecall/envelope"

	"github.com/emirpasic/gods/v2/sets/treeset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ctor envelope.Constructor
		kind envelope.Kind
	}{
		{"call", envelope.Call, envelope.KindCall},
		{"reply", envelope.Reply, envelope.KindReply},
		{"exception", envelope.Exception, envelope.KindException},
		{"oneway", envelope.OneWay, envelope.KindOneWay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := tt.ctor("getValue", 1234, []byte{0xDE, 0xAD})

			require.Equal(t, tt.kind, env.Kind())
			require.Equal(t, "getValue", env.Name())
			require.Equal(t, int32(1234), env.SeqID())
			require.Equal(t, []byte{0xDE, 0xAD}, env.Payload())
		})
	}
}

func TestConstructors_CopyPayload(t *testing.T) {
	buf := []byte{1, 2, 3}
	env := envelope.Call("m", 1, buf)

	buf[0] = 99

	require.Equal(t, []byte{1, 2, 3}, env.Payload(),
		"mutating the source buffer must not be observable through the envelope")
}

func TestEnvelope_KindDiscrimination(t *testing.T) {
	call := envelope.Call("m", 1, []byte("x"))
	reply := envelope.Reply("m", 1, []byte("x"))

	assert.False(t, call.Equal(reply))
	assert.False(t, reply.Equal(call))
	assert.NotEqual(t, 0, call.Compare(reply))
}

func TestEnvelope_EqualityIsEquivalence(t *testing.T) {
	a := envelope.Call("ping", 42, []byte{1, 2})
	b := envelope.Call("ping", 42, []byte{1, 2})
	c := envelope.Call("ping", 42, []byte{1, 2})

	// Reflexive.
	assert.True(t, a.Equal(a))
	// Symmetric.
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	// Transitive.
	assert.True(t, b.Equal(c))
	assert.True(t, a.Equal(c))

	assert.False(t, a.Equal(envelope.Call("ping", 43, []byte{1, 2})))
	assert.False(t, a.Equal(envelope.Call("pong", 42, []byte{1, 2})))
	assert.False(t, a.Equal(envelope.Call("ping", 42, []byte{1, 3})))
}

func TestEnvelope_CompareOrdersKindFirst(t *testing.T) {
	call := envelope.Call("zzz", 99, []byte{0xFF})
	reply := envelope.Reply("aaa", 0, nil)

	// Kind outranks every other field.
	assert.Negative(t, call.Compare(reply))
	assert.Positive(t, reply.Compare(call))

	assert.Negative(t, envelope.Call("a", 1, nil).Compare(envelope.Call("b", 0, nil)))
	assert.Negative(t, envelope.Call("a", 1, nil).Compare(envelope.Call("a", 2, nil)))
	assert.Negative(t, envelope.Call("a", 1, []byte{1}).Compare(envelope.Call("a", 1, []byte{2})))
	assert.Zero(t, call.Compare(call))
}

// ptr boxes an envelope: the tree set's element type must be
// comparable, which []byte payloads rule out for the value itself.
func ptr(e envelope.Envelope) *envelope.Envelope {
	return &e
}

func TestEnvelope_SortDedup(t *testing.T) {
	set := treeset.NewWith(func(a, b *envelope.Envelope) int {
		return a.Compare(*b)
	})

	set.Add(ptr(envelope.Reply("ping", 1, []byte("pong"))))
	set.Add(ptr(envelope.Call("ping", 1, []byte("pong"))))
	set.Add(ptr(envelope.Call("ping", 1, []byte("pong")))) // duplicate
	set.Add(ptr(envelope.Call("ping", 2, []byte("pong"))))

	require.Equal(t, 3, set.Size(), "structural duplicates collapse")

	ordered := set.Values()
	require.Equal(t, envelope.KindCall, ordered[0].Kind())
	require.Equal(t, int32(1), ordered[0].SeqID())
	require.Equal(t, int32(2), ordered[1].SeqID())
	require.Equal(t, envelope.KindReply, ordered[2].Kind())
}

func TestEnvelope_DynamicOperandMismatch(t *testing.T) {
	env := envelope.Call("m", 1, nil)

	_, err := env.EqualAny("not an envelope")
	require.ErrorContains(t, err, string(envelope.ErrTypeMismatch))

	_, err = env.CompareAny(42)
	require.ErrorContains(t, err, string(envelope.ErrTypeMismatch))

	eq, err := env.EqualAny(envelope.Call("m", 1, nil))
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestEnvelope_StringDeterministic(t *testing.T) {
	env := envelope.Call("ping", 42, []byte{0x01, 0x02})

	want := `Call("ping", 42, 0102)`
	require.Equal(t, want, env.String())
	require.Equal(t, want, env.String(), "repeated calls render the same literal")

	require.Equal(t, `Reply("ping", 42, 0102)`, envelope.Reply("ping", 42, []byte{0x01, 0x02}).String())
}

func TestNew_Checked(t *testing.T) {
	env, err := envelope.New(envelope.KindException, "boom", -7, []byte("oops"))
	require.NoError(t, err)
	require.Equal(t, envelope.KindException, env.Kind())
	require.Equal(t, int32(-7), env.SeqID())

	_, err = envelope.New(envelope.Kind(9), "m", 1, nil)
	require.ErrorContains(t, err, string(envelope.ErrKindInvalid))

	_, err = envelope.New(envelope.KindCall, string([]byte{0xFF, 0xFE}), 1, nil)
	require.ErrorContains(t, err, string(envelope.ErrNameNotText))
}

func TestConstructorFor(t *testing.T) {
	for _, kind := range []envelope.Kind{
		envelope.KindCall,
		envelope.KindReply,
		envelope.KindException,
		envelope.KindOneWay,
	} {
		ctor, ok := envelope.ConstructorFor(int32(kind))
		require.True(t, ok, "code %d", kind)

		env := ctor("m", 7, []byte("p"))
		require.Equal(t, kind, env.Kind(), "constructor for code %d must produce that kind", kind)
	}

	for _, code := range []int32{0, -1, 5, 999999} {
		ctor, ok := envelope.ConstructorFor(code)
		assert.False(t, ok, "code %d", code)
		assert.Nil(t, ctor)
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Call", envelope.KindCall.String())
	assert.Equal(t, "Reply", envelope.KindReply.String())
	assert.Equal(t, "Exception", envelope.KindException.String())
	assert.Equal(t, "OneWay", envelope.KindOneWay.String())
	assert.Equal(t, "Kind(9)", envelope.Kind(9).String())
	assert.False(t, envelope.Kind(9).Valid())
}
