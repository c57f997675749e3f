package serde

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

func NewMsgpackSerializer[T any]() SerializerFunc[T, []byte] {
	return func(t T) ([]byte, error) {
		data, err := msgpack.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("serde.Msgpack: failed to serialize payload, %w", err)
		}

		return data, nil
	}
}

func NewMsgpackDeserializer[T any](factory func() T) DeserializerFunc[T, []byte] {
	return func(data []byte) (T, error) {
		var zeroValue T

		model := factory()
		if err := msgpack.Unmarshal(data, &model); err != nil {
			return zeroValue, fmt.Errorf("serde.Msgpack: failed to deserialize payload, %w", err)
		}

		return model, nil
	}
}

func NewMsgpack[T any](factory func() T) Fused[T, []byte] {
	return Fuse(
		NewMsgpackSerializer[T](),
		NewMsgpackDeserializer(factory),
	)
}
