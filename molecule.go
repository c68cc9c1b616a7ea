// Package molecule provides a streaming, allocation-conscious decoder for
// the Protocol Buffers wire format. It exposes typed scalar, string,
// byte-blob and sub-message reads alongside field-header iteration, over
// either an in-memory buffer or a pull-based io.Reader.
package molecule

import (
	"fmt"
	"io"
	"math"

	"github.com/streamproto/molecule/src/codec"
)

// Value holds the result of reading one field's payload: which wire type
// it carried, and (depending on that wire type) either its numeric value
// or its raw bytes.
type Value struct {
	WireType codec.WireType
	Number   uint64
	Bytes    []byte
}

// AsInt32 reinterprets a WireVarint value as a two's-complement int32.
func (v Value) AsInt32() int32 { return int32(v.Number) }

// AsInt64 reinterprets a WireVarint value as a two's-complement int64.
func (v Value) AsInt64() int64 { return int64(v.Number) }

// AsFloat32 reinterprets a WireFixed32 value's bits as a float32.
func (v Value) AsFloat32() float32 { return math.Float32frombits(uint32(v.Number)) }

// AsFloat64 reinterprets a WireFixed64 value's bits as a float64.
func (v Value) AsFloat64() float64 { return math.Float64frombits(v.Number) }

// MessageEachFn is called for each top-level field in a message passed to
// MessageEach. Returning false stops iteration early without an error.
type MessageEachFn func(fieldNum int32, value Value) (bool, error)

// MessageEach iterates over each top-level field in the message held by
// dec and calls fn for each one. It stops at the decoder's current
// sub-message boundary (or end of stream at depth 0).
func MessageEach(dec *codec.WireDecoder, fn MessageEachFn) error {
	for {
		fieldNum, err := dec.ReadFieldHeader()
		if err != nil {
			return fmt.Errorf("molecule: MessageEach: reading field header: %w", err)
		}
		if fieldNum == 0 {
			return nil
		}

		value, err := readValue(dec, dec.WireType())
		if err != nil {
			return fmt.Errorf("molecule: MessageEach: reading value for field %d: %w", fieldNum, err)
		}

		if shouldContinue, err := fn(fieldNum, value); err != nil || !shouldContinue {
			return err
		}
	}
}

// PackedRepeatedEachFn is called for each value in a packed repeated
// field. Returning false stops iteration early.
type PackedRepeatedEachFn func(value Value) (bool, error)

// PackedRepeatedEach iterates over each value in a packed repeated field
// whose bytes are bound by dec's current sub-message window. Callers
// typically reach this by calling StartSubItem on a WireBytes field first
// (packed repeated fields are themselves length-delimited), then running
// PackedRepeatedEach until the window is exhausted, then EndSubItem.
// fieldType selects which wire type the packed values use.
func PackedRepeatedEach(dec *codec.WireDecoder, fieldType codec.FieldType, fn PackedRepeatedEachFn) error {
	wireType, ok := codec.WireTypeForPacked(fieldType)
	if !ok {
		return fmt.Errorf("molecule: PackedRepeatedEach: field type %v cannot be packed", fieldType)
	}

	for dec.Position() < dec.EndBoundary() {
		value, err := readPackedValue(dec, wireType)
		if err != nil {
			return fmt.Errorf("molecule: PackedRepeatedEach: reading value: %w", err)
		}
		if shouldContinue, err := fn(value); err != nil || !shouldContinue {
			return err
		}
	}
	return nil
}

// readPackedValue reads one element of a packed repeated field. Unlike
// readValue it cannot rely on ReadFieldHeader having set the decoder's
// wire type first: packed elements have no per-element tag, so the wire
// type is forced directly from fieldType instead.
func readPackedValue(dec *codec.WireDecoder, wireType codec.WireType) (Value, error) {
	dec.ForceWireType(wireType)
	return readValue(dec, wireType)
}

func readValue(dec *codec.WireDecoder, wireType codec.WireType) (Value, error) {
	value := Value{WireType: wireType}

	switch wireType {
	case codec.WireVarint:
		v, err := dec.ReadU64()
		if err != nil {
			return Value{}, err
		}
		value.Number = v
	case codec.WireFixed32:
		v, err := dec.ReadU32()
		if err != nil {
			return Value{}, err
		}
		value.Number = uint64(v)
	case codec.WireFixed64:
		v, err := dec.ReadU64()
		if err != nil {
			return Value{}, err
		}
		value.Number = v
	case codec.WireBytes:
		b, err := dec.AppendBytes(nil)
		if err != nil {
			return Value{}, err
		}
		value.Bytes = b
	case codec.WireStartGroup, codec.WireEndGroup:
		return Value{}, fmt.Errorf("molecule: encountered group wire type %v: groups are not supported here, use StartSubItem directly", wireType)
	default:
		return Value{}, fmt.Errorf("molecule: unknown wire type %v", wireType)
	}

	return value, nil
}

// NewDecoder returns a WireDecoder reading buf from the beginning.
func NewDecoder(buf []byte, opts ...codec.Option) *codec.WireDecoder {
	return codec.NewDecoder(buf, opts...)
}

// NewStreamDecoder returns a WireDecoder pulling bytes from r on demand,
// for streaming protocols where the whole message is never buffered at
// once.
func NewStreamDecoder(r io.Reader, opts ...codec.Option) *codec.WireDecoder {
	return codec.NewStreamDecoder(r, opts...)
}
