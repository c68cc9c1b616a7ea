package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 1: single varint field. Input 08 96 01.
func TestDecoderScenario_SingleVarintField(t *testing.T) {
	dec := NewDecoder([]byte{0x08, 0x96, 0x01})

	field, err := dec.ReadFieldHeader()
	require.NoError(t, err)
	assert.Equal(t, int32(1), field)
	assert.Equal(t, WireVarint, dec.WireType())

	v, err := dec.ReadI32()
	require.NoError(t, err)
	assert.Equal(t, int32(150), v)

	field, err = dec.ReadFieldHeader()
	require.NoError(t, err)
	assert.Equal(t, int32(0), field)
}

// Scenario 2: length-delimited string. Input 12 07 "testing".
func TestDecoderScenario_LengthDelimitedString(t *testing.T) {
	dec := NewDecoder([]byte{0x12, 0x07, 't', 'e', 's', 't', 'i', 'n', 'g'})

	field, err := dec.ReadFieldHeader()
	require.NoError(t, err)
	assert.Equal(t, int32(2), field)
	assert.Equal(t, WireBytes, dec.WireType())

	s, err := dec.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "testing", s)

	field, err = dec.ReadFieldHeader()
	require.NoError(t, err)
	assert.Equal(t, int32(0), field)
}

// Scenario 3: nested message. Input 1A 03 08 96 01.
func TestDecoderScenario_NestedMessage(t *testing.T) {
	dec := NewDecoder([]byte{0x1A, 0x03, 0x08, 0x96, 0x01})

	field, err := dec.ReadFieldHeader()
	require.NoError(t, err)
	assert.Equal(t, int32(3), field)
	assert.Equal(t, WireBytes, dec.WireType())

	token, err := dec.StartSubItem()
	require.NoError(t, err)
	assert.Equal(t, 1, dec.Depth())

	field, err = dec.ReadFieldHeader()
	require.NoError(t, err)
	assert.Equal(t, int32(1), field)

	v, err := dec.ReadI32()
	require.NoError(t, err)
	assert.Equal(t, int32(150), v)

	field, err = dec.ReadFieldHeader()
	require.NoError(t, err)
	assert.Equal(t, int32(0), field)

	require.NoError(t, dec.EndSubItem(token))
	assert.Equal(t, 0, dec.Depth())

	field, err = dec.ReadFieldHeader()
	require.NoError(t, err)
	assert.Equal(t, int32(0), field)
}

// Scenario 4: unknown field skip. Input 28 2A 08 96 01 (field 5 varint=42,
// then field 1 varint=150).
func TestDecoderScenario_UnknownFieldSkip(t *testing.T) {
	dec := NewDecoder([]byte{0x28, 0x2A, 0x08, 0x96, 0x01})

	field, err := dec.ReadFieldHeader()
	require.NoError(t, err)
	assert.Equal(t, int32(5), field)

	require.NoError(t, dec.SkipField())

	field, err = dec.ReadFieldHeader()
	require.NoError(t, err)
	assert.Equal(t, int32(1), field)

	v, err := dec.ReadI32()
	require.NoError(t, err)
	assert.Equal(t, int32(150), v)
}

// Scenario 5: zig-zag signed. Input 08 03 read as SignedVariant via Hint.
func TestDecoderScenario_ZigZagSigned(t *testing.T) {
	dec := NewDecoder([]byte{0x08, 0x03})

	field, err := dec.ReadFieldHeader()
	require.NoError(t, err)
	assert.Equal(t, int32(1), field)

	dec.Hint(SignedVariant)
	v, err := dec.ReadI32()
	require.NoError(t, err)
	assert.Equal(t, int32(-2), v)
}

// Scenario 6: truncated varint. Input 08 96 (continuation bit set but
// stream ends).
func TestDecoderScenario_TruncatedVarint(t *testing.T) {
	dec := NewDecoder([]byte{0x08, 0x96})

	field, err := dec.ReadFieldHeader()
	require.NoError(t, err)
	assert.Equal(t, int32(1), field)

	_, err = dec.ReadI32()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestEndGroupAtDepthZeroIsUnexpected(t *testing.T) {
	// Tag for field 1, wire type EndGroup (4): (1<<3)|4 = 12 = 0x0C.
	dec := NewDecoder([]byte{0x0C})
	_, err := dec.ReadFieldHeader()
	assert.ErrorIs(t, err, ErrUnexpectedEndGroup)
}

func TestGroupRoundTrip(t *testing.T) {
	// Field 1 StartGroup(3): tag 0x0B; nested field 2 varint=5: 0x10 0x05;
	// field 1 EndGroup(4): tag 0x0C.
	dec := NewDecoder([]byte{0x0B, 0x10, 0x05, 0x0C})

	field, err := dec.ReadFieldHeader()
	require.NoError(t, err)
	assert.Equal(t, int32(1), field)
	assert.Equal(t, WireStartGroup, dec.WireType())

	token, err := dec.StartSubItem()
	require.NoError(t, err)

	field, err = dec.ReadFieldHeader()
	require.NoError(t, err)
	assert.Equal(t, int32(2), field)
	v, err := dec.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(5), v)

	field, err = dec.ReadFieldHeader()
	require.NoError(t, err)
	assert.Equal(t, int32(0), field)
	assert.Equal(t, WireEndGroup, dec.WireType())

	require.NoError(t, dec.EndSubItem(token))
	assert.Equal(t, 0, dec.Depth())
}

func TestGroupMismatchedEndField(t *testing.T) {
	// Field 1 StartGroup, field 9 EndGroup instead of field 1: mismatch.
	dec := NewDecoder([]byte{0x0B, 0x4C})
	_, err := dec.ReadFieldHeader()
	require.NoError(t, err)
	token, err := dec.StartSubItem()
	require.NoError(t, err)

	_, err = dec.ReadFieldHeader()
	require.NoError(t, err)
	assert.Equal(t, WireEndGroup, dec.WireType())

	err = dec.EndSubItem(token)
	assert.ErrorIs(t, err, ErrGroupMismatch)
}

func TestSkipGroupNested(t *testing.T) {
	// field1 StartGroup, field2 StartGroup, field2 EndGroup, field1
	// EndGroup, then field3 varint=7.
	dec := NewDecoder([]byte{
		0x0B,       // field1 StartGroup
		0x13,       // field2 StartGroup
		0x14,       // field2 EndGroup
		0x0C,       // field1 EndGroup
		0x18, 0x07, // field3 varint=7
	})
	field, err := dec.ReadFieldHeader()
	require.NoError(t, err)
	assert.Equal(t, int32(1), field)
	assert.Equal(t, WireStartGroup, dec.WireType())

	require.NoError(t, dec.SkipField())

	field, err = dec.ReadFieldHeader()
	require.NoError(t, err)
	assert.Equal(t, int32(3), field)
	v, err := dec.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(7), v)
}

func TestSubMessageOverrunRejectedAtStart(t *testing.T) {
	// Outer sub-message of length 2, inner claims length 5: rejected before
	// the window is even applied (spec.md §9's Open Question resolution).
	dec := NewDecoder([]byte{
		0x0A, 0x02, // field1 bytes len=2
		0x0A, 0x05, // would-be nested field1 bytes len=5, but only 0 bytes remain in outer
	})
	_, err := dec.ReadFieldHeader()
	require.NoError(t, err)
	outer, err := dec.StartSubItem()
	require.NoError(t, err)

	_, err = dec.ReadFieldHeader()
	require.NoError(t, err)
	_, err = dec.StartSubItem()
	assert.ErrorIs(t, err, ErrOverranSubMessage)

	_ = outer
}

func TestSubMessageTruncatedLength(t *testing.T) {
	// Declared length (5) exceeds the bytes actually remaining in the
	// top-level (unbounded) stream, so entry itself succeeds -- nothing
	// has been read past a known boundary yet -- but the very next read
	// inside the sub-message surfaces Truncated (spec.md §8 boundary
	// case: "declared length exceeding remaining bytes -> Truncated on
	// first read past boundary").
	dec := NewDecoder([]byte{0x0A, 0x05}) // field1 bytes, len=5, 0 bytes follow
	_, err := dec.ReadFieldHeader()
	require.NoError(t, err)
	_, err = dec.StartSubItem()
	require.NoError(t, err)

	_, err = dec.ReadFieldHeader()
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestSubMessageShortPayloadReadIsTruncated(t *testing.T) {
	// declares len 4 but only 1 payload byte is physically present.
	dec := NewDecoder([]byte{0x0A, 0x04, 0x08})
	_, err := dec.ReadFieldHeader()
	require.NoError(t, err)
	token, err := dec.StartSubItem()
	require.NoError(t, err)

	_, err = dec.ReadFieldHeader()
	require.NoError(t, err)
	_, err = dec.ReadU32()
	assert.ErrorIs(t, err, ErrTruncated)
	_ = token
}

func TestHintSilentOnMismatch(t *testing.T) {
	dec := NewDecoder([]byte{0x0D, 0x01, 0x02, 0x03, 0x04}) // field1 fixed32
	_, err := dec.ReadFieldHeader()
	require.NoError(t, err)
	assert.Equal(t, WireFixed32, dec.WireType())

	dec.Hint(SignedVariant) // base wire types differ (varint vs fixed32): no-op
	assert.Equal(t, WireFixed32, dec.WireType())
}

func TestAssertFailsOnMismatch(t *testing.T) {
	dec := NewDecoder([]byte{0x0D, 0x01, 0x02, 0x03, 0x04})
	_, err := dec.ReadFieldHeader()
	require.NoError(t, err)
	err = dec.Assert(SignedVariant)
	assert.ErrorIs(t, err, ErrWireTypeMismatch)
}

func TestErrorOffsetReflectsBytesConsumedBeforeFailure(t *testing.T) {
	// field1 fixed32 (4 bytes), then a truncated varint tag: the offset on
	// the eventual failure must land after the fixed32 field, not at 0.
	dec := NewDecoder([]byte{0x0D, 0x01, 0x02, 0x03, 0x04, 0x96})
	_, err := dec.ReadFieldHeader()
	require.NoError(t, err)
	_, err = dec.ReadU32()
	require.NoError(t, err)

	_, err = dec.ReadFieldHeader()
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, int64(5), de.Offset)
}

func TestInvalidBoolean(t *testing.T) {
	dec := NewDecoder([]byte{0x08, 0x02}) // field1 varint=2
	_, err := dec.ReadFieldHeader()
	require.NoError(t, err)
	_, err = dec.ReadBool()
	assert.ErrorIs(t, err, ErrInvalidBoolean)
}

func TestAppendBytesVarintQuirk(t *testing.T) {
	// spec.md §9: AppendBytes invoked while the current wire type is
	// Varint must return the existing slice unmodified, without consuming
	// input.
	dec := NewDecoder([]byte{0x08, 0x96, 0x01})
	_, err := dec.ReadFieldHeader()
	require.NoError(t, err)

	existing := []byte{0xAA}
	out, err := dec.AppendBytes(existing)
	require.NoError(t, err)
	assert.Equal(t, existing, out)
	// Input was not consumed: the varint can still be read normally.
	v, err := dec.ReadI32()
	require.NoError(t, err)
	assert.Equal(t, int32(150), v)
}

func TestNarrowIntegerCoercions(t *testing.T) {
	dec := NewDecoder([]byte{0x08, 0x7F}) // field1 varint=127
	_, err := dec.ReadFieldHeader()
	require.NoError(t, err)
	v, err := dec.ReadInt8()
	require.NoError(t, err)
	assert.Equal(t, int8(127), v)
}

func TestNarrowIntegerCoercionOverflow(t *testing.T) {
	dec := NewDecoder([]byte{0x08, 0x80, 0x01}) // field1 varint=128, too big for int8
	_, err := dec.ReadFieldHeader()
	require.NoError(t, err)
	_, err = dec.ReadInt8()
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestErrorIsEnrichedWithDiagnosticContext(t *testing.T) {
	dec := NewDecoder([]byte{0x08, 0x02})
	_, err := dec.ReadFieldHeader()
	require.NoError(t, err)
	_, err = dec.ReadBool()
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, int32(1), de.Field)
	// The underlying varint was consumed successfully (it just isn't a
	// valid boolean), so the wire type has already reverted to WireNone
	// by the time the error is raised.
	assert.Equal(t, WireNone, de.Wire)
	// Both input bytes were consumed before the boolean check failed.
	assert.Equal(t, int64(2), de.Offset)
}
