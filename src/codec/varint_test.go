package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeVarint32RoundTrip(t *testing.T) {
	cases := []uint32{0, 1, 127, 128, 300, 1 << 20, 1<<32 - 1}
	for _, n := range cases {
		buf := encodeVarint64(nil, uint64(n))
		v, consumed, overflow := decodeVarint32(buf)
		require.False(t, overflow)
		assert.Equal(t, len(buf), consumed)
		assert.Equal(t, n, v)
	}
}

func TestDecodeVarint64RoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 1 << 40, 1<<64 - 1}
	for _, n := range cases {
		buf := encodeVarint64(nil, n)
		v, consumed, overflow := decodeVarint64(buf)
		require.False(t, overflow)
		assert.Equal(t, len(buf), consumed)
		assert.Equal(t, n, v)
	}
}

func TestDecodeVarint32NonMinimalAccepted(t *testing.T) {
	// 0x80 0x00 is a non-minimal 2-byte encoding of 0; spec.md §9 says this
	// must be tolerated, not rejected.
	v, consumed, overflow := decodeVarint32([]byte{0x80, 0x00})
	require.False(t, overflow)
	assert.Equal(t, 2, consumed)
	assert.Equal(t, uint32(0), v)
}

func TestDecodeVarint32OverflowFifthByteContinuation(t *testing.T) {
	// Exactly 5 bytes with the high bit still set on the 5th is an
	// overflow for u32 (spec.md §8 boundary case).
	_, _, overflow := decodeVarint32([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	assert.True(t, overflow)
}

func TestDecodeVarint32OverflowHighBits(t *testing.T) {
	// 5 bytes encoding a value with bits set above bit 31.
	buf := encodeVarint64(nil, 1<<32)
	require.Len(t, buf, 5)
	_, _, overflow := decodeVarint32(buf)
	assert.True(t, overflow)
}

func TestDecodeVarint64OverflowTenthByte(t *testing.T) {
	// 10 bytes where the 10th byte carries bits above bit 63.
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x02}
	_, _, overflow := decodeVarint64(buf)
	assert.True(t, overflow)
}

func TestDecodeVarint64TenthByteContinuationBitSet(t *testing.T) {
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x81}
	_, _, overflow := decodeVarint64(buf)
	assert.True(t, overflow)
}

func TestDecodeVarintIncomplete(t *testing.T) {
	v, consumed, overflow := decodeVarint32([]byte{0x96})
	assert.False(t, overflow)
	assert.Equal(t, 0, consumed)
	assert.Equal(t, uint32(0), v)
}

func TestZigZag32(t *testing.T) {
	cases := []int32{0, -1, 1, -2, 2, 2147483647, -2147483648}
	for _, n := range cases {
		assert.Equal(t, n, zigzagDecode32(zigzagEncode32(n)))
	}
}

func TestZigZag64(t *testing.T) {
	cases := []int64{0, -1, 1, -2, 2, 9223372036854775807, -9223372036854775808}
	for _, n := range cases {
		assert.Equal(t, n, zigzagDecode64(zigzagEncode64(n)))
	}
}

func TestZigZagConcreteEncodingFromSpec(t *testing.T) {
	// spec.md scenario 5: field 1 varint 0x03 hinted as SignedVariant
	// decodes to -2.
	assert.Equal(t, int32(-2), zigzagDecode32(3))
}
