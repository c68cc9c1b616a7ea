package codec

// VarintCodec: pure LEB128 encode/decode helpers shared by MemorySource and
// PipeSource. Group order is little-endian (least significant 7 bits
// first); the continuation bit is 0x80. Non-minimal encodings (e.g. a
// 2-byte encoding of 0) are accepted, matching protobuf's tolerance
// (spec.md §9).

const (
	maxVarintBytes32 = 5
	maxVarintBytes64 = 10
)

// decodeVarint32 decodes an unsigned 32-bit LEB128 varint from p. It returns
// the number of bytes consumed, or 0 if p does not contain a complete
// varint. overflow is true on overflow (5th byte continuation bit set, or
// accumulated bits above bit 31).
func decodeVarint32(p []byte) (v uint32, n int, overflow bool) {
	var x uint64
	for shift := uint(0); shift < 7*maxVarintBytes32; shift += 7 {
		if n >= len(p) {
			return 0, 0, false
		}
		b := p[n]
		n++
		x |= uint64(b&0x7f) << shift
		if b < 0x80 {
			if x > 0xFFFFFFFF {
				return 0, n, true
			}
			return uint32(x), n, false
		}
	}
	// 5 bytes consumed and the 5th still had its continuation bit set.
	return 0, n, true
}

// decodeVarint64 decodes an unsigned 64-bit LEB128 varint from p. It returns
// the number of bytes consumed, or 0 if p does not contain a complete
// varint. overflow is true on overflow: a 10th byte whose continuation bit is
// set, or whose value carries meaningful bits beyond bit 63.
func decodeVarint64(p []byte) (v uint64, n int, overflow bool) {
	for shift := uint(0); shift < 7*maxVarintBytes64; shift += 7 {
		if n >= len(p) {
			return 0, 0, false
		}
		b := p[n]
		n++
		if shift == 7*(maxVarintBytes64-1) {
			// 10th byte: only bit 0 may be set, and its continuation bit
			// must be clear.
			if b&0x80 != 0 || b > 1 {
				return 0, n, true
			}
			v |= uint64(b) << shift
			return v, n, false
		}
		v |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return v, n, false
		}
	}
	return 0, n, true
}

// zigzagEncode32 maps a signed 32-bit value onto its zig-zag unsigned
// encoding: n<<1 xor n>>31.
func zigzagEncode32(n int32) uint32 {
	return uint32((n << 1) ^ (n >> 31))
}

// zigzagDecode32 inverts zigzagEncode32.
func zigzagDecode32(u uint32) int32 {
	return int32(u>>1) ^ -int32(u&1)
}

// zigzagEncode64 maps a signed 64-bit value onto its zig-zag unsigned
// encoding: n<<1 xor n>>63.
func zigzagEncode64(n int64) uint64 {
	return uint64((n << 1) ^ (n >> 63))
}

// zigzagDecode64 inverts zigzagEncode64.
func zigzagDecode64(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// encodeVarint64 appends the LEB128 encoding of v to dst and returns the
// extended slice. It exists to let tests construct wire bytes directly
// rather than hand-writing hex; the module's decode-only scope means this
// helper is unexported and never grows a public encoder surface (the
// companion writer is an external collaborator per spec.md §1).
func encodeVarint64(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}
