package codec

import (
	"encoding/binary"
	"math"
)

// LengthPrefixStyle selects how a stream-level message boundary is framed,
// outside of any single message's own field encoding (spec.md §6). This is
// a distinct concern from WireDecoder's sub-message length-delimited
// bounding: it operates above the message boundary, between messages in a
// stream.
type LengthPrefixStyle int8

const (
	// LengthPrefixNone means no prefix: the message body runs to EOF.
	LengthPrefixNone LengthPrefixStyle = iota
	// LengthPrefixBase128 is a varint length, optionally preceded by a
	// header tag (wire type must be WireBytes; its field number is
	// returned when present).
	LengthPrefixBase128
	// LengthPrefixFixed32 is a little-endian 32-bit length.
	LengthPrefixFixed32
	// LengthPrefixFixed32BigEndian is a big-endian 32-bit length.
	LengthPrefixFixed32BigEndian
)

// NoMessage is the length ReadLengthPrefix returns when a prefix of zero
// consumed bytes indicates there is no further message in the stream.
const NoMessage int64 = -1

// ReadLengthPrefix reads a stream-level length prefix from src in the
// given style. It returns the message's field number (only meaningful for
// LengthPrefixBase128 when expectHeader is true; 0 otherwise) and its
// length in bytes.
//
// expectHeader only applies to LengthPrefixBase128, which spec.md §6
// describes as carrying an *optional* header tag ahead of the length
// varint: when expectHeader is true a tag (whose wire type must be
// WireBytes) is read first; when false the stream is a bare length
// varint with no tag, and fieldNumber is always 0. Other styles ignore
// expectHeader.
//
// A style of LengthPrefixNone always returns length -1 (NoMessage): the
// caller is expected to read to EOF directly and never calls this
// function in that mode; it exists so configuration code can still name
// the style uniformly.
//
// A truncated prefix with zero bytes consumed (the source was already at
// EOF) returns (0, NoMessage, nil) -- "no message". A prefix that begins
// but does not complete is ErrTruncated.
func ReadLengthPrefix(src ByteSource, style LengthPrefixStyle, expectHeader bool) (fieldNumber int32, length int64, err error) {
	switch style {
	case LengthPrefixNone:
		return 0, NoMessage, nil

	case LengthPrefixBase128:
		if src.IsFullyConsumed() {
			return 0, NoMessage, nil
		}
		var field int32
		if expectHeader {
			tag, err := src.ReadVarint32()
			if err != nil {
				return 0, 0, err
			}
			field = int32(tag >> 3)
			wire := WireType(tag & 0x7)
			if wire != WireBytes {
				return 0, 0, ErrWireTypeMismatch
			}
		}
		n, err := src.ReadVarint64()
		if err != nil {
			return 0, 0, err
		}
		if n > math.MaxInt32 {
			return 0, 0, ErrOverflow
		}
		return field, int64(n), nil

	case LengthPrefixFixed32, LengthPrefixFixed32BigEndian:
		if src.IsFullyConsumed() {
			return 0, NoMessage, nil
		}
		var buf [4]byte
		if err := src.ReadInto(buf[:]); err != nil {
			return 0, 0, err
		}
		var n uint32
		if style == LengthPrefixFixed32 {
			n = binary.LittleEndian.Uint32(buf[:])
		} else {
			n = binary.BigEndian.Uint32(buf[:])
		}
		return 0, int64(n), nil

	default:
		return 0, 0, ErrWireTypeMismatch
	}
}
