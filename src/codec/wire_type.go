package codec

// WireType identifies the on-the-wire encoding discipline of a field value.
//
// The low 3 bits of every field tag are a WireType. SignedVariant is not a
// real wire-level value (it is indistinguishable from Varint on the wire);
// it exists only so that Hint/Assert can record that the caller wants
// zig-zag decoding applied to an otherwise ordinary varint field.
type WireType int8

const (
	// WireVarint is the wire type for int32, int64, uint32, uint64, sint32,
	// sint64, bool and enum fields.
	WireVarint WireType = 0
	// WireFixed64 is the wire type for fixed64, sfixed64 and double fields.
	WireFixed64 WireType = 1
	// WireBytes is the wire type for string, bytes and embedded message
	// fields (referred to in spec.md as LengthDelimited).
	WireBytes WireType = 2
	// WireStartGroup marks the start of a deprecated group field.
	WireStartGroup WireType = 3
	// WireEndGroup marks the end of a deprecated group field.
	WireEndGroup WireType = 4
	// WireFixed32 is the wire type for fixed32, sfixed32 and float fields.
	WireFixed32 WireType = 5

	// WireNone is the sentinel "no current field" wire type. It is never
	// present on the wire; it is DecoderState's idle value.
	WireNone WireType = -1

	// SignedVariant is a caller-hinted extension of WireVarint: on the wire
	// it has the same low 3 bits as WireVarint, but once a decoder's
	// current wire type has been upgraded to SignedVariant (via Hint or
	// Assert), typed reads apply zig-zag decoding instead of a raw cast.
	SignedVariant WireType = 8
)

// baseWireType returns the on-the-wire low-3-bit value this WireType would
// have occupied in a tag, collapsing SignedVariant back onto WireVarint.
func (w WireType) baseWireType() WireType {
	if w == SignedVariant {
		return WireVarint
	}
	return w
}

func (w WireType) String() string {
	switch w {
	case WireVarint:
		return "varint"
	case WireFixed64:
		return "fixed64"
	case WireBytes:
		return "bytes"
	case WireStartGroup:
		return "start_group"
	case WireEndGroup:
		return "end_group"
	case WireFixed32:
		return "fixed32"
	case WireNone:
		return "none"
	case SignedVariant:
		return "signed_variant"
	default:
		return "unknown"
	}
}
