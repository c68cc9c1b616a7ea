package codec

// FieldType enumerates the declared protobuf scalar/message kinds a caller
// can request a read against. It is used by PackedRepeatedEach to select
// the wire type a packed repeated field was encoded with.
type FieldType int8

const (
	FieldType_DOUBLE FieldType = iota
	FieldType_FLOAT
	FieldType_INT64
	FieldType_UINT64
	FieldType_INT32
	FieldType_FIXED64
	FieldType_FIXED32
	FieldType_BOOL
	FieldType_STRING
	FieldType_MESSAGE
	FieldType_BYTES
	FieldType_UINT32
	FieldType_ENUM
	FieldType_SFIXED32
	FieldType_SFIXED64
	FieldType_SINT32
	FieldType_SINT64
)

var varintTypes = map[FieldType]bool{
	FieldType_BOOL:   true,
	FieldType_INT32:  true,
	FieldType_INT64:  true,
	FieldType_UINT32: true,
	FieldType_UINT64: true,
	FieldType_SINT32: true,
	FieldType_SINT64: true,
	FieldType_ENUM:   true,
}

var fixed32Types = map[FieldType]bool{
	FieldType_FIXED32:  true,
	FieldType_SFIXED32: true,
	FieldType_FLOAT:    true,
}

var fixed64Types = map[FieldType]bool{
	FieldType_FIXED64:  true,
	FieldType_SFIXED64: true,
	FieldType_DOUBLE:   true,
}

// WireTypeForPacked returns the wire type a packed repeated field of the
// given FieldType is encoded with. Returns false for types that cannot
// appear in a packed repeated field (strings, bytes, messages).
func WireTypeForPacked(ft FieldType) (WireType, bool) {
	switch {
	case varintTypes[ft]:
		return WireVarint, true
	case fixed64Types[ft]:
		return WireFixed64, true
	case fixed32Types[ft]:
		return WireFixed32, true
	default:
		return WireNone, false
	}
}
