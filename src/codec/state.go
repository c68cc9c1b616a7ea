package codec

import "math"

// maxFieldNumber is protobuf's field-number ceiling: it must fit in 29
// bits once the low 3 wire-type bits are removed from the tag.
const maxFieldNumber = 1<<29 - 1

// endUnbounded is the DecoderState.end sentinel meaning "no sub-message
// boundary is in effect".
const endUnbounded int64 = math.MaxInt64

// DecoderState is WireDecoder's mutable position: everything spec.md §3
// lists as a DecoderState invariant lives here. It never touches the
// ByteSource directly; WireDecoder keeps the two in lockstep.
type DecoderState struct {
	end         int64
	fieldNumber int32
	wireType    WireType
	depth       int
	objectCache ObjectCache
}

func newDecoderState(initialEnd int64, cache ObjectCache) DecoderState {
	end := endUnbounded
	if initialEnd >= 0 {
		end = initialEnd
	}
	return DecoderState{
		end:         end,
		wireType:    WireNone,
		objectCache: cache,
	}
}

// SubObjectToken is the opaque value StartSubItem returns and EndSubItem
// requires. For a length-delimited sub-message it carries the previous and
// new end boundaries; for a group it carries the negated field number that
// must match the closing EndGroup tag (spec.md §3).
type SubObjectToken struct {
	isGroup    bool
	prevEnd    int64
	newEnd     int64
	groupField int32
}
