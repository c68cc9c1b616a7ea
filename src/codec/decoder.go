package codec

import (
	"io"
	"math"
)

// WireDecoder is the public streaming decoder surface. It reads field
// headers, dispatches typed scalar reads against the field's wire type
// (with the coercions spec.md §4.3 permits), enters/leaves sub-messages,
// and skips unknown fields.
//
// A single WireDecoder type serves both the synchronous-pull and
// cooperative-pull surfaces spec.md §1/§9 describe: it is parameterized
// over the ByteSource interface, and MemorySource / PipeSource are simply
// two implementations of it. NewDecoder gives you the former,
// NewStreamDecoder the latter; every other method is identical.
//
// A WireDecoder is not safe for concurrent use (spec.md §5).
type WireDecoder struct {
	src      ByteSource
	state    DecoderState
	interner *StringInterner
	cfg      config
}

// NewDecoder returns a WireDecoder reading buf from the beginning.
func NewDecoder(buf []byte, opts ...Option) *WireDecoder {
	return newDecoder(NewMemorySource(buf), opts...)
}

// NewStreamDecoder returns a WireDecoder pulling bytes from r on demand.
func NewStreamDecoder(r io.Reader, opts ...Option) *WireDecoder {
	return newDecoder(NewPipeSource(r), opts...)
}

func newDecoder(src ByteSource, opts ...Option) *WireDecoder {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	d := &WireDecoder{
		src:   src,
		state: newDecoderState(cfg.initialEnd, cfg.objectCache),
		cfg:   cfg,
	}
	if cfg.initialEnd >= 0 {
		src.ApplyWindow(cfg.initialEnd)
	}
	if cfg.internStrings {
		d.interner = newStringInterner()
	}
	return d
}

// Reset rebinds the decoder to buf, restoring it to a fresh top-level
// decode. It is only valid on a WireDecoder built over a MemorySource;
// PipeSource decoders should be discarded and recreated instead, since the
// underlying io.Reader cannot be rewound.
func (d *WireDecoder) Reset(buf []byte) {
	if m, ok := d.src.(*MemorySource); ok {
		m.Reset(buf)
	}
	d.state = newDecoderState(d.cfg.initialEnd, d.cfg.objectCache)
	if d.cfg.initialEnd >= 0 {
		d.src.ApplyWindow(d.cfg.initialEnd)
	}
	if d.interner != nil {
		d.interner.reset()
	}
}

// FieldNumber returns the field number most recently decoded by
// ReadFieldHeader, or 0 before the first one. It is not cleared when the
// field's value is consumed.
func (d *WireDecoder) FieldNumber() int32 { return d.state.fieldNumber }

// WireType returns the decoder's current wire type, or WireNone if no
// field is current.
func (d *WireDecoder) WireType() WireType { return d.state.wireType }

// Depth returns the decoder's current sub-message nesting depth.
func (d *WireDecoder) Depth() int { return d.state.depth }

// Position returns the absolute byte offset of the next unread byte.
func (d *WireDecoder) Position() int64 { return d.src.Position() }

// EndBoundary returns the absolute offset the decoder currently treats as
// the end of the visible stream: either the outer stream's unbounded
// sentinel or the end of the innermost length-delimited sub-message it is
// inside.
func (d *WireDecoder) EndBoundary() int64 { return d.state.end }

// TypeModel returns the opaque type-model handle configured via
// WithTypeModel, or nil.
func (d *WireDecoder) TypeModel() interface{} { return d.cfg.typeModel }

// SerializationContext returns the opaque context configured via
// WithSerializationContext, or nil.
func (d *WireDecoder) SerializationContext() interface{} { return d.cfg.serContext }

// ObjectCache returns the configured object-cache collaborator, or nil.
func (d *WireDecoder) ObjectCache() ObjectCache { return d.cfg.objectCache }

// atEnd reports whether ReadFieldHeader should stop without attempting a
// read. Inside a bounded sub-message (state.end finite) this is purely the
// logical boundary: position >= end. At top level (state.end the
// unbounded sentinel) there is no logical boundary to compare against, so
// "done" means the source has no physical bytes left; a source that still
// has some bytes but not a complete tag is not atEnd, and the attempted
// tag read surfaces that as ErrTruncated instead of a silent 0 (spec.md
// §8 scenario 6).
func (d *WireDecoder) atEnd() bool {
	if d.state.end < endUnbounded {
		return d.src.Position() >= d.state.end
	}
	if ps, ok := d.src.(*PipeSource); ok {
		// RemainingInCurrent only counts bytes already pulled from the
		// reader; the stream is done only once a pull reaches io.EOF.
		return ps.refill(1) == ErrTruncated
	}
	return d.src.RemainingInCurrent() == 0
}

// ReadFieldHeader reads the next field's tag, updating FieldNumber and
// WireType. It returns 0 when the current sub-message (or the whole
// stream, at depth 0) is exhausted; the caller must not treat 0 as an
// error.
func (d *WireDecoder) ReadFieldHeader() (int32, error) {
	if d.state.wireType == WireEndGroup {
		// A previous call already surfaced the EndGroup marker; it stays
		// current until EndSubItem consumes it.
		return 0, nil
	}
	if d.atEnd() {
		d.state.wireType = WireNone
		return 0, nil
	}
	tag, err := d.src.ReadVarint32()
	if err != nil {
		return 0, d.enrich(err)
	}
	field := int32(tag >> 3)
	wire := WireType(tag & 0x7)
	if field < 1 || field > maxFieldNumber {
		d.state.fieldNumber = field
		d.state.wireType = wire
		return 0, d.enrich(ErrInvalidField)
	}
	if wire == WireEndGroup {
		d.state.fieldNumber = field
		if d.state.depth == 0 {
			d.state.wireType = WireNone
			return 0, d.enrich(ErrUnexpectedEndGroup)
		}
		d.state.wireType = WireEndGroup
		return 0, nil
	}
	d.state.fieldNumber = field
	d.state.wireType = wire
	return field, nil
}

// TryReadFieldHeader is a non-consuming peek used for delimiter matching:
// if the next tag's field number equals expected and its wire type is not
// EndGroup, it commits the read (equivalent to ReadFieldHeader) and
// returns true; otherwise it leaves the decoder's state untouched and
// returns false.
func (d *WireDecoder) TryReadFieldHeader(expected int32) (bool, error) {
	if d.atEnd() {
		return false, nil
	}
	tag, consumed, overflow := d.src.PeekVarint32()
	if overflow {
		return false, d.enrich(ErrOverflow)
	}
	if consumed == 0 {
		return false, nil
	}
	field := int32(tag >> 3)
	wire := WireType(tag & 0x7)
	if field != expected || wire == WireEndGroup {
		return false, nil
	}
	if err := d.src.Skip(consumed); err != nil {
		return false, d.enrich(err)
	}
	d.state.fieldNumber = field
	d.state.wireType = wire
	return true, nil
}

// ForceWireType sets the decoder's current wire type directly, bypassing
// the Hint/Assert compatibility check. It exists for callers that know a
// field payload's wire format without having just read a tag for it, such
// as decoding one element of a packed-repeated field (where only the
// outer length-delimited field has a tag; individual elements do not).
func (d *WireDecoder) ForceWireType(w WireType) { d.state.wireType = w }

// Hint silently upgrades the current wire type to w if w and the current
// wire type share the same on-the-wire low 3 bits; otherwise it leaves the
// wire type unchanged. It is used to enable zig-zag decoding of a sint32
// /sint64 field via SignedVariant.
func (d *WireDecoder) Hint(w WireType) {
	if w.baseWireType() == d.state.wireType.baseWireType() {
		d.state.wireType = w
	}
}

// Assert upgrades the current wire type like Hint, but fails with
// ErrWireTypeMismatch instead of silently ignoring a mismatch.
func (d *WireDecoder) Assert(w WireType) error {
	if w.baseWireType() != d.state.wireType.baseWireType() {
		return d.enrich(ErrWireTypeMismatch)
	}
	d.state.wireType = w
	return nil
}

// ---- typed scalar reads ----

func (d *WireDecoder) readVarint32() (uint32, error) {
	v, err := d.src.ReadVarint32()
	if err != nil {
		return 0, d.enrich(err)
	}
	return v, nil
}

func (d *WireDecoder) readVarint64() (uint64, error) {
	v, err := d.src.ReadVarint64()
	if err != nil {
		return 0, d.enrich(err)
	}
	return v, nil
}

// ReadU32 reads the current field as an unsigned 32-bit integer.
func (d *WireDecoder) ReadU32() (uint32, error) {
	var out uint32
	switch d.state.wireType {
	case WireVarint:
		v, err := d.readVarint32()
		if err != nil {
			return 0, err
		}
		out = v
	case WireFixed32:
		v, err := d.src.ReadFixed32LE()
		if err != nil {
			return 0, d.enrich(err)
		}
		out = v
	case WireFixed64:
		v, err := d.src.ReadFixed64LE()
		if err != nil {
			return 0, d.enrich(err)
		}
		if v > math.MaxUint32 {
			return 0, d.enrich(ErrOverflow)
		}
		out = uint32(v)
	default:
		return 0, d.enrich(ErrWireTypeMismatch)
	}
	d.state.wireType = WireNone
	return out, nil
}

// ReadI32 reads the current field as a signed 32-bit integer.
func (d *WireDecoder) ReadI32() (int32, error) {
	var out int32
	switch d.state.wireType {
	case WireVarint:
		v, err := d.readVarint32()
		if err != nil {
			return 0, err
		}
		out = int32(v)
	case SignedVariant:
		v, err := d.readVarint32()
		if err != nil {
			return 0, err
		}
		out = zigzagDecode32(v)
	case WireFixed32:
		v, err := d.src.ReadFixed32LE()
		if err != nil {
			return 0, d.enrich(err)
		}
		out = int32(v)
	case WireFixed64:
		v, err := d.src.ReadFixed64LE()
		if err != nil {
			return 0, d.enrich(err)
		}
		sv := int64(v)
		if sv > math.MaxInt32 || sv < math.MinInt32 {
			return 0, d.enrich(ErrOverflow)
		}
		out = int32(sv)
	default:
		return 0, d.enrich(ErrWireTypeMismatch)
	}
	d.state.wireType = WireNone
	return out, nil
}

// ReadU64 reads the current field as an unsigned 64-bit integer.
func (d *WireDecoder) ReadU64() (uint64, error) {
	var out uint64
	switch d.state.wireType {
	case WireVarint:
		v, err := d.readVarint64()
		if err != nil {
			return 0, err
		}
		out = v
	case WireFixed32:
		v, err := d.src.ReadFixed32LE()
		if err != nil {
			return 0, d.enrich(err)
		}
		out = uint64(v)
	case WireFixed64:
		v, err := d.src.ReadFixed64LE()
		if err != nil {
			return 0, d.enrich(err)
		}
		out = v
	default:
		return 0, d.enrich(ErrWireTypeMismatch)
	}
	d.state.wireType = WireNone
	return out, nil
}

// ReadI64 reads the current field as a signed 64-bit integer.
func (d *WireDecoder) ReadI64() (int64, error) {
	var out int64
	switch d.state.wireType {
	case WireVarint:
		v, err := d.readVarint64()
		if err != nil {
			return 0, err
		}
		out = int64(v)
	case SignedVariant:
		v, err := d.readVarint64()
		if err != nil {
			return 0, err
		}
		out = zigzagDecode64(v)
	case WireFixed32:
		v, err := d.src.ReadFixed32LE()
		if err != nil {
			return 0, d.enrich(err)
		}
		out = int64(v)
	case WireFixed64:
		v, err := d.src.ReadFixed64LE()
		if err != nil {
			return 0, d.enrich(err)
		}
		out = int64(v)
	default:
		return 0, d.enrich(ErrWireTypeMismatch)
	}
	d.state.wireType = WireNone
	return out, nil
}

// ReadBool reads the current field as a boolean: decoded as an unsigned
// varint, 0 is false, 1 is true, any other value is ErrInvalidBoolean.
func (d *WireDecoder) ReadBool() (bool, error) {
	v, err := d.ReadU32()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, d.enrich(ErrInvalidBoolean)
	}
}

// ReadF32 reads the current field as a 32-bit float. Fixed32 values are
// bit-cast directly; Fixed64 values are bit-cast to float64 and narrowed,
// failing with ErrOverflow if narrowing would turn a finite value into an
// infinity.
func (d *WireDecoder) ReadF32() (float32, error) {
	switch d.state.wireType {
	case WireFixed32:
		v, err := d.src.ReadFixed32LE()
		if err != nil {
			return 0, d.enrich(err)
		}
		d.state.wireType = WireNone
		return math.Float32frombits(v), nil
	case WireFixed64:
		v, err := d.src.ReadFixed64LE()
		if err != nil {
			return 0, d.enrich(err)
		}
		f64 := math.Float64frombits(v)
		f32 := float32(f64)
		if math.IsInf(float64(f32), 0) && !math.IsInf(f64, 0) {
			return 0, d.enrich(ErrOverflow)
		}
		d.state.wireType = WireNone
		return f32, nil
	default:
		return 0, d.enrich(ErrWireTypeMismatch)
	}
}

// ReadF64 reads the current field as a 64-bit float. Fixed64 values are
// bit-cast directly; Fixed32 values are bit-cast to float32 and widened.
func (d *WireDecoder) ReadF64() (float64, error) {
	switch d.state.wireType {
	case WireFixed32:
		v, err := d.src.ReadFixed32LE()
		if err != nil {
			return 0, d.enrich(err)
		}
		d.state.wireType = WireNone
		return float64(math.Float32frombits(v)), nil
	case WireFixed64:
		v, err := d.src.ReadFixed64LE()
		if err != nil {
			return 0, d.enrich(err)
		}
		d.state.wireType = WireNone
		return math.Float64frombits(v), nil
	default:
		return 0, d.enrich(ErrWireTypeMismatch)
	}
}

// readLength reads the length varint that precedes every length-delimited
// payload, checked against a sane upper bound (real messages never carry
// gigabyte-sized single fields; this guards against accepting a
// corrupt/adversarial length before it is used to size an allocation).
func (d *WireDecoder) readLength() (int, error) {
	n, err := d.readVarint64()
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt32 {
		return 0, d.enrich(ErrOverflow)
	}
	return int(n), nil
}

// ReadString reads the current field as a length-delimited UTF-8 string.
// If string interning is enabled, the result is passed through the
// decoder-local StringInterner.
func (d *WireDecoder) ReadString() (string, error) {
	if d.state.wireType != WireBytes {
		return "", d.enrich(ErrWireTypeMismatch)
	}
	n, err := d.readLength()
	if err != nil {
		return "", err
	}
	if n == 0 {
		d.state.wireType = WireNone
		return "", nil
	}
	s, err := d.src.ReadUTF8(n)
	if err != nil {
		return "", d.enrich(err)
	}
	d.state.wireType = WireNone
	if d.interner != nil {
		s = d.interner.intern(s)
	}
	return s, nil
}

// AppendBytes reads the current field as a length-delimited byte blob and
// appends it to existing, returning the extended slice (or a freshly
// allocated one if existing is nil/empty).
//
// Quirk preserved from the teacher: if AppendBytes is invoked while the
// current wire type is Varint, it returns existing unmodified without
// consuming any input. This is legacy host-schema behavior, documented as
// a quirk in spec.md §9, not tightened here.
func (d *WireDecoder) AppendBytes(existing []byte) ([]byte, error) {
	if d.state.wireType == WireVarint {
		return existing, nil
	}
	if d.state.wireType != WireBytes {
		return nil, d.enrich(ErrWireTypeMismatch)
	}
	n, err := d.readLength()
	if err != nil {
		return nil, err
	}
	out := existing
	if n > 0 {
		start := len(out)
		out = append(out, make([]byte, n)...)
		if err := d.src.ReadInto(out[start:]); err != nil {
			return nil, d.enrich(err)
		}
	}
	d.state.wireType = WireNone
	return out, nil
}

// ---- narrow integer coercions: checked narrowings of the 32-bit read ----

func (d *WireDecoder) ReadInt8() (int8, error) {
	v, err := d.ReadI32()
	if err != nil {
		return 0, err
	}
	if v < math.MinInt8 || v > math.MaxInt8 {
		return 0, d.enrich(ErrOverflow)
	}
	return int8(v), nil
}

func (d *WireDecoder) ReadUint8() (uint8, error) {
	v, err := d.ReadU32()
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint8 {
		return 0, d.enrich(ErrOverflow)
	}
	return uint8(v), nil
}

func (d *WireDecoder) ReadInt16() (int16, error) {
	v, err := d.ReadI32()
	if err != nil {
		return 0, err
	}
	if v < math.MinInt16 || v > math.MaxInt16 {
		return 0, d.enrich(ErrOverflow)
	}
	return int16(v), nil
}

func (d *WireDecoder) ReadUint16() (uint16, error) {
	v, err := d.ReadU32()
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint16 {
		return 0, d.enrich(ErrOverflow)
	}
	return uint16(v), nil
}

// ---- sub-message state machine (spec.md §4.4) ----

// StartSubItem enters a sub-message, returning a token EndSubItem later
// requires. The current wire type must be WireBytes (length-delimited) or
// WireStartGroup.
func (d *WireDecoder) StartSubItem() (SubObjectToken, error) {
	switch d.state.wireType {
	case WireBytes:
		n, err := d.readLength()
		if err != nil {
			return SubObjectToken{}, err
		}
		newEnd := d.src.Position() + int64(n)
		if newEnd > d.state.end {
			return SubObjectToken{}, d.enrich(ErrOverranSubMessage)
		}
		token := SubObjectToken{prevEnd: d.state.end, newEnd: newEnd}
		d.state.end = newEnd
		d.state.depth++
		d.src.ApplyWindow(newEnd)
		d.state.wireType = WireNone
		return token, nil
	case WireStartGroup:
		token := SubObjectToken{isGroup: true, groupField: -d.state.fieldNumber}
		d.state.depth++
		d.state.wireType = WireNone
		return token, nil
	default:
		return SubObjectToken{}, d.enrich(ErrWireTypeMismatch)
	}
}

// EndSubItem leaves the sub-message token identifies, restoring the
// decoder's end boundary (and the ByteSource's window) to what it was
// before the matching StartSubItem.
func (d *WireDecoder) EndSubItem(token SubObjectToken) error {
	if token.isGroup {
		if d.state.wireType != WireEndGroup || token.groupField != -d.state.fieldNumber {
			return d.enrich(ErrGroupMismatch)
		}
		d.state.wireType = WireNone
		d.state.depth--
		return nil
	}
	pos := d.src.Position()
	if pos < token.newEnd {
		return d.enrich(ErrIncompleteSubMessage)
	}
	if pos > token.newEnd {
		return d.enrich(ErrOverranSubMessage)
	}
	d.state.end = token.prevEnd
	d.src.RemoveWindow(token.prevEnd)
	d.state.depth--
	return nil
}

// SkipField discards the current field's value without materializing it,
// consuming exactly the bytes a typed read would have.
func (d *WireDecoder) SkipField() error {
	switch d.state.wireType {
	case WireFixed32:
		if err := d.src.Skip(4); err != nil {
			return d.enrich(err)
		}
	case WireFixed64:
		if err := d.src.Skip(8); err != nil {
			return d.enrich(err)
		}
	case WireVarint, SignedVariant:
		if _, err := d.src.ReadVarint64(); err != nil {
			return d.enrich(err)
		}
	case WireBytes:
		n, err := d.readLength()
		if err != nil {
			return err
		}
		if err := d.src.Skip(n); err != nil {
			return d.enrich(err)
		}
	case WireStartGroup:
		if err := d.skipGroup(d.state.fieldNumber); err != nil {
			return err
		}
	default:
		return d.enrich(ErrWireTypeMismatch)
	}
	d.state.wireType = WireNone
	return nil
}

// skipGroup consumes fields until the EndGroup tag matching entryField is
// found, recursively skipping any nested groups or sub-messages.
func (d *WireDecoder) skipGroup(entryField int32) error {
	d.state.depth++
	for {
		_, err := d.ReadFieldHeader()
		if err != nil {
			return err
		}
		if d.state.wireType == WireEndGroup {
			if d.state.fieldNumber != entryField {
				return d.enrich(ErrGroupMismatch)
			}
			d.state.wireType = WireNone
			d.state.depth--
			return nil
		}
		if d.state.wireType == WireNone {
			// Ran out of input before the matching EndGroup tag appeared.
			return d.enrich(ErrIncompleteSubMessage)
		}
		if err := d.SkipField(); err != nil {
			return err
		}
	}
}
