package codec

// StringInterner is an optional identity-preserving lookup keyed by a
// decoded string's content (spec.md §4.5). It is decoder-local: every
// WireDecoder that enables interning owns its own instance and it is
// discarded with the decoder, never shared with the host process's
// global string table.
//
// It is not safe for concurrent use, matching WireDecoder's own
// single-threaded contract (spec.md §5).
type StringInterner struct {
	seen map[string]string
}

func newStringInterner() *StringInterner {
	return &StringInterner{seen: make(map[string]string)}
}

// intern returns the canonical instance for s: the first string with this
// content the interner has seen. Empty strings always short-circuit to a
// single shared sentinel and never populate the map.
func (in *StringInterner) intern(s string) string {
	if s == "" {
		return ""
	}
	if canonical, ok := in.seen[s]; ok {
		return canonical
	}
	in.seen[s] = s
	return s
}

// reset clears the interner, as WireDecoder.Reset does when a decoder is
// reused.
func (in *StringInterner) reset() {
	in.seen = make(map[string]string)
}
