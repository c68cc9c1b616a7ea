package codec

// config holds the options spec.md §6 lists: whether to intern decoded
// strings, the initial end boundary (for decoding a sub-range of a larger
// stream), and the two opaque collaborator handles that are forwarded to
// sub-message dispatch but never interpreted by this package.
type config struct {
	internStrings bool
	initialEnd    int64 // -1 means unbounded
	typeModel     interface{}
	serContext    interface{}
	objectCache   ObjectCache
}

func defaultConfig() config {
	return config{internStrings: true, initialEnd: -1}
}

// Option configures a WireDecoder at construction time, in the functional
// options style used elsewhere in the pack (e.g. hayabusa-cloud-framer's
// framer.Option).
type Option func(*config)

// WithStringInterning enables or disables string interning. Enabled by
// default.
func WithStringInterning(enabled bool) Option {
	return func(c *config) { c.internStrings = enabled }
}

// WithInitialEndBoundary bounds the decoder to end at the given absolute
// offset instead of running to the end of the source.
func WithInitialEndBoundary(end int64) Option {
	return func(c *config) { c.initialEnd = end }
}

// WithTypeModel attaches the opaque type-model handle sub-message
// dispatch needs to map field numbers to object fields. This package never
// interprets or checks it; WireDecoder.TypeModel returns it unchanged.
func WithTypeModel(model interface{}) Option {
	return func(c *config) { c.typeModel = model }
}

// WithSerializationContext attaches an opaque context value forwarded to
// sub-message handlers (e.g. host-language options, recursion limits
// managed outside this package).
func WithSerializationContext(ctx interface{}) Option {
	return func(c *config) { c.serContext = ctx }
}

// WithObjectCache attaches the object-cache collaborator (spec.md §1, §9).
func WithObjectCache(cache ObjectCache) Option {
	return func(c *config) { c.objectCache = cache }
}
