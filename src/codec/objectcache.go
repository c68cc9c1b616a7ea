package codec

// ObjectCache is the opaque reference/object-tracking collaborator
// spec.md §1 carves out as external: reflection-driven schema discovery
// and the type model that maps field numbers onto object fields own the
// actual graph, not this package. WireDecoder never calls these methods
// itself: it stores the configured cache and returns it from
// WireDecoder.ObjectCache.
//
// A decoder built with no ObjectCache (the zero value, nil) simply never
// calls it; sub-message dispatch that doesn't need object identity works
// fine without one.
type ObjectCache interface {
	// Register records obj as reachable under key, for later Lookup calls
	// to resolve cross-references within the same message graph.
	Register(key int64, obj interface{})
	// Lookup returns the object previously Register-ed under key, and
	// whether one was found.
	Lookup(key int64) (interface{}, bool)
	// Reset clears all registered objects and any pending-root bookkeeping.
	// WireDecoder.Reset does not call it.
	Reset()
	// PendingRoots reports the number of root-object registrations still
	// awaited before the graph is considered fully resolved ("trap count"
	// in spec.md §9).
	PendingRoots() int
}
