package spider

// PreFilter is evaluated on a discovered URI before it is enqueued.
// A match rejects the URI.
type PreFilter interface {
	MatchURI(uri URI) bool
}

// PostFilter is evaluated on a fetched resource before it is persisted.
// A match rejects the resource.
type PostFilter interface {
	MatchResource(res *Resource) bool
}

// PreFilterFunc adapts an ordinary function to the PreFilter interface.
type PreFilterFunc func(uri URI) bool

// MatchURI calls fn(uri).
func (fn PreFilterFunc) MatchURI(uri URI) bool {
	return fn(uri)
}

// PostFilterFunc adapts an ordinary function to the PostFilter interface.
type PostFilterFunc func(res *Resource) bool

// MatchResource calls fn(res).
func (fn PostFilterFunc) MatchResource(res *Resource) bool {
	return fn(res)
}
