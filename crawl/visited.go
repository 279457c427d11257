package crawl

import "github.com/fwojciec/spider"

// visitedSet records every URI accepted or rejected by the discovery gate
// together with the depth at which it was first seen. Entries are written
// at most once and never removed.
type visitedSet struct {
	depths map[spider.URI]int
}

func newVisitedSet() *visitedSet {
	return &visitedSet{depths: make(map[spider.URI]int)}
}

// add records uri at depth. It returns false if uri was already present,
// in which case the stored depth is left unchanged.
func (v *visitedSet) add(uri spider.URI, depth int) bool {
	if _, ok := v.depths[uri]; ok {
		return false
	}
	v.depths[uri] = depth
	return true
}

func (v *visitedSet) has(uri spider.URI) bool {
	_, ok := v.depths[uri]
	return ok
}

func (v *visitedSet) depth(uri spider.URI) (int, bool) {
	d, ok := v.depths[uri]
	return d, ok
}
