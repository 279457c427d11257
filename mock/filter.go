package mock

import "github.com/fwojciec/spider"

var _ spider.PreFilter = (*PreFilter)(nil)

// PreFilter is a mock implementation of spider.PreFilter.
type PreFilter struct {
	MatchURIFn func(uri spider.URI) bool
}

func (f *PreFilter) MatchURI(uri spider.URI) bool {
	return f.MatchURIFn(uri)
}

var _ spider.PostFilter = (*PostFilter)(nil)

// PostFilter is a mock implementation of spider.PostFilter.
type PostFilter struct {
	MatchResourceFn func(res *spider.Resource) bool
}

func (f *PostFilter) MatchResource(res *spider.Resource) bool {
	return f.MatchResourceFn(res)
}
