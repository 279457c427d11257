package mock

import "github.com/fwojciec/spider"

var _ spider.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of spider.LinkExtractor.
type LinkExtractor struct {
	DiscoverFn func(res *spider.Resource) ([]spider.URI, error)
}

func (x *LinkExtractor) Discover(res *spider.Resource) ([]spider.URI, error) {
	return x.DiscoverFn(res)
}
