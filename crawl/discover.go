package crawl

import "github.com/fwojciec/spider"

// Discover runs every extractor against res and concatenates their output
// in registration order. Duplicates are removed by normalized form; the
// first occurrence wins and the order of survivors is preserved.
//
// An extractor that fails contributes nothing for this resource.
func Discover(res *spider.Resource, extractors []spider.LinkExtractor) []spider.URI {
	seen := make(map[spider.URI]struct{})
	var uris []spider.URI
	for _, x := range extractors {
		found, err := x.Discover(res)
		if err != nil {
			continue
		}
		for _, uri := range found {
			if uri.IsZero() {
				continue
			}
			if _, ok := seen[uri]; ok {
				continue
			}
			seen[uri] = struct{}{}
			uris = append(uris, uri)
		}
	}
	return uris
}
