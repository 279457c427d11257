package spider

// LinkExtractor proposes candidate URIs found in a fetched resource.
// Implementations must not mutate the resource.
type LinkExtractor interface {
	Discover(res *Resource) ([]URI, error)
}

// LinkExtractorFunc adapts an ordinary function to the LinkExtractor interface.
type LinkExtractorFunc func(res *Resource) ([]URI, error)

// Discover calls fn(res).
func (fn LinkExtractorFunc) Discover(res *Resource) ([]URI, error) {
	return fn(res)
}
