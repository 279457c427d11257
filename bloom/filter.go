// Package bloom provides probabilistic de-duplication using Bloom filters.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/spider"
)

// Filter wraps a Bloom filter. It is safe for concurrent use.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a key to the filter.
func (f *Filter) Add(key []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.f.Add(key)
}

// Test returns true if the key might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(key []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.Test(key)
}

// TestAndAdd reports whether key might already be in the filter and adds it.
func (f *Filter) TestAndAdd(key []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestAndAdd(key)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}

var _ spider.PostFilter = (*DuplicateContentFilter)(nil)

// DuplicateContentFilter rejects resources whose body was already seen
// under a different URI, such as mirrors and print views of the same page.
// Bodies are keyed by their xxhash digest.
type DuplicateContentFilter struct {
	filter *Filter
}

// NewDuplicateContentFilter creates a filter sized for n distinct bodies.
func NewDuplicateContentFilter(n uint, fpRate float64) *DuplicateContentFilter {
	return &DuplicateContentFilter{filter: NewFilter(n, fpRate)}
}

// MatchResource returns true if an identical body was seen before.
// Empty bodies never match.
func (d *DuplicateContentFilter) MatchResource(res *spider.Resource) bool {
	if len(res.Body) == 0 {
		return false
	}
	var key [8]byte
	h := xxhash.Sum64(res.Body)
	for i := range key {
		key[i] = byte(h >> (8 * i))
	}
	return d.filter.TestAndAdd(key[:])
}
