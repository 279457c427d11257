package fs

import (
	"context"

	"github.com/fwojciec/spider"
)

// Ensure RawStore implements spider.ResourceStore at compile time.
var _ spider.ResourceStore = (*RawStore)(nil)

// RawStore writes resource bodies verbatim, mirroring the site layout.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
type RawStore struct {
	atomicDir
}

// NewRawStore creates a new RawStore.
func NewRawStore(baseDir, name string) *RawStore {
	return &RawStore{atomicDir: atomicDir{baseDir: baseDir, name: name}}
}

// Persist writes the body of res.
func (s *RawStore) Persist(_ context.Context, res *spider.Resource) error {
	return s.write(res.URI.String(), URIToPath(res.URI, ""), res.Body)
}
