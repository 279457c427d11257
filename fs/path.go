// Package fs provides file-based resource stores with atomic commit.
package fs

import (
	"fmt"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/spider"
)

// URIToPath converts a URI to a relative, slash-separated file path rooted
// at the URI host. Paths ending in a slash map to an index file. When ext
// is non-empty it replaces any existing extension. A query string adds a
// short hash suffix so distinct queries map to distinct files; fragments
// are ignored.
//
// Example: https://example.com/docs/api?v=2 with ".md" → example.com/docs/api_1a2b3c4d.md
func URIToPath(uri spider.URI, ext string) string {
	u := uri.URL()

	p := strings.TrimPrefix(u.Path, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index"
	}

	current := path.Ext(p)
	if ext != "" && current != "" {
		p = strings.TrimSuffix(p, current)
	}
	if ext == "" {
		ext = current
		p = strings.TrimSuffix(p, current)
		if ext == "" {
			ext = ".html"
		}
	}

	if u.RawQuery != "" {
		p += fmt.Sprintf("_%08x", uint32(xxhash.Sum64String(u.RawQuery)))
	}

	return path.Join(strings.ReplaceAll(u.Host, ":", "_"), p+ext)
}
