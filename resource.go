package spider

import (
	"net/http"
	"time"
)

// Resource is the result of fetching a URI.
type Resource struct {
	URI URI

	// DepthFound is the frontier depth at which URI was discovered.
	// The seed has depth 0.
	DepthFound int

	StatusCode  int
	ContentType string
	Header      http.Header
	Body        []byte
	FetchedAt   time.Time
}
