// Package trafilatura provides a spider.Extractor backed by go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/spider"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements spider.Extractor at compile time.
var _ spider.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	opts trafilatura.Options
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithFallback toggles the readability and dom-distiller fallbacks.
// Enabled by default.
func WithFallback(enabled bool) Option {
	return func(e *Extractor) {
		e.opts.EnableFallback = enabled
	}
}

// WithLinks keeps <a> elements in the extracted content.
func WithLinks(enabled bool) Option {
	return func(e *Extractor) {
		e.opts.IncludeLinks = enabled
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{opts: trafilatura.Options{EnableFallback: true}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*spider.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, spider.Errorf(spider.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		contentHTML = buf.String()
	}

	return &spider.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}
