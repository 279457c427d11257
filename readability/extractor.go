// Package readability provides a spider.Extractor backed by go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/spider"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements spider.Extractor at compile time.
var _ spider.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct {
	pageURL *url.URL
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPageURL sets the URL relative links in the content resolve against.
func WithPageURL(u *url.URL) Option {
	return func(e *Extractor) {
		e.pageURL = u
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
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

	article, err := readability.FromReader(strings.NewReader(rawHTML), e.pageURL)
	if err != nil {
		return nil, err
	}

	return &spider.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
