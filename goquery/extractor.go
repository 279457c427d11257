// Package goquery provides a CSS-selector based spider.LinkExtractor.
package goquery

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/spider"
)

// DefaultSelector matches every anchor carrying an href.
const DefaultSelector = "a[href]"

var _ spider.LinkExtractor = (*CSSExtractor)(nil)

// CSSExtractor discovers links in HTML documents by reading an attribute
// from the elements matching a CSS selector. Relative references resolve
// against the document's <base href> when present, otherwise against the
// resource URI.
type CSSExtractor struct {
	selector string
	attr     string
}

// Option configures a CSSExtractor.
type Option func(*CSSExtractor)

// WithAttribute sets the attribute holding the link. Defaults to "href".
func WithAttribute(attr string) Option {
	return func(x *CSSExtractor) {
		x.attr = attr
	}
}

// NewCSSExtractor creates an extractor for selector.
// An empty selector means DefaultSelector.
func NewCSSExtractor(selector string, opts ...Option) *CSSExtractor {
	if selector == "" {
		selector = DefaultSelector
	}
	x := &CSSExtractor{selector: selector, attr: "href"}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Discover returns the links matched by the selector in document order.
// Non-HTML resources yield no links.
func (x *CSSExtractor) Discover(res *spider.Resource) ([]spider.URI, error) {
	if !isHTML(res.ContentType) {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return nil, spider.Errorf(spider.EINVALID, "failed to parse HTML: %v", err)
	}

	base := res.URI
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if b, err := spider.ResolveURI(res.URI, href); err == nil {
			base = b
		}
	}

	var uris []spider.URI
	doc.Find(x.selector).Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr(x.attr)
		if !exists || strings.TrimSpace(href) == "" {
			return
		}

		// Skip non-HTTP links (javascript:, mailto:, etc.)
		if isNonHTTPLink(href) {
			return
		}

		uri, err := spider.ResolveURI(base, href)
		if err != nil {
			return
		}
		uris = append(uris, uri)
	})

	return uris, nil
}

// isHTML reports whether contentType is HTML. An unknown type is assumed
// to be HTML.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
