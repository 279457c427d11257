// Package etree provides an XPath-based spider.LinkExtractor for XML
// documents such as sitemaps and feeds.
package etree

import (
	"bytes"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/spider"
)

// DefaultPaths cover sitemap <loc> entries, sitemap index entries and
// RSS/Atom <link> elements.
var DefaultPaths = []string{"//loc", "//link"}

var _ spider.LinkExtractor = (*XPathExtractor)(nil)

// XPathExtractor discovers links in XML documents. Each matched element
// contributes its text, or its href attribute when the text is empty.
type XPathExtractor struct {
	paths []etree.Path
}

// NewXPathExtractor compiles the given path expressions.
// With no expressions, DefaultPaths are used.
func NewXPathExtractor(exprs ...string) (*XPathExtractor, error) {
	if len(exprs) == 0 {
		exprs = DefaultPaths
	}
	x := &XPathExtractor{}
	for _, expr := range exprs {
		p, err := etree.CompilePath(expr)
		if err != nil {
			return nil, spider.Errorf(spider.EINVALID, "invalid path %q: %v", expr, err)
		}
		x.paths = append(x.paths, p)
	}
	return x, nil
}

// Discover returns the matched links in path order, then document order.
// Non-XML resources yield no links.
func (x *XPathExtractor) Discover(res *spider.Resource) ([]spider.URI, error) {
	if !isXML(res) {
		return nil, nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(res.Body); err != nil {
		return nil, spider.Errorf(spider.EINVALID, "failed to parse XML: %v", err)
	}

	var uris []spider.URI
	for _, p := range x.paths {
		for _, el := range doc.FindElementsPath(p) {
			ref := strings.TrimSpace(el.Text())
			if ref == "" {
				ref = el.SelectAttrValue("href", "")
			}
			if ref == "" {
				continue
			}
			uri, err := spider.ResolveURI(res.URI, ref)
			if err != nil {
				continue
			}
			uris = append(uris, uri)
		}
	}
	return uris, nil
}

func isXML(res *spider.Resource) bool {
	ct := strings.ToLower(res.ContentType)
	if strings.Contains(ct, "xml") {
		return true
	}
	return bytes.HasPrefix(bytes.TrimSpace(res.Body), []byte("<?xml"))
}
