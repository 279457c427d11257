// Package filter provides the stock pre-fetch and post-fetch filters.
// Every filter follows the spider convention: a match rejects.
package filter

import (
	"mime"
	"regexp"
	"strings"

	"github.com/fwojciec/spider"
)

var (
	_ spider.PreFilter  = (*SchemeFilter)(nil)
	_ spider.PreFilter  = (*HostFilter)(nil)
	_ spider.PreFilter  = FragmentFilter{}
	_ spider.PreFilter  = QueryFilter{}
	_ spider.PreFilter  = (*BaseURIFilter)(nil)
	_ spider.PreFilter  = (*PatternFilter)(nil)
	_ spider.PostFilter = MaxSizeFilter{}
	_ spider.PostFilter = (*ContentTypeFilter)(nil)
)

// SchemeFilter rejects URIs whose scheme is not allowed.
type SchemeFilter struct {
	allowed map[string]bool
}

// NewSchemeFilter allows the given schemes, or http and https when none
// are given.
func NewSchemeFilter(schemes ...string) *SchemeFilter {
	if len(schemes) == 0 {
		schemes = []string{"http", "https"}
	}
	f := &SchemeFilter{allowed: make(map[string]bool, len(schemes))}
	for _, s := range schemes {
		f.allowed[strings.ToLower(s)] = true
	}
	return f
}

func (f *SchemeFilter) MatchURI(uri spider.URI) bool {
	return !f.allowed[uri.Scheme()]
}

// HostFilter rejects URIs whose host is not in the allowed set.
// With subdomains enabled, any subdomain of an allowed host passes too.
type HostFilter struct {
	hosts      map[string]bool
	subdomains bool
}

// NewHostFilter allows the given hostnames.
func NewHostFilter(hosts []string, subdomains bool) *HostFilter {
	f := &HostFilter{hosts: make(map[string]bool, len(hosts)), subdomains: subdomains}
	for _, h := range hosts {
		f.hosts[strings.ToLower(strings.TrimPrefix(h, "www."))] = true
	}
	return f
}

func (f *HostFilter) MatchURI(uri spider.URI) bool {
	host := strings.TrimPrefix(uri.Hostname(), "www.")
	if f.hosts[host] {
		return false
	}
	if f.subdomains {
		for h := range f.hosts {
			if strings.HasSuffix(host, "."+h) {
				return false
			}
		}
	}
	return true
}

// FragmentFilter rejects URIs carrying a fragment.
type FragmentFilter struct{}

func (FragmentFilter) MatchURI(uri spider.URI) bool {
	return strings.Contains(uri.String(), "#")
}

// QueryFilter rejects URIs carrying a query string.
type QueryFilter struct{}

func (QueryFilter) MatchURI(uri spider.URI) bool {
	return uri.URL().RawQuery != ""
}

// BaseURIFilter rejects URIs outside the base URI: a different scheme and
// host, or a path outside the base path.
type BaseURIFilter struct {
	origin string
	prefix string
}

// NewBaseURIFilter restricts crawling to base.
func NewBaseURIFilter(base spider.URI) *BaseURIFilter {
	prefix := base.URL().Path
	if i := strings.LastIndex(prefix, "/"); i >= 0 {
		prefix = prefix[:i+1]
	}
	return &BaseURIFilter{
		origin: base.Scheme() + "://" + base.Host(),
		prefix: prefix,
	}
}

func (f *BaseURIFilter) MatchURI(uri spider.URI) bool {
	if uri.Scheme()+"://"+uri.Host() != f.origin {
		return true
	}
	return !strings.HasPrefix(uri.URL().Path, f.prefix)
}

// PatternFilter rejects URIs by regular expression. If include patterns
// are set, a URI must match at least one of them. URIs matching any
// exclude pattern are rejected; exclude is applied after include.
type PatternFilter struct {
	Include []*regexp.Regexp
	Exclude []*regexp.Regexp
}

// NewPatternFilter compiles include and exclude patterns.
func NewPatternFilter(include, exclude []string) (*PatternFilter, error) {
	f := &PatternFilter{}
	for _, p := range include {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, spider.Errorf(spider.EINVALID, "invalid include pattern %q: %v", p, err)
		}
		f.Include = append(f.Include, re)
	}
	for _, p := range exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, spider.Errorf(spider.EINVALID, "invalid exclude pattern %q: %v", p, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}

func (f *PatternFilter) MatchURI(uri spider.URI) bool {
	s := uri.String()

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(s) {
				matched = true
				break
			}
		}
		if !matched {
			return true
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// MaxSizeFilter rejects resources whose body exceeds Max bytes.
type MaxSizeFilter struct {
	Max int
}

func (f MaxSizeFilter) MatchResource(res *spider.Resource) bool {
	return len(res.Body) > f.Max
}

// ContentTypeFilter rejects resources whose media type is not allowed.
// An allowed entry ending in "/" matches a whole top-level type, so
// "text/" admits text/html and text/plain.
type ContentTypeFilter struct {
	allowed []string
}

// NewContentTypeFilter allows the given media types.
func NewContentTypeFilter(types ...string) *ContentTypeFilter {
	f := &ContentTypeFilter{}
	for _, t := range types {
		f.allowed = append(f.allowed, strings.ToLower(strings.TrimSpace(t)))
	}
	return f
}

func (f *ContentTypeFilter) MatchResource(res *spider.Resource) bool {
	mediaType, _, err := mime.ParseMediaType(res.ContentType)
	if err != nil {
		return true
	}
	for _, a := range f.allowed {
		if mediaType == a || (strings.HasSuffix(a, "/") && strings.HasPrefix(mediaType, a)) {
			return false
		}
	}
	return true
}
