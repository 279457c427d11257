package fs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/spider"
)

// Ensure MarkdownStore implements spider.ResourceStore at compile time.
var _ spider.ResourceStore = (*MarkdownStore)(nil)

// MarkdownStore extracts the main content of HTML resources, converts it
// to Markdown and writes it with YAML frontmatter. Non-HTML resources are
// skipped. Files are saved to baseDir/name.tmp and moved to baseDir/name
// on Commit.
type MarkdownStore struct {
	atomicDir
	extractor spider.Extractor
	converter spider.Converter
}

// NewMarkdownStore creates a new MarkdownStore.
func NewMarkdownStore(baseDir, name string, extractor spider.Extractor, converter spider.Converter) *MarkdownStore {
	return &MarkdownStore{
		atomicDir: atomicDir{baseDir: baseDir, name: name},
		extractor: extractor,
		converter: converter,
	}
}

// Persist converts res and writes it as a Markdown file.
func (s *MarkdownStore) Persist(_ context.Context, res *spider.Resource) error {
	if !isHTML(res.ContentType) {
		return nil
	}

	extracted, err := s.extractor.Extract(string(res.Body))
	if err != nil {
		return fmt.Errorf("extract %s: %w", res.URI, err)
	}

	markdown, err := s.converter.Convert(extracted.ContentHTML)
	if err != nil {
		return fmt.Errorf("convert %s: %w", res.URI, err)
	}

	page := FormatPage(res, extracted.Title, markdown)
	return s.write(res.URI.String(), URIToPath(res.URI, ".md"), []byte(page))
}

// FormatPage formats converted content with YAML frontmatter.
func FormatPage(res *spider.Resource, title, content string) string {
	fetchedAt := res.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(res.URI.String())
	b.WriteString("\ntitle: ")
	b.WriteString(title)
	fmt.Fprintf(&b, "\ndepth: %d", res.DepthFound)
	b.WriteString("\ncrawled: ")
	b.WriteString(fetchedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(content)
	return b.String()
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}
