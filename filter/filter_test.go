package filter_test

import (
	"testing"

	"github.com/fwojciec/spider"
	"github.com/fwojciec/spider/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uri(s string) spider.URI {
	return spider.MustParseURI(s)
}

func TestSchemeFilter(t *testing.T) {
	t.Parallel()

	t.Run("allows http and https by default", func(t *testing.T) {
		t.Parallel()

		f := filter.NewSchemeFilter()

		assert.False(t, f.MatchURI(uri("http://x.test/")))
		assert.False(t, f.MatchURI(uri("https://x.test/")))
		assert.True(t, f.MatchURI(uri("ftp://x.test/file")))
	})

	t.Run("allows only the configured schemes", func(t *testing.T) {
		t.Parallel()

		f := filter.NewSchemeFilter("HTTPS")

		assert.True(t, f.MatchURI(uri("http://x.test/")))
		assert.False(t, f.MatchURI(uri("https://x.test/")))
	})
}

func TestHostFilter(t *testing.T) {
	t.Parallel()

	t.Run("rejects other hosts", func(t *testing.T) {
		t.Parallel()

		f := filter.NewHostFilter([]string{"example.com"}, false)

		assert.False(t, f.MatchURI(uri("https://example.com/a")))
		assert.False(t, f.MatchURI(uri("https://www.example.com/a")))
		assert.True(t, f.MatchURI(uri("https://docs.example.com/a")))
		assert.True(t, f.MatchURI(uri("https://other.com/a")))
	})

	t.Run("allows subdomains when enabled", func(t *testing.T) {
		t.Parallel()

		f := filter.NewHostFilter([]string{"example.com"}, true)

		assert.False(t, f.MatchURI(uri("https://docs.example.com/a")))
		assert.True(t, f.MatchURI(uri("https://notexample.com/a")))
	})
}

func TestFragmentFilter(t *testing.T) {
	t.Parallel()

	assert.True(t, filter.FragmentFilter{}.MatchURI(uri("https://x.test/a#top")))
	assert.False(t, filter.FragmentFilter{}.MatchURI(uri("https://x.test/a")))
}

func TestQueryFilter(t *testing.T) {
	t.Parallel()

	assert.True(t, filter.QueryFilter{}.MatchURI(uri("https://x.test/a?page=2")))
	assert.False(t, filter.QueryFilter{}.MatchURI(uri("https://x.test/a")))
}

func TestBaseURIFilter(t *testing.T) {
	t.Parallel()

	f := filter.NewBaseURIFilter(uri("https://example.com/docs/index.html"))

	assert.False(t, f.MatchURI(uri("https://example.com/docs/guide")))
	assert.False(t, f.MatchURI(uri("https://example.com/docs/")))
	assert.True(t, f.MatchURI(uri("https://example.com/blog/")))
	assert.True(t, f.MatchURI(uri("http://example.com/docs/guide")))
	assert.True(t, f.MatchURI(uri("https://other.com/docs/guide")))
}

func TestPatternFilter(t *testing.T) {
	t.Parallel()

	t.Run("rejects URIs outside include patterns", func(t *testing.T) {
		t.Parallel()

		f, err := filter.NewPatternFilter([]string{`/docs/`}, nil)
		require.NoError(t, err)

		assert.False(t, f.MatchURI(uri("https://x.test/docs/a")))
		assert.True(t, f.MatchURI(uri("https://x.test/blog/a")))
	})

	t.Run("applies exclude after include", func(t *testing.T) {
		t.Parallel()

		f, err := filter.NewPatternFilter([]string{`/docs/`}, []string{`\.pdf$`})
		require.NoError(t, err)

		assert.True(t, f.MatchURI(uri("https://x.test/docs/manual.pdf")))
		assert.False(t, f.MatchURI(uri("https://x.test/docs/manual.html")))
	})

	t.Run("passes everything without patterns", func(t *testing.T) {
		t.Parallel()

		f, err := filter.NewPatternFilter(nil, nil)
		require.NoError(t, err)

		assert.False(t, f.MatchURI(uri("https://x.test/anything")))
	})

	t.Run("returns EINVALID for a bad pattern", func(t *testing.T) {
		t.Parallel()

		_, err := filter.NewPatternFilter(nil, []string{"("})

		assert.Equal(t, spider.EINVALID, spider.ErrorCode(err))
	})
}

func TestMaxSizeFilter(t *testing.T) {
	t.Parallel()

	f := filter.MaxSizeFilter{Max: 4}

	assert.False(t, f.MatchResource(&spider.Resource{Body: []byte("1234")}))
	assert.True(t, f.MatchResource(&spider.Resource{Body: []byte("12345")}))
}

func TestContentTypeFilter(t *testing.T) {
	t.Parallel()

	f := filter.NewContentTypeFilter("text/html", "application/")

	assert.False(t, f.MatchResource(&spider.Resource{ContentType: "text/html; charset=utf-8"}))
	assert.False(t, f.MatchResource(&spider.Resource{ContentType: "application/xml"}))
	assert.True(t, f.MatchResource(&spider.Resource{ContentType: "image/png"}))
	assert.True(t, f.MatchResource(&spider.Resource{ContentType: ""}))
}
