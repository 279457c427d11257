package fs_test

import (
	"testing"

	"github.com/fwojciec/spider"
	"github.com/fwojciec/spider/fs"
	"github.com/stretchr/testify/assert"
)

func TestURIToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		uri  string
		ext  string
		want string
	}{
		{
			name: "simple path",
			uri:  "https://example.com/docs/api/users",
			ext:  ".md",
			want: "example.com/docs/api/users.md",
		},
		{
			name: "trailing slash becomes index",
			uri:  "https://example.com/docs/",
			ext:  ".md",
			want: "example.com/docs/index.md",
		},
		{
			name: "root path becomes index",
			uri:  "https://example.com",
			ext:  ".md",
			want: "example.com/index.md",
		},
		{
			name: "replaces an existing extension",
			uri:  "https://example.com/docs/page.html",
			ext:  ".md",
			want: "example.com/docs/page.md",
		},
		{
			name: "keeps the original extension without ext",
			uri:  "https://example.com/assets/site.css",
			want: "example.com/assets/site.css",
		},
		{
			name: "defaults to html without ext",
			uri:  "https://example.com/docs/api",
			want: "example.com/docs/api.html",
		},
		{
			name: "ignores fragment",
			uri:  "https://example.com/docs/api#section",
			ext:  ".md",
			want: "example.com/docs/api.md",
		},
		{
			name: "keeps port apart from host",
			uri:  "http://example.com:8080/a",
			ext:  ".md",
			want: "example.com_8080/a.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fs.URIToPath(spider.MustParseURI(tt.uri), tt.ext))
		})
	}

	t.Run("distinguishes query strings", func(t *testing.T) {
		t.Parallel()

		a := fs.URIToPath(spider.MustParseURI("https://example.com/list?page=1"), ".md")
		b := fs.URIToPath(spider.MustParseURI("https://example.com/list?page=2"), ".md")

		assert.NotEqual(t, a, b)
		assert.Regexp(t, `^example\.com/list_[0-9a-f]{8}\.md$`, a)
	})
}
