package crawl_test

import (
	"testing"

	"github.com/jkowalik/sitesnap/crawl"
	"github.com/stretchr/testify/assert"
)

func TestSameSite_same_registrable_domain(t *testing.T) {
	t.Parallel()

	assert.True(t, crawl.SameSite("https://example.com/a", "https://example.com/b"))
	assert.True(t, crawl.SameSite("https://example.com", "https://blog.example.com/post"),
		"subdomains share the registrable domain")
	assert.True(t, crawl.SameSite("https://www.example.com", "https://docs.example.com"))
}

func TestSameSite_different_domains(t *testing.T) {
	t.Parallel()

	assert.False(t, crawl.SameSite("https://example.com", "https://example.org"))
	assert.False(t, crawl.SameSite("https://example.com", "https://notexample.com"))
}

func TestSameSite_multi_label_public_suffix(t *testing.T) {
	t.Parallel()

	assert.True(t, crawl.SameSite("https://foo.co.uk", "https://www.foo.co.uk"))
	assert.False(t, crawl.SameSite("https://foo.co.uk", "https://bar.co.uk"),
		"co.uk is a public suffix, not a shared domain")
}

func TestSameSite_unlisted_hosts_compare_exactly(t *testing.T) {
	t.Parallel()

	assert.True(t, crawl.SameSite("http://127.0.0.1:8080/a", "http://127.0.0.1:9090/b"))
	assert.True(t, crawl.SameSite("http://localhost/a", "http://localhost/b"))
	assert.False(t, crawl.SameSite("http://127.0.0.1/a", "http://127.0.0.2/b"))
}

func TestSameSite_invalid_URLs(t *testing.T) {
	t.Parallel()

	assert.False(t, crawl.SameSite("https://example.com", "not a url at all\x7f"))
	assert.False(t, crawl.SameSite("", "https://example.com"))
}
