// Package goquery provides HTML link extraction for the crawler.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jkowalik/sitesnap"
)

// Ensure Extractor implements sitesnap.LinkExtractor at compile time.
var _ sitesnap.LinkExtractor = (*Extractor)(nil)

// Extractor pulls anchor hrefs from fetched HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractHrefs returns the raw href attribute of every anchor element in
// document order. Hrefs are returned unresolved; the crawler normalizes
// them against the page's final URL.
func (e *Extractor) ExtractHrefs(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitesnap.Errorf(sitesnap.EINVALID, "parsing HTML: %v", err)
	}

	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		hrefs = append(hrefs, href)
	})
	return hrefs, nil
}
