package sitesnap

import "strings"

// clientRenderThreshold is the raw HTML length below which a page is
// assumed to be an empty shell hydrated by JavaScript.
const clientRenderThreshold = 1500

// clientRenderMarkers are SPA/hydration fingerprints checked against the
// lowercased markup. Two or more matches flag the page.
var clientRenderMarkers = []string{
	"__next_data__",
	"window.__nuxt__",
	"data-server-rendered",
	`id="app"`,
	"vite",
}

// LooksClientRendered reports whether a page is likely rendered
// client-side: the raw HTML is shorter than the threshold, or at least two
// framework markers are present. The signal is advisory output only and
// never gates crawl decisions.
func LooksClientRendered(html string) bool {
	if len(html) < clientRenderThreshold {
		return true
	}
	lower := strings.ToLower(html)
	score := 0
	for _, marker := range clientRenderMarkers {
		if strings.Contains(lower, marker) {
			score++
		}
	}
	return score >= 2
}
