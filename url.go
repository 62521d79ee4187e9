package sitesnap

import (
	"net/url"
	"strings"
)

// trackingParams are query keys that identify sessions or ad campaigns
// rather than content. Dropping them keeps equivalent URLs from being
// crawled twice.
var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
	"gclid":        true,
	"fbclid":       true,
	"sessionid":    true,
	"sid":          true,
	"phpsessid":    true,
	"msclkid":      true,
}

// NormalizeURL resolves href against base and returns the canonical form
// used for deduplication: fragment stripped, tracking parameters removed,
// remaining query re-encoded in insertion order, path decoded. The bool
// result is false for empty or fragment-only hrefs and for non-HTTP
// schemes.
//
// NormalizeURL is a pure function and idempotent, which is what makes
// set-based deduplication correct.
func NormalizeURL(base, href string) (string, bool) {
	if idx := strings.Index(href, "#"); idx != -1 {
		href = href[:idx]
	}
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}

	b, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	u := b.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Host == "" {
		return "", false
	}

	var sb strings.Builder
	sb.WriteString(u.Scheme)
	sb.WriteString("://")
	sb.WriteString(u.Host)
	sb.WriteString(u.Path)
	if q := filterQuery(u.RawQuery); q != "" {
		sb.WriteByte('?')
		sb.WriteString(q)
	}
	return sb.String(), true
}

// filterQuery drops tracking and blank-valued parameters and re-encodes
// the remainder, preserving insertion order.
func filterQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	var sb strings.Builder
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawVal, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			key = rawKey
		}
		val, err := url.QueryUnescape(rawVal)
		if err != nil {
			val = rawVal
		}
		if val == "" {
			continue
		}
		if trackingParams[strings.ToLower(key)] {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(val))
	}
	return sb.String()
}
