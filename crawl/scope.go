package crawl

import (
	"net/url"

	"github.com/jkowalik/sitesnap"
	"golang.org/x/net/publicsuffix"
)

// SameSite reports whether two URLs share a registrable domain
// (effective TLD plus one label). Subdomains of the start URL's site pass;
// a bare hostname comparison would wrongly exclude them.
//
// Hosts outside the public suffix list (IP addresses, localhost, test
// servers) fall back to exact hostname equality.
func SameSite(a, b string) bool {
	da, err := registrableDomain(a)
	if err != nil {
		da = ""
	}
	db, err := registrableDomain(b)
	if err != nil {
		db = ""
	}
	if da != "" && db != "" {
		return da == db
	}

	ha, err := hostname(a)
	if err != nil {
		return false
	}
	hb, err := hostname(b)
	if err != nil {
		return false
	}
	return ha == hb
}

func registrableDomain(rawURL string) (string, error) {
	host, err := hostname(rawURL)
	if err != nil {
		return "", err
	}
	return publicsuffix.EffectiveTLDPlusOne(host)
}

func hostname(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	host := u.Hostname()
	if host == "" {
		return "", sitesnap.Errorf(sitesnap.EINVALID, "no host in URL %q", rawURL)
	}
	return host, nil
}
