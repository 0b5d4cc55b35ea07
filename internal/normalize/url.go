// Package normalize canonicalizes login URIs and names for duplicate
// comparison. All functions are pure and never fail: anything that does not
// parse as a URL degrades to an opaque token so duplicate detection keeps
// working on free-text entries.
package normalize

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	ipv4Re      = regexp.MustCompile(`^(?:\d{1,3}\.){3}\d{1,3}(?::\d+)?$`)
	domainRe    = regexp.MustCompile(`^[a-z0-9._-]+$`)
	hostPortRe  = regexp.MustCompile(`^(.+):(\d+)$`)
	hostCutset  = "/?#"
	schemeInfix = "://"
)

// URL canonicalizes a raw login_uri into a comparison key and a registrable
// domain.
//
// The key is the trimmed input with at most one trailing slash removed.
// Scheme absence is preserved: "example.com" and "https://example.com" stay
// distinct keys even though they share a domain.
//
// The domain is the lower-cased host with a single leading "www." label
// stripped; other subdomains ("m.facebook.com") stay distinct. IPv4 literals
// keep their port, IPv6 literals and localhost pass through, and anything
// that does not look like a host yields "".
func URL(raw string) (key, domain string) {
	key = strings.TrimSpace(raw)
	if key == "" {
		return "", ""
	}
	key = strings.TrimSuffix(key, "/")
	return key, Domain(key)
}

// Domain extracts the registrable domain of a URL or bare host, or "" when
// the value is not host-shaped.
func Domain(s string) string {
	host := Host(s)
	if host == "" {
		return ""
	}
	return strings.TrimPrefix(host, "www.")
}

// Host extracts the lower-cased host of a URL or bare host without the
// "www." strip, or "" when the value is not host-shaped. The automatic
// policy compares it against Domain to detect bare-domain entries.
func Host(s string) string {
	host := hostPart(s)
	if host == "" {
		return ""
	}
	host = strings.ToLower(host)

	// IP literals are returned as-is, port included; stripping the port
	// would merge distinct services on one address.
	if strings.HasPrefix(host, "[") && strings.Contains(host, "]") {
		return host
	}
	if ipv4Re.MatchString(host) {
		return host
	}

	if m := hostPortRe.FindStringSubmatch(host); m != nil {
		host = m[1]
	}
	if host == "localhost" {
		return host
	}
	if !strings.Contains(host, ".") {
		return ""
	}
	if !domainRe.MatchString(host) {
		return ""
	}
	if strings.HasPrefix(host, ".") || strings.HasPrefix(host, "-") ||
		strings.HasSuffix(host, ".") || strings.HasSuffix(host, "-") {
		return ""
	}
	return host
}

// multiPartSuffixes are common two-label public suffixes under which the
// registrable name needs three labels.
var multiPartSuffixes = map[string]bool{
	"co.uk": true, "org.uk": true, "ac.uk": true, "gov.uk": true,
	"co.jp": true, "co.in": true, "co.nz": true, "co.za": true, "co.kr": true,
	"com.au": true, "net.au": true, "org.au": true,
	"com.br": true, "com.mx": true, "com.ar": true,
	"com.cn": true, "com.tw": true, "com.sg": true, "com.hk": true,
}

// Registrable collapses a domain to its registrable suffix: the last two
// labels, or three under a multi-part public suffix, so "m.facebook.com" and
// "facebook.com" share one key. IP literals, localhost and opaque values pass
// through unchanged. This is the aggressive key the automatic domain-collapse
// groups by; the plain Domain keeps subdomains distinct.
func Registrable(domain string) string {
	if domain == "" || domain == "localhost" ||
		strings.HasPrefix(domain, "[") || ipv4Re.MatchString(domain) {
		return domain
	}
	labels := strings.Split(domain, ".")
	n := 2
	if len(labels) > 2 && multiPartSuffixes[strings.Join(labels[len(labels)-2:], ".")] {
		n = 3
	}
	if len(labels) <= n {
		return domain
	}
	return strings.Join(labels[len(labels)-n:], ".")
}

// hostPart isolates the network-location portion of s without inventing a
// scheme for schemeless values.
func hostPart(s string) string {
	if strings.Contains(s, schemeInfix) {
		u, err := url.Parse(s)
		if err != nil {
			return ""
		}
		return u.Host
	}
	if i := strings.IndexAny(s, hostCutset); i >= 0 {
		s = s[:i]
	}
	return s
}
