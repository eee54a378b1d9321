package search

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?$`)

// reservedPaths are first path segments that are site sections, not users.
var reservedPaths = map[string]struct{}{
	"about": {}, "account": {}, "apps": {}, "blog": {}, "codespaces": {},
	"collections": {}, "contact": {}, "copilot": {}, "customer-stories": {},
	"dashboard": {}, "discussions": {}, "enterprise": {}, "enterprises": {},
	"events": {}, "explore": {}, "features": {}, "gist": {}, "github": {},
	"issues": {}, "join": {}, "login": {}, "logout": {}, "marketplace": {},
	"new": {}, "notifications": {}, "orgs": {}, "organizations": {},
	"pricing": {}, "pulls": {}, "readme": {}, "resources": {}, "search": {},
	"security": {}, "settings": {}, "signup": {}, "site": {}, "solutions": {},
	"sponsors": {}, "stars": {}, "team": {}, "teams": {}, "topics": {},
	"trending": {}, "users": {}, "watching": {},
}

// IsReserved reports whether segment names a site section rather than a user.
func IsReserved(segment string) bool {
	_, ok := reservedPaths[strings.ToLower(segment)]
	return ok
}

// NormalizeDomain reduces a configured domain filter such as
// "https://www.github.com/" to its registrable form "github.com".
func NormalizeDomain(raw string) (string, error) {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" {
		return "", fmt.Errorf("empty domain")
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid domain %q: %w", raw, err)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("invalid domain %q", raw)
	}
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", fmt.Errorf("invalid domain %q: %w", raw, err)
	}
	return registrable, nil
}

// ParseIdentifier extracts the user identifier from a result URL of the form
// <domain>/<identifier>[/...]. Deeper paths such as repositories resolve to
// their owner.
func ParseIdentifier(rawURL, domain string) (string, bool) {
	s := strings.TrimSpace(rawURL)
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host != strings.ToLower(domain) {
		return "", false
	}

	segment, _, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if segment == "" || !identifierPattern.MatchString(segment) || IsReserved(segment) {
		return "", false
	}
	return segment, true
}
