package reviewboard

import (
	"net/url"
	"strconv"
	"strings"
)

// APIURL turns a review URL such as https://rb/r/42/ into the matching API
// resource https://rb/api/review-requests/42/<what>/. An empty what returns
// the review request resource itself.
func APIURL(reviewURL, what string) string {
	idx := strings.LastIndex(reviewURL, "/r/")
	if idx < 0 {
		return reviewURL
	}
	prefix := reviewURL[:idx+1]
	rest := strings.TrimSuffix(reviewURL[idx+3:], "/")
	if i := strings.Index(rest, "/"); i >= 0 {
		rest = rest[:i]
	}
	u := prefix + "api/review-requests/" + rest + "/"
	if what != "" {
		u += strings.Trim(what, "/") + "/"
	}
	return u
}

// ExtractHostAndPort returns the host of rawURL and its effective port:
// the explicit port if present, 80 for http, 443 for https, otherwise -1.
func ExtractHostAndPort(rawURL string) (string, int) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		// Bare "host" or "host:port" without scheme.
		host := strings.TrimSuffix(rawURL, "/")
		if i := strings.Index(host, "/"); i >= 0 {
			host = host[:i]
		}
		if h, p, ok := strings.Cut(host, ":"); ok {
			if port, err := strconv.Atoi(p); err == nil {
				return h, port
			}
			return h, -1
		}
		return host, -1
	}

	host := u.Hostname()
	if p := u.Port(); p != "" {
		if port, err := strconv.Atoi(p); err == nil {
			return host, port
		}
	}
	switch strings.ToLower(u.Scheme) {
	case "http":
		return host, 80
	case "https":
		return host, 443
	default:
		return host, -1
	}
}

// sameServer reports whether rawURL points at the configured review server.
// Credentials are only attached to such requests.
func (c *Client) sameServer(rawURL string) bool {
	host, port := ExtractHostAndPort(rawURL)
	return strings.EqualFold(host, c.host) && port == c.port
}
