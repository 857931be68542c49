package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var digitsRegex = regexp.MustCompile(`\d+`)

// ReviewRef identifies a review request by its numeric id and canonical URL.
// The URL always ends with a slash, e.g. https://rb.example.com/r/42/.
type ReviewRef struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// ReviewParam is a build parameter that refers to a review. It is either a
// LegacyStringRef as stored by older configurations or an already resolved
// ReviewRef. Callers resolve it once at the boundary and work with ReviewRef.
type ReviewParam interface {
	Resolve(baseURL string) (ReviewRef, error)
}

// LegacyStringRef is a review reference given as free text: a full URL, a
// review number, or anything containing one.
type LegacyStringRef string

// Resolve parses the legacy value into a ReviewRef.
func (s LegacyStringRef) Resolve(baseURL string) (ReviewRef, error) {
	return ParseReviewRef(string(s), baseURL)
}

// Resolve returns the reference unchanged after validating it.
func (r ReviewRef) Resolve(_ string) (ReviewRef, error) {
	if r.ID <= 0 || r.URL == "" {
		return ReviewRef{}, fmt.Errorf("invalid review reference %q", r.URL)
	}
	return r, nil
}

// String returns the canonical review URL.
func (r ReviewRef) String() string {
	return r.URL
}

// NewReviewRef builds the canonical reference of review id on the server
// rooted at baseURL.
func NewReviewRef(baseURL string, id int64) ReviewRef {
	return ReviewRef{ID: id, URL: ReviewURL(baseURL, id)}
}

// ReviewURL returns <base>/r/<id>/.
func ReviewURL(baseURL string, id int64) string {
	return strings.TrimSuffix(baseURL, "/") + "/r/" + strconv.FormatInt(id, 10) + "/"
}

// ParseReviewRef normalizes a user supplied review reference. A full http(s)
// URL is kept as is with a trailing slash added; any other value is reduced to
// its first run of digits and expanded to a URL under baseURL.
func ParseReviewRef(value, baseURL string) (ReviewRef, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return ReviewRef{}, fmt.Errorf("empty review reference")
	}

	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		url := value
		if !strings.HasSuffix(url, "/") {
			url += "/"
		}
		id, err := idFromURL(url)
		if err != nil {
			return ReviewRef{}, err
		}
		return ReviewRef{ID: id, URL: url}, nil
	}

	match := digitsRegex.FindString(value)
	if match == "" {
		return ReviewRef{}, fmt.Errorf("no review number in %q", value)
	}
	id, err := strconv.ParseInt(match, 10, 64)
	if err != nil || id <= 0 {
		return ReviewRef{}, fmt.Errorf("invalid review number in %q", value)
	}
	return NewReviewRef(baseURL, id), nil
}

// idFromURL extracts the number following the "/r/" path segment.
func idFromURL(url string) (int64, error) {
	idx := strings.LastIndex(url, "/r/")
	if idx < 0 {
		return 0, fmt.Errorf("not a review URL: %s", url)
	}
	rest := strings.TrimSuffix(url[idx+3:], "/")
	if i := strings.Index(rest, "/"); i >= 0 {
		rest = rest[:i]
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid review number in URL %s", url)
	}
	return id, nil
}
