package reviewboard

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// rsp is the root element of every Review Board XML response. Only the fields
// used by the client are mapped; unknown elements are ignored by the decoder.
type rsp struct {
	XMLName        xml.Name      `xml:"rsp"`
	Stat           string        `xml:"stat"`
	TotalResults   int           `xml:"total_results"`
	ReviewRequests []requestItem `xml:"review_requests>array>item"`
	ReviewRequest  *requestItem  `xml:"review_request"`
	Diffs          []item        `xml:"diffs>array>item"`
	Reviews        []item        `xml:"reviews>array>item"`
	Repositories   []item        `xml:"repositories>array>item"`
	Links          links         `xml:"links"`
	Err            *apiError     `xml:"err"`
}

type requestItem struct {
	ID          int64     `xml:"id"`
	LastUpdated timestamp `xml:"last_updated"`
	Branch      string    `xml:"branch"`
	Links       links     `xml:"links"`
}

// item is shared by diffs, reviews and repositories.
type item struct {
	ID        int64     `xml:"id"`
	Revision  int       `xml:"revision"`
	Timestamp timestamp `xml:"timestamp"`
	Name      string    `xml:"name"`
	Tool      string    `xml:"tool"`
	Path      string    `xml:"path"`
	Links     links     `xml:"links"`
}

type links struct {
	User       *link `xml:"user"`
	Repository *link `xml:"repository"`
	Submitter  *link `xml:"submitter"`
	Next       *link `xml:"next"`
}

type link struct {
	Title string `xml:"title"`
	Href  string `xml:"href"`
}

func (l *link) title() string {
	if l == nil {
		return ""
	}
	return l.Title
}

func (l *link) href() string {
	if l == nil {
		return ""
	}
	return l.Href
}

type apiError struct {
	Code int    `xml:"code"`
	Msg  string `xml:"msg"`
}

// timestampLayouts lists the formats seen in the wild. Review Board 2.x and
// later send ISO 8601 with a zone; 1.6 sends a zoneless local form.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

type timestamp struct {
	time.Time
}

func (t *timestamp) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var raw string
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}
	parsed, err := parseTimestamp(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// parseTimestamp returns the zero time for empty input. Zoneless values are read as UTC.
func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}
