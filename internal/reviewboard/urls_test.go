package reviewboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAPIURL(t *testing.T) {
	tests := []struct {
		name      string
		reviewURL string
		what      string
		want      string
	}{
		{
			name:      "Diffs of review",
			reviewURL: "https://rb.example.com/r/94/",
			what:      "diffs",
			want:      "https://rb.example.com/api/review-requests/94/diffs/",
		},
		{
			name:      "Reviews under a site prefix",
			reviewURL: "http://host/reviews/r/35/",
			what:      "reviews",
			want:      "http://host/reviews/api/review-requests/35/reviews/",
		},
		{
			name:      "Review request itself",
			reviewURL: "https://rb.example.com/r/7/diff/",
			what:      "",
			want:      "https://rb.example.com/api/review-requests/7/",
		},
		{
			name:      "Specific diff revision",
			reviewURL: "https://rb.example.com/r/7",
			what:      "diffs/2",
			want:      "https://rb.example.com/api/review-requests/7/diffs/2/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, APIURL(tt.reviewURL, tt.what))
		})
	}
}

func TestExtractHostAndPort(t *testing.T) {
	tests := []struct {
		url      string
		wantHost string
		wantPort int
	}{
		{"http://rb.example.com/", "rb.example.com", 80},
		{"https://rb.example.com/r/1/", "rb.example.com", 443},
		{"https://rb.example.com:8443/", "rb.example.com", 8443},
		{"http://127.0.0.1:9000", "127.0.0.1", 9000},
		{"rb.example.com", "rb.example.com", -1},
		{"rb.example.com:8080", "rb.example.com", 8080},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			host, port := ExtractHostAndPort(tt.url)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPort, port)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2021, 12, 13, 12, 50, 26, 0, time.UTC)

	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{name: "ISO 8601 UTC", raw: "2021-12-13T12:50:26Z", want: want},
		{name: "ISO 8601 with offset", raw: "2021-12-13T13:50:26+01:00", want: want},
		{name: "ISO 8601 compact offset", raw: "2021-12-13T14:50:26+0200", want: want},
		{name: "ISO 8601 hour offset", raw: "2021-12-13T11:50:26-01", want: want},
		{name: "Fractional seconds", raw: "2021-12-13T12:50:26.000000Z", want: want},
		{name: "Legacy format", raw: "2021-12-13 12:50:26", want: want},
		{name: "Empty", raw: " ", want: time.Time{}},
		{name: "Garbage", raw: "13/12/2021", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimestamp(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}
