package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReviewRef(t *testing.T) {
	const base = "https://rb.example.com/"

	tests := []struct {
		name    string
		value   string
		wantID  int64
		wantURL string
		wantErr bool
	}{
		{
			name:    "Plain number",
			value:   "42",
			wantID:  42,
			wantURL: "https://rb.example.com/r/42/",
		},
		{
			name:    "Number embedded in text",
			value:   "review #1234 please",
			wantID:  1234,
			wantURL: "https://rb.example.com/r/1234/",
		},
		{
			name:    "Full URL without trailing slash",
			value:   "https://rb.example.com/r/7",
			wantID:  7,
			wantURL: "https://rb.example.com/r/7/",
		},
		{
			name:    "Full URL with diff suffix",
			value:   "http://other.example.com/reviews/r/99/diff/",
			wantID:  99,
			wantURL: "http://other.example.com/reviews/r/99/diff/",
		},
		{
			name:    "No digits",
			value:   "latest",
			wantErr: true,
		},
		{
			name:    "Zero is not a review",
			value:   "0",
			wantErr: true,
		},
		{
			name:    "Empty",
			value:   "  ",
			wantErr: true,
		},
		{
			name:    "URL without review segment",
			value:   "https://rb.example.com/dashboard/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseReviewRef(tt.value, base)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, ref.ID)
			assert.Equal(t, tt.wantURL, ref.URL)
		})
	}
}

func TestReviewParam_Resolve(t *testing.T) {
	const base = "https://rb.example.com"

	params := []ReviewParam{
		LegacyStringRef("https://rb.example.com/r/5"),
		LegacyStringRef("5"),
		NewReviewRef(base, 5),
	}
	for _, p := range params {
		ref, err := p.Resolve(base)
		require.NoError(t, err)
		assert.Equal(t, ReviewRef{ID: 5, URL: "https://rb.example.com/r/5/"}, ref)
	}

	_, err := ReviewRef{}.Resolve(base)
	assert.Error(t, err)
}
