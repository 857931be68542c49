package poller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/build-warden/internal/core"
)

func TestLookbackWindow(t *testing.T) {
	testCases := []struct {
		raw  string
		want time.Duration
	}{
		{"", time.Hour},
		{"   ", time.Hour},
		{"abc", time.Hour},
		{"-2", time.Hour},
		{"NaN", time.Hour},
		{"+Inf", time.Hour},
		{"0", 0},
		{"1", time.Hour},
		{"24", 24 * time.Hour},
		{"0.5", 30 * time.Minute},
		{" 2 ", 2 * time.Hour},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, LookbackWindow(tc.raw))
		})
	}
}

func TestFilterStale(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2021, 12, 13, h, m, 0, 0, time.UTC) }

	reviews := []core.ReviewSummary{
		{ID: 1, LastUpdated: at(12, 0)},
		{ID: 2, LastUpdated: at(10, 30)},
		{ID: 3, LastUpdated: at(11, 5)},
		{ID: 4, LastUpdated: at(11, 0)},
	}

	fresh := FilterStale(reviews, time.Hour)

	ids := make([]int64, 0, len(fresh))
	for _, r := range fresh {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int64{1, 3, 4}, ids, "order is kept and the threshold itself is inclusive")
}

func TestFilterStale_ZeroWindowKeepsNewestOnly(t *testing.T) {
	newest := time.Date(2021, 12, 13, 12, 0, 0, 0, time.UTC)
	reviews := []core.ReviewSummary{
		{ID: 1, LastUpdated: newest.Add(-time.Second)},
		{ID: 2, LastUpdated: newest},
		{ID: 3, LastUpdated: newest},
	}

	fresh := FilterStale(reviews, 0)
	assert.Len(t, fresh, 2)
	for _, r := range fresh {
		assert.True(t, newest.Equal(r.LastUpdated))
	}
}

func TestFilterStale_Empty(t *testing.T) {
	assert.Empty(t, FilterStale(nil, time.Hour))
}
