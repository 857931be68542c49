package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/sevigo/build-warden/internal/core"
)

// legacyState is the processed-set format written by earlier versions: a set
// of review URLs plus an optional map from URL to the version seen.
type legacyState struct {
	ProcessedReviews     []string          `json:"processedReviews"`
	ProcessedReviewDates map[string]string `json:"processedReviewDates"`
}

var legacyDateLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05"}

// ParseLegacyState converts a legacy state document into dispatch records for
// poller. Entries without a usable date get core.LegacyVersion so that the
// review is dispatched once more. Entries whose reference cannot be resolved
// are skipped and logged.
func ParseLegacyState(r io.Reader, poller, baseURL string, logger *slog.Logger) ([]core.DispatchRecord, error) {
	var state legacyState
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode legacy state: %w", err)
	}

	byID := make(map[int64]core.DispatchRecord, len(state.ProcessedReviews))
	for _, raw := range state.ProcessedReviews {
		ref, err := core.LegacyStringRef(raw).Resolve(baseURL)
		if err != nil {
			logger.Warn("skipping unresolvable legacy entry", "entry", raw, "error", err)
			continue
		}

		version := core.LegacyVersion
		if ds, ok := state.ProcessedReviewDates[raw]; ok {
			if ts, ok := parseLegacyDate(ds); ok {
				version = ts
			} else {
				logger.Warn("unparseable legacy date, using migration default", "entry", raw, "date", ds)
			}
		}

		if prev, ok := byID[ref.ID]; ok && !version.After(prev.LastUpdated) {
			continue
		}
		byID[ref.ID] = core.DispatchRecord{
			Poller:      poller,
			ReviewID:    ref.ID,
			LastUpdated: version,
			Origin:      core.OriginLegacy,
		}
	}

	records := make([]core.DispatchRecord, 0, len(byID))
	for _, rec := range byID {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ReviewID < records[j].ReviewID })
	return records, nil
}

func parseLegacyDate(s string) (time.Time, bool) {
	for _, layout := range legacyDateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
