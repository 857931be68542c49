package core

import "time"

// ItemStatus is the per-review outcome of a poll cycle.
type ItemStatus string

const (
	ItemDispatched ItemStatus = "dispatched"
	ItemSkipped    ItemStatus = "skipped"
	ItemFailed     ItemStatus = "failed"
)

// ItemResult records what happened to one review during a cycle.
type ItemResult struct {
	ReviewID int64      `json:"review_id"`
	Status   ItemStatus `json:"status"`
	Reason   string     `json:"reason,omitempty"`
	Err      error      `json:"-"`
}

// CycleReport summarizes a poll cycle.
type CycleReport struct {
	CycleID           string       `json:"cycle_id"`
	Poller            string       `json:"poller"`
	StartedAt         time.Time    `json:"started_at"`
	ReviewsSeen       int          `json:"reviews_seen"`
	ReviewsDispatched int          `json:"reviews_dispatched"`
	Items             []ItemResult `json:"items"`
	Errors            []error      `json:"-"`
}

// AddItem appends a result and keeps the error list in sync.
func (r *CycleReport) AddItem(item ItemResult) {
	r.Items = append(r.Items, item)
	if item.Status == ItemDispatched {
		r.ReviewsDispatched++
	}
	if item.Err != nil {
		r.Errors = append(r.Errors, item.Err)
	}
}

// ErrorMessages returns the error strings for display or JSON output.
func (r *CycleReport) ErrorMessages() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, err := range r.Errors {
		msgs = append(msgs, err.Error())
	}
	return msgs
}
