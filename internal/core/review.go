package core

import "time"

// ReviewSummary is the lightweight view of a pending review request returned by
// the review server. It is created fresh on every fetch and never mutated.
type ReviewSummary struct {
	ID          int64
	LastUpdated time.Time
	Branch      string
}

// DiffRecord holds the upload timestamps of every diff revision attached to a
// review. Only the latest upload is relevant for build decisions.
type DiffRecord struct {
	ReviewID int64
	Uploads  []time.Time
}

// Latest returns the most recent diff upload and false if no diff exists.
func (d *DiffRecord) Latest() (time.Time, bool) {
	if d == nil || len(d.Uploads) == 0 {
		return time.Time{}, false
	}
	latest := d.Uploads[0]
	for _, t := range d.Uploads[1:] {
		if t.After(latest) {
			latest = t
		}
	}
	return latest, true
}

// Comment is a single top-level review comment.
type Comment struct {
	Author    string
	Timestamp time.Time
}

// CommentRecord lists the review comments posted on a review request.
type CommentRecord struct {
	ReviewID int64
	Comments []Comment
}

// LatestBy returns the most recent comment timestamp written by author.
func (c *CommentRecord) LatestBy(author string) (time.Time, bool) {
	if c == nil {
		return time.Time{}, false
	}
	var (
		latest time.Time
		found  bool
	)
	for _, cm := range c.Comments {
		if cm.Author != author {
			continue
		}
		if !found || cm.Timestamp.After(latest) {
			latest = cm.Timestamp
			found = true
		}
	}
	return latest, found
}

// Decision is the outcome of classifying a single review.
type Decision int

const (
	NoBuild Decision = iota
	NeedsBuild
)

func (d Decision) String() string {
	if d == NeedsBuild {
		return "NEEDS_BUILD"
	}
	return "NO_BUILD"
}

// Candidate is a review that survived classification together with the
// version (latest diff upload) it was classified at.
type Candidate struct {
	Review  ReviewSummary
	Ref     ReviewRef
	Version time.Time
}

// DispatchRecord is the persisted proof that a review was handed to the build
// server at a given version.
type DispatchRecord struct {
	Poller      string    `json:"poller"`
	ReviewID    int64     `json:"review_id"`
	LastUpdated time.Time `json:"last_updated"`
	Origin      string    `json:"origin"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Origins of a dispatch record.
const (
	OriginCycle  = "cycle"
	OriginLegacy = "legacy"
)

// LegacyVersion is the version assigned to imported records that carried no
// timestamp. It sorts before any real diff upload, so such reviews are
// dispatched once more instead of being skipped forever.
var LegacyVersion = time.Unix(0, 0).UTC()
