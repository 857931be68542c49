package core

import (
	"context"
	"io"
	"time"
)

// CandidateQuery narrows the pending reviews returned by the review server.
type CandidateQuery struct {
	// RestrictToUser limits results to reviews addressed to the configured user.
	RestrictToUser bool
	// RepositoryID limits results to one repository. Negative means any.
	RepositoryID int64
}

// ReviewComment is a top-level review posted back to the review server.
type ReviewComment struct {
	Body     string
	ShipIt   bool
	Markdown bool
}

// ReviewProperties are the review attributes exported to builds.
type ReviewProperties struct {
	Branch     string `json:"REVIEW_BRANCH"`
	Repository string `json:"REVIEW_REPOSITORY"`
	User       string `json:"REVIEW_USER"`
}

// ReviewSource is the read/write view of the review server used by the
// poller and the notifier. Implementations share one authenticated transport.
//
//go:generate mockgen -destination=../../mocks/mock_review_source.go -package=mocks . ReviewSource
type ReviewSource interface {
	// BaseURL returns the server root used to build canonical review URLs.
	BaseURL() string
	// Username is the account the bot acts as. Its comments mark reviews as handled.
	Username() string

	FetchCandidates(ctx context.Context, q CandidateQuery) ([]ReviewSummary, error)
	FetchDiffHistory(ctx context.Context, reviewID int64) (*DiffRecord, error)
	FetchComments(ctx context.Context, reviewID int64) (*CommentRecord, error)
	// PostAdvisory posts a plain notice. Failures must not affect dedup state.
	PostAdvisory(ctx context.Context, reviewID int64, message string) error
	PostComment(ctx context.Context, ref ReviewRef, comment ReviewComment) error

	Properties(ctx context.Context, ref ReviewRef) (*ReviewProperties, error)
	Diff(ctx context.Context, ref ReviewRef) (io.ReadCloser, error)
	Repositories(ctx context.Context) (map[string]int64, error)
}

// BuildTrigger enqueues a parameterized build for a review.
//
//go:generate mockgen -destination=../../mocks/mock_build_trigger.go -package=mocks . BuildTrigger
type BuildTrigger interface {
	// JobExists returns nil when job can be triggered and an error wrapping
	// ErrNotFound when it does not exist.
	JobExists(ctx context.Context, job string) error
	Trigger(ctx context.Context, job string, ref ReviewRef) error
}

// DispatchStore persists which reviews were dispatched, per polling configuration.
//
//go:generate mockgen -destination=../../mocks/mock_dispatch_store.go -package=mocks . DispatchStore
type DispatchStore interface {
	// AlreadyDispatched reports whether a record exists whose version is at
	// least version. Versions are compared at microsecond precision.
	AlreadyDispatched(ctx context.Context, poller string, reviewID int64, version time.Time) (bool, error)
	// RecordDispatch upserts the record for the review.
	RecordDispatch(ctx context.Context, poller string, reviewID int64, version time.Time) error
	ListDispatches(ctx context.Context, poller string) ([]DispatchRecord, error)
	// Prune deletes records not refreshed since before. It is never called by the poller.
	Prune(ctx context.Context, poller string, before time.Time) (int64, error)
}
