package poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sevigo/build-warden/internal/core"
)

// AdvisoryMessage is posted on a review right before its build is triggered.
const AdvisoryMessage = "A build of this review has been queued. The result will be posted here when it finishes."

const commitTimeout = 10 * time.Second

// Orchestrator runs poll cycles: fetch, filter, classify, diff against the
// store, dispatch, commit. It holds no per-poller state and may be shared.
type Orchestrator struct {
	source     core.ReviewSource
	trigger    core.BuildTrigger
	store      core.DispatchStore
	maxWorkers int
	logger     *slog.Logger
	newID      func() string
}

// NewOrchestrator wires the collaborators of a poll cycle. maxWorkers bounds
// the number of reviews classified concurrently and defaults to 1.
func NewOrchestrator(source core.ReviewSource, trigger core.BuildTrigger, store core.DispatchStore, maxWorkers int, logger *slog.Logger) *Orchestrator {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &Orchestrator{
		source:     source,
		trigger:    trigger,
		store:      store,
		maxWorkers: maxWorkers,
		logger:     logger,
		newID:      uuid.NewString,
	}
}

type classification struct {
	review   core.ReviewSummary
	decision core.Decision
	version  time.Time
	err      error
}

// RunCycle executes one poll cycle for cfg. A fetch failure aborts the cycle
// before anything is written. A trigger failure stops the dispatch loop; the
// reviews dispatched before it are still recorded and the error is returned
// together with the report.
func (o *Orchestrator) RunCycle(ctx context.Context, cfg core.PollerConfig) (*core.CycleReport, error) {
	report := &core.CycleReport{
		CycleID:   o.newID(),
		Poller:    cfg.Name,
		StartedAt: time.Now().UTC(),
	}
	log := o.logger.With("poller", cfg.Name, "cycle_id", report.CycleID)

	reviews, err := o.source.FetchCandidates(ctx, core.CandidateQuery{
		RestrictToUser: cfg.RestrictToUser,
		RepositoryID:   cfg.RepositoryID,
	})
	if err != nil {
		log.Error("failed to fetch pending reviews", "error", err)
		report.Errors = append(report.Errors, err)
		return report, fmt.Errorf("failed to fetch pending reviews: %w", err)
	}

	window := LookbackWindow(cfg.LookbackHours)
	fresh := FilterStale(reviews, window)
	report.ReviewsSeen = len(fresh)
	log.Info("fetched pending reviews", "total", len(reviews), "fresh", len(fresh), "window", window)

	classified := o.classifyAll(ctx, fresh)
	toDispatch, refresh := o.diffAgainstStore(ctx, log, cfg, classified, report)

	if err := ctx.Err(); err != nil {
		log.Warn("poll cycle cancelled before dispatch", "error", err)
		return report, err
	}

	confirmed, dispatchErr := o.dispatch(ctx, log, cfg, toDispatch, report)

	commit := confirmed
	if dispatchErr == nil {
		commit = append(commit, refresh...)
	}
	o.commit(ctx, log, cfg, commit, report)

	log.Info("poll cycle finished",
		"seen", report.ReviewsSeen,
		"dispatched", report.ReviewsDispatched,
		"errors", len(report.Errors),
	)
	return report, dispatchErr
}

// classifyAll fans out over a bounded worker pool. Errors stay scoped to the
// review they belong to.
func (o *Orchestrator) classifyAll(ctx context.Context, reviews []core.ReviewSummary) []classification {
	results := make([]classification, len(reviews))

	var g errgroup.Group
	g.SetLimit(o.maxWorkers)
	for i, r := range reviews {
		g.Go(func() error {
			results[i] = o.classifyOne(ctx, r)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (o *Orchestrator) classifyOne(ctx context.Context, r core.ReviewSummary) classification {
	if err := ctx.Err(); err != nil {
		return classification{review: r, err: err}
	}

	diffs, err := o.source.FetchDiffHistory(ctx, r.ID)
	if err != nil {
		return classification{review: r, err: fmt.Errorf("failed to fetch diffs: %w", err)}
	}
	comments, err := o.source.FetchComments(ctx, r.ID)
	if err != nil {
		return classification{review: r, err: fmt.Errorf("failed to fetch comments: %w", err)}
	}

	decision, version := Classify(diffs, comments, o.source.Username())
	return classification{review: r, decision: decision, version: version}
}

// diffAgainstStore splits NEEDS_BUILD reviews into new dispatches and
// reviews already dispatched at this version, whose records get refreshed.
func (o *Orchestrator) diffAgainstStore(ctx context.Context, log *slog.Logger, cfg core.PollerConfig, classified []classification, report *core.CycleReport) (toDispatch, refresh []core.Candidate) {
	for _, c := range classified {
		ref := core.NewReviewRef(o.source.BaseURL(), c.review.ID)

		if c.err != nil {
			log.Warn("failed to classify review", "review_id", c.review.ID, "review_url", ref.URL, "error", c.err)
			report.AddItem(core.ItemResult{ReviewID: c.review.ID, Status: core.ItemFailed, Reason: "classify", Err: c.err})
			continue
		}
		if c.decision == core.NoBuild {
			log.Debug("review needs no build", "review_id", c.review.ID)
			report.AddItem(core.ItemResult{ReviewID: c.review.ID, Status: core.ItemSkipped, Reason: "no new diff"})
			continue
		}

		cand := core.Candidate{Review: c.review, Ref: ref, Version: c.version}
		done, err := o.store.AlreadyDispatched(ctx, cfg.Name, c.review.ID, c.version)
		if err != nil {
			log.Error("failed to read dispatch state", "review_id", c.review.ID, "error", err)
			report.AddItem(core.ItemResult{ReviewID: c.review.ID, Status: core.ItemFailed, Reason: "store lookup", Err: err})
			continue
		}
		if done {
			log.Debug("review already dispatched", "review_id", c.review.ID, "version", c.version)
			report.AddItem(core.ItemResult{ReviewID: c.review.ID, Status: core.ItemSkipped, Reason: "already dispatched"})
			refresh = append(refresh, cand)
			continue
		}
		toDispatch = append(toDispatch, cand)
	}
	return toDispatch, refresh
}

// dispatch posts the advisory notice and triggers the build for each
// candidate in order. The target job is looked up once first; when it is
// unavailable nothing is posted or triggered. The first trigger failure ends
// the loop.
func (o *Orchestrator) dispatch(ctx context.Context, log *slog.Logger, cfg core.PollerConfig, candidates []core.Candidate, report *core.CycleReport) ([]core.Candidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if err := o.trigger.JobExists(ctx, cfg.TargetJob); err != nil {
		dispatchErr := core.NewError(core.KindDispatch, "dispatch", cfg.TargetJob, err)
		log.Error("build job unavailable, nothing dispatched", "job", cfg.TargetJob, "pending", len(candidates), "error", err)
		report.AddItem(core.ItemResult{ReviewID: candidates[0].Review.ID, Status: core.ItemFailed, Reason: "job lookup", Err: dispatchErr})
		for _, rest := range candidates[1:] {
			report.AddItem(core.ItemResult{ReviewID: rest.Review.ID, Status: core.ItemSkipped, Reason: "dispatch aborted"})
		}
		return nil, dispatchErr
	}

	confirmed := make([]core.Candidate, 0, len(candidates))

	for i, cand := range candidates {
		if !cfg.DisableAdvisoryComment {
			if err := o.source.PostAdvisory(ctx, cand.Review.ID, AdvisoryMessage); err != nil {
				log.Warn("failed to post advisory comment", "review_id", cand.Review.ID, "review_url", cand.Ref.URL, "error", err)
			}
		}

		if err := o.trigger.Trigger(ctx, cfg.TargetJob, cand.Ref); err != nil {
			dispatchErr := core.NewError(core.KindDispatch, "dispatch", cand.Ref.URL, err)
			log.Error("failed to trigger build, stopping dispatch",
				"job", cfg.TargetJob,
				"review_id", cand.Review.ID,
				"review_url", cand.Ref.URL,
				"error", err,
			)
			report.AddItem(core.ItemResult{ReviewID: cand.Review.ID, Status: core.ItemFailed, Reason: "trigger", Err: dispatchErr})
			for _, rest := range candidates[i+1:] {
				report.AddItem(core.ItemResult{ReviewID: rest.Review.ID, Status: core.ItemSkipped, Reason: "dispatch aborted"})
			}
			return confirmed, dispatchErr
		}

		log.Info("build triggered", "job", cfg.TargetJob, "review_id", cand.Review.ID, "review_url", cand.Ref.URL)
		report.AddItem(core.ItemResult{ReviewID: cand.Review.ID, Status: core.ItemDispatched})
		confirmed = append(confirmed, cand)
	}
	return confirmed, nil
}

// commit records candidates. Writes survive cancellation of the cycle so that
// builds already triggered are not lost from the store.
func (o *Orchestrator) commit(ctx context.Context, log *slog.Logger, cfg core.PollerConfig, candidates []core.Candidate, report *core.CycleReport) {
	if len(candidates) == 0 {
		return
	}
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
	defer cancel()

	for _, cand := range candidates {
		if err := o.store.RecordDispatch(commitCtx, cfg.Name, cand.Review.ID, cand.Version); err != nil {
			log.Error("failed to record dispatch", "review_id", cand.Review.ID, "error", err)
			report.Errors = append(report.Errors, err)
		}
	}
}
