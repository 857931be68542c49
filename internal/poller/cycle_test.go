package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/build-warden/internal/config"
	"github.com/sevigo/build-warden/internal/core"
	"github.com/sevigo/build-warden/internal/db"
	"github.com/sevigo/build-warden/internal/storage"
	"github.com/sevigo/build-warden/mocks"
)

const (
	testBaseURL = "https://rb.example.com/"
	testBot     = "jenkins"
	testJob     = "review-build"
)

var (
	updated94 = time.Date(2021, 12, 13, 12, 50, 26, 0, time.UTC)
	updated35 = time.Date(2020, 6, 2, 9, 52, 11, 0, time.UTC)
	diffT0    = time.Date(2021, 12, 13, 12, 40, 0, 0, time.UTC)
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPollerConfig() core.PollerConfig {
	cfg := core.DefaultPollerConfig()
	cfg.Name = "core"
	cfg.TargetJob = testJob
	return cfg
}

type fixture struct {
	source  *mocks.MockReviewSource
	trigger *mocks.MockBuildTrigger
	store   *mocks.MockDispatchStore
	orch    *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		source:  mocks.NewMockReviewSource(ctrl),
		trigger: mocks.NewMockBuildTrigger(ctrl),
		store:   mocks.NewMockDispatchStore(ctrl),
	}
	f.source.EXPECT().BaseURL().Return(testBaseURL).AnyTimes()
	f.source.EXPECT().Username().Return(testBot).AnyTimes()
	f.orch = NewOrchestrator(f.source, f.trigger, f.store, 4, testLogger())
	f.orch.newID = func() string { return "cycle-1" }
	return f
}

// expectReview makes the source return the given diff history and no comments.
func (f *fixture) expectReview(id int64, uploads ...time.Time) {
	f.source.EXPECT().FetchDiffHistory(gomock.Any(), id).Return(&core.DiffRecord{ReviewID: id, Uploads: uploads}, nil)
	f.source.EXPECT().FetchComments(gomock.Any(), id).Return(&core.CommentRecord{ReviewID: id}, nil)
}

// expectJob makes the target job lookup succeed once.
func (f *fixture) expectJob() *gomock.Call {
	return f.trigger.EXPECT().JobExists(gomock.Any(), testJob).Return(nil)
}

func ref(id int64) core.ReviewRef {
	return core.NewReviewRef(testBaseURL, id)
}

func TestRunCycle_DispatchesFreshReview(t *testing.T) {
	f := newFixture(t)
	cfg := testPollerConfig()

	f.source.EXPECT().FetchCandidates(gomock.Any(), core.CandidateQuery{RestrictToUser: true, RepositoryID: -1}).Return([]core.ReviewSummary{
		{ID: 94, LastUpdated: updated94},
		{ID: 35, LastUpdated: updated35},
	}, nil)
	f.expectReview(94, diffT0)
	f.store.EXPECT().AlreadyDispatched(gomock.Any(), "core", int64(94), diffT0).Return(false, nil)

	gomock.InOrder(
		f.expectJob(),
		f.source.EXPECT().PostAdvisory(gomock.Any(), int64(94), AdvisoryMessage).Return(nil),
		f.trigger.EXPECT().Trigger(gomock.Any(), testJob, ref(94)).Return(nil),
		f.store.EXPECT().RecordDispatch(gomock.Any(), "core", int64(94), diffT0).Return(nil),
	)

	report, err := f.orch.RunCycle(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "cycle-1", report.CycleID)
	assert.Equal(t, 1, report.ReviewsSeen, "review 35 is outside the lookback window")
	assert.Equal(t, 1, report.ReviewsDispatched)
	require.Len(t, report.Items, 1)
	assert.Equal(t, core.ItemDispatched, report.Items[0].Status)
	assert.Empty(t, report.Errors)
}

func TestRunCycle_NewDiffAfterDispatchIsBuiltAgain(t *testing.T) {
	f := newFixture(t)
	cfg := testPollerConfig()
	cfg.LookbackHours = "100000"
	diffT2 := diffT0.Add(48 * time.Hour)

	f.source.EXPECT().FetchCandidates(gomock.Any(), gomock.Any()).Return([]core.ReviewSummary{
		{ID: 35, LastUpdated: diffT2},
	}, nil)
	f.source.EXPECT().FetchDiffHistory(gomock.Any(), int64(35)).Return(&core.DiffRecord{ReviewID: 35, Uploads: []time.Time{diffT0, diffT2}}, nil)
	f.source.EXPECT().FetchComments(gomock.Any(), int64(35)).Return(&core.CommentRecord{ReviewID: 35, Comments: []core.Comment{
		{Author: testBot, Timestamp: diffT0.Add(time.Hour)},
	}}, nil)

	// The store holds the first revision; the second one is newer.
	f.store.EXPECT().AlreadyDispatched(gomock.Any(), "core", int64(35), diffT2).Return(false, nil)
	f.expectJob()
	f.source.EXPECT().PostAdvisory(gomock.Any(), int64(35), gomock.Any()).Return(nil)
	f.trigger.EXPECT().Trigger(gomock.Any(), testJob, ref(35)).Return(nil)
	f.store.EXPECT().RecordDispatch(gomock.Any(), "core", int64(35), diffT2).Return(nil)

	report, err := f.orch.RunCycle(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, report.ReviewsDispatched)
}

func TestRunCycle_BotAlreadyCommented(t *testing.T) {
	f := newFixture(t)

	f.source.EXPECT().FetchCandidates(gomock.Any(), gomock.Any()).Return([]core.ReviewSummary{
		{ID: 94, LastUpdated: updated94},
	}, nil)
	f.source.EXPECT().FetchDiffHistory(gomock.Any(), int64(94)).Return(&core.DiffRecord{ReviewID: 94, Uploads: []time.Time{diffT0}}, nil)
	f.source.EXPECT().FetchComments(gomock.Any(), int64(94)).Return(&core.CommentRecord{ReviewID: 94, Comments: []core.Comment{
		{Author: testBot, Timestamp: diffT0.Add(time.Minute)},
	}}, nil)

	report, err := f.orch.RunCycle(context.Background(), testPollerConfig())
	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	assert.Equal(t, core.ItemSkipped, report.Items[0].Status)
	assert.Equal(t, "no new diff", report.Items[0].Reason)
}

func TestRunCycle_JobNotFoundWritesNothing(t *testing.T) {
	f := newFixture(t)

	f.source.EXPECT().FetchCandidates(gomock.Any(), gomock.Any()).Return([]core.ReviewSummary{
		{ID: 94, LastUpdated: updated94},
		{ID: 95, LastUpdated: updated94},
		{ID: 96, LastUpdated: updated94},
	}, nil)
	f.expectReview(94, diffT0)
	f.expectReview(95, diffT0)
	f.expectReview(96, diffT0)
	f.store.EXPECT().AlreadyDispatched(gomock.Any(), "core", int64(94), diffT0).Return(false, nil)
	f.store.EXPECT().AlreadyDispatched(gomock.Any(), "core", int64(95), diffT0).Return(false, nil)
	// 96 is already known; its refresh must be dropped as well.
	f.store.EXPECT().AlreadyDispatched(gomock.Any(), "core", int64(96), diffT0).Return(true, nil)

	notFound := core.NewError(core.KindNotFound, "look up job", "https://ci.example.com/job/review-build/api/json", errors.New("404"))
	f.trigger.EXPECT().JobExists(gomock.Any(), testJob).Return(notFound)
	f.source.EXPECT().PostAdvisory(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.trigger.EXPECT().Trigger(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.store.EXPECT().RecordDispatch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	report, err := f.orch.RunCycle(context.Background(), testPollerConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, err, core.ErrDispatch)
	assert.Equal(t, 0, report.ReviewsDispatched)

	statuses := map[int64]core.ItemStatus{}
	for _, item := range report.Items {
		statuses[item.ReviewID] = item.Status
	}
	assert.Equal(t, core.ItemFailed, statuses[94])
	assert.Equal(t, core.ItemSkipped, statuses[95])
	assert.Equal(t, core.ItemSkipped, statuses[96])
}

func TestRunCycle_MissingJobDoesNotSuppressNextCycle(t *testing.T) {
	f := newFixture(t)

	// Comments posted by the bot become visible to the next classification.
	var posted []core.Comment
	f.source.EXPECT().FetchCandidates(gomock.Any(), gomock.Any()).Return([]core.ReviewSummary{
		{ID: 94, LastUpdated: updated94},
	}, nil).Times(2)
	f.source.EXPECT().FetchDiffHistory(gomock.Any(), int64(94)).Return(&core.DiffRecord{ReviewID: 94, Uploads: []time.Time{diffT0}}, nil).Times(2)
	f.source.EXPECT().FetchComments(gomock.Any(), int64(94)).DoAndReturn(func(_ context.Context, id int64) (*core.CommentRecord, error) {
		return &core.CommentRecord{ReviewID: id, Comments: append([]core.Comment(nil), posted...)}, nil
	}).Times(2)
	f.source.EXPECT().PostAdvisory(gomock.Any(), int64(94), AdvisoryMessage).DoAndReturn(func(_ context.Context, _ int64, _ string) error {
		posted = append(posted, core.Comment{Author: testBot, Timestamp: diffT0.Add(time.Minute)})
		return nil
	}).MaxTimes(1)
	f.store.EXPECT().AlreadyDispatched(gomock.Any(), "core", int64(94), diffT0).Return(false, nil).Times(2)

	notFound := core.NewError(core.KindNotFound, "look up job", "", errors.New("404"))
	gomock.InOrder(
		f.trigger.EXPECT().JobExists(gomock.Any(), testJob).Return(notFound),
		f.expectJob(),
		f.trigger.EXPECT().Trigger(gomock.Any(), testJob, ref(94)).Return(nil),
		f.store.EXPECT().RecordDispatch(gomock.Any(), "core", int64(94), diffT0).Return(nil),
	)

	first, err := f.orch.RunCycle(context.Background(), testPollerConfig())
	require.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, 0, first.ReviewsDispatched)
	assert.Empty(t, posted, "no advisory before the job is known to exist")

	// The job has been created; the review must still be built.
	second, err := f.orch.RunCycle(context.Background(), testPollerConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, second.ReviewsDispatched)
	assert.Len(t, posted, 1)
}

func TestRunCycle_TriggerFailureKeepsEarlierDispatches(t *testing.T) {
	f := newFixture(t)
	cfg := testPollerConfig()
	cfg.DisableAdvisoryComment = true

	f.source.EXPECT().FetchCandidates(gomock.Any(), gomock.Any()).Return([]core.ReviewSummary{
		{ID: 1, LastUpdated: updated94},
		{ID: 2, LastUpdated: updated94},
	}, nil)
	f.expectReview(1, diffT0)
	f.expectReview(2, diffT0)
	f.store.EXPECT().AlreadyDispatched(gomock.Any(), "core", gomock.Any(), diffT0).Return(false, nil).Times(2)

	f.expectJob()
	f.trigger.EXPECT().Trigger(gomock.Any(), testJob, ref(1)).Return(nil)
	f.trigger.EXPECT().Trigger(gomock.Any(), testJob, ref(2)).Return(core.NewError(core.KindTransport, "trigger build", "", errors.New("connection refused")))
	f.store.EXPECT().RecordDispatch(gomock.Any(), "core", int64(1), diffT0).Return(nil)

	report, err := f.orch.RunCycle(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTransport)
	assert.Equal(t, 1, report.ReviewsDispatched)
}

func TestRunCycle_AdvisoryFailureIsOnlyLogged(t *testing.T) {
	f := newFixture(t)

	f.source.EXPECT().FetchCandidates(gomock.Any(), gomock.Any()).Return([]core.ReviewSummary{
		{ID: 94, LastUpdated: updated94},
	}, nil)
	f.expectReview(94, diffT0)
	f.store.EXPECT().AlreadyDispatched(gomock.Any(), "core", int64(94), diffT0).Return(false, nil)
	f.expectJob()
	f.source.EXPECT().PostAdvisory(gomock.Any(), int64(94), gomock.Any()).Return(core.NewError(core.KindTransport, "post review", "", errors.New("timeout")))
	f.trigger.EXPECT().Trigger(gomock.Any(), testJob, ref(94)).Return(nil)
	f.store.EXPECT().RecordDispatch(gomock.Any(), "core", int64(94), diffT0).Return(nil)

	report, err := f.orch.RunCycle(context.Background(), testPollerConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, report.ReviewsDispatched)
	assert.Empty(t, report.Errors)
}

func TestRunCycle_AdvisoryDisabled(t *testing.T) {
	f := newFixture(t)
	cfg := testPollerConfig()
	cfg.DisableAdvisoryComment = true

	f.source.EXPECT().FetchCandidates(gomock.Any(), gomock.Any()).Return([]core.ReviewSummary{
		{ID: 94, LastUpdated: updated94},
	}, nil)
	f.expectReview(94, diffT0)
	f.store.EXPECT().AlreadyDispatched(gomock.Any(), "core", int64(94), diffT0).Return(false, nil)
	f.source.EXPECT().PostAdvisory(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.expectJob()
	f.trigger.EXPECT().Trigger(gomock.Any(), testJob, ref(94)).Return(nil)
	f.store.EXPECT().RecordDispatch(gomock.Any(), "core", int64(94), diffT0).Return(nil)

	_, err := f.orch.RunCycle(context.Background(), cfg)
	require.NoError(t, err)
}

func TestRunCycle_ClassifyErrorIsScopedToReview(t *testing.T) {
	f := newFixture(t)
	cfg := testPollerConfig()
	cfg.DisableAdvisoryComment = true

	f.source.EXPECT().FetchCandidates(gomock.Any(), gomock.Any()).Return([]core.ReviewSummary{
		{ID: 1, LastUpdated: updated94},
		{ID: 2, LastUpdated: updated94},
	}, nil)
	f.source.EXPECT().FetchDiffHistory(gomock.Any(), int64(1)).Return(nil, core.NewError(core.KindParse, "fetch diffs", "", errors.New("bad xml")))
	f.expectReview(2, diffT0)
	f.store.EXPECT().AlreadyDispatched(gomock.Any(), "core", int64(2), diffT0).Return(false, nil)
	f.expectJob()
	f.trigger.EXPECT().Trigger(gomock.Any(), testJob, ref(2)).Return(nil)
	f.store.EXPECT().RecordDispatch(gomock.Any(), "core", int64(2), diffT0).Return(nil)

	report, err := f.orch.RunCycle(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, report.ReviewsDispatched)
	require.Len(t, report.Errors, 1)
	assert.ErrorIs(t, report.Errors[0], core.ErrParse)
	assert.Equal(t, "classify", report.Items[0].Reason)
}

func TestRunCycle_FetchFailureAbortsCycle(t *testing.T) {
	f := newFixture(t)

	f.source.EXPECT().FetchCandidates(gomock.Any(), gomock.Any()).Return(nil, core.NewError(core.KindAuth, "fetch reviews", "", errors.New("401")))

	report, err := f.orch.RunCycle(context.Background(), testPollerConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAuth)
	assert.Equal(t, 0, report.ReviewsSeen)
	assert.Len(t, report.Errors, 1)
}

func TestRunCycle_IsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockReviewSource(ctrl)
	trigger := mocks.NewMockBuildTrigger(ctrl)

	conn, cleanup, err := db.NewDatabase(&config.DBConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "dispatch.db"),
	})
	require.NoError(t, err)
	t.Cleanup(cleanup)
	store := storage.NewStore(conn.DB)

	source.EXPECT().BaseURL().Return(testBaseURL).AnyTimes()
	source.EXPECT().Username().Return(testBot).AnyTimes()
	source.EXPECT().FetchCandidates(gomock.Any(), gomock.Any()).Return([]core.ReviewSummary{
		{ID: 94, LastUpdated: updated94},
	}, nil).Times(2)
	source.EXPECT().FetchDiffHistory(gomock.Any(), int64(94)).Return(&core.DiffRecord{ReviewID: 94, Uploads: []time.Time{diffT0}}, nil).Times(2)
	source.EXPECT().FetchComments(gomock.Any(), int64(94)).Return(&core.CommentRecord{ReviewID: 94}, nil).Times(2)
	source.EXPECT().PostAdvisory(gomock.Any(), int64(94), gomock.Any()).Return(nil).Times(1)
	trigger.EXPECT().JobExists(gomock.Any(), testJob).Return(nil).Times(1)
	trigger.EXPECT().Trigger(gomock.Any(), testJob, ref(94)).Return(nil).Times(1)

	orch := NewOrchestrator(source, trigger, store, 2, testLogger())
	cfg := testPollerConfig()

	first, err := orch.RunCycle(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ReviewsDispatched)

	second, err := orch.RunCycle(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, second.ReviewsDispatched)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "already dispatched", second.Items[0].Reason)

	records, err := store.ListDispatches(context.Background(), "core")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, diffT0.Equal(records[0].LastUpdated))
}
