package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/build-warden/internal/core"
	"github.com/sevigo/build-warden/internal/jobs"
	"github.com/sevigo/build-warden/internal/poller"
	"github.com/sevigo/build-warden/internal/server/handler"
	"github.com/sevigo/build-warden/mocks"
)

type fakeDispatcher struct {
	mu  sync.Mutex
	err error
	got []*core.BuildOutcome
}

func (d *fakeDispatcher) Dispatch(_ context.Context, o *core.BuildOutcome) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.got = append(d.got, o)
	return nil
}

func (d *fakeDispatcher) Stop() {}

type testEnv struct {
	source     *mocks.MockReviewSource
	store      *mocks.MockDispatchStore
	manager    *poller.Manager
	dispatcher *fakeDispatcher
	srv        *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env := &testEnv{
		source:     mocks.NewMockReviewSource(ctrl),
		store:      mocks.NewMockDispatchStore(ctrl),
		dispatcher: &fakeDispatcher{},
	}
	env.source.EXPECT().BaseURL().Return("https://rb.example.com/").AnyTimes()
	env.source.EXPECT().Username().Return("jenkins").AnyTimes()

	orch := poller.NewOrchestrator(env.source, mocks.NewMockBuildTrigger(ctrl), env.store, 2, logger)
	cfg := core.DefaultPollerConfig()
	cfg.Name = "core"
	cfg.TargetJob = "review-build"
	env.manager = poller.NewManager([]core.PollerConfig{cfg}, orch, time.Hour, logger)

	env.srv = httptest.NewServer(NewRouter(env.manager, env.store, env.dispatcher, logger))
	t.Cleanup(env.srv.Close)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, e.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestRouter_RunPoller(t *testing.T) {
	env := newTestEnv(t)
	env.source.EXPECT().FetchCandidates(gomock.Any(), gomock.Any()).Return(nil, nil)

	resp, body := env.do(t, http.MethodPost, "/api/v1/pollers/core/run", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var got handler.CycleResponse
	require.NoError(t, json.Unmarshal(body, &got))
	require.NotNil(t, got.Report)
	assert.Equal(t, "core", got.Report.Poller)
	assert.Empty(t, got.Errors)
}

func TestRouter_RunPollerFailure(t *testing.T) {
	env := newTestEnv(t)
	env.source.EXPECT().FetchCandidates(gomock.Any(), gomock.Any()).Return(nil, core.NewError(core.KindTransport, "fetch reviews", "", errors.New("connection refused")))

	resp, body := env.do(t, http.MethodPost, "/api/v1/pollers/core/run", "")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var got handler.CycleResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Contains(t, got.Error, "connection refused")
	assert.Len(t, got.Errors, 1)
}

func TestRouter_RunPollerConflict(t *testing.T) {
	env := newTestEnv(t)
	started := make(chan struct{})
	release := make(chan struct{})
	env.source.EXPECT().FetchCandidates(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, core.CandidateQuery) ([]core.ReviewSummary, error) {
			close(started)
			<-release
			return nil, nil
		},
	)

	p, ok := env.manager.Get("core")
	require.True(t, ok)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.RunOnce(context.Background())
	}()
	<-started

	resp, _ := env.do(t, http.MethodPost, "/api/v1/pollers/core/run", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	close(release)
	<-done
}

func TestRouter_UnknownPoller(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodPost, "/api/v1/pollers/missing/run", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/pollers/missing/dispatches", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_Dispatches(t *testing.T) {
	env := newTestEnv(t)
	v := time.Date(2021, 12, 13, 12, 40, 0, 0, time.UTC)
	env.store.EXPECT().ListDispatches(gomock.Any(), "core").Return([]core.DispatchRecord{
		{Poller: "core", ReviewID: 94, LastUpdated: v, Origin: core.OriginCycle, UpdatedAt: v},
	}, nil)

	resp, body := env.do(t, http.MethodGet, "/api/v1/pollers/core/dispatches", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var records []core.DispatchRecord
	require.NoError(t, json.Unmarshal(body, &records))
	require.Len(t, records, 1)
	assert.Equal(t, int64(94), records[0].ReviewID)
}

func TestRouter_Health(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, "pollers are not started")

	var got handler.HealthResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "degraded", got.Status)
	require.Len(t, got.Pollers, 1)
	assert.Equal(t, "not running", got.Pollers[0].Message)
}

func TestRouter_NotifyBuild(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodPost, "/api/v1/builds/notify",
		`{"review":"https://rb.example.com/r/94/","result":"success","build_url":"https://ci/7/"}`)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Len(t, env.dispatcher.got, 1)
	assert.Equal(t, core.ResultSuccess, env.dispatcher.got[0].Result)
	assert.Equal(t, "https://ci/7/", env.dispatcher.got[0].BuildName)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/builds/notify", `{"review":"94","result":"maybe"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/builds/notify", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env.dispatcher.err = jobs.ErrQueueFull
	resp, _ = env.do(t, http.MethodPost, "/api/v1/builds/notify", `{"review":"94","result":"FAILURE"}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
