package report

import (
	"net/http"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simset-go/phgsim/internal/phg/productivity"
	"github.com/simset-go/phgsim/internal/phg/sim"
	"github.com/simset-go/phgsim/internal/phg/store/sqlite"
	"github.com/simset-go/phgsim/internal/testutil"
)

func testServer(t *testing.T) (*Server, *sqlite.Store, int64) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "phgsim.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := sim.DefaultRunConfig().WithEventsToSimulate(100).WithScanLengthSeconds(1).WithOutputPath("r.phg")
	runID, err := store.InsertRun(0, cfg)
	require.NoError(t, err)
	require.NoError(t, store.FinishRun(runID, 1, 100, 250, ""))

	table := productivity.NewTable()
	table.Accumulate(productivity.Cell{Slice: 1, Angle: 2}, 3.0, 1.0)
	require.NoError(t, store.SaveProductivityTable(runID, table))

	return New(Config{Address: ":0", Store: store}), store, runID
}

func TestHandleHealth(t *testing.T) {
	s, _, _ := testServer(t)

	req := testutil.NewTestRequest(http.MethodGet, "/health")
	rr := testutil.NewTestRecorder()
	s.routes().ServeHTTP(rr, req)

	testutil.AssertStatusCode(t, rr.Code, http.StatusOK)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestHandleIndexListsRuns(t *testing.T) {
	s, _, _ := testServer(t)

	req := testutil.NewTestRequest(http.MethodGet, "/")
	rr := testutil.NewTestRecorder()
	s.routes().ServeHTTP(rr, req)

	testutil.AssertStatusCode(t, rr.Code, http.StatusOK)
	assert.Contains(t, rr.Body.String(), "run_id=")
	assert.Contains(t, rr.Body.String(), "100")
}

func TestHandleRunsChartRenders(t *testing.T) {
	s, _, _ := testServer(t)

	req := testutil.NewTestRequest(http.MethodGet, "/runs/chart")
	rr := testutil.NewTestRecorder()
	s.routes().ServeHTTP(rr, req)

	testutil.AssertStatusCode(t, rr.Code, http.StatusOK)
	assert.Contains(t, rr.Body.String(), "echarts")
}

func TestHandleProductivityChartRequiresRunID(t *testing.T) {
	s, _, _ := testServer(t)

	req := testutil.NewTestRequest(http.MethodGet, "/runs/productivity")
	rr := testutil.NewTestRecorder()
	s.routes().ServeHTTP(rr, req)

	testutil.AssertStatusCode(t, rr.Code, http.StatusBadRequest)
}

func TestHandleProductivityChartRendersKnownRun(t *testing.T) {
	s, _, runID := testServer(t)

	req := testutil.NewTestRequest(http.MethodGet, "/runs/productivity?run_id="+strconv.FormatInt(runID, 10))
	rr := testutil.NewTestRecorder()
	s.routes().ServeHTTP(rr, req)

	testutil.AssertStatusCode(t, rr.Code, http.StatusOK)
	assert.Contains(t, rr.Body.String(), "echarts")
}

func TestHandleProductivityChart404sForUnknownRun(t *testing.T) {
	s, _, _ := testServer(t)

	req := testutil.NewTestRequest(http.MethodGet, "/runs/productivity?run_id=99999")
	rr := testutil.NewTestRecorder()
	s.routes().ServeHTTP(rr, req)

	testutil.AssertStatusCode(t, rr.Code, http.StatusNotFound)
}
