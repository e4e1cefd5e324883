package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/me/credsched/internal/config"
	"github.com/me/credsched/internal/logging"
	"github.com/me/credsched/internal/store"
	"github.com/me/credsched/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	return testServerWith(t, config.DefaultServerConfig())
}

func testServerWith(t *testing.T, cfg config.ServerConfig) *Server {
	t.Helper()
	logger := logging.Discard()
	st, err := store.NewSQLiteStore(logger)
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })
	return New(cfg, st, logger)
}

// envelope is used to decode the standard response envelope.
type envelope struct {
	Status     string            `json:"status"`
	RequestID  string            `json:"request_id"`
	Timestamp  string            `json:"timestamp"`
	Data       json.RawMessage   `json:"data"`
	Pagination *model.Pagination `json:"pagination"`
	Error      *model.APIError   `json:"error"`
}

func do(t *testing.T, srv *Server, method, path, body string, wantStatus int) envelope {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	require.Equal(t, wantStatus, w.Code, "%s %s body=%s", method, path, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "%s %s: invalid JSON", method, path)
	return env
}

const demoWorkload = `{
  "name": "demo",
  "heartbeat": false,
  "processes": [
    {"name": "A", "burst": 2, "io": 5, "demand": 6, "priority": 3}
  ]
}`

func TestDiscovery(t *testing.T) {
	srv := testServer(t)
	env := do(t, srv, "GET", "/api/v1/", "", http.StatusOK)
	assert.Equal(t, "ok", env.Status)
	assert.NotEmpty(t, env.RequestID)

	var data discoveryResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "credsched API", data.Name)
	require.Len(t, data.Endpoints, 3)

	byPath := make(map[string][]string)
	for _, ep := range data.Endpoints {
		byPath[ep.Path] = ep.Methods
	}
	assert.Equal(t, []string{"GET"}, byPath["/api/v1/health"])
	assert.Equal(t, []string{"GET", "POST"}, byPath["/api/v1/runs/"])
	assert.Equal(t, []string{"GET"}, byPath["/api/v1/runs/{id}"])
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	env := do(t, srv, "GET", "/api/v1/health", "", http.StatusOK)

	var data healthResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "healthy", data.Status)
	assert.Equal(t, "yield", data.BurstPolicy)
	assert.True(t, data.Heartbeat)
	assert.Equal(t, config.DefaultServerConfig().MaxTicks, data.MaxTicks)
	assert.Equal(t, config.DefaultServerConfig().MaxUnits, data.MaxUnits)
}

func TestCreateRun_ThenGet(t *testing.T) {
	srv := testServer(t)

	env := do(t, srv, "POST", "/api/v1/runs", demoWorkload, http.StatusCreated)
	var created model.Run
	require.NoError(t, json.Unmarshal(env.Data, &created))

	assert.True(t, strings.HasPrefix(created.ID, "run_"))
	assert.Equal(t, model.RunStateCompleted, created.State)
	assert.False(t, created.Heartbeat)
	assert.Equal(t, 21, created.Summary.Clock)
	require.Len(t, created.Processes, 1)
	assert.Equal(t, model.ProcessStateFinished, created.Processes[0].State)

	env = do(t, srv, "GET", "/api/v1/runs/"+created.ID, "", http.StatusOK)
	var got model.Run
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Summary, got.Summary)
	assert.Equal(t, created.Processes, got.Processes)
}

func TestCreateRun_YAMLBody(t *testing.T) {
	srv := testServer(t)
	body := "name: yaml\nprocesses:\n  - {name: A, burst: 3, io: 0, demand: 3, priority: 3}\n"

	env := do(t, srv, "POST", "/api/v1/runs", body, http.StatusCreated)
	var created model.Run
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "yaml", created.Name)
	assert.Equal(t, 4, created.Summary.Clock)
}

func TestCreateRun_ValidationError(t *testing.T) {
	srv := testServer(t)
	body := `{"processes": [{"name": "Z", "burst": 1, "io": 0, "demand": 3, "priority": 0}]}`

	env := do(t, srv, "POST", "/api/v1/runs", body, http.StatusBadRequest)
	assert.Equal(t, "error", env.Status)
	require.NotNil(t, env.Error)
	assert.Equal(t, model.ErrValidation, env.Error.Code)
	require.Len(t, env.Error.Details, 1)
	assert.Equal(t, "processes[0].priority", env.Error.Details[0].Field)
}

func TestCreateRun_MalformedBody(t *testing.T) {
	srv := testServer(t)
	env := do(t, srv, "POST", "/api/v1/runs", `{"processes": [`, http.StatusBadRequest)
	assert.Equal(t, model.ErrValidation, env.Error.Code)
}

func TestGetRun_NotFound(t *testing.T) {
	srv := testServer(t)
	env := do(t, srv, "GET", "/api/v1/runs/run_missing", "", http.StatusNotFound)
	assert.Equal(t, model.ErrNotFound, env.Error.Code)
}

func TestListRuns(t *testing.T) {
	srv := testServer(t)

	env := do(t, srv, "GET", "/api/v1/runs", "", http.StatusOK)
	assert.JSONEq(t, `[]`, string(env.Data))

	for i := 0; i < 3; i++ {
		do(t, srv, "POST", "/api/v1/runs", demoWorkload, http.StatusCreated)
	}

	env = do(t, srv, "GET", "/api/v1/runs?limit=2", "", http.StatusOK)
	var runs []model.Run
	require.NoError(t, json.Unmarshal(env.Data, &runs))
	assert.Len(t, runs, 2)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 3, env.Pagination.Total)
	assert.True(t, env.Pagination.HasMore)

	env = do(t, srv, "GET", "/api/v1/runs?state=FAILED", "", http.StatusOK)
	assert.Equal(t, 0, env.Pagination.Total)
}

func TestCreateRun_WorkloadCannotRaiseTickCeiling(t *testing.T) {
	cfg := config.DefaultServerConfig()
	cfg.MaxTicks = 5
	srv := testServerWith(t, cfg)
	body := `{"name": "greedy", "max_ticks": 1000000000, "heartbeat": false,
	  "processes": [{"name": "A", "burst": 1, "io": 0, "demand": 100, "priority": 1}]}`

	env := do(t, srv, "POST", "/api/v1/runs", body, http.StatusCreated)
	var run model.Run
	require.NoError(t, json.Unmarshal(env.Data, &run))

	assert.Equal(t, model.RunStateFailed, run.State)
	assert.Contains(t, run.Error, "tick limit")
	assert.Equal(t, 5, run.Summary.Iterations)
}

func TestCreateRun_UnitBudgetBoundsOneBurst(t *testing.T) {
	cfg := config.DefaultServerConfig()
	cfg.MaxUnits = 1000
	srv := testServerWith(t, cfg)
	body := `{"burst_policy": "drain", "heartbeat": false,
	  "processes": [{"name": "A", "burst": 2000000000, "io": 0, "demand": 2000000000, "priority": 1}]}`

	env := do(t, srv, "POST", "/api/v1/runs", body, http.StatusCreated)
	var run model.Run
	require.NoError(t, json.Unmarshal(env.Data, &run))

	assert.Equal(t, model.RunStateFailed, run.State)
	assert.Contains(t, run.Error, "cpu unit limit")
	require.Len(t, run.Processes, 1)
	assert.Equal(t, 1000, run.Processes[0].CPUTime)
	assert.Equal(t, 1000, run.Summary.Clock)
}

func TestCreateRun_OversizedIORejected(t *testing.T) {
	srv := testServer(t)
	body := `{"processes": [{"name": "A", "burst": 1, "io": 9223372036854775806, "demand": 3, "priority": 5}]}`

	env := do(t, srv, "POST", "/api/v1/runs", body, http.StatusBadRequest)
	require.NotNil(t, env.Error)
	require.Len(t, env.Error.Details, 1)
	assert.Equal(t, "processes[0].io", env.Error.Details[0].Field)
}
