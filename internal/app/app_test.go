package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskapi/internal/app"
	"taskapi/internal/config"
	"taskapi/internal/handlers/dto"
	"taskapi/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 2 * time.Second
	cfg.Logging.Level = "error"
	return cfg
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	prev := logger.Logger
	t.Cleanup(func() { logger.Logger = prev })

	a := app.New(testConfig())
	require.NoError(t, a.Init(context.Background()))

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv
}

// newObservedServer is newTestServer with every log entry captured.
func newObservedServer(t *testing.T) (*httptest.Server, *observer.ObservedLogs) {
	t.Helper()
	prev := logger.Logger
	t.Cleanup(func() { logger.Logger = prev })

	a := app.New(testConfig())
	require.NoError(t, a.Init(context.Background()))

	core, logs := observer.New(zapcore.DebugLevel)
	logger.Logger = zap.New(core)

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv, logs
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestApp_StaticRoutes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		path     string
		expected string
	}{
		{path: "/api/ping", expected: "pong"},
		{path: "/test", expected: "This is a test, this is only a test..."},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var resp dto.GenericResponse
			status := doJSON(t, srv, http.MethodGet, tt.path, nil, &resp)

			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, dto.GenericResponse{Status: "success", Message: tt.expected}, resp)
		})
	}
}

func TestApp_TaskLifecycle(t *testing.T) {
	srv := newTestServer(t)

	var list dto.TaskListResponse
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/api/tasks", nil, &list))
	assert.Equal(t, 0, list.Results)
	assert.NotNil(t, list.Tasks)

	var created dto.SingleTaskResponse
	status := doJSON(t, srv, http.MethodPost, "/api/tasks", map[string]any{"title": "A", "content": "x"}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "success", created.Status)
	assert.Equal(t, "A", created.Data.Task.Title)
	assert.Equal(t, "x", created.Data.Task.Content)
	assert.False(t, created.Data.Task.Completed)
	assert.Equal(t, created.Data.Task.CreatedAt, created.Data.Task.UpdatedAt)
	id := created.Data.Task.ID
	require.NotEmpty(t, id)

	var duplicate dto.GenericResponse
	status = doJSON(t, srv, http.MethodPost, "/api/tasks", map[string]any{"title": "A", "content": "y"}, &duplicate)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, dto.GenericResponse{Status: "fail", Message: "Task with title: 'A' already exists"}, duplicate)

	var fetched dto.SingleTaskResponse
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/api/tasks/"+id, nil, &fetched))
	assert.Equal(t, created.Data.Task, fetched.Data.Task)

	var patched dto.SingleTaskResponse
	status = doJSON(t, srv, http.MethodPatch, "/api/tasks/"+id, map[string]any{"title": "", "completed": true}, &patched)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "A", patched.Data.Task.Title)
	assert.True(t, patched.Data.Task.Completed)
	assert.Equal(t, id, patched.Data.Task.ID)
	assert.True(t, patched.Data.Task.CreatedAt.Equal(created.Data.Task.CreatedAt))
	assert.True(t, patched.Data.Task.UpdatedAt.After(created.Data.Task.UpdatedAt))

	firstPatch := patched.Data.Task
	status = doJSON(t, srv, http.MethodPatch, "/api/tasks/"+id, map[string]any{"completed": false}, &patched)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, patched.Data.Task.Completed)
	assert.True(t, patched.Data.Task.UpdatedAt.After(firstPatch.UpdatedAt))

	assert.Equal(t, http.StatusNoContent, doJSON(t, srv, http.MethodDelete, "/api/tasks/"+id, nil, nil))

	var missing dto.GenericResponse
	status = doJSON(t, srv, http.MethodGet, "/api/tasks/"+id, nil, &missing)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, dto.GenericResponse{Status: "fail", Message: fmt.Sprintf("Task with ID: %s not found", id)}, missing)

	status = doJSON(t, srv, http.MethodDelete, "/api/tasks/"+id, nil, &missing)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestApp_Pagination(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 25; i++ {
		status := doJSON(t, srv, http.MethodPost, "/api/tasks",
			map[string]any{"title": fmt.Sprintf("task-%02d", i), "content": ""}, nil)
		require.Equal(t, http.StatusCreated, status)
	}

	tests := []struct {
		query       string
		expectCount int
		expectFirst string
	}{
		{query: "", expectCount: 10, expectFirst: "task-00"},
		{query: "?page=2&limit=10", expectCount: 10, expectFirst: "task-10"},
		{query: "?page=3&limit=10", expectCount: 5, expectFirst: "task-20"},
		{query: "?page=4&limit=10", expectCount: 0},
		{query: "?page=2&limit=7", expectCount: 7, expectFirst: "task-07"},
		{query: "?limit=0", expectCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var list dto.TaskListResponse
			require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/api/tasks"+tt.query, nil, &list))
			assert.Equal(t, tt.expectCount, list.Results)
			require.Len(t, list.Tasks, tt.expectCount)
			if tt.expectCount > 0 {
				assert.Equal(t, tt.expectFirst, list.Tasks[0].Title)
			}
		})
	}

	var bad dto.GenericResponse
	assert.Equal(t, http.StatusBadRequest, doJSON(t, srv, http.MethodGet, "/api/tasks?page=x", nil, &bad))
	assert.Equal(t, "fail", bad.Status)
}

func TestApp_AccessLogScopedToCollection(t *testing.T) {
	srv, logs := newObservedServer(t)

	var created dto.SingleTaskResponse
	require.Equal(t, http.StatusCreated,
		doJSON(t, srv, http.MethodPost, "/api/tasks", map[string]any{"title": "logged", "content": ""}, &created))
	id := created.Data.Task.ID

	tests := []struct {
		name        string
		method      string
		path        string
		expectLines int
	}{
		{name: "list collection", method: http.MethodGet, path: "/api/tasks", expectLines: 1},
		{name: "create on collection", method: http.MethodPost, path: "/api/tasks", expectLines: 1},
		{name: "single task", method: http.MethodGet, path: "/api/tasks/" + id, expectLines: 0},
		{name: "missing task", method: http.MethodGet, path: "/api/tasks/unknown", expectLines: 0},
		{name: "ping", method: http.MethodGet, path: "/api/ping", expectLines: 0},
		{name: "test", method: http.MethodGet, path: "/test", expectLines: 0},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs.TakeAll()

			var body any
			if tt.method == http.MethodPost {
				body = map[string]any{"title": fmt.Sprintf("logged-%d", i), "content": ""}
			}
			doJSON(t, srv, tt.method, tt.path, body, nil)

			lines := logs.FilterMessage("HTTP: request completed").All()
			require.Len(t, lines, tt.expectLines)
			if tt.expectLines > 0 {
				fields := lines[0].ContextMap()
				assert.Equal(t, "api", fields["logger"])
				assert.Equal(t, tt.path, fields["path"])
			}
		})
	}
}

func TestApp_SaveFileStub(t *testing.T) {
	srv := newTestServer(t)

	var resp dto.GenericResponse
	status := doJSON(t, srv, http.MethodPost, "/api/file", nil, &resp)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, dto.GenericResponse{Status: "fail", Message: "Task with ID:not found"}, resp)
}

func TestApp_CORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name        string
		origin      string
		method      string
		expectAllow bool
	}{
		{name: "allowed origin patch", origin: "http://localhost:3000", method: http.MethodPatch, expectAllow: true},
		{name: "allowed origin delete", origin: "http://localhost:8000", method: http.MethodDelete, expectAllow: true},
		{name: "unknown origin", origin: "http://evil.test", method: http.MethodGet, expectAllow: false},
		{name: "disallowed method", origin: "http://localhost:3000", method: http.MethodPut, expectAllow: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/tasks/some-id", nil)
			require.NoError(t, err)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", tt.method)
			req.Header.Set("Access-Control-Request-Headers", "Content-Type")

			resp, err := srv.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			if tt.expectAllow {
				assert.Less(t, resp.StatusCode, 300)
				assert.Equal(t, tt.origin, resp.Header.Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
			} else {
				assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestApp_RequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/api/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestApp_ConcurrentCreates(t *testing.T) {
	srv := newTestServer(t)

	const clients = 20
	statuses := make([]int, clients)

	var g errgroup.Group
	for i := 0; i < clients; i++ {
		g.Go(func() error {
			body, err := json.Marshal(map[string]any{"title": "shared", "content": "c"})
			if err != nil {
				return err
			}
			resp, err := srv.Client().Post(srv.URL+"/api/tasks", "application/json", bytes.NewReader(body))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			statuses[i] = resp.StatusCode
			return nil
		})
	}
	require.NoError(t, g.Wait())

	created := 0
	for _, status := range statuses {
		if status == http.StatusCreated {
			created++
		} else {
			assert.Equal(t, http.StatusConflict, status)
		}
	}
	assert.Equal(t, 1, created)

	var list dto.TaskListResponse
	require.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/api/tasks", nil, &list))
	assert.Equal(t, 1, list.Results)
}

func TestApp_ServeShutsDownOnCancel(t *testing.T) {
	prev := logger.Logger
	t.Cleanup(func() { logger.Logger = prev })

	a := app.New(testConfig())
	require.NoError(t, a.Init(context.Background()))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, listener) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + listener.Addr().String() + "/api/ping")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
