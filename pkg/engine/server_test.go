package engine

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/restmock/pkg/config"
	"github.com/getmockd/restmock/pkg/metrics"
	"github.com/getmockd/restmock/pkg/route"
)

const usersJSON = `{
	"restful": "/api/users",
	"filter_fields": {"name": ["exact", "contains"]},
	"ordering_fields": ["id"],
	"rules": {"name": {"type": "string", "required": true}},
	"rows": [{"id": 1, "name": "Ann"}, {"id": 2, "name": "Bob"}],
	"actions": [{"method": "post", "url_path": "reset", "response": {"code": 202, "json": {"reset": true}}}]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// newTestServer loads files into a fresh registry and returns a server for it.
func newTestServer(t *testing.T, cfg *Config, files map[string]string, opts ...ServerOption) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		writeFile(t, dir, name, content)
	}
	reg := route.NewRegistry(nil)
	require.NoError(t, reg.LoadAll(config.NewDirectoryLoader(dir)))
	return NewServer(cfg, reg, opts...), dir
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestServer_List(t *testing.T) {
	srv, _ := newTestServer(t, nil, map[string]string{"users.json": usersJSON})

	rec := do(t, srv, http.MethodGet, "/api/users?ordering=-id", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	body := decode(t, rec)
	assert.Equal(t, float64(2), body["count"])
	results := body["results"].([]any)
	require.Len(t, results, 2)
	assert.Equal(t, "Bob", results[0].(map[string]any)["name"])

	rec = do(t, srv, http.MethodGet, "/api/users?name__contains=nn", nil, "")
	assert.Equal(t, float64(1), decode(t, rec)["count"])
}

func TestServer_RequestIDIsKept(t *testing.T) {
	srv, _ := newTestServer(t, nil, map[string]string{"users.json": usersJSON})

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
}

func TestServer_CRUD(t *testing.T) {
	srv, _ := newTestServer(t, nil, map[string]string{"users.json": usersJSON})
	const jsonType = "application/json"

	rec := do(t, srv, http.MethodPost, "/api/users", strings.NewReader(`{"name": "Cid"}`), jsonType)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]any{"id": float64(3), "name": "Cid"}, decode(t, rec))

	rec = do(t, srv, http.MethodGet, "/api/users/3", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cid", decode(t, rec)["name"])

	rec = do(t, srv, http.MethodPatch, "/api/users/3", strings.NewReader(`{"age": 30}`), jsonType)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"id": float64(3), "name": "Cid", "age": float64(30)}, decode(t, rec))

	rec = do(t, srv, http.MethodPut, "/api/users/3", strings.NewReader(`{"name": "Dee"}`), jsonType)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"id": float64(3), "name": "Dee"}, decode(t, rec))

	rec = do(t, srv, http.MethodDelete, "/api/users/3", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/users/3", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found by query", rec.Body.String())
}

func TestServer_FormBody(t *testing.T) {
	srv, _ := newTestServer(t, nil, map[string]string{"users.json": usersJSON})

	form := url.Values{"name": {"Eve"}, "tags": {"a", "b"}}
	rec := do(t, srv, http.MethodPost, "/api/users", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "Eve", body["name"])
	assert.Equal(t, []any{"a", "b"}, body["tags"])
}

func TestServer_BadBodies(t *testing.T) {
	srv, _ := newTestServer(t, nil, map[string]string{"users.json": usersJSON})

	t.Run("invalid JSON", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/api/users", strings.NewReader(`{"name":`), "application/json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode(t, rec)["detail"], "invalid JSON body")
	})

	t.Run("validation failure", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/api/users", strings.NewReader(`{}`), "application/json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode(t, rec)
		assert.Contains(t, body["detail"], `"name" is required`)
		assert.NotEmpty(t, body["errors"])
	})

	t.Run("too large", func(t *testing.T) {
		big := `{"name": "` + strings.Repeat("a", MaxRequestBodySize) + `"}`
		rec := do(t, srv, http.MethodPost, "/api/users", strings.NewReader(big), "application/json")
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestServer_NotFoundAndMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, nil, map[string]string{"users.json": usersJSON})

	rec := do(t, srv, http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Cannot GET /nope", rec.Body.String())

	rec = do(t, srv, http.MethodPut, "/api/users", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, `Method "PUT" not allowed.`, decode(t, rec)["detail"])
}

func TestServer_Head(t *testing.T) {
	srv, _ := newTestServer(t, nil, map[string]string{"users.json": usersJSON})

	for _, target := range []string{"/api/users", "/api/users/1"} {
		rec := do(t, srv, http.MethodHead, target, nil, "")
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json", target)
		assert.Empty(t, rec.Body.String(), target)
	}

	rec := do(t, srv, http.MethodHead, "/api/users/9", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, srv, http.MethodHead, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Action(t *testing.T) {
	srv, _ := newTestServer(t, nil, map[string]string{"users.json": usersJSON})

	rec := do(t, srv, http.MethodPost, "/api/users/reset", nil, "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, map[string]any{"reset": true}, decode(t, rec))

	// GET on the same path is the detail route with pk "reset".
	rec = do(t, srv, http.MethodGet, "/api/users/reset", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_APIs(t *testing.T) {
	dir := t.TempDir()
	payload := writeFile(t, dir, "payload.txt", "from file")

	apis := `{"apis": [
		{"method": "get", "path": "/health", "response": {"headers": {"X-Mock": "yes"}, "json": {"ok": true}}},
		{"method": "get", "path": "/hello", "response": {"code": 418, "text": "hi"}},
		{"method": "post", "path": "/empty", "response": {"code": 204, "text": "ignored"}},
		{"method": "get", "path": "/file", "response": {"file": ` + strconv.Quote(payload) + `}},
		{"method": "get", "path": "/missing", "response": {"file": ` + strconv.Quote(filepath.Join(dir, "nope.txt")) + `}},
		{"method": "get", "path": "/bare"}
	]}`
	srv, _ := newTestServer(t, nil, map[string]string{"apis.json": apis})

	rec := do(t, srv, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "yes", rec.Header().Get("X-Mock"))
	assert.Equal(t, map[string]any{"ok": true}, decode(t, rec))

	rec = do(t, srv, http.MethodGet, "/hello", nil, "")
	assert.Equal(t, 418, rec.Code)
	assert.Equal(t, "hi", rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/empty", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/file", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "from file", rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))

	rec = do(t, srv, http.MethodGet, "/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/bare", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestServer_Prefix(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Prefix = "/v1"
	srv, _ := newTestServer(t, cfg, map[string]string{"users.json": usersJSON})

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/v1/api/users", nil, "").Code)
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/v1/api/users/1", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/users", nil, "").Code)
}

func TestServer_RebuildsOnRegistryChange(t *testing.T) {
	srv, dir := newTestServer(t, nil, map[string]string{"users.json": usersJSON})

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/posts", nil, "").Code)

	posts := writeFile(t, dir, "posts.json", `{"restful": "/api/posts", "rows": [{"id": 1}]}`)
	srv.Apply(config.WatchEvent{Path: posts, Type: config.EventModified})
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/posts", nil, "").Code)

	srv.Apply(config.WatchEvent{Path: posts, Type: config.EventRemoved})
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/posts", nil, "").Code)

	// A broken rewrite drops the routes of the file.
	users := filepath.Join(dir, "users.json")
	writeFile(t, dir, "users.json", `{ broken`)
	srv.Apply(config.WatchEvent{Path: users, Type: config.EventModified})
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/users", nil, "").Code)
}

func TestServer_Metrics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MetricsPath = "/metrics"
	srv, _ := newTestServer(t, cfg, map[string]string{"users.json": usersJSON}, WithMetrics(metrics.New()))

	do(t, srv, http.MethodGet, "/api/users", nil, "")
	do(t, srv, http.MethodGet, "/api/users/1", nil, "")
	do(t, srv, http.MethodGet, "/nope", nil, "")

	rec := do(t, srv, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, `restmock_requests_total{code="200",method="GET",route="/api/users"} 1`)
	assert.Contains(t, out, `restmock_requests_total{code="200",method="GET",route="/api/users/{pk:[\\w-]+}"} 1`)
	assert.Contains(t, out, `restmock_requests_total{code="404",method="GET",route="unmatched"} 1`)
	assert.Contains(t, out, `restmock_rows{file=`)
	assert.Contains(t, out, "restmock_routes 7")
}

func TestServer_StartStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	srv, _ := newTestServer(t, cfg, map[string]string{"users.json": usersJSON})

	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Stop() })
	assert.True(t, srv.IsRunning())
	assert.Error(t, srv.Start())

	resp, err := http.Get("http://" + srv.Addr().String() + "/api/users/1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Stop())
	assert.False(t, srv.IsRunning())
	assert.Nil(t, srv.Addr())
	assert.Zero(t, srv.Uptime())
}
