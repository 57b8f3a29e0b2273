package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/getmockd/restmock/pkg/config"
	"github.com/getmockd/restmock/pkg/engine"
	"github.com/getmockd/restmock/pkg/route"
	"github.com/getmockd/restmock/pkg/stateful"
)

// MockServer is a test helper running restmock on an httptest server.
type MockServer struct {
	t        testing.TB
	registry *route.Registry
	server   *engine.Server
	httpSrv  *httptest.Server
	prefix   string

	mu       sync.Mutex
	seq      int
	requests []RequestLog
	baseURL  string
}

// New creates a new mock server for testing.
// The server is closed automatically when the test completes.
func New(t testing.TB) *MockServer {
	t.Helper()
	m := &MockServer{
		t:        t,
		registry: route.NewRegistry(nil),
		prefix:   "/",
	}
	t.Cleanup(m.Stop)
	return m
}

// WithPrefix mounts every route under prefix. Call it before Start.
func (m *MockServer) WithPrefix(prefix string) *MockServer {
	m.prefix = prefix
	return m
}

// LoadDir loads every resource file below path. Files that fail to load
// fail the test.
func (m *MockServer) LoadDir(path string) *MockServer {
	m.t.Helper()
	if err := m.registry.LoadAll(config.NewDirectoryLoader(path)); err != nil {
		m.t.Fatalf("load %s: %v", path, err)
	}
	return m
}

// Resource starts a builder for a restful resource at base.
//
// Example:
//
//	mock.Resource("/api/users").
//	    WithRows(map[string]any{"id": 1, "name": "Ann"}).
//	    WithFilter("name", lookup.Exact, lookup.Contains).
//	    Add()
func (m *MockServer) Resource(base string) *ResourceBuilder {
	return &ResourceBuilder{
		server: m,
		file:   &config.File{Restful: base, Rows: []map[string]any{}},
	}
}

// API starts a builder for a fixed response route.
func (m *MockServer) API(method, path string) *APIBuilder {
	return &APIBuilder{
		server: m,
		api:    config.API{Method: method, Path: path, Response: &config.ResponseSpec{}},
	}
}

// add decodes file through the regular loader path, so defaults and the
// schema apply, and adds it to the registry.
func (m *MockServer) add(file *config.File) {
	m.t.Helper()

	data, err := json.Marshal(file)
	if err != nil {
		m.t.Fatalf("encode resource: %v", err)
	}
	parsed, err := config.ParseJSON(data)
	if err != nil {
		m.t.Fatalf("invalid resource: %v", err)
	}

	m.mu.Lock()
	m.seq++
	parsed.Path = fmt.Sprintf("mock-%d.json", m.seq)
	m.mu.Unlock()

	entry := m.registry.Add(parsed)
	for _, cerr := range entry.Rejected {
		m.t.Errorf("route rejected: %v", cerr)
	}
}

// Start starts the mock server and returns the base URL. Resources added
// after Start are served too.
func (m *MockServer) Start() string {
	m.t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.httpSrv != nil {
		return m.baseURL
	}

	cfg := engine.DefaultConfig()
	cfg.Prefix = m.prefix
	m.server = engine.NewServer(cfg, m.registry)
	m.httpSrv = httptest.NewServer(m.record(m.server))
	m.baseURL = m.httpSrv.URL
	return m.baseURL
}

// record logs every request before passing it on.
func (m *MockServer) record(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		headers := make(map[string]string, len(r.Header))
		for k, v := range r.Header {
			if len(v) > 0 {
				headers[k] = v[0]
			}
		}

		m.mu.Lock()
		m.requests = append(m.requests, RequestLog{
			Method:      r.Method,
			Path:        r.URL.Path,
			Headers:     headers,
			Body:        string(body),
			QueryString: r.URL.RawQuery,
		})
		m.mu.Unlock()

		h.ServeHTTP(w, r)
	})
}

// Stop stops the mock server. It is safe to call more than once.
func (m *MockServer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.httpSrv != nil {
		m.httpSrv.Close()
		m.httpSrv = nil
	}
}

// URL returns the base URL of the mock server.
// Returns empty string if the server is not started.
func (m *MockServer) URL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseURL
}

// Client returns an http.Client configured to work with the mock server.
func (m *MockServer) Client() *http.Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.httpSrv != nil {
		return m.httpSrv.Client()
	}
	return http.DefaultClient
}

// Reset unloads every resource and clears the request log.
func (m *MockServer) Reset() {
	for _, e := range m.registry.Entries() {
		m.registry.Unload(e.Path)
	}
	m.mu.Lock()
	m.requests = nil
	m.mu.Unlock()
}

// Rows returns a copy of the current rows of the resource at base.
func (m *MockServer) Rows(base string) []map[string]any {
	m.t.Helper()
	res := m.resource(base)
	if res == nil {
		m.t.Fatalf("no resource at %s", base)
		return nil
	}
	return res.Rows()
}

// AssertRowCount asserts that the resource at base holds n rows.
func (m *MockServer) AssertRowCount(t testing.TB, base string, n int) {
	t.Helper()
	res := m.resource(base)
	if res == nil {
		t.Errorf("expected a resource at %s", base)
		return
	}
	if got := res.Len(); got != n {
		t.Errorf("expected %s to hold %d rows, but it holds %d", base, n, got)
	}
}

func (m *MockServer) resource(base string) *stateful.Resource {
	for _, e := range m.registry.Entries() {
		if e.Resource != nil && e.File.Restful == base {
			return e.Resource
		}
	}
	return nil
}

// Requests returns the logged requests, oldest first.
func (m *MockServer) Requests() []RequestLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RequestLog(nil), m.requests...)
}

// AssertCalled asserts that an endpoint was called at least once.
func (m *MockServer) AssertCalled(t testing.TB, method, path string) {
	t.Helper()
	if m.countCalls(method, path) == 0 {
		t.Errorf("expected %s %s to be called, but it was not called", method, path)
	}
}

// AssertCalledTimes asserts that an endpoint was called exactly n times.
func (m *MockServer) AssertCalledTimes(t testing.TB, method, path string, times int) {
	t.Helper()
	if count := m.countCalls(method, path); count != times {
		t.Errorf("expected %s %s to be called %d times, but was called %d times",
			method, path, times, count)
	}
}

// AssertNotCalled asserts that an endpoint was not called.
func (m *MockServer) AssertNotCalled(t testing.TB, method, path string) {
	t.Helper()
	if count := m.countCalls(method, path); count > 0 {
		t.Errorf("expected %s %s to not be called, but it was called %d times",
			method, path, count)
	}
}

func (m *MockServer) countCalls(method, path string) int {
	count := 0
	for _, r := range m.Requests() {
		if r.Method == method && r.Path == path {
			count++
		}
	}
	return count
}

// Server returns the underlying engine.Server for advanced use cases.
// It is nil before Start.
func (m *MockServer) Server() *engine.Server {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.server
}

// Registry returns the route registry the server serves.
func (m *MockServer) Registry() *route.Registry {
	return m.registry
}
