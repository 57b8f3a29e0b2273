// Package testing provides a testing SDK for using restmock in Go tests.
//
// A MockServer serves restful resources and fixed response routes from an
// httptest server, built with a fluent API instead of resource files.
//
// # Basic Usage
//
//	func TestMyClient(t *testing.T) {
//	    mock := restmocktest.New(t)
//
//	    mock.Resource("/api/users").
//	        WithRows(map[string]any{"id": 1, "name": "Ann"}).
//	        WithFilter("name", lookup.Exact).
//	        WithRule("name", &validation.Rule{Type: "string", Required: true}).
//	        Add()
//
//	    mock.API("GET", "/health").
//	        WithJSON(map[string]any{"ok": true}).
//	        Add()
//
//	    url := mock.Start()
//
//	    // Run the code under test against url, then:
//	    mock.AssertCalled(t, "POST", "/api/users")
//	    mock.AssertRowCount(t, "/api/users", 2)
//	}
//
// # Resource Files
//
// Existing resource files can be served as well:
//
//	mock := restmocktest.New(t).LoadDir("testdata/fixtures")
//
// # Request Log
//
// Every request is logged for custom assertions:
//
//	for _, req := range mock.Requests() {
//	    req.AssertHeader(t, "Content-Type", "application/json")
//	}
//
// The server is stopped automatically when the test ends.
package testing
