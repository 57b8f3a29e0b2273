// Package metrics exposes Prometheus metrics for the mock server.
//
// Metrics:
//
//   - restmock_requests_total: counter of served requests (labels: method, route, code)
//   - restmock_request_duration_seconds: histogram of request latency (labels: method, route)
//   - restmock_rows: gauge of rows per resource file (labels: file)
//   - restmock_resource_operations_total: counter of resource operations (labels: file, operation)
//   - restmock_resource_errors_total: counter of failed operations (labels: file, operation, code)
//   - restmock_routes: gauge of served routes
//
// The Go runtime and process collectors are registered as well.
//
// # Usage
//
//	m := metrics.New()
//	registry.SetObserver(m)
//	mux.Handle("/metrics", m.Handler())
package metrics
