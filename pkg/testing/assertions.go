package testing

import (
	"encoding/json"
	"net/url"
	"reflect"
	"strings"
	"testing"
)

// RequestLog represents a logged HTTP request for assertions.
type RequestLog struct {
	// Method is the HTTP method (GET, POST, etc.)
	Method string
	// Path is the request URL path
	Path string
	// Headers are the request headers (single value per key)
	Headers map[string]string
	// Body is the request body content
	Body string
	// QueryString is the raw query string
	QueryString string
}

// AssertJSONBody asserts that the request body is JSON equal to expected.
// expected can be a JSON string, []byte, or any value that will be JSON encoded.
func (r *RequestLog) AssertJSONBody(t testing.TB, expected any) {
	t.Helper()

	var want any
	switch v := expected.(type) {
	case string:
		if err := json.Unmarshal([]byte(v), &want); err != nil {
			t.Fatalf("expected value is not valid JSON: %v", err)
		}
	case []byte:
		if err := json.Unmarshal(v, &want); err != nil {
			t.Fatalf("expected value is not valid JSON: %v", err)
		}
	default:
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("cannot encode expected value: %v", err)
		}
		_ = json.Unmarshal(data, &want)
	}

	var got any
	if err := json.Unmarshal([]byte(r.Body), &got); err != nil {
		t.Errorf("request body is not valid JSON: %v", err)
		return
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("request body mismatch:\nexpected: %v\nactual:   %v", want, got)
	}
}

// AssertBodyContains asserts that the request body contains substr.
func (r *RequestLog) AssertBodyContains(t testing.TB, substr string) {
	t.Helper()
	if !strings.Contains(r.Body, substr) {
		t.Errorf("expected body to contain %q, got %q", substr, r.Body)
	}
}

// AssertHeader asserts that the request carried header key with value
// expected. Header names are matched case-insensitively.
func (r *RequestLog) AssertHeader(t testing.TB, key, expected string) {
	t.Helper()
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			if v != expected {
				t.Errorf("expected header %s to be %q, got %q", key, expected, v)
			}
			return
		}
	}
	t.Errorf("expected header %s to be present", key)
}

// AssertQueryParam asserts that the first value of query parameter key is
// expected.
func (r *RequestLog) AssertQueryParam(t testing.TB, key, expected string) {
	t.Helper()
	q, err := url.ParseQuery(r.QueryString)
	if err != nil {
		t.Errorf("invalid query string %q: %v", r.QueryString, err)
		return
	}
	if !q.Has(key) {
		t.Errorf("expected query param %s to be present", key)
		return
	}
	if got := q.Get(key); got != expected {
		t.Errorf("expected query param %s to be %q, got %q", key, expected, got)
	}
}
