package testing

import (
	"github.com/getmockd/restmock/pkg/config"
	"github.com/getmockd/restmock/pkg/lookup"
	"github.com/getmockd/restmock/pkg/validation"
)

// ResourceBuilder builds a restful resource using a fluent API.
type ResourceBuilder struct {
	server *MockServer
	file   *config.File
}

// WithRows appends rows to the resource.
func (b *ResourceBuilder) WithRows(rows ...map[string]any) *ResourceBuilder {
	b.file.Rows = append(b.file.Rows, rows...)
	return b
}

// WithPK sets the primary key field. Default is "id".
func (b *ResourceBuilder) WithPK(field string) *ResourceBuilder {
	b.file.PKField = field
	return b
}

// WithPageSize sets the default page size. Default is 20.
func (b *ResourceBuilder) WithPageSize(n int) *ResourceBuilder {
	b.file.PageSize = n
	return b
}

// WithFilter allows filtering field with the given lookups.
func (b *ResourceBuilder) WithFilter(field string, lookups ...lookup.Lookup) *ResourceBuilder {
	if b.file.FilterFields == nil {
		b.file.FilterFields = make(map[string][]lookup.Lookup)
	}
	b.file.FilterFields[field] = append(b.file.FilterFields[field], lookups...)
	return b
}

// WithSearch sets the fields matched by ?search=.
func (b *ResourceBuilder) WithSearch(fields ...string) *ResourceBuilder {
	b.file.SearchFields = append(b.file.SearchFields, fields...)
	return b
}

// WithOrdering sets the fields accepted by ?ordering=.
func (b *ResourceBuilder) WithOrdering(fields ...string) *ResourceBuilder {
	b.file.OrderingFields = append(b.file.OrderingFields, fields...)
	return b
}

// WithDefaultOrdering sets the ordering used when the request has none,
// for example "-id".
func (b *ResourceBuilder) WithDefaultOrdering(tokens ...string) *ResourceBuilder {
	b.file.Ordering = append(b.file.Ordering, tokens...)
	return b
}

// WithRule validates field on create, replace and patch.
func (b *ResourceBuilder) WithRule(field string, rule *validation.Rule) *ResourceBuilder {
	if b.file.Rules == nil {
		b.file.Rules = make(map[string]*validation.Rule)
	}
	b.file.Rules[field] = rule
	return b
}

// WithAction adds a fixed response route below the resource, or below its
// detail path when detail is set.
func (b *ResourceBuilder) WithAction(method, urlPath string, detail bool, resp *config.ResponseSpec) *ResourceBuilder {
	b.file.Actions = append(b.file.Actions, config.Action{
		Method:   method,
		URLPath:  urlPath,
		Detail:   detail,
		Response: resp,
	})
	return b
}

// Add registers the resource with the server.
func (b *ResourceBuilder) Add() {
	b.server.t.Helper()
	b.server.add(b.file)
}

// APIBuilder builds a fixed response route using a fluent API.
type APIBuilder struct {
	server *MockServer
	api    config.API
}

// WithStatus sets the HTTP response status code.
// Default is 200 (OK).
func (b *APIBuilder) WithStatus(status int) *APIBuilder {
	b.api.Response.Code = status
	return b
}

// WithHeader adds a response header.
func (b *APIBuilder) WithHeader(key, value string) *APIBuilder {
	if b.api.Response.Headers == nil {
		b.api.Response.Headers = make(map[string]string)
	}
	b.api.Response.Headers[key] = value
	return b
}

// WithJSON sets a JSON body. It must encode to an object or an array.
func (b *APIBuilder) WithJSON(body any) *APIBuilder {
	b.api.Response.JSON = body
	return b
}

// WithText sets a text body.
func (b *APIBuilder) WithText(text string) *APIBuilder {
	b.api.Response.Text = &text
	return b
}

// WithFile streams the file at path as the body.
func (b *APIBuilder) WithFile(path string) *APIBuilder {
	b.api.Response.File = path
	return b
}

// Add registers the route with the server.
func (b *APIBuilder) Add() {
	b.server.t.Helper()
	b.server.add(&config.File{
		Rows: []map[string]any{},
		APIs: []config.API{b.api},
	})
}
