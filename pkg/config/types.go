package config

import (
	"net/http"
	"slices"
	"strings"

	"github.com/getmockd/restmock/pkg/lookup"
	"github.com/getmockd/restmock/pkg/validation"
)

// Defaults applied to every loaded file.
const (
	DefaultPKField  = "id"
	DefaultPageSize = 20
)

// Methods lists the HTTP methods accepted in actions and apis.
var Methods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodDelete,
	http.MethodPut,
	http.MethodPatch,
	http.MethodHead,
	http.MethodOptions,
}

// File is one decoded resource configuration file.
type File struct {
	// Restful is the base path of the generated CRUD routes. Empty means the
	// file only declares apis.
	Restful string `json:"restful,omitempty" yaml:"restful,omitempty"`

	PageSize int    `json:"page_size,omitempty" yaml:"page_size,omitempty"`
	PKField  string `json:"pk_field,omitempty" yaml:"pk_field,omitempty"`

	// FilterFields maps a field path to the lookups allowed on it.
	FilterFields   map[string][]lookup.Lookup `json:"filter_fields,omitempty" yaml:"filter_fields,omitempty"`
	SearchFields   []string                   `json:"search_fields,omitempty" yaml:"search_fields,omitempty"`
	OrderingFields []string                   `json:"ordering_fields,omitempty" yaml:"ordering_fields,omitempty"`
	Ordering       []string                   `json:"ordering,omitempty" yaml:"ordering,omitempty"`

	Rules map[string]*validation.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	Rows  []map[string]any            `json:"rows" yaml:"rows"`

	Actions []Action `json:"actions,omitempty" yaml:"actions,omitempty"`
	APIs    []API    `json:"apis,omitempty" yaml:"apis,omitempty"`

	// Path is the file the configuration was loaded from.
	Path string `json:"-" yaml:"-"`
}

// Action is an extra route under a restful resource with a fixed response.
type Action struct {
	Method string `json:"method" yaml:"method"`

	// URLPath is joined to the base path, or to the detail path when Detail
	// is set.
	URLPath  string        `json:"url_path" yaml:"url_path"`
	Detail   bool          `json:"detail,omitempty" yaml:"detail,omitempty"`
	Response *ResponseSpec `json:"response,omitempty" yaml:"response,omitempty"`
}

// API is a plain method+path binding with a fixed response.
type API struct {
	Method   string        `json:"method" yaml:"method"`
	Path     string        `json:"path" yaml:"path"`
	Response *ResponseSpec `json:"response,omitempty" yaml:"response,omitempty"`
}

// ResponseSpec describes a response. At most one of JSON, File and Text is
// used, in that order of precedence.
type ResponseSpec struct {
	Code    int               `json:"code,omitempty" yaml:"code,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	JSON    any               `json:"json,omitempty" yaml:"json,omitempty"`
	File    string            `json:"file,omitempty" yaml:"file,omitempty"`
	Text    *string           `json:"text,omitempty" yaml:"text,omitempty"`
}

// StatusCode returns Code, defaulting to 200.
func (r *ResponseSpec) StatusCode() int {
	if r == nil || r.Code == 0 {
		return http.StatusOK
	}
	return r.Code
}

// applyDefaults fills in the fields every resource relies on.
func (f *File) applyDefaults() {
	if f.Rows == nil {
		f.Rows = []map[string]any{}
	}
	if f.PKField == "" {
		f.PKField = DefaultPKField
	}
	if f.PageSize == 0 {
		f.PageSize = DefaultPageSize
	}
}

// UnsupportedRules returns the fields whose rule has a type validation does
// not understand. Such rules are skipped when rows are validated.
func (f *File) UnsupportedRules() []string {
	var fields []string
	for field, rule := range f.Rules {
		if !rule.Supported() {
			fields = append(fields, field)
		}
	}
	slices.Sort(fields)
	return fields
}

// IsMethod reports whether m is an accepted method in any case.
func IsMethod(m string) bool {
	return slices.Contains(Methods, strings.ToUpper(m))
}
