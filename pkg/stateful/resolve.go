package stateful

import (
	"strings"

	"github.com/getmockd/restmock/pkg/value"
)

// FieldSeparator separates the segments of a nested field path, as in
// "city__name".
const FieldSeparator = "__"

// Row is one record of a resource.
type Row = map[string]any

// Resolve returns the value of field in row, or value.Undefined.
//
// A key equal to the whole field path wins over a nested lookup, so rows that
// store a literal "a__b" key are read as is. Arrays met along the path are not
// traversed.
func Resolve(row any, field string) any {
	m, ok := row.(map[string]any)
	if field == "" || !ok {
		return value.Undefined
	}
	if v, ok := m[field]; ok {
		return v
	}
	head, rest, nested := strings.Cut(field, FieldSeparator)
	if !nested {
		return value.Undefined
	}
	child, ok := m[head]
	if !ok {
		return value.Undefined
	}
	return Resolve(child, rest)
}
