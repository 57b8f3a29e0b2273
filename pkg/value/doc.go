// Package value classifies and coerces the loosely typed values that flow through
// the mock server.
//
// Rows come from decoded JSON (or YAML normalised to JSON types), while filter
// targets come from query strings, which have no native types at all. Every
// type decision the query engine makes goes through the predicates and
// coercions in this package:
//
//   - Blank: nil, Undefined, or the empty string
//   - Boolean-like: true/false, "true"/"True"/"1"/1, "false"/"False"/"0"/0
//   - Numeric-like: a finite number, or a string that parses to one
//   - Array and Record: []any and map[string]any respectively
//   - Range-comparable: blank, boolean-like, numeric-like or any string
//
// Equality and ordering between mixed types are explicit: LooseEqual and Order
// apply named coercions (CoerceToNumericLike, String) before comparing, so a
// query parameter "18" matches a numeric row field 18 and "1" matches true.
//
// Undefined is the sentinel for "the field does not exist on the row", which is
// distinct from an explicit JSON null (nil).
package value
