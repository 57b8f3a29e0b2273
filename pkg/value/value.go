package value

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined marks a field that is absent from a row. It is never produced by
// JSON decoding, so it cannot be confused with null.
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// IsNull reports whether v is nil or Undefined.
func IsNull(v any) bool {
	return v == nil || IsUndefined(v)
}

// IsBlank reports whether v is nil, Undefined or "".
func IsBlank(v any) bool {
	if IsNull(v) {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// IsBooleanTrue reports whether v is one of true, "true", "True", "1" or 1.
func IsBooleanTrue(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x == "true" || x == "True" || x == "1"
	}
	f, ok := absNumber(v)
	return ok && f == 1
}

// IsBooleanFalse reports whether v is one of false, "false", "False", "0" or 0.
func IsBooleanFalse(v any) bool {
	switch x := v.(type) {
	case bool:
		return !x
	case string:
		return x == "false" || x == "False" || x == "0"
	}
	f, ok := absNumber(v)
	return ok && f == 0
}

// IsBoolean reports whether v is boolean-like.
func IsBoolean(v any) bool {
	return IsBooleanTrue(v) || IsBooleanFalse(v)
}

// IsAbsBoolean reports whether v is a real bool.
func IsAbsBoolean(v any) bool {
	_, ok := v.(bool)
	return ok
}

// IsString reports whether v is a string.
func IsString(v any) bool {
	_, ok := v.(string)
	return ok
}

// IsAbsNumber reports whether v is a finite number of any Go numeric type.
func IsAbsNumber(v any) bool {
	_, ok := absNumber(v)
	return ok
}

// IsNumber reports whether v is numeric-like: a finite number or a string that
// parses to one.
func IsNumber(v any) bool {
	if IsAbsNumber(v) {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, ok = parseNumber(s)
	return ok
}

// IsArray reports whether v is a JSON array.
func IsArray(v any) bool {
	switch v.(type) {
	case []any, []string:
		return true
	}
	return false
}

// IsRecord reports whether v is a JSON object.
func IsRecord(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// IsRangeComparable reports whether v may take part in lt/lte/gt/gte/range lookups.
func IsRangeComparable(v any) bool {
	return IsBlank(v) || IsBoolean(v) || IsString(v) || IsNumber(v)
}

// CoerceToNumericLike converts v to a number the way a query-string value is
// read as a number: strings are parsed ("" and whitespace are 0), booleans are
// 0 or 1, null is 0. The second result is false when v has no numeric reading.
func CoerceToNumericLike(v any) (float64, bool) {
	if f, ok := absNumber(v); ok {
		return f, true
	}
	switch x := v.(type) {
	case nil:
		return 0, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		if strings.TrimSpace(x) == "" {
			return 0, true
		}
		return parseNumber(x)
	}
	return 0, false
}

// CoerceToBooleanLike converts a boolean-like v to a bool. The second result is
// false when v is neither true-like nor false-like.
func CoerceToBooleanLike(v any) (bool, bool) {
	switch {
	case IsBooleanFalse(v):
		return false, true
	case IsBooleanTrue(v):
		return true, true
	}
	return false, false
}

// String renders v as text: numbers without trailing zeros, arrays joined by
// commas, records as "[object Object]".
func String(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case undefined:
		return "undefined"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			if !IsNull(e) {
				parts[i] = String(e)
			}
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(x, ",")
	case map[string]any:
		return "[object Object]"
	}
	if f, ok := number(v); ok {
		return formatNumber(f)
	}
	return ""
}

// Array returns v as []any when it is an array of any supported element type.
func Array(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

// CSV splits a comma separated string into its parts, wraps a scalar into a
// one-element array, and passes arrays through. Blank values give an empty array.
func CSV(v any) []any {
	if IsBlank(v) {
		return []any{}
	}
	if s, ok := v.(string); ok {
		parts := strings.Split(s, ",")
		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = p
		}
		return out
	}
	if arr, ok := Array(v); ok {
		return arr
	}
	return []any{v}
}

// number extracts a numeric value regardless of finiteness.
func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

func absNumber(v any) (float64, bool) {
	f, ok := number(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseNumber accepts decimal, exponent and 0x/0o/0b integer notation.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsRune(s, '_') {
		return 0, false
	}
	lower := strings.ToLower(s)
	if len(lower) > 2 && lower[0] == '0' && strings.ContainsRune("xob", rune(lower[1])) {
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	}
	// ParseFloat also accepts "inf" and "nan", which are not numbers here.
	if strings.ContainsAny(lower, "in") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if abs := math.Abs(f); abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
