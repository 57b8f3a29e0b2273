package value

import (
	"math"
	"strings"
)

// LooseEqual compares two values after coercing them to a common type:
//
//   - nil and Undefined equal only each other
//   - numbers compare numerically; a string or bool facing a number is first
//     coerced with CoerceToNumericLike ("1" == 1, true == 1, "" == 0)
//   - two strings or two bools compare directly
//   - arrays and records facing a scalar are compared by their String form;
//     two arrays or two records never compare equal
func LooseEqual(a, b any) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}

	a, aComposite := primitive(a)
	b, bComposite := primitive(b)
	if aComposite && bComposite {
		return false
	}

	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return sa == sb
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			return ba == bb
		}
	}

	fa, ok := CoerceToNumericLike(a)
	if !ok {
		return false
	}
	fb, ok := CoerceToNumericLike(b)
	if !ok {
		return false
	}
	return fa == fb
}

// StrictEqual compares two scalars without coercion. Composite values are
// never strictly equal.
func StrictEqual(a, b any) bool {
	if IsUndefined(a) || IsUndefined(b) {
		return IsUndefined(a) && IsUndefined(b)
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if IsArray(a) || IsArray(b) || IsRecord(a) || IsRecord(b) {
		return false
	}
	if fa, ok := number(a); ok {
		fb, ok := number(b)
		return ok && fa == fb
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	}
	return false
}

// Order compares a and b using native ordering: two strings compare
// lexicographically, anything else is coerced to numbers. The second result is
// false when the pair is not comparable (a side has no numeric reading).
func Order(a, b any) (int, bool) {
	a, _ = primitive(a)
	b, _ = primitive(b)

	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return strings.Compare(sa, sb), true
		}
	}

	fa, ok := CoerceToNumericLike(a)
	if !ok || math.IsNaN(fa) {
		return 0, false
	}
	fb, ok := CoerceToNumericLike(b)
	if !ok || math.IsNaN(fb) {
		return 0, false
	}
	switch {
	case fa < fb:
		return -1, true
	case fa > fb:
		return 1, true
	}
	return 0, true
}

// primitive reduces arrays and records to their string form.
func primitive(v any) (any, bool) {
	if IsArray(v) || IsRecord(v) {
		return String(v), true
	}
	return v, false
}
