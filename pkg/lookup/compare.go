package lookup

import (
	"regexp"
	"strings"
	"sync"

	"github.com/getmockd/restmock/pkg/value"
)

// Compare evaluates value against target with the given lookup.
//
// The checks run in this order:
//  1. a blank target always matches, so absent query parameters impose nothing
//  2. an Undefined value fails every lookup except isnull
//  3. an empty array or record target never matches
//  4. the lookup's own comparison
//
// Unknown lookups never match. A *ComparatorError is returned for a range
// target that does not have exactly two bounds, and for an invalid regex.
func Compare(v any, l Lookup, target any) (bool, error) {
	if arr, ok := value.Array(target); ok {
		target = arr
	}
	if value.IsBlank(target) {
		return true, nil
	}
	if value.IsUndefined(v) && l != IsNull {
		return false, nil
	}
	if arr, ok := target.([]any); ok && len(arr) == 0 {
		return false, nil
	}
	if value.IsRecord(target) {
		return false, nil
	}
	if !l.Valid() {
		return false, nil
	}
	return lookups[l].compare(v, target)
}

// coerceTarget converts target to the type of v before an exact comparison.
// A nil result with false means the target can never equal v.
func coerceTarget(v, target any) (any, bool) {
	switch {
	case value.IsAbsNumber(v):
		if value.IsBlank(target) {
			return target, true
		}
		f, ok := value.CoerceToNumericLike(target)
		if !ok {
			return nil, false
		}
		return f, true
	case value.IsAbsBoolean(v):
		b, ok := value.CoerceToBooleanLike(target)
		if !ok {
			return nil, false
		}
		return b, true
	}
	return target, true
}

func compareExact(v, target any) (bool, error) {
	if arr, ok := target.([]any); ok {
		if value.IsArray(v) {
			return false, nil
		}
		if len(arr) == 1 {
			target = arr[0]
		} else {
			target = value.String(arr)
		}
	}
	target, ok := coerceTarget(v, target)
	if !ok {
		return false, nil
	}
	return value.LooseEqual(v, target), nil
}

func compareIsNull(v, target any) (bool, error) {
	switch {
	case value.IsBooleanTrue(target):
		return value.IsBlank(v), nil
	case value.IsBooleanFalse(target):
		return !value.IsBlank(v), nil
	}
	return false, nil
}

func compareIn(v, target any) (bool, error) {
	for _, candidate := range value.CSV(target) {
		if value.LooseEqual(candidate, v) {
			return true, nil
		}
	}
	return false, nil
}

func compareStartsWith(v, target any) (bool, error) {
	s, ok := v.(string)
	return ok && strings.HasPrefix(s, value.String(target)), nil
}

func compareEndsWith(v, target any) (bool, error) {
	s, ok := v.(string)
	return ok && strings.HasSuffix(s, value.String(target)), nil
}

func compareContains(v, target any) (bool, error) {
	s, ok := v.(string)
	return ok && strings.Contains(s, value.String(target)), nil
}

var patterns sync.Map // pattern string -> *regexp.Regexp

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if re, ok := patterns.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patterns.Store(pattern, re)
	return re, nil
}

func compareRegex(v, target any) (bool, error) {
	re, err := compilePattern(value.String(target))
	if err != nil {
		return false, &ComparatorError{Kind: KindInvalidPattern, Lookup: Regex, Target: target, Err: err}
	}
	s, ok := v.(string)
	return ok && re.MatchString(s), nil
}

func compareRange(v, target any) (bool, error) {
	if !value.IsRangeComparable(v) {
		return false, nil
	}
	bounds := value.CSV(target)
	if len(bounds) != 2 {
		return false, &ComparatorError{Kind: KindInvalidRangeArity, Lookup: Range, Target: target}
	}
	start, end := bounds[0], bounds[1]
	switch {
	case value.IsBlank(start) && value.IsBlank(end):
		return true, nil
	case value.IsBlank(start):
		return value.IsRangeComparable(end) && ordered(v, end, lessOrEqual), nil
	case value.IsBlank(end):
		return value.IsRangeComparable(start) && ordered(v, start, greaterOrEqual), nil
	}
	return value.IsRangeComparable(start) && value.IsRangeComparable(end) &&
		ordered(v, start, greaterOrEqual) && ordered(v, end, lessOrEqual), nil
}

func compareLT(v, target any) (bool, error)  { return relational(v, target, less), nil }
func compareLTE(v, target any) (bool, error) { return relational(v, target, lessOrEqual), nil }
func compareGT(v, target any) (bool, error)  { return relational(v, target, greater), nil }
func compareGTE(v, target any) (bool, error) { return relational(v, target, greaterOrEqual), nil }

func less(c int) bool           { return c < 0 }
func lessOrEqual(c int) bool    { return c <= 0 }
func greater(c int) bool        { return c > 0 }
func greaterOrEqual(c int) bool { return c >= 0 }

func relational(v, target any, accept func(int) bool) bool {
	return value.IsRangeComparable(v) && value.IsRangeComparable(target) && ordered(v, target, accept)
}

func ordered(a, b any, accept func(int) bool) bool {
	c, ok := value.Order(a, b)
	return ok && accept(c)
}
