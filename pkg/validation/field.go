package validation

import (
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/getmockd/restmock/pkg/value"
)

// checkField validates v against rule r and returns the converted value.
// present is false when the field is missing from the submitted row.
func checkField(field string, v any, present bool, r *Rule) (any, *FieldError) {
	if !present {
		if r.Required {
			return nil, newRequiredError(field)
		}
		return nil, nil
	}

	v = convert(v, r.Type)

	if len(r.Valid) > 0 {
		if contains(r.Valid, v) || contains(r.Allow, v) {
			return v, nil
		}
		return nil, newOnlyError(field, r.Valid)
	}
	if contains(r.Allow, v) {
		return v, nil
	}

	switch r.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, newTypeError(field, r.Type)
		}
		return checkString(field, s, r)
	case TypeNumber:
		f, ok := number(v)
		if !ok {
			return nil, newTypeError(field, r.Type)
		}
		return v, checkNumber(field, f, r)
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			return nil, newTypeError(field, r.Type)
		}
	case TypeObject:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, newTypeError(field, r.Type)
		}
		return v, checkSize(field, TypeObject, len(m), r)
	case TypeArray:
		arr, ok := value.Array(v)
		if !ok {
			return nil, newTypeError(field, r.Type)
		}
		return v, checkSize(field, TypeArray, len(arr), r)
	}
	return v, nil
}

// convert applies joi's default conversions: numeric strings for number
// rules and "true"/"false" in any case for boolean rules.
func convert(v any, typ string) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	switch typ {
	case TypeNumber:
		if strings.TrimSpace(s) == "" || !value.IsNumber(s) {
			return v
		}
		if f, ok := value.CoerceToNumericLike(s); ok {
			return f
		}
	case TypeBoolean:
		switch strings.ToLower(s) {
		case "true":
			return true
		case "false":
			return false
		}
	}
	return v
}

func number(v any) (float64, bool) {
	if !value.IsAbsNumber(v) {
		return 0, false
	}
	return value.CoerceToNumericLike(v)
}

func checkString(field, s string, r *Rule) (any, *FieldError) {
	if s == "" {
		return nil, newFieldError(field, ErrCodeEmpty, "is not allowed to be empty")
	}
	if r.Lowercase {
		s = strings.ToLower(s)
	}
	if r.Uppercase {
		s = strings.ToUpper(s)
	}
	if fe := checkSize(field, TypeString, utf8.RuneCountInString(s), r); fe != nil {
		return nil, fe
	}
	if r.Pattern != "" {
		// An invalid pattern disables the constraint.
		if re, err := regexp.Compile(r.Pattern); err == nil && !re.MatchString(s) {
			return nil, newFieldError(field, ErrCodePattern,
				"with value %s fails to match the required pattern: /%s/", strconv.Quote(s), r.Pattern)
		}
	}

	formats := []struct {
		enabled bool
		check   func(string) bool
		code    string
		message string
	}{
		{r.Email, isEmail, ErrCodeEmail, "must be a valid email"},
		{r.URI, isURI, ErrCodeURI, "must be a valid uri"},
		{r.UUID, isUUID, ErrCodeUUID, "must be a valid GUID"},
		{r.IP, isIP, ErrCodeIP, "must be a valid ip address"},
		{r.Alphanum, isAlphanum, ErrCodeAlphanum, "must only contain alpha-numeric characters"},
	}
	for _, f := range formats {
		if f.enabled && !f.check(s) {
			return nil, newFieldError(field, f.code, "%s", f.message)
		}
	}
	return s, nil
}

func checkNumber(field string, f float64, r *Rule) *FieldError {
	switch {
	case r.Integer && f != math.Trunc(f):
		return newFieldError(field, ErrCodeInteger, "must be an integer")
	case r.Positive && f <= 0:
		return newFieldError(field, ErrCodePositive, "must be a positive number")
	case r.Negative && f >= 0:
		return newFieldError(field, ErrCodeNegative, "must be a negative number")
	case r.Min != nil && f < *r.Min:
		return newBoundError(field, TypeNumber, ErrCodeMin, *r.Min)
	case r.Max != nil && f > *r.Max:
		return newBoundError(field, TypeNumber, ErrCodeMax, *r.Max)
	}
	return nil
}

// checkSize bounds the length of a string, array or object.
func checkSize(field, typ string, n int, r *Rule) *FieldError {
	size := float64(n)
	switch {
	case r.Min != nil && size < *r.Min:
		return newBoundError(field, typ, ErrCodeMin, *r.Min)
	case r.Max != nil && size > *r.Max:
		return newBoundError(field, typ, ErrCodeMax, *r.Max)
	case r.Length != nil && size != *r.Length:
		return newBoundError(field, typ, ErrCodeLength, *r.Length)
	}
	return nil
}

func contains(list []any, v any) bool {
	for _, candidate := range list {
		if valuesEqual(candidate, v) {
			return true
		}
	}
	return false
}

// valuesEqual compares without coercion; numbers of different Go types are
// equal when their values are.
func valuesEqual(a, b any) bool {
	if value.StrictEqual(a, b) {
		return true
	}
	if value.IsArray(a) || value.IsRecord(a) {
		return reflect.DeepEqual(a, b)
	}
	return false
}
