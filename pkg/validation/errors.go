package validation

import (
	"fmt"
	"strings"

	"github.com/getmockd/restmock/pkg/value"
)

// Error codes, named after the joi error types they mirror.
const (
	ErrCodeRequired  = "any.required"
	ErrCodeOnly      = "any.only"
	ErrCodeObject    = "object.base"
	ErrCodeType      = "base"
	ErrCodeEmpty     = "string.empty"
	ErrCodeMin       = "min"
	ErrCodeMax       = "max"
	ErrCodeLength    = "length"
	ErrCodeInteger   = "number.integer"
	ErrCodePositive  = "number.positive"
	ErrCodeNegative  = "number.negative"
	ErrCodePattern   = "string.pattern.base"
	ErrCodeEmail     = "string.email"
	ErrCodeURI       = "string.uri"
	ErrCodeUUID      = "string.guid"
	ErrCodeIP        = "string.ip"
	ErrCodeAlphanum  = "string.alphanum"
	ErrCodeNotObject = "body.base"
)

// FieldError describes why one field failed its rule.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Message
}

// Error is returned by Validate when the submitted data fails its rules.
type Error struct {
	Errors []*FieldError `json:"errors"`
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, ", ")
}

func (e *Error) add(fe *FieldError) {
	e.Errors = append(e.Errors, fe)
}

func newFieldError(field, code, format string, args ...any) *FieldError {
	return &FieldError{
		Field:   field,
		Code:    code,
		Message: fmt.Sprintf("%q ", field) + fmt.Sprintf(format, args...),
	}
}

func newRequiredError(field string) *FieldError {
	return newFieldError(field, ErrCodeRequired, "is required")
}

func newTypeError(field, typ string) *FieldError {
	var want string
	switch typ {
	case TypeObject:
		want = "of type object"
	case TypeArray:
		want = "an array"
	default:
		want = "a " + typ
	}
	return newFieldError(field, typ+"."+ErrCodeType, "must be %s", want)
}

func newOnlyError(field string, valid []any) *FieldError {
	parts := make([]string, len(valid))
	for i, v := range valid {
		parts[i] = value.String(v)
	}
	return newFieldError(field, ErrCodeOnly, "must be one of [%s]", strings.Join(parts, ", "))
}

// newBoundError reports a min/max/length violation with the wording joi uses
// for each type.
func newBoundError(field, typ, bound string, limit float64) *FieldError {
	n := value.String(limit)
	code := typ + "." + bound
	switch typ {
	case TypeString:
		switch bound {
		case ErrCodeMin:
			return newFieldError(field, code, "length must be at least %s characters long", n)
		case ErrCodeMax:
			return newFieldError(field, code, "length must be less than or equal to %s characters long", n)
		}
		return newFieldError(field, code, "length must be %s characters long", n)
	case TypeArray:
		switch bound {
		case ErrCodeMin:
			return newFieldError(field, code, "must contain at least %s items", n)
		case ErrCodeMax:
			return newFieldError(field, code, "must contain less than or equal to %s items", n)
		}
		return newFieldError(field, code, "must contain %s items", n)
	case TypeObject:
		switch bound {
		case ErrCodeMin:
			return newFieldError(field, code, "must have at least %s keys", n)
		case ErrCodeMax:
			return newFieldError(field, code, "must have less than or equal to %s keys", n)
		}
		return newFieldError(field, code, "must have %s keys", n)
	}
	switch bound {
	case ErrCodeMin:
		return newFieldError(field, code, "must be greater than or equal to %s", n)
	case ErrCodeMax:
		return newFieldError(field, code, "must be less than or equal to %s", n)
	}
	return newFieldError(field, code, "must be %s", n)
}
