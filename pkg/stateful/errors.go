package stateful

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getmockd/restmock/pkg/config"
	"github.com/getmockd/restmock/pkg/validation"
	"github.com/getmockd/restmock/pkg/value"
)

// NotFoundError is returned when no row matches a detail request.
type NotFoundError struct {
	Resource string
	// PK is the requested primary key. Empty means the path had none.
	PK string
}

func (e *NotFoundError) Error() string {
	if e.PK == "" {
		return "Not Found params.pk"
	}
	return "Not Found by query"
}

// StatusCode returns the HTTP status code for this error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// MethodNotAllowedError is returned for a method a route shape does not serve.
type MethodNotAllowedError struct {
	Method string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("Method %q not allowed.", e.Method)
}

// StatusCode returns the HTTP status code for this error.
func (e *MethodNotAllowedError) StatusCode() int {
	return http.StatusMethodNotAllowed
}

// ConflictError is returned when a created row reuses an existing primary key.
type ConflictError struct {
	Resource string
	PKField  string
	PK       any
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("A row with %s %q already exists.", e.PKField, value.String(e.PK))
}

// StatusCode returns the HTTP status code for this error.
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// BadRequestError is returned when a submitted body fails validation.
type BadRequestError struct {
	Err error
}

func (e *BadRequestError) Error() string {
	return e.Err.Error()
}

func (e *BadRequestError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for this error.
func (e *BadRequestError) StatusCode() int {
	return http.StatusBadRequest
}

// StatusCodeError is an interface for errors that have an HTTP status code.
type StatusCodeError interface {
	error
	StatusCode() int
}

// ErrorBody is the JSON body of an error response.
type ErrorBody struct {
	Detail string                   `json:"detail"`
	Errors []*validation.FieldError `json:"errors,omitempty"`
}

// ToResponse converts an error to a response. Not found errors are plain
// text; everything else carries an ErrorBody.
func ToResponse(err error) *config.ResponseSpec {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		text := nf.Error()
		return &config.ResponseSpec{Code: nf.StatusCode(), Text: &text}
	}

	code := http.StatusInternalServerError
	var sce StatusCodeError
	if errors.As(err, &sce) {
		code = sce.StatusCode()
	}
	body := &ErrorBody{Detail: err.Error()}
	var verr *validation.Error
	if errors.As(err, &verr) {
		body.Errors = verr.Errors
	}
	return &config.ResponseSpec{Code: code, JSON: body}
}
