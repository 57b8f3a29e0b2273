package stateful

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/getmockd/restmock/pkg/config"
)

// Request is a resource request as seen by HandleRequest.
type Request struct {
	Method string

	// Detail is set for routes addressing one row by primary key.
	Detail bool
	PK     string

	Query url.Values

	// Body is the decoded request body: a JSON value or form fields.
	Body any
}

// HandleRequest serves req and returns the response to write.
//
// The list route serves GET and POST; detail routes serve GET, PUT, PATCH and
// DELETE. HEAD is served as GET. A detail route answers 404 before 405, so an unknown method on a
// missing row is reported as not found.
func (r *Resource) HandleRequest(req *Request) *config.ResponseSpec {
	method := strings.ToUpper(req.Method)
	if method == http.MethodHead {
		method = http.MethodGet
	}

	if !req.Detail {
		switch method {
		case http.MethodGet:
			return &config.ResponseSpec{Code: http.StatusOK, JSON: r.List(req.Query)}
		case http.MethodPost:
			return respond(http.StatusCreated)(r.Create(req.Body))
		}
		return ToResponse(&MethodNotAllowedError{Method: req.Method})
	}

	switch method {
	case http.MethodGet:
		return respond(http.StatusOK)(r.Get(req.PK, req.Query))
	case http.MethodPut:
		return respond(http.StatusOK)(r.Replace(req.PK, req.Query, req.Body))
	case http.MethodPatch:
		return respond(http.StatusOK)(r.Patch(req.PK, req.Query, req.Body))
	case http.MethodDelete:
		return respond(http.StatusNoContent)(r.Delete(req.PK, req.Query))
	}
	if _, err := r.FindByPrimaryKey(req.PK, req.Query); err != nil {
		return ToResponse(err)
	}
	return ToResponse(&MethodNotAllowedError{Method: req.Method})
}

func respond(code int) func(Row, error) *config.ResponseSpec {
	return func(row Row, err error) *config.ResponseSpec {
		if err != nil {
			return ToResponse(err)
		}
		return &config.ResponseSpec{Code: code, JSON: row}
	}
}
