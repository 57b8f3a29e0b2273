package engine

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/getmockd/restmock/pkg/httputil"
	"github.com/getmockd/restmock/pkg/route"
)

// buildRouter binds every accepted route of entries, mounted under the
// configured prefix. It returns the router and the number of bound routes.
func (s *Server) buildRouter(entries []*route.Entry) (*mux.Router, int) {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	r.Use(routeTemplate)

	if s.metrics != nil && s.cfg.MetricsPath != "" {
		r.Handle(s.cfg.MetricsPath, s.metrics.Handler()).Methods(http.MethodGet)
	}

	n := 0
	for _, e := range entries {
		for _, rt := range e.Routes {
			p := route.Mount(s.cfg.Prefix, rt.Path)
			methods := []string{rt.Method}
			if rt.Method == http.MethodGet {
				methods = append(methods, http.MethodHead)
			}
			r.Handle(p, headOnly(s.routeHandler(e, rt))).Methods(methods...)
			s.log.Debug("bind route", "method", rt.Method, "path", p, "file", e.Path)
			n++
		}
	}
	return r, n
}

// routeHandler returns the resource handler for the canonical routes of a
// restful file and a fixed response handler for actions and apis.
func (s *Server) routeHandler(e *route.Entry, rt route.Route) http.Handler {
	if rt.Restful != "" && e.Resource != nil {
		return s.resourceHandler(e.Resource, rt.Detail)
	}
	resp := rt.Response
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeResponse(w, resp)
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteNotFound(w, "Cannot "+r.Method+" "+r.URL.Path)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httputil.WriteMethodNotAllowed(w, r.Method)
}

// headOnly answers HEAD requests with the headers of the GET response.
func headOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w = discardBody{w}
		}
		next.ServeHTTP(w, r)
	})
}

type discardBody struct {
	http.ResponseWriter
}

func (discardBody) Write(p []byte) (int, error) { return len(p), nil }
