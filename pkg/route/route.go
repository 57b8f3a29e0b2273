// Package route turns resource files into method+path bindings and keeps
// the table of every loaded file.
package route

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/getmockd/restmock/pkg/config"
)

// PKParam is the path variable holding the primary key of detail routes.
const PKParam = "pk"

// pkSegment matches a primary key made of word characters and hyphens.
const pkSegment = "{" + PKParam + `:[\w-]+}`

// Route is one method+path binding.
type Route struct {
	Method string
	Path   string

	// Detail marks routes addressing one row through the pk path variable.
	Detail bool

	// Restful is the base path of the resource serving the route. It is
	// empty for actions and apis, which answer with Response.
	Restful  string
	Response *config.ResponseSpec
}

// String formats the route for listings.
func (r Route) String() string {
	return fmt.Sprintf("%-7s %s", r.Method, r.Path)
}

// Key identifies the route in the table: the upper-cased method and the path.
func (r Route) Key() string {
	return strings.ToUpper(r.Method) + " " + r.Path
}

// DetailPath returns the detail path of a restful base path. A base ending
// in "/" gives a detail path ending in "/".
func DetailPath(restful string) string {
	return joinPath(restful, pkSegment, strings.HasSuffix(restful, "/"))
}

// Build expands file into its routes, in this order: list and create on the
// restful base path, then get, partial update, update and delete on the
// detail path, then the actions and finally the apis.
func Build(file *config.File) []Route {
	var routes []Route

	if file.Restful != "" {
		base := file.Restful
		detail := DetailPath(base)
		routes = append(routes,
			Route{Method: http.MethodGet, Path: base, Restful: base},
			Route{Method: http.MethodPost, Path: base, Restful: base},
			Route{Method: http.MethodGet, Path: detail, Detail: true, Restful: base},
			Route{Method: http.MethodPatch, Path: detail, Detail: true, Restful: base},
			Route{Method: http.MethodPut, Path: detail, Detail: true, Restful: base},
			Route{Method: http.MethodDelete, Path: detail, Detail: true, Restful: base},
		)

		for _, a := range file.Actions {
			parent := base
			if a.Detail {
				parent = detail
			}
			routes = append(routes, Route{
				Method:   strings.ToUpper(a.Method),
				Path:     joinPath(parent, a.URLPath, strings.HasSuffix(a.URLPath, "/")),
				Detail:   a.Detail,
				Response: a.Response,
			})
		}
	}

	for _, api := range file.APIs {
		routes = append(routes, Route{
			Method:   strings.ToUpper(api.Method),
			Path:     api.Path,
			Response: api.Response,
		})
	}
	return routes
}

// joinPath joins and cleans the elements, keeping a trailing slash when
// trailing is set.
func joinPath(base, elem string, trailing bool) string {
	p := path.Join(base, elem)
	if trailing && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// Mount returns p under prefix, as used when serving.
func Mount(prefix, p string) string {
	return joinPath(path.Join("/", prefix), p, strings.HasSuffix(p, "/"))
}
