// Package stateful serves the rows of a resource file.
//
// A Resource wraps one loaded configuration and answers the requests of its
// generated routes:
//
//   - Resolve reads nested fields ("city__name") from a row
//   - BuildFilters turns query parameters ("age__gte=18") into Filters
//   - Query filters, searches and orders rows; Paginate slices a page
//   - Create, Replace, Patch and Delete mutate the rows in place
//
// HandleRequest ties these together and produces the response for a list or
// detail request, including the 400, 404, 405 and 409 error bodies.
//
// Thread Safety:
//
// Each Resource carries a sync.RWMutex. Queries share the lock; mutations
// hold it exclusively for the whole find, validate and assign sequence.
//
// Usage:
//
//	res := stateful.NewResource(file, logger)
//	resp := res.HandleRequest(&stateful.Request{
//	    Method: http.MethodGet,
//	    Query:  url.Values{"name__contains": {"ab"}},
//	})
package stateful
