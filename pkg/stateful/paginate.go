package stateful

import (
	"net/url"
	"strconv"
)

// ListResponse is the body of a list request.
type ListResponse struct {
	Count   int   `json:"count"`
	Results []Row `json:"results"`
}

// Paginate returns the 1-based page of rows. The total count is the length of
// rows, not of the page.
func Paginate(rows []Row, page, pageSize int) *ListResponse {
	resp := &ListResponse{Count: len(rows), Results: []Row{}}
	if page < 1 || pageSize < 1 {
		return resp
	}
	// Compare page counts before multiplying: page comes from the query
	// string and (page-1)*pageSize may not fit in an int.
	if len(rows) == 0 || page-1 > (len(rows)-1)/pageSize {
		return resp
	}
	start := (page - 1) * pageSize
	end := start + min(pageSize, len(rows)-start)
	resp.Results = rows[start:end]
	return resp
}

// PageParams reads page and page_size from query. Missing or malformed values
// fall back to page 1 and defaultSize.
func PageParams(query url.Values, defaultSize int) (page, pageSize int) {
	return positiveInt(query.Get(ParamPage), 1), positiveInt(query.Get(ParamPageSize), defaultSize)
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
