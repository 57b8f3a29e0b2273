package stateful

import (
	"log/slog"
	"maps"
	"net/url"
	"slices"
	"sort"
	"strings"

	"github.com/getmockd/restmock/pkg/lookup"
	"github.com/getmockd/restmock/pkg/logging"
	"github.com/getmockd/restmock/pkg/value"
)

// Reserved query parameters.
const (
	ParamSearch   = "search"
	ParamOrdering = "ordering"
	ParamPage     = "page"
	ParamPageSize = "page_size"
)

// Filter is one active condition of a query.
type Filter struct {
	Field  string
	Lookup lookup.Lookup
	Target any
}

// Match reports whether row satisfies the filter.
func (f Filter) Match(row any) (bool, error) {
	return lookup.Compare(Resolve(row, f.Field), f.Lookup, f.Target)
}

// Param returns the value of a query parameter: a string when it occurs once,
// an array of strings when it is repeated, and value.Undefined when it is
// absent.
func Param(query url.Values, key string) any {
	vals, ok := query[key]
	if !ok || len(vals) == 0 {
		return value.Undefined
	}
	if len(vals) == 1 {
		return vals[0]
	}
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

// BuildFilters reads the active filters for the allowed fields from query.
// The parameter for a lookup is "field__lookup"; the bare field name is read
// as an exact match. Blank parameters are skipped. Filters come out in field
// order, then in the order the lookups are allowed.
func BuildFilters(query url.Values, fields map[string][]lookup.Lookup) []Filter {
	var filters []Filter
	for _, field := range slices.Sorted(maps.Keys(fields)) {
		for _, l := range fields[field] {
			target := Param(query, field+FieldSeparator+l.String())
			if value.IsUndefined(target) && l == lookup.Exact {
				target = Param(query, field)
			}
			if value.IsBlank(target) {
				continue
			}
			filters = append(filters, Filter{Field: field, Lookup: l, Target: target})
		}
	}
	return filters
}

// Query is a parsed list request.
type Query struct {
	Filters      []Filter
	Search       any
	SearchFields []string

	// Ordering is a comma separated string or an array of field tokens.
	Ordering       any
	OrderingFields []string
}

// Run filters, searches and orders rows. The input slice is not modified and
// rows are returned as they are, not copied.
//
// Filters are ANDed; search is satisfied when any search field contains the
// search term. A filter that fails with an error excludes the row and is
// logged.
func (q *Query) Run(rows []Row, log *slog.Logger) []Row {
	log = logging.OrNop(log)

	search := !value.IsBlank(q.Search) && len(q.SearchFields) > 0
	results := make([]Row, 0, len(rows))
	for _, row := range rows {
		if q.match(row, log) && (!search || q.searchMatch(row)) {
			results = append(results, row)
		}
	}
	return SortRows(results, q.Ordering, q.OrderingFields, log)
}

func (q *Query) match(row Row, log *slog.Logger) bool {
	for _, f := range q.Filters {
		ok, err := f.Match(row)
		if err != nil {
			log.Warn("filter failed, row excluded",
				"field", f.Field,
				"lookup", f.Lookup.String(),
				"target", value.String(f.Target),
				"error", err,
			)
			return false
		}
		if !ok {
			return false
		}
	}
	return true
}

func (q *Query) searchMatch(row Row) bool {
	for _, field := range q.SearchFields {
		if ok, _ := lookup.Compare(Resolve(row, field), lookup.Contains, q.Search); ok {
			return true
		}
	}
	return false
}

type orderKey struct {
	field string
	desc  bool
}

// parseOrdering turns ordering tokens into sort keys. A leading "-" sorts
// descending, a leading "+" or none ascending. Tokens naming a field outside
// allowed are dropped.
func parseOrdering(ordering any, allowed []string, log *slog.Logger) []orderKey {
	var keys []orderKey
	for _, tok := range value.CSV(ordering) {
		token := value.String(tok)
		key := orderKey{field: token}
		if rest, ok := strings.CutPrefix(token, "-"); ok {
			key = orderKey{field: rest, desc: true}
		} else if rest, ok := strings.CutPrefix(token, "+"); ok {
			key.field = rest
		}
		if !slices.Contains(allowed, key.field) {
			log.Warn("ordering field not allowed, ignored", "token", token, "ordering_fields", allowed)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// SortRows returns a sorted copy of rows.
//
// The first key whose two values are unequal decides the order of a pair;
// equal and incomparable values fall through to the next key, and pairs that
// tie on every key keep their relative order.
func SortRows(rows []Row, ordering any, allowed []string, log *slog.Logger) []Row {
	log = logging.OrNop(log)
	results := slices.Clone(rows)

	if len(value.CSV(ordering)) == 0 {
		return results
	}
	if len(allowed) == 0 {
		log.Warn("ordering ignored, no ordering_fields configured", "ordering", value.String(ordering))
		return results
	}
	keys := parseOrdering(ordering, allowed, log)
	if len(keys) == 0 {
		return results
	}

	sort.SliceStable(results, func(i, j int) bool {
		for _, k := range keys {
			c, ok := compareOrder(Resolve(results[i], k.field), Resolve(results[j], k.field))
			if !ok || c == 0 {
				continue
			}
			if k.desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return results
}

// compareOrder orders a and b with the lt and gt lookups, checked from both
// sides so that the result is symmetric. It reports false when the pair is
// not strictly ordered.
func compareOrder(a, b any) (int, bool) {
	if value.StrictEqual(a, b) {
		return 0, true
	}
	less := holds(a, lookup.LT, b) && holds(b, lookup.GT, a)
	greater := holds(a, lookup.GT, b) && holds(b, lookup.LT, a)
	switch {
	case less && !greater:
		return -1, true
	case greater && !less:
		return 1, true
	}
	return 0, false
}

func holds(v any, l lookup.Lookup, target any) bool {
	ok, err := lookup.Compare(v, l, target)
	return err == nil && ok
}
