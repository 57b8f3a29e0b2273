// Package lookup implements the comparison operators available to filter
// fields: exact, isnull, in, startswith, endswith, contains, regex, range, lt,
// lte, gt and gte.
//
// A filter is written in a query string as field__lookup=target (or just
// field=target for exact). Compare evaluates one such comparison between the
// value resolved from a row and the target taken from the query string.
package lookup

import (
	"fmt"
	"strings"
)

// Lookup is one of the fixed comparison operators.
type Lookup uint8

// Supported lookups.
const (
	Exact Lookup = iota + 1
	IsNull
	In
	StartsWith
	EndsWith
	Contains
	Regex
	Range
	LT
	LTE
	GT
	GTE

	lookupEnd
)

// comparator evaluates one lookup once the generic preconditions of Compare
// have been checked.
type comparator func(value, target any) (bool, error)

var lookups = [lookupEnd]struct {
	name    string
	compare comparator
}{
	Exact:      {"exact", compareExact},
	IsNull:     {"isnull", compareIsNull},
	In:         {"in", compareIn},
	StartsWith: {"startswith", compareStartsWith},
	EndsWith:   {"endswith", compareEndsWith},
	Contains:   {"contains", compareContains},
	Regex:      {"regex", compareRegex},
	Range:      {"range", compareRange},
	LT:         {"lt", compareLT},
	LTE:        {"lte", compareLTE},
	GT:         {"gt", compareGT},
	GTE:        {"gte", compareGTE},
}

// All returns every lookup in declaration order.
func All() []Lookup {
	all := make([]Lookup, 0, lookupEnd-1)
	for l := Exact; l < lookupEnd; l++ {
		all = append(all, l)
	}
	return all
}

// Names returns the query-string names of every lookup in declaration order.
func Names() []string {
	names := make([]string, 0, lookupEnd-1)
	for _, l := range All() {
		names = append(names, l.String())
	}
	return names
}

// Parse returns the lookup with the given name.
func Parse(name string) (Lookup, error) {
	for _, l := range All() {
		if lookups[l].name == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown lookup %q (want one of %s)", name, strings.Join(Names(), ", "))
}

// Valid reports whether l is one of the declared lookups.
func (l Lookup) Valid() bool {
	return l >= Exact && l < lookupEnd
}

func (l Lookup) String() string {
	if !l.Valid() {
		return fmt.Sprintf("lookup(%d)", uint8(l))
	}
	return lookups[l].name
}

// MarshalText implements encoding.TextMarshaler.
func (l Lookup) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid lookup %d", uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Lookup) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
