package lookup

import "fmt"

// ErrorKind classifies a ComparatorError.
type ErrorKind string

// Comparator error kinds.
const (
	KindInvalidRangeArity ErrorKind = "InvalidRangeArity"
	KindInvalidPattern    ErrorKind = "InvalidPattern"
)

// ComparatorError is returned by Compare when the target of a lookup is
// malformed, such as a range with three bounds or an unparsable regex.
type ComparatorError struct {
	Kind   ErrorKind
	Lookup Lookup
	Target any
	Err    error
}

func (e *ComparatorError) Error() string {
	switch e.Kind {
	case KindInvalidRangeArity:
		return fmt.Sprintf("%s: the range value must be an array of length 2, got %v", e.Kind, e.Target)
	case KindInvalidPattern:
		return fmt.Sprintf("%s: invalid regular expression %v: %v", e.Kind, e.Target, e.Err)
	}
	return fmt.Sprintf("%s: %s lookup failed for %v", e.Kind, e.Lookup, e.Target)
}

func (e *ComparatorError) Unwrap() error {
	return e.Err
}
