package route

import "fmt"

// ConflictKind classifies a ConflictError.
type ConflictKind string

// Conflict kinds.
const (
	DuplicateRestful ConflictKind = "DuplicateRestful"
	DuplicateRoute   ConflictKind = "DuplicateRoute"
)

// ConflictError explains why a route was left out of the table.
type ConflictError struct {
	Kind   ConflictKind
	Method string
	Path   string

	// Owner is the file that already holds the restful base or route.
	Owner string
}

func (e *ConflictError) Error() string {
	if e.Kind == DuplicateRestful {
		return fmt.Sprintf("the restful interface already exists in %s: restful=%s", e.Owner, e.Path)
	}
	return fmt.Sprintf("the method+path already exists in %s: method=%s path=%s", e.Owner, e.Method, e.Path)
}
