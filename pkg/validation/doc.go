// Package validation checks submitted resource rows against the field rules
// declared in a resource configuration.
//
// Rules follow the joi-style vocabulary used by resource files:
//
//	"rules": {
//	    "name": {"type": "string", "required": true, "min": 2},
//	    "age":  {"type": "number", "integer": true, "positive": true},
//	    "role": {"type": "string", "valid": ["admin", "user"]}
//	}
//
// Validate checks a row against such a rule set. In partial mode (PATCH) only
// the fields present in the row are checked. Values are converted the way
// joi converts them ("42" becomes 42 for a number rule, "true" becomes true
// for a boolean rule) and the converted row is returned.
//
// Failures are reported as an *Error carrying one FieldError per invalid
// field. Messages use joi's wording:
//
//	"name" is required
//	"age" must be a number
package validation
