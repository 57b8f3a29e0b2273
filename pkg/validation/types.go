package validation

// Supported rule types.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
	TypeAny     = "any"
)

var supportedTypes = map[string]bool{
	TypeString:  true,
	TypeNumber:  true,
	TypeBoolean: true,
	TypeObject:  true,
	TypeArray:   true,
	TypeAny:     true,
}

// Rule declares the constraints of a single row field.
//
// Constraints that do not apply to the rule's type are ignored, so
// {"type": "string", "integer": true} behaves like {"type": "string"}.
type Rule struct {
	// Type is one of string, number, boolean, object, array, any.
	Type string `json:"type" yaml:"type"`

	Required bool `json:"required,omitempty" yaml:"required,omitempty"`

	// Min, Max and Length bound the length of strings, the number of items
	// of arrays, the number of keys of objects and the value of numbers.
	Min    *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max    *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Length *float64 `json:"length,omitempty" yaml:"length,omitempty"`

	// Number constraints
	Integer  bool `json:"integer,omitempty" yaml:"integer,omitempty"`
	Positive bool `json:"positive,omitempty" yaml:"positive,omitempty"`
	Negative bool `json:"negative,omitempty" yaml:"negative,omitempty"`

	// String constraints
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Email     bool   `json:"email,omitempty" yaml:"email,omitempty"`
	URI       bool   `json:"uri,omitempty" yaml:"uri,omitempty"`
	UUID      bool   `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	IP        bool   `json:"ip,omitempty" yaml:"ip,omitempty"`
	Alphanum  bool   `json:"alphanum,omitempty" yaml:"alphanum,omitempty"`
	Lowercase bool   `json:"lowercase,omitempty" yaml:"lowercase,omitempty"`
	Uppercase bool   `json:"uppercase,omitempty" yaml:"uppercase,omitempty"`

	// Valid restricts the field to the listed values.
	Valid []any `json:"valid,omitempty" yaml:"valid,omitempty"`

	// Allow lists values accepted regardless of the other constraints,
	// e.g. [null, ""] for an optional string.
	Allow []any `json:"allow,omitempty" yaml:"allow,omitempty"`
}

// Supported reports whether the rule's type is one Validate understands.
// Rules with an unsupported type are skipped.
func (r *Rule) Supported() bool {
	return r != nil && supportedTypes[r.Type]
}

// SupportedTypes returns the rule types Validate understands.
func SupportedTypes() []string {
	return []string{TypeString, TypeNumber, TypeBoolean, TypeObject, TypeArray, TypeAny}
}
