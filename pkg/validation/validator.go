package validation

import (
	"maps"
	"slices"
)

// Validate checks data against rules and returns a copy of data with the
// converted field values. data must be a JSON object.
//
// With partial set only the fields present in data are checked, so required
// fields that were not submitted pass. Rules with an unsupported type are
// skipped. Fields without a rule are kept as submitted.
//
// On failure the returned error is an *Error and data is left untouched.
func Validate(data any, rules map[string]*Rule, partial bool) (map[string]any, error) {
	row, ok := data.(map[string]any)
	if !ok {
		return nil, &Error{Errors: []*FieldError{{
			Code:    ErrCodeNotObject,
			Message: "The submitted data must be a JSON object.",
		}}}
	}

	out := maps.Clone(row)
	if out == nil {
		out = map[string]any{}
	}

	verr := &Error{}
	for _, field := range slices.Sorted(maps.Keys(rules)) {
		rule := rules[field]
		if !rule.Supported() {
			continue
		}
		v, present := row[field]
		if partial && !present {
			continue
		}
		converted, fe := checkField(field, v, present, rule)
		if fe != nil {
			verr.add(fe)
			continue
		}
		if present {
			out[field] = converted
		}
	}

	if len(verr.Errors) > 0 {
		return nil, verr
	}
	return out, nil
}
