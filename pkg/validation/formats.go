package validation

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	formatsOnce sync.Once
	formats     *validator.Validate
)

func formatValidator() *validator.Validate {
	formatsOnce.Do(func() {
		formats = validator.New()
	})
	return formats
}

// matchesTag reports whether s satisfies a go-playground validator tag.
func matchesTag(s, tag string) bool {
	return formatValidator().Var(s, tag) == nil
}

func isEmail(s string) bool    { return matchesTag(s, "email") }
func isURI(s string) bool      { return matchesTag(s, "url") }
func isIP(s string) bool       { return matchesTag(s, "ip") }
func isAlphanum(s string) bool { return matchesTag(s, "alphanum") }

// isUUID accepts the hyphenated form as well as the braced and urn:uuid:
// variants.
func isUUID(s string) bool {
	if matchesTag(s, "uuid") {
		return true
	}
	if len(s) != 38 && len(s) != 45 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
