package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct performs tag-based validation on a struct.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Payload-supplied emails must look like local@domain.tld before they are
// accepted over a synthesized placeholder.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// IsValidEmail reports whether s is a plausible email address.
func IsValidEmail(s string) bool {
	return s != "" && emailPattern.MatchString(s)
}
