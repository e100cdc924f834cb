// Package validation holds the field-format rules shared by the patient
// registry and doctor directory.
package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Phone numbers are 10-15 digits with an optional leading +.
var phoneRE = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

var validate = validator.New()

func Phone(value string) bool {
	return phoneRE.MatchString(value)
}

func Email(value string) bool {
	return validate.Var(value, "required,email") == nil
}

const (
	PhoneMessage = "phone number must be between 10-15 digits and may include a + prefix"
	EmailMessage = "please enter a valid email address"
)
