// Package validation contains input validation helpers for user-supplied fields.
package validation

import (
	"fmt"
	"regexp"
)

const maxEmailLength = 254

var (
	emailRegex  = regexp.MustCompile(`^[^\s@]+@([^\s@.]+\.)+[^\s@.]+$`)
	mobileRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// ValidateEmail checks basic email shape and length.
func ValidateEmail(email string) error {
	if len(email) > maxEmailLength {
		return fmt.Errorf("email must be at most %d characters", maxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateMobileNo checks that a mobile number is 7 to 15 digits with an
// optional leading plus.
func ValidateMobileNo(mobile string) error {
	if !mobileRegex.MatchString(mobile) {
		return fmt.Errorf("invalid mobile number")
	}
	return nil
}
