package banner

import (
	"fmt"
	"strings"
	"unicode"
)

// RegisterURL is the Banner class-registration page. The user still has to
// log in manually (GT SSO + Duo) and pick a term before anything here is
// usable.
const RegisterURL = "https://registration.banner.gatech.edu/StudentRegistrationSsb/ssb/classRegistration/classRegistration"

// crnLength is what Banner hands out for a section reference.
const crnLength = 5

type ValidationError struct {
	CRN string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid crn %q: expected %d digits", e.CRN, crnLength)
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// ValidateCRNs checks every crn before any of them is allowed near the
// browser. Duplicates are accepted, Banner reports the second attempt as a
// duplicate on its own.
func ValidateCRNs(crns []string) error {
	for _, crn := range crns {
		if len(crn) != crnLength || !isDigits(crn) {
			return &ValidationError{CRN: crn}
		}
	}
	return nil
}

// ParseCRNs splits user input like "29626" or "29626, 12345 67890" into a
// validated crn list.
func ParseCRNs(input string) ([]string, error) {
	raw := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(raw) == 0 {
		return nil, &ValidationError{CRN: input}
	}
	if err := ValidateCRNs(raw); err != nil {
		return nil, err
	}
	return raw, nil
}
