// Package validation holds the shared input validation rules applied at the
// API boundary and to funding instruments. Keeping them in one place stops
// the server and any client-side copy from drifting apart.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	apierrors "github.com/alepanderf/minibank/internal/pkg/errors"
)

const minimumAge = 18

var (
	phonePattern   = regexp.MustCompile(`^\+?\d{10,15}$`)
	zipPattern     = regexp.MustCompile(`^\d{5}$`)
	ssnPattern     = regexp.MustCompile(`^\d{9}$`)
	routingPattern = regexp.MustCompile(`^\d{9}$`)
	digitsOnly     = regexp.MustCompile(`^\d+$`)
)

// comTypos maps common misspellings of the .com TLD to the correction we
// suggest. ".co" is excluded: it is a legitimate TLD.
var comTypos = map[string]string{
	"con":  "com",
	"cmo":  "com",
	"ocm":  "com",
	"comm": "com",
	"vom":  "com",
}

// usStateCodes is the canonical list of 2-letter USPS codes: 50 states plus
// DC and the recognized territories.
var usStateCodes = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true,
	"CT": true, "DE": true, "FL": true, "GA": true, "HI": true, "ID": true,
	"IL": true, "IN": true, "IA": true, "KS": true, "KY": true, "LA": true,
	"ME": true, "MD": true, "MA": true, "MI": true, "MN": true, "MS": true,
	"MO": true, "MT": true, "NE": true, "NV": true, "NH": true, "NJ": true,
	"NM": true, "NY": true, "NC": true, "ND": true, "OH": true, "OK": true,
	"OR": true, "PA": true, "RI": true, "SC": true, "SD": true, "TN": true,
	"TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true,
	"WI": true, "WY": true,
	"DC": true, "AS": true, "GU": true, "MP": true, "PR": true, "VI": true,
}

// Email validates an address and returns it lowercased for storage and
// lookup. Domains ending in a common misspelling of .com are rejected with a
// "did you mean" suggestion.
func Email(input string) (string, *apierrors.APIError) {
	email := strings.ToLower(strings.TrimSpace(input))
	if email == "" {
		return "", apierrors.NewValidationError("email", "email is required")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apierrors.NewValidationError("email", "invalid email address")
	}

	_, domain, _ := strings.Cut(email, "@")
	if dot := strings.LastIndexByte(domain, '.'); dot >= 0 {
		tld := domain[dot+1:]
		if fix, ok := comTypos[tld]; ok {
			suggested := domain[:dot+1] + fix
			return "", apierrors.NewValidationError("email",
				fmt.Sprintf("invalid email domain, did you mean %s?", suggested))
		}
	}

	return email, nil
}

// Password enforces the complexity policy: minimum 8 characters with at
// least one lowercase letter, one uppercase letter, one digit, and one
// symbol. Each rule fails with its own message.
func Password(password string) *apierrors.APIError {
	if len(password) < 8 {
		return apierrors.NewValidationError("password", "password must be at least 8 characters")
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	switch {
	case !hasLower:
		return apierrors.NewValidationError("password", "password must contain a lowercase letter")
	case !hasUpper:
		return apierrors.NewValidationError("password", "password must contain an uppercase letter")
	case !hasDigit:
		return apierrors.NewValidationError("password", "password must contain a digit")
	case !hasSymbol:
		return apierrors.NewValidationError("password", "password must contain a symbol")
	}
	return nil
}

// Phone validates an E.164-shaped phone number: optional leading +, 10 to 15
// digits.
func Phone(phone string) (string, *apierrors.APIError) {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return "", apierrors.NewValidationError("phoneNumber",
			"phone number must be in international format (+14155550123)")
	}
	return phone, nil
}

// DateOfBirth parses a YYYY-MM-DD date and checks the holder is at least 18
// years old as of now. Future dates are rejected outright.
func DateOfBirth(input string, now time.Time) (time.Time, *apierrors.APIError) {
	dob, err := time.Parse("2006-01-02", strings.TrimSpace(input))
	if err != nil {
		return time.Time{}, apierrors.NewValidationError("dateOfBirth", "invalid date of birth")
	}

	if dob.After(now) {
		return time.Time{}, apierrors.NewValidationError("dateOfBirth", "date of birth cannot be in the future")
	}

	age := now.Year() - dob.Year()
	// Knock a year off if the birthday hasn't happened yet this year.
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < minimumAge {
		return time.Time{}, apierrors.NewValidationError("dateOfBirth", "must be at least 18 years old")
	}

	return dob, nil
}

// StateCode validates a 2-letter US state or territory code and returns it
// uppercased.
func StateCode(input string) (string, *apierrors.APIError) {
	state := strings.ToUpper(strings.TrimSpace(input))
	if len(state) != 2 || !usStateCodes[state] {
		return "", apierrors.NewValidationError("state", "invalid US state code")
	}
	return state, nil
}

// ZipCode validates a 5-digit ZIP code.
func ZipCode(zip string) (string, *apierrors.APIError) {
	zip = strings.TrimSpace(zip)
	if !zipPattern.MatchString(zip) {
		return "", apierrors.NewValidationError("zipCode", "zip code must be exactly 5 digits")
	}
	return zip, nil
}

// SSN validates a 9-digit social security number. Format only; there is no
// checksum for SSNs.
func SSN(ssn string) (string, *apierrors.APIError) {
	ssn = strings.TrimSpace(ssn)
	if !ssnPattern.MatchString(ssn) {
		return "", apierrors.NewValidationError("ssn", "ssn must be exactly 9 digits")
	}
	return ssn, nil
}

// RoutingNumber validates a 9-digit ABA routing number.
func RoutingNumber(routing string) (string, *apierrors.APIError) {
	routing = strings.TrimSpace(routing)
	if !routingPattern.MatchString(routing) {
		return "", apierrors.NewValidationError("routingNumber", "routing number must be exactly 9 digits")
	}
	return routing, nil
}
