// Package validation holds the field-level predicates used by the client
// forms before anything is sent to the backend.
package validation

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Validator reports whether a single field value is acceptable.
type Validator func(value string) bool

// Rule pairs a validator with the message shown when it fails.
type Rule struct {
	Validator Validator
	Message   string
}

// Errors maps a form field name to its first failing rule's message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has an error.
func (e Errors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Err returns nil when there are no errors so callers can use the usual
// `if err := ...; err != nil` form.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^\+?[\d\s()-]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
	letterStart     = regexp.MustCompile(`^[a-zA-Z]`)
)

func Email(value string) bool {
	return emailPattern.MatchString(value)
}

// Password only checks the minimum length; see PasswordIssues for the full
// registration policy.
func Password(value string) bool {
	return utf8.RuneCountInString(value) >= MinPasswordLength
}

// Phone accepts an empty value or digits with optional +, spaces, dashes
// and parentheses.
func Phone(value string) bool {
	return value == "" || phonePattern.MatchString(value)
}

func Required(value string) bool {
	return value != ""
}

func MinLength(min int) Validator {
	return func(value string) bool {
		return value == "" || utf8.RuneCountInString(value) >= min
	}
}

func MaxLength(max int) Validator {
	return func(value string) bool {
		return value == "" || utf8.RuneCountInString(value) <= max
	}
}

func MatchField(other string) Validator {
	return func(value string) bool {
		return value == other
	}
}

// ValidateForm runs each field's rules in order and keeps the first
// failure per field.
func ValidateForm(values map[string]string, rules map[string][]Rule) Errors {
	errs := Errors{}
	for field, fieldRules := range rules {
		value := values[field]
		for _, rule := range fieldRules {
			if !rule.Validator(value) {
				errs[field] = rule.Message
				break
			}
		}
	}
	return errs
}

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
)

// Username returns an empty string for a valid username or the reason it
// is rejected.
func Username(name string) string {
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		return "Username is required"
	case n < MinUsernameLength || n > MaxUsernameLength:
		return "Username must be between 3 and 20 characters"
	case !letterStart.MatchString(name):
		return "Username must start with a letter"
	case !usernamePattern.MatchString(name):
		return "Username may only contain letters, numbers and underscores"
	}
	return ""
}
