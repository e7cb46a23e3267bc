package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength    = 8
	StrongPasswordLength = 12
	// SpecialCharacters are the symbols the backend counts as special.
	SpecialCharacters = `!@#$%^&*(),.?:{}|<>`
)

var (
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`\d`)
	specialPattern = regexp.MustCompile(`[` + regexp.QuoteMeta(SpecialCharacters) + `]`)
)

// PasswordIssues lists every registration requirement the password misses,
// in the order they are shown to the user.
func PasswordIssues(password string) []string {
	var issues []string
	if utf8.RuneCountInString(password) < MinPasswordLength {
		issues = append(issues, "at least 8 characters")
	}
	if !upperPattern.MatchString(password) {
		issues = append(issues, "an uppercase letter")
	}
	if !lowerPattern.MatchString(password) {
		issues = append(issues, "a lowercase letter")
	}
	if !digitPattern.MatchString(password) {
		issues = append(issues, "a number")
	}
	if !specialPattern.MatchString(password) {
		issues = append(issues, "a special character ("+SpecialCharacters+")")
	}
	return issues
}

// PasswordMessage returns the combined requirement message, or "" when the
// password satisfies the policy.
func PasswordMessage(password string) string {
	if password == "" {
		return "Password is required"
	}
	issues := PasswordIssues(password)
	if len(issues) == 0 {
		return ""
	}
	return "Password must contain " + strings.Join(issues, ", ")
}

// Strength is a 0-5 score shown as a meter while the user types.
type Strength struct {
	Score int
	Label string
}

const MaxStrength = 5

var strengthLabels = [MaxStrength + 1]string{"", "Fraca", "Regular", "Boa", "Forte", "Muito Forte"}

// Band groups a score into low (1-2), medium (3) and high (4-5).
func (s Strength) Band() string {
	switch {
	case s.Score == 0:
		return ""
	case s.Score <= 2:
		return "low"
	case s.Score == 3:
		return "medium"
	default:
		return "high"
	}
}

// PasswordStrength awards one point each for reaching 8 characters,
// reaching 12 characters, mixing upper and lower case, containing a digit,
// and containing a special character.
func PasswordStrength(password string) Strength {
	if password == "" {
		return Strength{}
	}
	score := 0
	n := utf8.RuneCountInString(password)
	if n >= MinPasswordLength {
		score++
	}
	if n >= StrongPasswordLength {
		score++
	}
	if lowerPattern.MatchString(password) && upperPattern.MatchString(password) {
		score++
	}
	if digitPattern.MatchString(password) {
		score++
	}
	if specialPattern.MatchString(password) {
		score++
	}
	return Strength{Score: score, Label: strengthLabels[score]}
}
