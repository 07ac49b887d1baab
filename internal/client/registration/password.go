package registration

import (
	"strings"
	"unicode"
)

// specialChars is the accepted special-character set, matching the server's
// password policy.
const specialChars = "@$!%*?&"

// PasswordCheck is one policy requirement and whether the candidate
// password satisfies it. The UI renders the list as a strength indicator.
type PasswordCheck struct {
	Label string
	Valid bool
}

// PasswordChecks evaluates the five policy requirements.
func PasswordChecks(password string) []PasswordCheck {
	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}

	return []PasswordCheck{
		{Label: "at least 8 characters", Valid: len(password) >= 8},
		{Label: "a lowercase letter", Valid: hasLower},
		{Label: "an uppercase letter", Valid: hasUpper},
		{Label: "a digit", Valid: hasDigit},
		{Label: "a special character (" + specialChars + ")", Valid: hasSpecial},
	}
}

// PasswordScore counts satisfied requirements, 0..5. Step 1 requires a full
// score.
func PasswordScore(password string) int {
	score := 0
	for _, check := range PasswordChecks(password) {
		if check.Valid {
			score++
		}
	}
	return score
}
