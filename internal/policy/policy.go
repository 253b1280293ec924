// Package policy validates candidate passwords against complexity and
// blocklist rules. Rules run in a fixed order and the first failure wins.
package policy

import "fmt"

// SpecialCharacters is the set that satisfies the special-character rule.
const SpecialCharacters = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// Dictionary lists common words that may not appear anywhere in a password,
// compared case-insensitively.
var Dictionary = []string{
	"password", "admin", "welcome", "123456", "qwerty", "letmein", "monkey", "football",
	"baseball", "dragon", "superman", "batman", "sunshine", "iloveyou", "starwars",
	"master", "login", "princess", "abc123", "admin123", "welcome123",
}

// Policy configures the validator.
type Policy struct {
	// MinLength is the minimum password length in characters.
	MinLength int

	RequireUppercase bool
	RequireLowercase bool
	RequireDigit     bool
	RequireSpecial   bool

	// Forbidden words rejected as substrings. Matched case-insensitively.
	Forbidden []string
}

// DefaultPolicy mirrors the demonstrator's fixed rules.
func DefaultPolicy() *Policy {
	return &Policy{
		MinLength:        10,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireDigit:     true,
		RequireSpecial:   true,
		Forbidden:        append([]string(nil), Dictionary...),
	}
}

// Clone returns a deep copy of p.
func (p *Policy) Clone() *Policy {
	c := *p
	c.Forbidden = append([]string(nil), p.Forbidden...)
	return &c
}

// ValidationErrorCode identifies which rule rejected a password.
type ValidationErrorCode int

const (
	ErrTooShort ValidationErrorCode = iota + 1
	ErrNoUppercase
	ErrNoLowercase
	ErrNoDigit
	ErrNoSpecial
	ErrCommonWord
)

// ValidationError is returned by Validator.Check.
type ValidationError struct {
	Code    ValidationErrorCode
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func tooShort(min int) *ValidationError {
	return &ValidationError{
		Code:    ErrTooShort,
		Message: fmt.Sprintf("Password must be at least %d characters long.", min),
	}
}
