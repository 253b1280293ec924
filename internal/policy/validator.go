package policy

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const validMessage = "Password meets all requirements."

// Result is the outcome of Validate.
type Result struct {
	Valid  bool
	Reason string
}

// Validator checks passwords against a Policy. It holds no mutable state.
type Validator struct {
	policy *Policy
}

// NewValidator copies policy. A nil policy means DefaultPolicy.
func NewValidator(policy *Policy) *Validator {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Validator{policy: policy.Clone()}
}

// Policy returns a copy of the validator's policy.
func (v *Validator) Policy() *Policy {
	return v.policy.Clone()
}

// Validate reports whether password passes every rule, with the reason of
// the first rule that failed.
func (v *Validator) Validate(password string) Result {
	if err := v.Check(password); err != nil {
		return Result{Valid: false, Reason: err.Error()}
	}
	return Result{Valid: true, Reason: validMessage}
}

// Check returns nil for an acceptable password, otherwise a *ValidationError
// for the first failing rule: length, uppercase, lowercase, digit, special,
// then the forbidden-word scan.
func (v *Validator) Check(password string) error {
	if utf8.RuneCountInString(password) < v.policy.MinLength {
		return tooShort(v.policy.MinLength)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case unicode.IsDigit(r) && r < utf8.RuneSelf:
			hasDigit = true
		case strings.ContainsRune(SpecialCharacters, r):
			hasSpecial = true
		}
	}

	if v.policy.RequireUppercase && !hasUpper {
		return &ValidationError{Code: ErrNoUppercase, Message: "Password must contain at least one uppercase letter."}
	}
	if v.policy.RequireLowercase && !hasLower {
		return &ValidationError{Code: ErrNoLowercase, Message: "Password must contain at least one lowercase letter."}
	}
	if v.policy.RequireDigit && !hasDigit {
		return &ValidationError{Code: ErrNoDigit, Message: "Password must contain at least one digit."}
	}
	if v.policy.RequireSpecial && !hasSpecial {
		return &ValidationError{Code: ErrNoSpecial, Message: "Password must contain at least one special character."}
	}

	lower := strings.ToLower(password)
	for _, word := range v.policy.Forbidden {
		if strings.Contains(lower, strings.ToLower(word)) {
			return &ValidationError{Code: ErrCommonWord, Message: "Password contains a common word that is not allowed."}
		}
	}

	return nil
}
