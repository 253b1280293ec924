package cli

import (
	"errors"
	"net/mail"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/commsshield/internal/customers"
)

const (
	minUsername     = 3
	minFormPassword = 10
	minCustomerName = 2
)

// FieldError reports the first invalid field of a form.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func fieldErr(field, msg string) error {
	return &FieldError{Field: field, Message: msg}
}

// validEmail accepts a bare address with a dotted domain, no display name.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
}

func checkEmail(field, s string) error {
	if !validEmail(s) {
		return fieldErr(field, "Invalid email address")
	}
	return nil
}

func checkNewPassword(password, confirm string) error {
	if len(password) < minFormPassword {
		return fieldErr("password", "Password must be at least 10 characters")
	}
	if password != confirm {
		return fieldErr("confirmPassword", "Passwords do not match")
	}
	return nil
}

// RegisterForm is the input of the register command.
type RegisterForm struct {
	Email    string
	Username string
	Password string
	Confirm  string
}

func (f RegisterForm) Validate() error {
	if err := checkEmail("email", f.Email); err != nil {
		return err
	}
	if len(f.Username) < minUsername {
		return fieldErr("username", "Username must be at least 3 characters")
	}
	return checkNewPassword(f.Password, f.Confirm)
}

// LoginForm is the input of the login command.
type LoginForm struct {
	Username string
	Password string
}

func (f LoginForm) Validate() error {
	if f.Username == "" {
		return fieldErr("username", "Username is required")
	}
	if f.Password == "" {
		return fieldErr("password", "Password is required")
	}
	return nil
}

// ForgotForm is the input of the forgot-password command.
type ForgotForm struct {
	Email string
}

func (f ForgotForm) Validate() error {
	return checkEmail("email", f.Email)
}

// ResetForm is the input of the reset-password command.
type ResetForm struct {
	Email    string
	Token    string
	Password string
	Confirm  string
}

func (f ResetForm) Validate() error {
	if err := checkEmail("email", f.Email); err != nil {
		return err
	}
	if f.Token == "" {
		return fieldErr("token", "Token is required")
	}
	return checkNewPassword(f.Password, f.Confirm)
}

// ChangePasswordForm is the input of the change-password command.
type ChangePasswordForm struct {
	Current  string
	Password string
	Confirm  string
}

func (f ChangePasswordForm) Validate() error {
	if f.Current == "" {
		return fieldErr("currentPassword", "Current password is required")
	}
	return checkNewPassword(f.Password, f.Confirm)
}

// CustomerForm holds the raw customer fields as typed. Package and sector
// ids stay strings until Input parses them.
type CustomerForm struct {
	Name      string
	Email     string
	Phone     string
	Address   string
	PackageID string
	SectorID  string
}

func (f CustomerForm) Validate() error {
	switch {
	case len(f.Name) < minCustomerName:
		return fieldErr("name", "Name must be at least 2 characters")
	case !validEmail(f.Email):
		return fieldErr("email", "Invalid email address")
	case f.Phone == "":
		return fieldErr("phone", "Phone is required")
	case f.Address == "":
		return fieldErr("address", "Address is required")
	case f.PackageID == "":
		return fieldErr("packageId", "Package is required")
	case f.SectorID == "":
		return fieldErr("sectorId", "Sector is required")
	}
	return nil
}

// Input validates the form and converts it for the engine.
func (f CustomerForm) Input() (customers.Input, error) {
	if err := f.Validate(); err != nil {
		return customers.Input{}, err
	}
	pkg, err := strconv.Atoi(f.PackageID)
	if err != nil {
		return customers.Input{}, fieldErr("packageId", "Package must be a number")
	}
	sector, err := strconv.Atoi(f.SectorID)
	if err != nil {
		return customers.Input{}, fieldErr("sectorId", "Sector must be a number")
	}
	return customers.Input{
		Name:      f.Name,
		Email:     f.Email,
		Phone:     f.Phone,
		Address:   f.Address,
		PackageID: pkg,
		SectorID:  sector,
	}, nil
}

// errorMessage extracts the user-facing text from a validation error.
func errorMessage(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Message
	}
	return err.Error()
}
