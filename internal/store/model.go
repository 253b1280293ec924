package store

import (
	"slices"
	"time"
)

// Status is the authentication state of an account. Active is initial;
// Locked is terminal for the lifetime of the process.
type Status string

const (
	StatusActive Status = "active"
	StatusLocked Status = "locked"
)

// Account is a registered user.
//
// History holds the most recent password hashes, oldest first, including
// the current one. ResetToken and ResetTokenExpiry are set together or not
// at all.
type Account struct {
	ID               int
	Email            string
	Username         string
	PasswordHash     string
	Salt             string
	History          []string
	FailedLogins     int
	Locked           bool
	ResetToken       string
	ResetTokenExpiry time.Time
}

// Status reports whether the account is locked.
func (a Account) Status() Status {
	if a.Locked {
		return StatusLocked
	}
	return StatusActive
}

// HasResetToken reports whether a reset token is pending.
func (a Account) HasResetToken() bool {
	return a.ResetToken != "" && !a.ResetTokenExpiry.IsZero()
}

// ClearResetToken drops the pending token and its expiry together.
func (a *Account) ClearResetToken() {
	a.ResetToken = ""
	a.ResetTokenExpiry = time.Time{}
}

// InHistory reports whether hash matches any remembered password.
func (a Account) InHistory(hash string) bool {
	return slices.Contains(a.History, hash)
}

// PushHistory appends hash and evicts the oldest entries beyond limit.
func (a *Account) PushHistory(hash string, limit int) {
	a.History = append(a.History, hash)
	if limit > 0 && len(a.History) > limit {
		a.History = slices.Clone(a.History[len(a.History)-limit:])
	}
}

func (a Account) clone() Account {
	a.History = slices.Clone(a.History)
	return a
}

// Customer is a record created from the customer form. PackageID and
// SectorID reference the catalogs but are not validated.
type Customer struct {
	ID        int
	Name      string
	Email     string
	Phone     string
	Address   string
	PackageID int
	SectorID  int
}

// Package is a service package customers can subscribe to.
type Package struct {
	ID          int
	Name        string
	Description string
	Price       float64
	Speed       string
}

// Sector is the market segment a customer belongs to.
type Sector struct {
	ID          int
	Name        string
	Description string
}
