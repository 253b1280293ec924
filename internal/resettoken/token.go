// Package resettoken issues and checks single-use password reset tokens.
package resettoken

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/commsshield/internal/common"
	"github.com/dmitrijs2005/commsshield/internal/store"
	"github.com/dmitrijs2005/commsshield/internal/timex"
)

// DefaultValidity is how long a freshly issued token stays usable.
const DefaultValidity = 15 * time.Minute

// seedSize is the number of random bytes hashed into each token.
const seedSize = 20

// Token is an issued reset token. Value is 40 lowercase hex characters
// and the token is usable strictly before Expiry.
type Token struct {
	Value  string
	Expiry time.Time
}

// Manager generates tokens from a random source and a clock, both
// injectable.
type Manager struct {
	rand     io.Reader
	clock    timex.Clock
	validity time.Duration
}

// NewManager falls back to crypto/rand, the system clock and
// DefaultValidity for nil or non-positive arguments.
func NewManager(r io.Reader, clock timex.Clock, validity time.Duration) *Manager {
	if r == nil {
		r = rand.Reader
	}
	if clock == nil {
		clock = timex.SystemClock()
	}
	if validity <= 0 {
		validity = DefaultValidity
	}
	return &Manager{rand: r, clock: clock, validity: validity}
}

// Generate reads random bytes, hex encodes them, and returns the SHA-1 hex
// digest of that string with an expiry of now plus the validity window.
func (m *Manager) Generate() (Token, error) {
	seed, err := common.ReadRandHexString(m.rand, seedSize)
	if err != nil {
		return Token{}, fmt.Errorf("reading token seed: %w", err)
	}
	sum := sha1.Sum([]byte(seed))

	return Token{
		Value:  hex.EncodeToString(sum[:]),
		Expiry: m.clock.Now().Add(m.validity),
	}, nil
}

// Check explains why token does not authorise a reset of account at now.
func Check(account store.Account, token string, now time.Time) error {
	if !account.HasResetToken() || account.ResetToken != token {
		return common.ErrInvalidToken
	}
	if !now.Before(account.ResetTokenExpiry) {
		return common.ErrTokenExpired
	}
	return nil
}

// IsValid is true iff account holds a token equal to token and now is
// strictly before its expiry.
func IsValid(account store.Account, token string, now time.Time) bool {
	return Check(account, token, now) == nil
}

// Now exposes the manager's clock so callers compare expiries against the
// same time source that set them.
func (m *Manager) Now() time.Time {
	return m.clock.Now()
}
