// Package cryptox holds the password hashing primitives used by the engine.
//
// HMACHasher is a placeholder: HMAC-SHA256 keyed by the salt, cheap and
// deterministic. Argon2Hasher derives the hash with argon2id instead. Both
// encode to lowercase hex so stored hashes and history compare as strings.
package cryptox

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/dmitrijs2005/commsshield/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the number of random bytes in a salt before hex encoding.
const SaltSize = 16

// Hasher turns a password and salt into a comparable hash string.
type Hasher interface {
	Hash(password, salt string) string
}

// HMACHasher hashes with HMAC-SHA256 keyed by the salt.
type HMACHasher struct{}

func (HMACHasher) Hash(password, salt string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}

// Argon2Hasher runs argon2id with the given cost parameters.
type Argon2Hasher struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
}

// NewArgon2Hasher returns argon2id with one pass over 64 MiB on four threads.
func NewArgon2Hasher() Argon2Hasher {
	return Argon2Hasher{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32}
}

func (h Argon2Hasher) Hash(password, salt string) string {
	key := argon2.IDKey([]byte(password), []byte(salt), h.Time, h.Memory, h.Threads, h.KeyLen)
	return hex.EncodeToString(key)
}

// NewHasher picks a hasher by config name.
func NewHasher(name string) (Hasher, error) {
	switch name {
	case "", "hmac":
		return HMACHasher{}, nil
	case "argon2":
		return NewArgon2Hasher(), nil
	default:
		return nil, fmt.Errorf("unknown hasher %q", name)
	}
}

// SaltSource produces hex salts from a random reader.
type SaltSource struct {
	r io.Reader
}

// NewSaltSource reads from r, or crypto/rand when r is nil.
func NewSaltSource(r io.Reader) *SaltSource {
	if r == nil {
		r = rand.Reader
	}
	return &SaltSource{r: r}
}

// Salt returns a fresh random salt.
func (s *SaltSource) Salt() (string, error) {
	return common.ReadRandHexString(s.r, SaltSize)
}
