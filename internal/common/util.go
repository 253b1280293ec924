package common

import (
	"encoding/hex"
	"io"
)

// ReadRandHexString reads size bytes from r and returns them hex encoded.
// The result is twice as long as size.
func ReadRandHexString(r io.Reader, size int) (string, error) {
	b := make([]byte, size)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray overwrites b with zeros. Nil is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
