// Package password covers the two hashing needs of the auth layer:
// bcrypt for stored credentials and SHA-256 for refresh tokens, which
// are only ever persisted as digests.
package password

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost 12 keeps a single hash around 250ms on current hardware
const hashCost = 12

// Hash derives a bcrypt hash from a plaintext password
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain matches the stored bcrypt hash
func Verify(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// HashToken returns the hex SHA-256 digest of a refresh token
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
