// Package token issues the confirmation secrets used by the double opt-in
// flow. The secret travels to the subscriber inside the confirmation link;
// only its digest is ever persisted, so a database read cannot be used to
// forge a confirmation.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

const secretLen = 32 // 256 bits of entropy

// Pair is a freshly issued confirmation secret and its stored digest.
type Pair struct {
	Secret string
	Digest string
}

// New generates a random secret and its SHA-256 digest.
func New() (Pair, error) {
	buf := make([]byte, secretLen)
	if _, err := rand.Read(buf); err != nil {
		return Pair{}, err
	}
	secret := hex.EncodeToString(buf)
	return Pair{Secret: secret, Digest: Digest(secret)}, nil
}

// Digest returns the hex-encoded SHA-256 digest of a presented secret.
func Digest(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
