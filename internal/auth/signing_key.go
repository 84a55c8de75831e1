package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
)

// MinSecretLength is the shortest accepted secret, counted after trimming.
const MinSecretLength = 32

var (
	ErrSecretMissing  = errors.New("jwt secret is not configured; set AUTH_JWT_SECRET")
	ErrSecretTooShort = fmt.Errorf("jwt secret must be at least %d characters long", MinSecretLength)
)

// SigningKey is the HMAC key material for tokens. The configured secret is
// never used directly; the key is the SHA-256 digest of the trimmed secret.
type SigningKey struct {
	key [sha256.Size]byte
}

// BuildSigningKey derives the signing key from the configured secret.
// Callers treat any error as fatal.
func BuildSigningKey(secret string) (SigningKey, error) {
	effective := strings.TrimSpace(secret)
	if effective == "" {
		return SigningKey{}, ErrSecretMissing
	}
	if len([]rune(effective)) < MinSecretLength {
		return SigningKey{}, ErrSecretTooShort
	}
	return SigningKey{key: sha256.Sum256([]byte(effective))}, nil
}

// bytes returns a copy so callers cannot mutate the key.
func (k SigningKey) bytes() []byte {
	out := make([]byte, len(k.key))
	copy(out, k.key[:])
	return out
}
