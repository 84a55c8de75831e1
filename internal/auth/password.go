package auth

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

var (
	// ErrPasswordMismatch is returned when a password does not match its hash.
	ErrPasswordMismatch = errors.New("password does not match")
	// ErrPasswordTooLong is returned for passwords over MaxPasswordBytes.
	ErrPasswordTooLong = bcrypt.ErrPasswordTooLong
)

// dummyHash is compared against when no account exists, so a miss costs
// the same as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("library-service-dummy"), bcrypt.DefaultCost)
	return h
})

// HashPassword hashes a plaintext password with configured cost.
// The limit is counted in bytes, so multi-byte passwords hit it sooner.
func HashPassword(password string, cost int) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
// bcrypt compares digests in constant time.
func ComparePassword(hashed, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// CompareDummy burns one bcrypt comparison and always fails.
func CompareDummy(plain string) error {
	_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(plain))
	return ErrPasswordMismatch
}
