package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/library-service/internal/domain"
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		tm.now = now
	}
}

// NewTokenManager builds a new manager. A non-positive ttl is rejected.
func NewTokenManager(key SigningKey, ttl time.Duration, opts ...TokenOption) (*TokenManager, error) {
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	tm := &TokenManager{key: key.bytes(), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(tm)
	}
	return tm, nil
}

// Claims describes JWT payload: sub, role, iat, exp.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TTL returns the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue builds and signs a token for the subject.
func (tm *TokenManager) Issue(subject string, role domain.Role) (string, time.Time, error) {
	now := tm.now()
	expiresAt := expiryFor(now, tm.ttl)
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, claims.ExpiresAt.Time, nil
}

// expiryFor returns now+ttl rounded up to a whole second. exp is encoded in
// seconds, so rounding down would cut the lifetime short.
func expiryFor(now time.Time, ttl time.Duration) time.Time {
	exact := now.Add(ttl).Round(0)
	exp := exact.Truncate(time.Second)
	if exp.Before(exact) {
		exp = exp.Add(time.Second)
	}
	return exp
}

// Verify validates the token and returns the identity it carries. Any
// parse, signature or expiry failure reports false.
func (tm *TokenManager) Verify(tokenStr string) (domain.Identity, bool) {
	claims, err := tm.parse(tokenStr)
	if err != nil {
		return domain.Identity{}, false
	}
	return domain.Identity{Subject: claims.Subject, Role: claims.Role}, true
}

// ExtractSubject validates the token like Verify and returns only the subject.
// Refresh uses it so the role is re-read from the account, never the claim.
func (tm *TokenManager) ExtractSubject(tokenStr string) (string, bool) {
	claims, err := tm.parse(tokenStr)
	if err != nil {
		return "", false
	}
	return claims.Subject, true
}

func (tm *TokenManager) parse(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, errors.New("empty token")
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" || !claims.Role.IsValid() {
		return nil, errors.New("incomplete token claims")
	}
	return claims, nil
}
