package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every token failure: bad structure, bad signature,
// expiry. Callers never learn which.
var ErrInvalidToken = errors.New("invalid token")

// Tokens issues and validates stateless bearer tokens (JWT, HS256). The
// signing key is process-wide configuration; rotating it invalidates every
// outstanding token.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens returns a token issuer/validator with the given signing key and
// token lifetime.
func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	return &Tokens{secret: secret, ttl: ttl}
}

// Issue mints a signed token with subject=username, expiring after the
// configured lifetime.
func (t *Tokens) Issue(username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	})
	return token.SignedString(t.secret)
}

// Subject verifies the token's signature and expiry, then returns its subject.
func (t *Tokens) Subject(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Valid reports whether the token's signature verifies and it has not expired.
func (t *Tokens) Valid(tokenStr string) bool {
	_, err := t.Subject(tokenStr)
	return err == nil
}
