// Package token issues and validates the signed bearer tokens used by API
// clients. Tokens are self-contained: subject plus a fixed validity window,
// signed with a process-wide secret. There is no server-side revocation list;
// a token stays valid until it expires or the holder discards it.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedToken means the input could not be parsed as a token at all.
	ErrMalformedToken = errors.New("token: malformed token")
	// ErrExpiredToken means the token was valid once but its window has passed.
	ErrExpiredToken = errors.New("token: expired token")
	// ErrInvalidToken means the signature did not verify, or validation failed
	// for any reason not covered above. Ambiguous failures land here so the
	// guard fails closed.
	ErrInvalidToken = errors.New("token: invalid token")

	errEmptySubject = errors.New("token: empty subject")
)

// DefaultValidity matches the remember-me window used elsewhere in the system.
const DefaultValidity = 7 * 24 * time.Hour

// Codec signs and verifies identity tokens. The key and validity window are
// fixed at construction and never change afterwards, so a Codec is safe for
// concurrent use.
type Codec struct {
	key      []byte
	validity time.Duration
	now      func() time.Time
}

// NewCodec creates a Codec with the given signing secret and validity window.
// A non-positive validity falls back to DefaultValidity.
func NewCodec(secret string, validity time.Duration) *Codec {
	if validity <= 0 {
		validity = DefaultValidity
	}
	return &Codec{key: []byte(secret), validity: validity, now: time.Now}
}

// Issue signs a token for the subject. It fails only on an empty subject.
func (c *Codec) Issue(subject string) (string, error) {
	if subject == "" {
		return "", errEmptySubject
	}
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.validity)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

// ValidateAndExtract verifies the token and returns its subject. It has no
// side effects and reports exactly one of ErrMalformedToken, ErrExpiredToken,
// or ErrInvalidToken on failure.
func (c *Codec) ValidateAndExtract(raw string) (string, error) {
	parsed, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, ErrInvalidToken
			}
			return c.key, nil
		},
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrExpiredToken
		default:
			return "", ErrInvalidToken
		}
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
