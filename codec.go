package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenCodec decodes bearer tokens into Claims without verifying a signature.
// Trust is assumed because the token was issued by, and is re-validated by,
// the backend on every API call.
type TokenCodec struct {
	parser *jwt.Parser
	logger Logger
	now    func() time.Time
}

// NewTokenCodec returns a codec with the default clock and logger
func NewTokenCodec() *TokenCodec {
	return &TokenCodec{
		parser: jwt.NewParser(),
		logger: defLogger{},
		now:    time.Now,
	}
}

func (tc *TokenCodec) WithLogger(logger Logger) *TokenCodec {
	if logger != nil {
		tc.logger = logger
	}
	return tc
}

// WithClock injects a custom clock (useful for tests)
func (tc *TokenCodec) WithClock(clock func() time.Time) *TokenCodec {
	if clock != nil {
		tc.now = clock
	}
	return tc
}

// Decode parses the token's claims without validating the signature. Fails
// with ErrTokenMalformed when the string is not a structurally valid token.
func (tc *TokenCodec) Decode(token string) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrTokenMalformed
	}

	parsed, _, err := tc.parser.ParseUnverified(token, &Claims{})
	if err != nil {
		tc.logger.Debug("codec decode failed", "error", err)
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode).
			WithCode(ErrTokenMalformed.Code)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// Expired reports whether the claims carry an expiry in the past. An absent
// expiry claim means the token does not expire.
func (tc *TokenCodec) Expired(claims *Claims) bool {
	if claims == nil {
		return true
	}
	exp := claims.RegisteredClaims.ExpiresAt
	if exp == nil {
		return false
	}
	return exp.Time.Before(tc.now())
}

// IsExpired reports whether the raw token is expired. Any parse failure is
// treated as expired (fail closed).
func (tc *TokenCodec) IsExpired(token string) bool {
	claims, err := tc.Decode(token)
	if err != nil {
		return true
	}
	return tc.Expired(claims)
}
