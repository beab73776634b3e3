package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lectern/internal/domain/identity"
	"lectern/internal/shared/biztime"
)

type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

// Claims are the signed token payload: subject (user id), type discriminator
// and a denormalized profile snapshot, plus the registered iat/exp/nbf set.
type Claims struct {
	TokenType Type             `json:"type"`
	Profile   identity.Profile `json:"profile"`
	jwt.RegisteredClaims
}

// Reason classifies why verification failed. Expiry is retryable for callers
// (refresh path); everything else is fatal for that token.
type Reason string

const (
	ReasonFormat    Reason = "format"
	ReasonSignature Reason = "sig"
	ReasonNotBefore Reason = "nbf"
	ReasonExpired   Reason = "exp"
)

// VerifyResult is a discriminated verification outcome. Verification never
// returns an error; callers branch on the result without a try/catch per
// call site. An expired but correctly signed token keeps its decoded Claims
// so the payload can still be read.
type VerifyResult struct {
	Valid   bool
	Expired bool
	Reason  Reason
	Claims  *Claims
}

// Sign stamps iat/exp from ttl onto the claims and signs them with HS256.
func Sign(claims *Claims, secret []byte, ttl time.Duration) (string, error) {
	now := biztime.NowUTC()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// Verify checks structure, signature, not-before and expiry, in that order.
func Verify(tokenString string, secret []byte) VerifyResult {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err == nil {
		return VerifyResult{Valid: true, Claims: claims}
	}

	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return VerifyResult{Reason: ReasonFormat}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return VerifyResult{Reason: ReasonSignature}
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return VerifyResult{Reason: ReasonNotBefore, Claims: claims}
	case errors.Is(err, jwt.ErrTokenExpired):
		// Signature checked out; the payload is trustworthy, just stale.
		return VerifyResult{Reason: ReasonExpired, Expired: true, Claims: claims}
	default:
		return VerifyResult{Reason: ReasonFormat}
	}
}

// Decode extracts claims without verifying the signature. Debug helper only;
// never use the result for authorization.
func Decode(tokenString string) *Claims {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	return claims
}
