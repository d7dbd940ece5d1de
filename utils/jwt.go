package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reports the exp claim of a JWT without verifying its signature.
// ok is false when the token is not a JWT or carries no exp claim; opaque
// tokens are left for the server to judge.
func TokenExpiry(tokenString string) (expiresAt time.Time, ok bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TokenExpired reports whether a JWT's exp claim lies before now, allowing leeway.
func TokenExpired(tokenString string, now time.Time, leeway time.Duration) bool {
	exp, ok := TokenExpiry(tokenString)
	if !ok {
		return false
	}
	return now.Add(leeway).After(exp)
}
