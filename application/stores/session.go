// Package stores holds the client-side application state. Each store is
// an explicit struct guarded by a mutex that is never held across a
// network call; getters return copies.
package stores

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Result is the outcome of a session action shown to the user.
type Result struct {
	Success bool
	Message string
}

func failed(message string) Result {
	return Result{Success: false, Message: message}
}

// TokenClaims are the display fields of a session token.
type TokenClaims struct {
	Subject   string
	Username  string
	Role      string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

// Expired reports whether the token carries an expiry in the past.
func (c TokenClaims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// parseClaims decodes a JWT without verifying it. The signature is the
// backend's concern; the client only reads the claims for display.
func parseClaims(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}

	out := &TokenClaims{}
	out.Subject, _ = claims.GetSubject()
	if v, ok := claims["username"].(string); ok {
		out.Username = v
	}
	if v, ok := claims["role"].(string); ok {
		out.Role = v
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		out.IssuedAt = &t
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		out.ExpiresAt = &t
	}
	if out.Username == "" {
		out.Username = out.Subject
	}
	return out, nil
}
