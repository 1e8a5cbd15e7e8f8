package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired   = errors.New("jwtx: token expired")
	ErrIssuerMismatch = errors.New("jwtx: issuer mismatch")
)

// Claims are the access-token claims the invite service consumes. Tokens
// are minted by the platform identity service; this service only verifies
// them, so the custom fields stay additive for compatibility.
type Claims struct {
	jwt.RegisteredClaims

	// Permission scopes, e.g. "admin:read admin:write" split into a slice.
	Scopes []string `json:"scopes,omitempty"`

	// Platform role of the authenticated user, e.g. "INSTITUTION_ADMIN".
	Role string `json:"role,omitempty"`

	// InstitutionID scopes institution-bound callers to their tenant.
	// Empty for platform-level roles.
	InstitutionID string `json:"institution_id,omitempty"`
}

// NewClaims builds minimally-correct claims. Used by the test signer and
// by tooling that mints short-lived service tokens.
func NewClaims(
	subject, issuer, role, institutionID string,
	scopes []string,
	ttl time.Duration,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scopes:        scopes,
		Role:          role,
		InstitutionID: institutionID,
	}
}

// ValidateExpiry checks the exp claim against the current time.
func (c *Claims) ValidateExpiry() error {
	if c.ExpiresAt == nil || time.Now().After(c.ExpiresAt.Time) {
		return ErrTokenExpired
	}
	return nil
}

// ValidateIssuer checks the iss claim against the expected value.
// An empty expected issuer disables the check.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuerMismatch
	}
	return nil
}
