package jwtx

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("jwtx: invalid token")

// Verifier checks a compact JWT and returns its claims.
type Verifier interface {
	Verify(raw string) (Claims, error)
}

// Signer mints compact JWTs. The invite service itself only needs this in
// tests; production tokens come from the identity service.
type Signer interface {
	Sign(claims Claims) (string, error)
}

type eddsaVerifier struct {
	pub ed25519.PublicKey
}

// NewEdDSAVerifier wraps an Ed25519 public key as a Verifier.
func NewEdDSAVerifier(pub ed25519.PublicKey) Verifier {
	return &eddsaVerifier{pub: pub}
}

// NewEdDSAVerifierFromPEM parses a PKIX PEM-encoded Ed25519 public key.
func NewEdDSAVerifierFromPEM(pemBytes []byte) (Verifier, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("jwtx: no PEM block found")
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse public key: %w", err)
	}

	pub, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("jwtx: public key is not Ed25519")
	}

	return NewEdDSAVerifier(pub), nil
}

func (v *eddsaVerifier) Verify(raw string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("jwtx: unexpected signing method %q", t.Method.Alg())
		}
		return v.pub, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

type eddsaSigner struct {
	priv ed25519.PrivateKey
}

// NewEdDSASigner wraps an Ed25519 private key as a Signer.
func NewEdDSASigner(priv ed25519.PrivateKey) Signer {
	return &eddsaSigner{priv: priv}
}

func (s *eddsaSigner) Sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(s.priv)
}
