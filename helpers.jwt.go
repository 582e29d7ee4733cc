package main

import (
	"github.com/golang-jwt/jwt/v5"
)

var _ Tokener = (*TokenHandler)(nil) // ensure TokenHandler implements Tokener.

// Tokener is an interface for issuing and verifying bearer tokens.
type Tokener interface {
	Generate(subject, role string) (string, error)
	Parse(tokenString string) (*APIClaims, error)
}

// APIClaims carries the caller identity placed into the request context
// once the authentication middleware accepted a bearer token.
type APIClaims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenHandler implements the Tokener interface with HS256 signing.
type TokenHandler struct {
	secret []byte
	config *AuthConfig
	clock  Clocker
}

// NewTokenHandler returns a ready to use TokenHandler.
func NewTokenHandler(config *AuthConfig, clock Clocker) *TokenHandler {
	return &TokenHandler{
		secret: []byte(config.Secret),
		config: config,
		clock:  clock,
	}
}

// Generate signs a short-lived token for the given caller.
func (th *TokenHandler) Generate(subject, role string) (string, error) {
	now := th.clock.Now()
	claims := APIClaims{
		Sub:  subject,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    th.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(th.config.TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(th.secret)
}

// Parse verifies a bearer token signature and expiry and returns its claims.
func (th *TokenHandler) Parse(tokenString string) (*APIClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &APIClaims{},
		func(t *jwt.Token) (any, error) { return th.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*APIClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
