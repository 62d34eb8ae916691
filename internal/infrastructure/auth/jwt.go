// Package auth validates bearer tokens issued by the identity service.
// Token issuance and user management are external; this service only
// verifies signatures and extracts claims.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	appctx "ordina/internal/core/context"
)

// Claims are the token claims recognized by the API.
type Claims struct {
	jwt.RegisteredClaims

	TenantID string   `json:"tenant_id"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// JWTService validates HMAC-signed tokens.
type JWTService struct {
	secret []byte
	issuer string
}

// NewJWTService creates a token validator.
func NewJWTService(secret, issuer string) *JWTService {
	return &JWTService{secret: []byte(secret), issuer: issuer}
}

// ValidateToken parses and verifies a token, returning the user context
// carried in its claims.
func (s *JWTService) ValidateToken(tokenString string) (*appctx.UserContext, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}

	return &appctx.UserContext{
		UserID:   claims.Subject,
		TenantID: claims.TenantID,
		Email:    claims.Email,
		Roles:    claims.Roles,
	}, nil
}
