package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for verifying bearer tokens. Tokens are
// issued by an external identity provider sharing the signing secret;
// this service only validates them and extracts claims.
type JWTService interface {
	// ValidateToken validates the provided token string and extracts the
	// claims. Returns an error if validation fails (expired, invalid
	// signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the claims extracted from a verified token.
type Claims struct {
	// UserID is the unique identifier of the authenticated user.
	UserID uuid.UUID `json:"uid,omitempty"`

	// IsAdmin grants access to mutating endpoints. Carried as a claim so
	// the authorization decision is made by the identity provider, not
	// hardcoded here.
	IsAdmin bool `json:"adm,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
