package auth

import (
	"context"
	"errors"

	"gearup-backend/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the identity material extracted from a verified token. The
// engine trusts these values as supplied by the identity provider and never
// re-derives roles on its own.
type Claims struct {
	UserID int32
	Role   domain.UserRole
	Email  string
	Name   string
}

func (c *Claims) Actor() domain.Actor {
	return domain.Actor{UserID: c.UserID, Role: c.Role}
}

// Verifier validates a bearer token from the external identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}
