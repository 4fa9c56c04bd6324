package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gearup-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims defines the HS256 token payload used outside of Firebase:
// local development and tests mint these directly.
type UserClaims struct {
	UserID int32  `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type jwtVerifier struct {
	secret []byte
}

// NewJWTVerifier validates HS256 tokens signed with the shared secret. It
// carries the same user_id/role claims as the Firebase verifier so the two
// are interchangeable behind the Verifier interface.
func NewJWTVerifier(secret string) Verifier {
	return &jwtVerifier{secret: []byte(secret)}
}

func (v *jwtVerifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID <= 0 {
		return nil, fmt.Errorf("%w: missing user_id claim", ErrInvalidToken)
	}

	role := domain.UserRoleRenter
	switch domain.UserRole(claims.Role) {
	case domain.UserRoleAdmin, domain.UserRoleOwner, domain.UserRoleRenter:
		role = domain.UserRole(claims.Role)
	}

	return &Claims{
		UserID: claims.UserID,
		Role:   role,
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}

// GenerateToken mints an HS256 token for the given identity. Used by tests
// and local tooling; production tokens come from the identity provider.
func GenerateToken(secret string, userID int32, role domain.UserRole, email string, ttl time.Duration) (string, error) {
	claims := UserClaims{
		UserID: userID,
		Role:   string(role),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
