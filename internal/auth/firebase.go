package auth

import (
	"context"
	"fmt"

	"gearup-backend/internal/domain"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type firebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier verifies Firebase ID tokens issued to the GearUp web
// client. The identity provider stamps user_id and role custom claims on
// every account at signup.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (Verifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}
	return &firebaseVerifier{client: client}, nil
}

func (v *firebaseVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, ok := decoded.Claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return nil, fmt.Errorf("%w: missing user_id claim", ErrInvalidToken)
	}

	// Accounts get their role claim at signup; anything unset or unknown
	// falls back to the least privileged role.
	role := domain.UserRoleRenter
	if r, ok := decoded.Claims["role"].(string); ok {
		switch domain.UserRole(r) {
		case domain.UserRoleAdmin, domain.UserRoleOwner, domain.UserRoleRenter:
			role = domain.UserRole(r)
		}
	}

	claims := &Claims{
		UserID: int32(userID),
		Role:   role,
	}
	if email, ok := decoded.Claims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		claims.Name = name
	}
	return claims, nil
}
