package service

import (
	"context"
	"database/sql"
	"errors"

	"gearup-backend/internal/domain"
	"gearup-backend/internal/logger"
	"gearup-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// RegisterProfile mirrors the identity-provider account into the local
// directory on first login. Role comes from the verified claim, never from
// the request body.
func (s *userService) RegisterProfile(ctx context.Context, actor domain.Actor, email, name string) (*domain.User, error) {
	if existing, err := s.userRepo.GetByID(ctx, actor.UserID); err == nil {
		return existing, nil
	}
	user := &domain.User{
		ID:    actor.UserID,
		Email: email,
		Name:  name,
		Role:  actor.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.Info("User profile registered", "userID", user.ID, "role", user.Role)
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, userID int32) (*domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	return u, err
}

func (s *userService) ListUsers(ctx context.Context, actor domain.Actor) ([]domain.User, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrNotAuthorized
	}
	return s.userRepo.List(ctx)
}

func (s *userService) ChangeRole(ctx context.Context, actor domain.Actor, userID int32, role domain.UserRole) error {
	if !actor.IsAdmin() {
		return domain.ErrNotAuthorized
	}
	switch role {
	case domain.UserRoleAdmin, domain.UserRoleOwner, domain.UserRoleRenter:
	default:
		return domain.ErrInvalidRole
	}
	err := s.userRepo.UpdateRole(ctx, userID, role)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	if err == nil {
		logger.Info("User role changed", "userID", userID, "role", role, "adminID", actor.UserID)
	}
	return err
}

func (s *userService) DeleteUser(ctx context.Context, actor domain.Actor, userID int32) error {
	if !actor.IsAdmin() {
		return domain.ErrNotAuthorized
	}
	if userID == actor.UserID {
		// Admins cannot remove their own account.
		return domain.ErrNotAuthorized
	}
	err := s.userRepo.Delete(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	if err == nil {
		logger.Info("User deleted", "userID", userID, "adminID", actor.UserID)
	}
	return err
}
