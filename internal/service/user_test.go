package service_test

import (
	"context"
	"database/sql"
	"testing"

	"gearup-backend/internal/domain"
	"gearup-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUserService_RegisterProfile(t *testing.T) {
	ctx := context.Background()
	actor := domain.Actor{UserID: 1, Role: domain.UserRoleRenter}

	t.Run("First Login Creates Record", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewUserService(userRepo)
		userRepo.On("GetByID", ctx, int32(1)).Return(nil, sql.ErrNoRows)
		userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := svc.RegisterProfile(ctx, actor, "rita@test.com", "Rita")
		assert.NoError(t, err)
		assert.Equal(t, int32(1), user.ID)
		assert.Equal(t, domain.UserRoleRenter, user.Role)
	})

	t.Run("Existing Record Returned As Is", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewUserService(userRepo)
		existing := &domain.User{ID: 1, Email: "rita@test.com", Name: "Rita", Role: domain.UserRoleRenter}
		userRepo.On("GetByID", ctx, int32(1)).Return(existing, nil)

		user, err := svc.RegisterProfile(ctx, actor, "other@test.com", "Other")
		assert.NoError(t, err)
		assert.Equal(t, existing, user)
		userRepo.AssertNotCalled(t, "Create")
	})
}

func TestUserService_Admin(t *testing.T) {
	ctx := context.Background()
	admin := domain.Actor{UserID: 50, Role: domain.UserRoleAdmin}
	renter := domain.Actor{UserID: 1, Role: domain.UserRoleRenter}

	t.Run("ListUsers Requires Admin", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewUserService(userRepo)
		_, err := svc.ListUsers(ctx, renter)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("ChangeRole Validates Role", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewUserService(userRepo)
		err := svc.ChangeRole(ctx, admin, 1, domain.UserRole("superuser"))
		assert.ErrorIs(t, err, domain.ErrInvalidRole)
	})

	t.Run("ChangeRole Unknown User", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewUserService(userRepo)
		userRepo.On("UpdateRole", ctx, int32(404), domain.UserRoleOwner).Return(sql.ErrNoRows)

		err := svc.ChangeRole(ctx, admin, 404, domain.UserRoleOwner)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("DeleteUser Rejects Self Delete", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewUserService(userRepo)
		err := svc.DeleteUser(ctx, admin, admin.UserID)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
		userRepo.AssertNotCalled(t, "Delete")
	})

	t.Run("DeleteUser Success", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewUserService(userRepo)
		userRepo.On("Delete", ctx, int32(1)).Return(nil)

		assert.NoError(t, svc.DeleteUser(ctx, admin, 1))
	})
}
