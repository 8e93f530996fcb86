package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/slothcave/members-portal/internal/models"
)

// AdminUserRepository is the interface that wraps methods for User table data access used by the admin service
type AdminUserRepository interface {
	// Method GetAll retrieves all users ordered by ID.
	//
	// If some error occurs during the query, the error will be returned together with "nil" value.
	GetAll(ctx context.Context) ([]models.User, error)
	// Method SetRole updates only the role field of the user identified by ID.
	//
	// "userID" parameter identifies the user to update.
	// "role" parameter is the new role.
	//
	// If no user with such ID exists, ErrUserNotFound will be returned.
	SetRole(ctx context.Context, userID int, role models.Role) error
}

// adminService implements AdminService
type adminService struct {
	userRepo AdminUserRepository
	logger   *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo AdminUserRepository, logger *zap.Logger) *adminService {
	return &adminService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ListUsers retrieves all users for the admin page
func (s *adminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.GetAll(ctx)
}

// Promote sets the user's role to admin
func (s *adminService) Promote(ctx context.Context, userID int) error {
	return s.setRole(ctx, userID, models.RoleAdmin)
}

// Demote sets the user's role back to user
func (s *adminService) Demote(ctx context.Context, userID int) error {
	return s.setRole(ctx, userID, models.RoleUser)
}

// setRole validates the identifier and updates the role field only.
// Concurrent role changes on the same user are last-write-wins.
func (s *adminService) setRole(ctx context.Context, userID int, role models.Role) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id: %d", userID)
	}

	if err := s.userRepo.SetRole(ctx, userID, role); err != nil {
		return err
	}

	s.logger.Info("user role changed", zap.Int("userID", userID), zap.String("role", string(role)))
	return nil
}
