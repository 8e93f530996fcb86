package services

import (
	"context"

	"go.uber.org/zap"

	apperrors "github.com/slothcave/members-portal/internal/errors"
	"github.com/slothcave/members-portal/internal/models"
)

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user.
	//
	// If a user with the same name or email already exists, ErrUserExists will be returned.
	// If some other error occurs during user creation, that error will be returned.
	Create(ctx context.Context, user *models.User) error
	// Method ListByName retrieves all users with the given name.
	//
	// "name" parameter is used to retrieve users by name.
	//
	// If some error occurs during the query, the error will be returned together with "nil" value.
	ListByName(ctx context.Context, name string) ([]models.User, error)
	// Method GetByEmail retrieves a user by email.
	//
	// "email" parameter is used to retrieve a user by email.
	//
	// If user with such email does not exist, ErrUserNotFound will be returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// authService implements AuthService
type authService struct {
	userRepo UserRepository
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, logger *zap.Logger) *authService {
	return &authService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// SignUp validates the submitted fields, hashes the password and creates the
// user with the default role
func (s *authService) SignUp(ctx context.Context, name, email, password string) (*models.User, error) {
	if err := validateSignup(name, email, password); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleUser, // Default role
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", zap.Int("userID", user.ID), zap.String("name", user.Name))
	return user, nil
}

// Login authenticates a user by name and password
func (s *authService) Login(ctx context.Context, name, password string) (*models.User, error) {
	if name == "" || password == "" {
		return nil, apperrors.ErrBlankField
	}

	// Only the name format is validated; the password is just matched
	if err := validateLoginName(name); err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListByName(ctx, name)
	if err != nil {
		return nil, err
	}

	// Anything but a single match is treated as an unknown user
	if len(users) != 1 {
		return nil, apperrors.ErrUserNotFound
	}

	user := users[0]
	if !checkPassword(password, user.PasswordHash) {
		return nil, apperrors.ErrWrongPassword
	}

	return &user, nil
}
