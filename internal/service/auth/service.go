package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/security"
	"github.com/jwalitptl/clinic-records/pkg/validator"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type Service struct {
	userRepo repository.UserRepository
	hasher   security.PasswordHasher
}

func NewService(userRepo repository.UserRepository, hasher security.PasswordHasher) *Service {
	return &Service{userRepo: userRepo, hasher: hasher}
}

// Login checks the credentials. Unknown users, inactive users and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*model.User, error) {
	username = validator.Trim(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.Active {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// CurrentUser resolves the user id stored in a session. It returns nil for
// anonymous sessions and for users that were removed or deactivated.
func (s *Service) CurrentUser(ctx context.Context, id int64) (*model.User, error) {
	if id == 0 {
		return nil, nil
	}
	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if !user.Active {
		return nil, nil
	}
	return user, nil
}

// CreateUser adds an active account. An existing username yields a conflict.
func (s *Service) CreateUser(ctx context.Context, username, password string, role model.Role) (*model.User, error) {
	username = validator.Trim(username)
	if username == "" {
		return nil, apperrors.NewValidation("Username is required")
	}
	if !role.Valid() {
		return nil, apperrors.NewValidation(fmt.Sprintf("Unknown role %q", role))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			return nil, apperrors.NewValidation(
				fmt.Sprintf("Password must be at least %d characters", security.MinPasswordLen))
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
