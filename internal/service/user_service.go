package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"chargeshare/internal/models"
	"chargeshare/internal/password"
	"chargeshare/internal/repository"
)

// UserService serves self-service profile operations.
type UserService struct {
	repo   UserRepository
	hasher password.Hasher
	logger *zap.Logger
}

// NewUserService builds UserService.
func NewUserService(repo UserRepository, hasher password.Hasher, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, logger: logger}
}

// Profile returns the caller's own record.
func (s *UserService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// ProfileUpdate carries optional profile changes; nil fields are left
// untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
}

// UpdateProfile applies the given changes to the caller's record. Email
// changes are checked for uniqueness; a new password is rehashed.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if update.FirstName != nil && *update.FirstName != "" {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil && *update.LastName != "" {
		user.LastName = *update.LastName
	}
	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if email != "" && email != user.Email {
			if _, err := s.repo.GetByEmail(ctx, email); err == nil {
				return nil, ErrEmailInUse
			} else if !errors.Is(err, repository.ErrUserNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if update.Password != nil && *update.Password != "" {
		hash, err := s.hasher.Hash(*update.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.logger.Info("profile updated", zap.Int64("user_id", user.ID))
	return user, nil
}

// AdjustMinutes applies a positive or negative delta to the caller's
// balance, floored at 0, and returns the refreshed profile.
func (s *UserService) AdjustMinutes(ctx context.Context, userID int64, delta int) (*models.User, error) {
	if _, err := s.repo.AdjustMinutes(ctx, userID, delta); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.Profile(ctx, userID)
}
