package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"chargeshare/internal/models"
	"chargeshare/internal/password"
	"chargeshare/internal/repository"
)

// AuthService contains registration and login logic.
type AuthService struct {
	repo            UserRepository
	hasher          password.Hasher
	tokens          *TokenService
	startingMinutes int
	logger          *zap.Logger
}

// NewAuthService builds AuthService. startingMinutes is the free balance
// granted at registration.
func NewAuthService(repo UserRepository, hasher password.Hasher, tokens *TokenService, startingMinutes int, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:            repo,
		hasher:          hasher,
		tokens:          tokens,
		startingMinutes: startingMinutes,
		logger:          logger,
	}
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register creates a user with the starting minute grant and returns the
// profile plus a signed token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.FirstName == "" || input.LastName == "" {
		return nil, "", fmt.Errorf("%w: first and last name are required", ErrValidation)
	}
	if input.Email == "" || input.Password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	if _, err := s.repo.GetByEmail(ctx, input.Email); err == nil {
		return nil, "", ErrEmailInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		Minutes:      s.startingMinutes,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateUserToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
		zap.Int("starting_minutes", user.Minutes),
	)
	return user, token, nil
}

// Login authenticates a user and produces a token. Missing accounts and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, plain string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plain == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := s.hasher.Compare(user.PasswordHash, plain); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateUserToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}
