package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"go.uber.org/zap"

	"chargeshare/internal/models"
	"chargeshare/internal/password"
	"chargeshare/internal/repository"
)

// AdminService backs the admin panel: static-credential login, full data
// dump and privileged user edits.
type AdminService struct {
	users    UserRepository
	stations StationRepository
	reviews  ReviewRepository
	hasher   password.Hasher
	tokens   *TokenService
	username string
	password string
	logger   *zap.Logger
}

// NewAdminService builds AdminService with the configured static
// credentials.
func NewAdminService(
	users UserRepository,
	stations StationRepository,
	reviews ReviewRepository,
	hasher password.Hasher,
	tokens *TokenService,
	username, adminPassword string,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		users:    users,
		stations: stations,
		reviews:  reviews,
		hasher:   hasher,
		tokens:   tokens,
		username: username,
		password: adminPassword,
		logger:   logger,
	}
}

// Login checks the static credentials and issues an admin-scoped token.
func (s *AdminService) Login(username, plain string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(plain), []byte(s.password)) == 1
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAdminToken()
	if err != nil {
		return "", err
	}
	s.logger.Info("admin logged in")
	return token, nil
}

// DataDump aggregates all users and all stations (hidden ones included)
// for the admin panel.
type DataDump struct {
	Users    []models.User    `json:"users"`
	Stations []models.Station `json:"stations"`
}

// Data returns every user and station.
func (s *AdminService) Data(ctx context.Context) (*DataDump, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	stations, err := s.stations.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(stations))
	for _, st := range stations {
		ids = append(ids, st.ID)
	}
	byStation, err := s.reviews.MapByStations(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range stations {
		reviews := byStation[stations[i].ID]
		if reviews == nil {
			reviews = []models.Review{}
		}
		stations[i].Reviews = reviews
	}

	if users == nil {
		users = []models.User{}
	}
	if stations == nil {
		stations = []models.Station{}
	}
	return &DataDump{Users: users, Stations: stations}, nil
}

// Users returns all user records.
func (s *AdminService) Users(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// UserPatch carries admin overrides; nil fields are left untouched.
// Minutes is set absolutely, not as a delta.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	Minutes   *int
}

// UpdateUser applies admin overrides to a user record.
func (s *AdminService) UpdateUser(ctx context.Context, id int64, patch UserPatch) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if patch.FirstName != nil && *patch.FirstName != "" {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil && *patch.LastName != "" {
		user.LastName = *patch.LastName
	}
	if patch.Email != nil && *patch.Email != "" {
		user.Email = *patch.Email
	}
	if patch.Password != nil && *patch.Password != "" {
		hash, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if patch.Minutes != nil {
		minutes := *patch.Minutes
		if minutes < 0 {
			minutes = 0
		}
		user.Minutes = minutes
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.logger.Info("admin updated user", zap.Int64("user_id", id))
	return user, nil
}

// DeleteUser removes a user; their stations and sessions cascade at the
// database level.
func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.logger.Info("admin deleted user", zap.Int64("user_id", id))
	return nil
}
