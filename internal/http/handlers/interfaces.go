package handlers

import (
	"context"

	"chargeshare/internal/models"
	"chargeshare/internal/service"
)

// AuthService is the registration/login contract consumed by handlers.
type AuthService interface {
	Register(ctx context.Context, input service.RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

// UserService is the self-service profile contract.
type UserService interface {
	Profile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, update service.ProfileUpdate) (*models.User, error)
	AdjustMinutes(ctx context.Context, userID int64, delta int) (*models.User, error)
}

// StationService is the station lifecycle contract.
type StationService interface {
	Create(ctx context.Context, ownerID int64, input service.StationInput) (*models.Station, error)
	List(ctx context.Context) ([]models.Station, error)
	Update(ctx context.Context, ownerID, stationID int64, input service.StationInput) (*models.Station, error)
	Delete(ctx context.Context, ownerID, stationID int64) error
}

// ChargingService is the session state machine contract.
type ChargingService interface {
	Start(ctx context.Context, userID, stationID int64) (*models.ChargingSession, error)
	Stop(ctx context.Context, userID, stationID int64, reportedMinutes int) (*models.ChargingSession, int, error)
	SessionsForUser(ctx context.Context, userID int64, limit int) ([]models.ChargingSession, error)
	ActiveSessions(ctx context.Context, limit int) ([]models.ChargingSession, error)
}

// ReviewService is the review append contract.
type ReviewService interface {
	Append(ctx context.Context, reviewerID, stationID int64, rating int, comment string) (*models.Station, error)
}

// AdminService is the admin panel contract.
type AdminService interface {
	Login(username, password string) (string, error)
	Data(ctx context.Context) (*service.DataDump, error)
	Users(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id int64, patch service.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}
