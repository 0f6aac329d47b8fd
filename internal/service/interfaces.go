package service

import (
	"context"
	"time"

	"chargeshare/internal/models"
	redisstore "chargeshare/internal/redis"
)

// UserRepository defines the user storage contract used by services.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	AdjustMinutes(ctx context.Context, id int64, delta int) (int, error)
	DebitMinutes(ctx context.Context, id int64, minutes int) (int, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id int64) error
}

// StationRepository defines the station storage contract.
type StationRepository interface {
	Create(ctx context.Context, station *models.Station) error
	GetByID(ctx context.Context, id int64) (*models.Station, error)
	ListVisible(ctx context.Context) ([]models.Station, error)
	ListAll(ctx context.Context) ([]models.Station, error)
	UpdateOwned(ctx context.Context, station *models.Station) error
	DeleteOwned(ctx context.Context, id, ownerID int64) error
	ClaimForCharging(ctx context.Context, stationID, riderID int64) (bool, error)
	Release(ctx context.Context, stationID int64) error
}

// ReviewRepository defines the review storage contract.
type ReviewRepository interface {
	Append(ctx context.Context, review *models.Review) (float64, error)
	ListByStation(ctx context.Context, stationID int64) ([]models.Review, error)
	MapByStations(ctx context.Context, stationIDs []int64) (map[int64][]models.Review, error)
}

// SessionRepository defines the charging session storage contract.
type SessionRepository interface {
	Start(ctx context.Context, session *models.ChargingSession) error
	ActiveByStation(ctx context.Context, stationID int64) (*models.ChargingSession, error)
	ActiveByStationAndUser(ctx context.Context, stationID, userID int64) (*models.ChargingSession, error)
	Complete(ctx context.Context, id int64, endedAt time.Time, minutes int, status string) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.ChargingSession, error)
	ListActive(ctx context.Context, limit int) ([]models.ChargingSession, error)
}

// OccupancyStore caches which session occupies a station.
type OccupancyStore interface {
	Save(ctx context.Context, occ redisstore.Occupancy) error
	Delete(ctx context.Context, stationID int64) error
}

// AvailabilityBroadcaster pushes availability changes to live clients.
type AvailabilityBroadcaster interface {
	BroadcastAvailability(stationID int64, available bool)
}
