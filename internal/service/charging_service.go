package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chargeshare/internal/models"
	redisstore "chargeshare/internal/redis"
	"chargeshare/internal/repository"
)

// ChargingService drives the Available -> Occupied -> Available cycle.
// Each occupied interval is a first-class session record with a hard
// deadline, so a rider that never stops cannot wedge a station forever.
type ChargingService struct {
	users       UserRepository
	stations    StationRepository
	sessions    SessionRepository
	occupancy   OccupancyStore
	broadcaster AvailabilityBroadcaster
	maxDuration time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewChargingService builds ChargingService. occupancy and broadcaster
// may be nil; maxDuration caps both session lifetime and the stop debit.
func NewChargingService(
	users UserRepository,
	stations StationRepository,
	sessions SessionRepository,
	occupancy OccupancyStore,
	broadcaster AvailabilityBroadcaster,
	maxDuration time.Duration,
	logger *zap.Logger,
) *ChargingService {
	if maxDuration <= 0 {
		maxDuration = 4 * time.Hour
	}
	return &ChargingService{
		users:       users,
		stations:    stations,
		sessions:    sessions,
		occupancy:   occupancy,
		broadcaster: broadcaster,
		maxDuration: maxDuration,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Start begins a charging session for rider userID on the given station.
// Preconditions: positive balance, station available and listed, caller
// is not the owner. The claim is a single conditional update, so two
// concurrent starts cannot double-book.
func (s *ChargingService) Start(ctx context.Context, userID, stationID int64) (*models.ChargingSession, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Minutes <= 0 {
		return nil, ErrInsufficientMinutes
	}

	claimed, err := s.stations.ClaimForCharging(ctx, stationID, userID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		if err := s.explainClaimFailure(ctx, stationID, userID); err != nil {
			return nil, err
		}
		// The station was held by an overdue session that has now been
		// reclaimed; try once more.
		claimed, err = s.stations.ClaimForCharging(ctx, stationID, userID)
		if err != nil {
			return nil, err
		}
		if !claimed {
			return nil, ErrStationUnavailable
		}
	}

	now := s.now()
	session := &models.ChargingSession{
		Code:      uuid.NewString(),
		StationID: stationID,
		UserID:    userID,
		Status:    models.SessionStatusActive,
		StartedAt: now,
		Deadline:  now.Add(s.maxDuration),
	}
	if err := s.sessions.Start(ctx, session); err != nil {
		// Roll the claim back so the station is not left wedged by a
		// session that was never recorded.
		if releaseErr := s.stations.Release(ctx, stationID); releaseErr != nil {
			s.logger.Error("failed to release station after start failure",
				zap.Int64("station_id", stationID), zap.Error(releaseErr))
		}
		return nil, err
	}

	s.cacheOccupancy(ctx, session)
	s.broadcast(stationID, false)

	s.logger.Info("charging session started",
		zap.Int64("session_id", session.ID),
		zap.String("code", session.Code),
		zap.Int64("station_id", stationID),
		zap.Int64("user_id", userID),
	)
	return session, nil
}

// Stop ends the caller's active session on the station, debiting the
// reported minute count clamped to the session cap. Returns the
// completed session and the remaining balance.
func (s *ChargingService) Stop(ctx context.Context, userID, stationID int64, reportedMinutes int) (*models.ChargingSession, int, error) {
	if reportedMinutes < 0 {
		return nil, 0, ErrValidation
	}

	session, err := s.sessions.ActiveByStationAndUser(ctx, stationID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, 0, ErrSessionNotFound
		}
		return nil, 0, err
	}

	minutes := reportedMinutes
	if limit := int(s.maxDuration / time.Minute); minutes > limit {
		minutes = limit
	}

	remaining, err := s.users.DebitMinutes(ctx, userID, minutes)
	if err != nil {
		return nil, 0, err
	}

	endedAt := s.now()
	if err := s.sessions.Complete(ctx, session.ID, endedAt, minutes, models.SessionStatusCompleted); err != nil {
		return nil, 0, err
	}
	if err := s.stations.Release(ctx, stationID); err != nil {
		return nil, 0, err
	}

	session.Status = models.SessionStatusCompleted
	session.EndedAt = &endedAt
	session.Minutes = minutes

	s.dropOccupancy(ctx, stationID)
	s.broadcast(stationID, true)

	s.logger.Info("charging session stopped",
		zap.Int64("session_id", session.ID),
		zap.Int64("station_id", stationID),
		zap.Int64("user_id", userID),
		zap.Int("minutes", minutes),
		zap.Int("remaining", remaining),
	)
	return session, remaining, nil
}

// SessionsForUser returns the rider's session history.
func (s *ChargingService) SessionsForUser(ctx context.Context, userID int64, limit int) ([]models.ChargingSession, error) {
	return s.sessions.ListByUser(ctx, userID, limit)
}

// ActiveSessions returns currently running sessions.
func (s *ChargingService) ActiveSessions(ctx context.Context, limit int) ([]models.ChargingSession, error) {
	return s.sessions.ListActive(ctx, limit)
}

// explainClaimFailure turns a failed claim into the precise rejection,
// expiring an overdue occupant along the way. A nil return means an
// overdue session was reclaimed and the claim may be retried.
func (s *ChargingService) explainClaimFailure(ctx context.Context, stationID, userID int64) error {
	station, err := s.stations.GetByID(ctx, stationID)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return ErrStationNotFound
		}
		return err
	}
	if station.OwnerID == userID {
		return ErrOwnStation
	}
	if !station.Visible {
		return ErrStationUnavailable
	}
	if station.Available {
		// Lost a race against another rider between claim and re-read.
		return ErrStationUnavailable
	}

	active, err := s.sessions.ActiveByStation(ctx, stationID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			// Occupied flag with no session behind it; free the station.
			if err := s.stations.Release(ctx, stationID); err != nil {
				return err
			}
			return nil
		}
		return err
	}

	if !active.Overdue(s.now()) {
		return ErrStationUnavailable
	}
	return s.expire(ctx, active)
}

// expire closes an overdue session: full-cap debit, station released.
func (s *ChargingService) expire(ctx context.Context, session *models.ChargingSession) error {
	minutes := int(s.maxDuration / time.Minute)
	if _, err := s.users.DebitMinutes(ctx, session.UserID, minutes); err != nil {
		return err
	}
	if err := s.sessions.Complete(ctx, session.ID, s.now(), minutes, models.SessionStatusExpired); err != nil {
		return err
	}
	if err := s.stations.Release(ctx, session.StationID); err != nil {
		return err
	}

	s.dropOccupancy(ctx, session.StationID)
	s.broadcast(session.StationID, true)

	s.logger.Warn("expired overdue charging session",
		zap.Int64("session_id", session.ID),
		zap.Int64("station_id", session.StationID),
		zap.Int64("user_id", session.UserID),
	)
	return nil
}

func (s *ChargingService) cacheOccupancy(ctx context.Context, session *models.ChargingSession) {
	if s.occupancy == nil {
		return
	}
	err := s.occupancy.Save(ctx, redisstore.Occupancy{
		SessionID: session.ID,
		Code:      session.Code,
		StationID: session.StationID,
		UserID:    session.UserID,
		StartedAt: session.StartedAt,
		Deadline:  session.Deadline,
	})
	if err != nil {
		s.logger.Warn("failed to cache occupancy", zap.Error(err))
	}
}

func (s *ChargingService) dropOccupancy(ctx context.Context, stationID int64) {
	if s.occupancy == nil {
		return
	}
	if err := s.occupancy.Delete(ctx, stationID); err != nil {
		s.logger.Warn("failed to drop occupancy cache", zap.Error(err))
	}
}

func (s *ChargingService) broadcast(stationID int64, available bool) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastAvailability(stationID, available)
	}
}
