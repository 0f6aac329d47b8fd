package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"chargeshare/internal/models"
)

// ErrSessionNotFound indicates no matching charging session.
var ErrSessionNotFound = errors.New("charging session not found")

const sessionColumns = `
	id, code, station_id, user_id, status, started_at, deadline, ended_at,
	minutes, created_at, updated_at
`

// SessionRepository handles persistence of charging sessions.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository returns a repository instance.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Start inserts a new active session.
func (r *SessionRepository) Start(ctx context.Context, session *models.ChargingSession) error {
	const query = `
		INSERT INTO charging_sessions (code, station_id, user_id, status, started_at, deadline)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		session.Code,
		session.StationID,
		session.UserID,
		session.Status,
		session.StartedAt,
		session.Deadline,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
}

// ActiveByStation returns the active session occupying a station.
func (r *SessionRepository) ActiveByStation(ctx context.Context, stationID int64) (*models.ChargingSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM charging_sessions
		WHERE station_id = $1 AND status = 'active'
		ORDER BY started_at DESC
		LIMIT 1
	`
	return scanSession(r.db.QueryRowContext(ctx, query, stationID))
}

// ActiveByStationAndUser returns the caller's active session on a
// station.
func (r *SessionRepository) ActiveByStationAndUser(ctx context.Context, stationID, userID int64) (*models.ChargingSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM charging_sessions
		WHERE station_id = $1 AND user_id = $2 AND status = 'active'
		ORDER BY started_at DESC
		LIMIT 1
	`
	return scanSession(r.db.QueryRowContext(ctx, query, stationID, userID))
}

// Complete finalizes an active session with its end time, charged
// minutes and terminal status.
func (r *SessionRepository) Complete(ctx context.Context, id int64, endedAt time.Time, minutes int, status string) error {
	const query = `
		UPDATE charging_sessions
		SET status = $2,
		    ended_at = $3,
		    minutes = $4,
		    updated_at = NOW()
		WHERE id = $1 AND status = 'active'
	`
	result, err := r.db.ExecContext(ctx, query, id, status, endedAt, minutes)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListByUser returns the user's most recent sessions.
func (r *SessionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.ChargingSession, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + sessionColumns + `
		FROM charging_sessions
		WHERE user_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSessions(rows)
}

// ListActive returns currently running sessions.
func (r *SessionRepository) ListActive(ctx context.Context, limit int) ([]models.ChargingSession, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + sessionColumns + `
		FROM charging_sessions
		WHERE status = 'active'
		ORDER BY started_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSessions(rows)
}

func scanSession(row *sql.Row) (*models.ChargingSession, error) {
	var s models.ChargingSession
	var endedAt sql.NullTime
	if err := row.Scan(
		&s.ID,
		&s.Code,
		&s.StationID,
		&s.UserID,
		&s.Status,
		&s.StartedAt,
		&s.Deadline,
		&endedAt,
		&s.Minutes,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if endedAt.Valid {
		s.EndedAt = &endedAt.Time
	}
	return &s, nil
}

func collectSessions(rows *sql.Rows) ([]models.ChargingSession, error) {
	var sessions []models.ChargingSession
	for rows.Next() {
		var s models.ChargingSession
		var endedAt sql.NullTime
		if err := rows.Scan(
			&s.ID,
			&s.Code,
			&s.StationID,
			&s.UserID,
			&s.Status,
			&s.StartedAt,
			&s.Deadline,
			&endedAt,
			&s.Minutes,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if endedAt.Valid {
			s.EndedAt = &endedAt.Time
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
