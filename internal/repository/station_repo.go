package repository

import (
	"context"
	"database/sql"
	"errors"

	"chargeshare/internal/models"
)

// ErrStationNotFound represents missing station rows, including rows the
// caller does not own on owner-scoped mutations.
var ErrStationNotFound = errors.New("station not found")

const stationColumns = `
	s.id, s.owner_id, COALESCE(u.first_name || ' ' || u.last_name, ''),
	s.location, s.latitude, s.longitude, s.power_kw, s.connector_type,
	s.current_type, s.additional_info, s.available, s.visible, s.rating,
	s.created_at, s.updated_at
`

// StationRepository handles CRUD for the stations table.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns a repository instance.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// Create inserts a station owned by station.OwnerID. New stations are
// available, visible and unrated.
func (r *StationRepository) Create(ctx context.Context, station *models.Station) error {
	const query = `
		INSERT INTO stations (owner_id, location, latitude, longitude, power_kw, connector_type, current_type, additional_info)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, available, visible, rating, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		station.OwnerID,
		station.Location,
		station.Latitude,
		station.Longitude,
		station.PowerKW,
		station.ConnectorType,
		station.CurrentType,
		station.AdditionalInfo,
	).Scan(
		&station.ID,
		&station.Available,
		&station.Visible,
		&station.Rating,
		&station.CreatedAt,
		&station.UpdatedAt,
	)
}

// GetByID fetches one station with its owner name joined.
func (r *StationRepository) GetByID(ctx context.Context, id int64) (*models.Station, error) {
	query := `
		SELECT ` + stationColumns + `
		FROM stations s
		LEFT JOIN users u ON u.id = s.owner_id
		WHERE s.id = $1
	`
	return scanStation(r.db.QueryRowContext(ctx, query, id))
}

// ListVisible returns listed stations for the public directory.
func (r *StationRepository) ListVisible(ctx context.Context) ([]models.Station, error) {
	return r.list(ctx, true)
}

// ListAll returns every station, including hidden ones, for the admin
// panel.
func (r *StationRepository) ListAll(ctx context.Context) ([]models.Station, error) {
	return r.list(ctx, false)
}

func (r *StationRepository) list(ctx context.Context, visibleOnly bool) ([]models.Station, error) {
	query := `
		SELECT ` + stationColumns + `
		FROM stations s
		LEFT JOIN users u ON u.id = s.owner_id
	`
	if visibleOnly {
		query += ` WHERE s.visible`
	}
	query += ` ORDER BY s.id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		s, err := scanStationRow(rows)
		if err != nil {
			return nil, err
		}
		stations = append(stations, *s)
	}
	return stations, rows.Err()
}

// UpdateOwned overwrites the owner-editable fields of a station the
// caller owns. Available and rating only move through the charging and
// review flows.
func (r *StationRepository) UpdateOwned(ctx context.Context, station *models.Station) error {
	const query = `
		UPDATE stations
		SET location = $3,
		    latitude = $4,
		    longitude = $5,
		    power_kw = $6,
		    connector_type = $7,
		    current_type = $8,
		    additional_info = $9,
		    visible = $10,
		    updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING available, rating, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		station.ID,
		station.OwnerID,
		station.Location,
		station.Latitude,
		station.Longitude,
		station.PowerKW,
		station.ConnectorType,
		station.CurrentType,
		station.AdditionalInfo,
		station.Visible,
	).Scan(&station.Available, &station.Rating, &station.CreatedAt, &station.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrStationNotFound
	}
	return err
}

// DeleteOwned removes a station the caller owns.
func (r *StationRepository) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	const query = `DELETE FROM stations WHERE id = $1 AND owner_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStationNotFound
	}
	return nil
}

// ClaimForCharging atomically flips a station to unavailable iff it is
// currently available, listed, and not owned by the rider. Reports
// whether the claim won.
func (r *StationRepository) ClaimForCharging(ctx context.Context, stationID, riderID int64) (bool, error) {
	const query = `
		UPDATE stations
		SET available = FALSE,
		    updated_at = NOW()
		WHERE id = $1 AND owner_id <> $2 AND available AND visible
	`
	result, err := r.db.ExecContext(ctx, query, stationID, riderID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Release flips a station back to available.
func (r *StationRepository) Release(ctx context.Context, stationID int64) error {
	const query = `
		UPDATE stations
		SET available = TRUE,
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, stationID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStation(row *sql.Row) (*models.Station, error) {
	s, err := scanStationRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStationNotFound
	}
	return s, err
}

func scanStationRow(row rowScanner) (*models.Station, error) {
	var s models.Station
	if err := row.Scan(
		&s.ID,
		&s.OwnerID,
		&s.OwnerName,
		&s.Location,
		&s.Latitude,
		&s.Longitude,
		&s.PowerKW,
		&s.ConnectorType,
		&s.CurrentType,
		&s.AdditionalInfo,
		&s.Available,
		&s.Visible,
		&s.Rating,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
