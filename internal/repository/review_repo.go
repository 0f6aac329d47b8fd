package repository

import (
	"context"
	"database/sql"
	"fmt"

	"chargeshare/internal/models"
)

// ReviewRepository persists station reviews and keeps the station's mean
// rating in step with them.
type ReviewRepository struct {
	db *sql.DB
}

// NewReviewRepository returns a repository instance.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Append inserts a review and recomputes the station's rating as the
// arithmetic mean over all of its reviews, in one transaction. Returns
// the new rating.
func (r *ReviewRepository) Append(ctx context.Context, review *models.Review) (float64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	const insert = `
		INSERT INTO station_reviews (station_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := tx.QueryRowContext(ctx, insert,
		review.StationID,
		review.ReviewerID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt); err != nil {
		return 0, fmt.Errorf("insert review: %w", err)
	}

	const recompute = `
		UPDATE stations
		SET rating = (
			SELECT COALESCE(AVG(rating)::double precision, 0)
			FROM station_reviews
			WHERE station_id = $1
		),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING rating
	`
	var rating float64
	if err := tx.QueryRowContext(ctx, recompute, review.StationID).Scan(&rating); err != nil {
		return 0, fmt.Errorf("recompute rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return rating, nil
}

// ListByStation returns a station's reviews, oldest first, with reviewer
// names joined (empty for deleted accounts).
func (r *ReviewRepository) ListByStation(ctx context.Context, stationID int64) ([]models.Review, error) {
	const query = `
		SELECT rv.id, rv.station_id, COALESCE(rv.user_id, 0),
		       COALESCE(u.first_name || ' ' || u.last_name, ''),
		       rv.rating, rv.comment, rv.created_at
		FROM station_reviews rv
		LEFT JOIN users u ON u.id = rv.user_id
		WHERE rv.station_id = $1
		ORDER BY rv.created_at, rv.id
	`
	rows, err := r.db.QueryContext(ctx, query, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReviews(rows)
}

// MapByStations returns reviews for a set of stations keyed by station
// id, used when expanding the public listing.
func (r *ReviewRepository) MapByStations(ctx context.Context, stationIDs []int64) (map[int64][]models.Review, error) {
	if len(stationIDs) == 0 {
		return map[int64][]models.Review{}, nil
	}
	const query = `
		SELECT rv.id, rv.station_id, COALESCE(rv.user_id, 0),
		       COALESCE(u.first_name || ' ' || u.last_name, ''),
		       rv.rating, rv.comment, rv.created_at
		FROM station_reviews rv
		LEFT JOIN users u ON u.id = rv.user_id
		WHERE rv.station_id = ANY($1)
		ORDER BY rv.created_at, rv.id
	`
	rows, err := r.db.QueryContext(ctx, query, stationIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews, err := collectReviews(rows)
	if err != nil {
		return nil, err
	}

	byStation := make(map[int64][]models.Review, len(stationIDs))
	for _, rv := range reviews {
		byStation[rv.StationID] = append(byStation[rv.StationID], rv)
	}
	return byStation, nil
}

func collectReviews(rows *sql.Rows) ([]models.Review, error) {
	var reviews []models.Review
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.StationID,
			&rv.ReviewerID,
			&rv.ReviewerName,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
