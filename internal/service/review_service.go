package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"chargeshare/internal/models"
	"chargeshare/internal/repository"
)

// ReviewService appends reviews and keeps the station's mean rating
// consistent. Reviews are never edited or removed.
type ReviewService struct {
	stations StationRepository
	reviews  ReviewRepository
	logger   *zap.Logger
}

// NewReviewService builds ReviewService.
func NewReviewService(stations StationRepository, reviews ReviewRepository, logger *zap.Logger) *ReviewService {
	return &ReviewService{stations: stations, reviews: reviews, logger: logger}
}

// Append adds a review from a non-owner and returns the station with its
// refreshed rating and review list.
func (s *ReviewService) Append(ctx context.Context, reviewerID, stationID int64, rating int, comment string) (*models.Station, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	station, err := s.stations.GetByID(ctx, stationID)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	if station.OwnerID == reviewerID {
		return nil, ErrOwnStation
	}

	review := &models.Review{
		StationID:  stationID,
		ReviewerID: reviewerID,
		Rating:     rating,
		Comment:    comment,
	}
	newRating, err := s.reviews.Append(ctx, review)
	if err != nil {
		return nil, err
	}
	station.Rating = newRating

	reviews, err := s.reviews.ListByStation(ctx, stationID)
	if err != nil {
		return nil, err
	}
	station.Reviews = reviews

	s.logger.Info("review appended",
		zap.Int64("station_id", stationID),
		zap.Int64("reviewer_id", reviewerID),
		zap.Int("rating", rating),
		zap.Float64("station_rating", newRating),
	)
	return station, nil
}
