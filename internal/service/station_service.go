package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"chargeshare/internal/models"
	"chargeshare/internal/repository"
)

// StationService serves the station lifecycle: create, list, update,
// delete. Mutations are owner-scoped.
type StationService struct {
	stations StationRepository
	reviews  ReviewRepository
	logger   *zap.Logger
}

// NewStationService builds StationService.
func NewStationService(stations StationRepository, reviews ReviewRepository, logger *zap.Logger) *StationService {
	return &StationService{stations: stations, reviews: reviews, logger: logger}
}

// StationInput carries the owner-editable station fields.
type StationInput struct {
	Location       string
	Latitude       float64
	Longitude      float64
	PowerKW        float64
	ConnectorType  string
	CurrentType    string
	AdditionalInfo string
	Visible        *bool
}

func (in *StationInput) validate() error {
	if strings.TrimSpace(in.Location) == "" {
		return fmt.Errorf("%w: location is required", ErrValidation)
	}
	if in.PowerKW <= 0 {
		return fmt.Errorf("%w: power must be positive", ErrValidation)
	}
	if !models.ValidConnectorType(in.ConnectorType) {
		return fmt.Errorf("%w: unknown connector type %q", ErrValidation, in.ConnectorType)
	}
	if !models.ValidCurrentType(in.CurrentType) {
		return fmt.Errorf("%w: unknown current type %q", ErrValidation, in.CurrentType)
	}
	if in.Latitude < -90 || in.Latitude > 90 || in.Longitude < -180 || in.Longitude > 180 {
		return fmt.Errorf("%w: coordinates out of range", ErrValidation)
	}
	return nil
}

// Create lists a new station owned by ownerID. New stations come up
// available, visible and unrated.
func (s *StationService) Create(ctx context.Context, ownerID int64, input StationInput) (*models.Station, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	station := &models.Station{
		OwnerID:        ownerID,
		Location:       strings.TrimSpace(input.Location),
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		PowerKW:        input.PowerKW,
		ConnectorType:  input.ConnectorType,
		CurrentType:    input.CurrentType,
		AdditionalInfo: input.AdditionalInfo,
	}

	if err := s.stations.Create(ctx, station); err != nil {
		return nil, err
	}
	station.Reviews = []models.Review{}

	s.logger.Info("station created",
		zap.Int64("station_id", station.ID),
		zap.Int64("owner_id", ownerID),
	)
	return station, nil
}

// List returns all listed stations with owner names and reviews
// expanded.
func (s *StationService) List(ctx context.Context) ([]models.Station, error) {
	stations, err := s.stations.ListVisible(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.attachReviews(ctx, stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// Get returns one station with its reviews.
func (s *StationService) Get(ctx context.Context, id int64) (*models.Station, error) {
	station, err := s.stations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	reviews, err := s.reviews.ListByStation(ctx, id)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	station.Reviews = reviews
	return station, nil
}

// Update overwrites the allowlisted fields of a station the caller owns.
// Availability and rating are not owner-editable.
func (s *StationService) Update(ctx context.Context, ownerID, stationID int64, input StationInput) (*models.Station, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	visible := true
	if input.Visible != nil {
		visible = *input.Visible
	}

	station := &models.Station{
		ID:             stationID,
		OwnerID:        ownerID,
		Location:       strings.TrimSpace(input.Location),
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		PowerKW:        input.PowerKW,
		ConnectorType:  input.ConnectorType,
		CurrentType:    input.CurrentType,
		AdditionalInfo: input.AdditionalInfo,
		Visible:        visible,
	}

	if err := s.stations.UpdateOwned(ctx, station); err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return s.Get(ctx, stationID)
}

// Delete removes a station the caller owns.
func (s *StationService) Delete(ctx context.Context, ownerID, stationID int64) error {
	if err := s.stations.DeleteOwned(ctx, stationID, ownerID); err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return ErrStationNotFound
		}
		return err
	}
	s.logger.Info("station deleted",
		zap.Int64("station_id", stationID),
		zap.Int64("owner_id", ownerID),
	)
	return nil
}

func (s *StationService) attachReviews(ctx context.Context, stations []models.Station) error {
	ids := make([]int64, 0, len(stations))
	for _, st := range stations {
		ids = append(ids, st.ID)
	}
	byStation, err := s.reviews.MapByStations(ctx, ids)
	if err != nil {
		return err
	}
	for i := range stations {
		reviews := byStation[stations[i].ID]
		if reviews == nil {
			reviews = []models.Review{}
		}
		stations[i].Reviews = reviews
	}
	return nil
}
