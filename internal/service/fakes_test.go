package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"chargeshare/internal/models"
	redisstore "chargeshare/internal/redis"
	"chargeshare/internal/repository"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User

	createErr error
	debitErr  error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[int64]*models.User{}}
}

func (f *fakeUserRepo) add(user models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == 0 {
		user.ID = f.nextID
		f.nextID++
	} else if user.ID >= f.nextID {
		f.nextID = user.ID + 1
	}
	stored := user
	f.users[stored.ID] = &stored
	return &stored
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.users[stored.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	stored := *user
	f.users[stored.ID] = &stored
	return nil
}

func (f *fakeUserRepo) AdjustMinutes(_ context.Context, id int64, delta int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return 0, repository.ErrUserNotFound
	}
	u.Minutes += delta
	if u.Minutes < 0 {
		u.Minutes = 0
	}
	return u.Minutes, nil
}

func (f *fakeUserRepo) DebitMinutes(ctx context.Context, id int64, minutes int) (int, error) {
	if f.debitErr != nil {
		return 0, f.debitErr
	}
	return f.AdjustMinutes(ctx, id, -minutes)
}

func (f *fakeUserRepo) List(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeStationRepo struct {
	mu       sync.Mutex
	nextID   int64
	stations map[int64]*models.Station

	claimErr error
}

func newFakeStationRepo() *fakeStationRepo {
	return &fakeStationRepo{nextID: 1, stations: map[int64]*models.Station{}}
}

func (f *fakeStationRepo) add(station models.Station) *models.Station {
	f.mu.Lock()
	defer f.mu.Unlock()
	if station.ID == 0 {
		station.ID = f.nextID
		f.nextID++
	} else if station.ID >= f.nextID {
		f.nextID = station.ID + 1
	}
	stored := station
	f.stations[stored.ID] = &stored
	return &stored
}

func (f *fakeStationRepo) Create(_ context.Context, station *models.Station) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	station.ID = f.nextID
	f.nextID++
	station.Available = true
	station.Visible = true
	stored := *station
	f.stations[stored.ID] = &stored
	return nil
}

func (f *fakeStationRepo) GetByID(_ context.Context, id int64) (*models.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.stations[id]
	if !ok {
		return nil, repository.ErrStationNotFound
	}
	copied := *st
	return &copied, nil
}

func (f *fakeStationRepo) ListVisible(_ context.Context) ([]models.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Station{}
	for _, st := range f.stations {
		if st.Visible {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (f *fakeStationRepo) ListAll(_ context.Context) ([]models.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Station{}
	for _, st := range f.stations {
		out = append(out, *st)
	}
	return out, nil
}

func (f *fakeStationRepo) UpdateOwned(_ context.Context, station *models.Station) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.stations[station.ID]
	if !ok || st.OwnerID != station.OwnerID {
		return repository.ErrStationNotFound
	}
	st.Location = station.Location
	st.Latitude = station.Latitude
	st.Longitude = station.Longitude
	st.PowerKW = station.PowerKW
	st.ConnectorType = station.ConnectorType
	st.CurrentType = station.CurrentType
	st.AdditionalInfo = station.AdditionalInfo
	st.Visible = station.Visible
	return nil
}

func (f *fakeStationRepo) DeleteOwned(_ context.Context, id, ownerID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.stations[id]
	if !ok || st.OwnerID != ownerID {
		return repository.ErrStationNotFound
	}
	delete(f.stations, id)
	return nil
}

func (f *fakeStationRepo) ClaimForCharging(_ context.Context, stationID, riderID int64) (bool, error) {
	if f.claimErr != nil {
		return false, f.claimErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.stations[stationID]
	if !ok {
		return false, nil
	}
	if st.OwnerID == riderID || !st.Available || !st.Visible {
		return false, nil
	}
	st.Available = false
	return true, nil
}

func (f *fakeStationRepo) Release(_ context.Context, stationID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.stations[stationID]; ok {
		st.Available = true
	}
	return nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	nextID  int64
	reviews []models.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{nextID: 1}
}

func (f *fakeReviewRepo) Append(_ context.Context, review *models.Review) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	review.ID = f.nextID
	f.nextID++
	review.CreatedAt = time.Now()
	f.reviews = append(f.reviews, *review)

	var sum, count float64
	for _, r := range f.reviews {
		if r.StationID == review.StationID {
			sum += float64(r.Rating)
			count++
		}
	}
	return sum / count, nil
}

func (f *fakeReviewRepo) ListByStation(_ context.Context, stationID int64) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Review{}
	for _, r := range f.reviews {
		if r.StationID == stationID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) MapByStations(_ context.Context, stationIDs []int64) (map[int64][]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := map[int64]bool{}
	for _, id := range stationIDs {
		wanted[id] = true
	}
	out := map[int64][]models.Review{}
	for _, r := range f.reviews {
		if wanted[r.StationID] {
			out[r.StationID] = append(out[r.StationID], r)
		}
	}
	return out, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	nextID   int64
	sessions []*models.ChargingSession

	startErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{nextID: 1}
}

func (f *fakeSessionRepo) Start(_ context.Context, session *models.ChargingSession) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	session.ID = f.nextID
	f.nextID++
	stored := *session
	f.sessions = append(f.sessions, &stored)
	return nil
}

func (f *fakeSessionRepo) ActiveByStation(_ context.Context, stationID int64) (*models.ChargingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.StationID == stationID && s.Status == models.SessionStatusActive {
			copied := *s
			return &copied, nil
		}
	}
	return nil, repository.ErrSessionNotFound
}

func (f *fakeSessionRepo) ActiveByStationAndUser(_ context.Context, stationID, userID int64) (*models.ChargingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.StationID == stationID && s.UserID == userID && s.Status == models.SessionStatusActive {
			copied := *s
			return &copied, nil
		}
	}
	return nil, repository.ErrSessionNotFound
}

func (f *fakeSessionRepo) Complete(_ context.Context, id int64, endedAt time.Time, minutes int, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.ID == id && s.Status == models.SessionStatusActive {
			s.Status = status
			s.EndedAt = &endedAt
			s.Minutes = minutes
			return nil
		}
	}
	return repository.ErrSessionNotFound
}

func (f *fakeSessionRepo) ListByUser(_ context.Context, userID int64, limit int) ([]models.ChargingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ChargingSession{}
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) ListActive(_ context.Context, limit int) ([]models.ChargingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ChargingSession{}
	for _, s := range f.sessions {
		if s.Status == models.SessionStatusActive {
			out = append(out, *s)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) byID(id int64) *models.ChargingSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.ID == id {
			copied := *s
			return &copied
		}
	}
	return nil
}

type fakeOccupancyStore struct {
	mu      sync.Mutex
	saved   map[int64]redisstore.Occupancy
	deleted []int64
}

func newFakeOccupancyStore() *fakeOccupancyStore {
	return &fakeOccupancyStore{saved: map[int64]redisstore.Occupancy{}}
}

func (f *fakeOccupancyStore) Save(_ context.Context, occ redisstore.Occupancy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[occ.StationID] = occ
	return nil
}

func (f *fakeOccupancyStore) Delete(_ context.Context, stationID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, stationID)
	f.deleted = append(f.deleted, stationID)
	return nil
}

type availabilityEvent struct {
	stationID int64
	available bool
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []availabilityEvent
}

func (f *fakeBroadcaster) BroadcastAvailability(stationID int64, available bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, availabilityEvent{stationID: stationID, available: available})
}

func (f *fakeBroadcaster) all() []availabilityEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]availabilityEvent, len(f.events))
	copy(out, f.events)
	return out
}
