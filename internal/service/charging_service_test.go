package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chargeshare/internal/models"
)

type chargingFixture struct {
	users     *fakeUserRepo
	stations  *fakeStationRepo
	sessions  *fakeSessionRepo
	occupancy *fakeOccupancyStore
	feed      *fakeBroadcaster
	svc       *ChargingService

	owner *models.User
	rider *models.User
}

func newChargingFixture(t *testing.T, maxDuration time.Duration) *chargingFixture {
	t.Helper()

	f := &chargingFixture{
		users:     newFakeUserRepo(),
		stations:  newFakeStationRepo(),
		sessions:  newFakeSessionRepo(),
		occupancy: newFakeOccupancyStore(),
		feed:      &fakeBroadcaster{},
	}
	f.owner = f.users.add(models.User{FirstName: "Olga", LastName: "Owner", Email: "owner@example.com", Minutes: 60})
	f.rider = f.users.add(models.User{FirstName: "Rita", LastName: "Rider", Email: "rider@example.com", Minutes: 60})
	f.svc = NewChargingService(f.users, f.stations, f.sessions, f.occupancy, f.feed, maxDuration, zap.NewNop())
	return f
}

func (f *chargingFixture) addStation(mutate func(*models.Station)) *models.Station {
	station := models.Station{
		OwnerID:       f.owner.ID,
		Location:      "Via Roma 1, Torino",
		PowerKW:       7.4,
		ConnectorType: models.ConnectorType2,
		CurrentType:   models.CurrentACMono,
		Available:     true,
		Visible:       true,
	}
	if mutate != nil {
		mutate(&station)
	}
	return f.stations.add(station)
}

func TestChargingStartOccupiesStation(t *testing.T) {
	f := newChargingFixture(t, 4*time.Hour)
	station := f.addStation(nil)

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return started }

	session, err := f.svc.Start(context.Background(), f.rider.ID, station.ID)
	require.NoError(t, err)

	assert.Equal(t, models.SessionStatusActive, session.Status)
	assert.Equal(t, station.ID, session.StationID)
	assert.Equal(t, f.rider.ID, session.UserID)
	assert.NotEmpty(t, session.Code)
	assert.Equal(t, started, session.StartedAt)
	assert.Equal(t, started.Add(4*time.Hour), session.Deadline)

	got, err := f.stations.GetByID(context.Background(), station.ID)
	require.NoError(t, err)
	assert.False(t, got.Available)

	require.Len(t, f.feed.all(), 1)
	assert.Equal(t, availabilityEvent{stationID: station.ID, available: false}, f.feed.all()[0])

	_, cached := f.occupancy.saved[station.ID]
	assert.True(t, cached)
}

func TestChargingStartRejectsOwner(t *testing.T) {
	f := newChargingFixture(t, 4*time.Hour)
	station := f.addStation(nil)

	_, err := f.svc.Start(context.Background(), f.owner.ID, station.ID)
	assert.ErrorIs(t, err, ErrOwnStation)

	got, _ := f.stations.GetByID(context.Background(), station.ID)
	assert.True(t, got.Available)
}

func TestChargingStartRejectsEmptyBalance(t *testing.T) {
	f := newChargingFixture(t, 4*time.Hour)
	station := f.addStation(nil)
	broke := f.users.add(models.User{Email: "broke@example.com", Minutes: 0})

	_, err := f.svc.Start(context.Background(), broke.ID, station.ID)
	assert.ErrorIs(t, err, ErrInsufficientMinutes)
}

func TestChargingStartRejectsOccupiedStation(t *testing.T) {
	f := newChargingFixture(t, 4*time.Hour)
	station := f.addStation(nil)
	other := f.users.add(models.User{Email: "other@example.com", Minutes: 60})

	_, err := f.svc.Start(context.Background(), f.rider.ID, station.ID)
	require.NoError(t, err)

	_, err = f.svc.Start(context.Background(), other.ID, station.ID)
	assert.ErrorIs(t, err, ErrStationUnavailable)
}

func TestChargingStartRejectsHiddenStation(t *testing.T) {
	f := newChargingFixture(t, 4*time.Hour)
	station := f.addStation(func(st *models.Station) { st.Visible = false })

	_, err := f.svc.Start(context.Background(), f.rider.ID, station.ID)
	assert.ErrorIs(t, err, ErrStationUnavailable)
}

func TestChargingStartRejectsUnknownStation(t *testing.T) {
	f := newChargingFixture(t, 4*time.Hour)

	_, err := f.svc.Start(context.Background(), f.rider.ID, 999)
	assert.ErrorIs(t, err, ErrStationNotFound)
}

func TestChargingStartReclaimsOverdueSession(t *testing.T) {
	f := newChargingFixture(t, 2*time.Hour)
	station := f.addStation(nil)
	other := f.users.add(models.User{Email: "other@example.com", Minutes: 200})

	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return start }

	stale, err := f.svc.Start(context.Background(), other.ID, station.ID)
	require.NoError(t, err)

	// Three hours later the two-hour deadline has passed; a new rider
	// takes the station over.
	later := start.Add(3 * time.Hour)
	f.svc.now = func() time.Time { return later }

	session, err := f.svc.Start(context.Background(), f.rider.ID, station.ID)
	require.NoError(t, err)
	assert.Equal(t, f.rider.ID, session.UserID)

	expired := f.sessions.byID(stale.ID)
	require.NotNil(t, expired)
	assert.Equal(t, models.SessionStatusExpired, expired.Status)
	assert.Equal(t, 120, expired.Minutes)

	// The stale occupant is debited the full session cap.
	occupant, err := f.users.GetByID(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, occupant.Minutes)
}

func TestChargingStartReleasesClaimOnInsertFailure(t *testing.T) {
	f := newChargingFixture(t, 4*time.Hour)
	station := f.addStation(nil)
	f.sessions.startErr = errors.New("insert failed")

	_, err := f.svc.Start(context.Background(), f.rider.ID, station.ID)
	require.Error(t, err)

	got, _ := f.stations.GetByID(context.Background(), station.ID)
	assert.True(t, got.Available)
}

func TestChargingStopDebitsAndReleases(t *testing.T) {
	f := newChargingFixture(t, 4*time.Hour)
	station := f.addStation(nil)

	_, err := f.svc.Start(context.Background(), f.rider.ID, station.ID)
	require.NoError(t, err)

	session, remaining, err := f.svc.Stop(context.Background(), f.rider.ID, station.ID, 10)
	require.NoError(t, err)

	assert.Equal(t, models.SessionStatusCompleted, session.Status)
	assert.Equal(t, 10, session.Minutes)
	require.NotNil(t, session.EndedAt)
	assert.Equal(t, 50, remaining)

	got, _ := f.stations.GetByID(context.Background(), station.ID)
	assert.True(t, got.Available)

	events := f.feed.all()
	require.Len(t, events, 2)
	assert.Equal(t, availabilityEvent{stationID: station.ID, available: true}, events[1])

	_, cached := f.occupancy.saved[station.ID]
	assert.False(t, cached)
}

func TestChargingStopClampsToSessionCap(t *testing.T) {
	f := newChargingFixture(t, 2*time.Hour)
	station := f.addStation(nil)
	rich := f.users.add(models.User{Email: "rich@example.com", Minutes: 1000})

	_, err := f.svc.Start(context.Background(), rich.ID, station.ID)
	require.NoError(t, err)

	session, remaining, err := f.svc.Stop(context.Background(), rich.ID, station.ID, 10000)
	require.NoError(t, err)
	assert.Equal(t, 120, session.Minutes)
	assert.Equal(t, 880, remaining)
}

func TestChargingStopFloorsBalanceAtZero(t *testing.T) {
	f := newChargingFixture(t, 4*time.Hour)
	station := f.addStation(nil)
	low := f.users.add(models.User{Email: "low@example.com", Minutes: 10})

	_, err := f.svc.Start(context.Background(), low.ID, station.ID)
	require.NoError(t, err)

	_, remaining, err := f.svc.Stop(context.Background(), low.ID, station.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestChargingStopWithoutActiveSession(t *testing.T) {
	f := newChargingFixture(t, 4*time.Hour)
	station := f.addStation(nil)

	_, _, err := f.svc.Stop(context.Background(), f.rider.ID, station.ID, 10)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestChargingStopRejectsNegativeMinutes(t *testing.T) {
	f := newChargingFixture(t, 4*time.Hour)
	station := f.addStation(nil)

	_, _, err := f.svc.Stop(context.Background(), f.rider.ID, station.ID, -1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestChargingStopOnlyByTheSameRider(t *testing.T) {
	f := newChargingFixture(t, 4*time.Hour)
	station := f.addStation(nil)
	other := f.users.add(models.User{Email: "other@example.com", Minutes: 60})

	_, err := f.svc.Start(context.Background(), f.rider.ID, station.ID)
	require.NoError(t, err)

	_, _, err = f.svc.Stop(context.Background(), other.ID, station.ID, 5)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
