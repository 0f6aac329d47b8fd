package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chargeshare/internal/http/middleware"
	"chargeshare/internal/models"
	"chargeshare/internal/service"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input service.RegisterInput) (*models.User, string, error)
	loginFn    func(ctx context.Context, email, password string) (*models.User, string, error)
}

func (s *stubAuthService) Register(ctx context.Context, input service.RegisterInput) (*models.User, string, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	return s.loginFn(ctx, email, password)
}

type stubUserService struct {
	profileFn func(ctx context.Context, userID int64) (*models.User, error)
	updateFn  func(ctx context.Context, userID int64, update service.ProfileUpdate) (*models.User, error)
	adjustFn  func(ctx context.Context, userID int64, delta int) (*models.User, error)
}

func (s *stubUserService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	return s.profileFn(ctx, userID)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, userID int64, update service.ProfileUpdate) (*models.User, error) {
	return s.updateFn(ctx, userID, update)
}

func (s *stubUserService) AdjustMinutes(ctx context.Context, userID int64, delta int) (*models.User, error) {
	return s.adjustFn(ctx, userID, delta)
}

type stubStationService struct {
	createFn func(ctx context.Context, ownerID int64, input service.StationInput) (*models.Station, error)
	listFn   func(ctx context.Context) ([]models.Station, error)
	updateFn func(ctx context.Context, ownerID, stationID int64, input service.StationInput) (*models.Station, error)
	deleteFn func(ctx context.Context, ownerID, stationID int64) error
}

func (s *stubStationService) Create(ctx context.Context, ownerID int64, input service.StationInput) (*models.Station, error) {
	return s.createFn(ctx, ownerID, input)
}

func (s *stubStationService) List(ctx context.Context) ([]models.Station, error) {
	return s.listFn(ctx)
}

func (s *stubStationService) Update(ctx context.Context, ownerID, stationID int64, input service.StationInput) (*models.Station, error) {
	return s.updateFn(ctx, ownerID, stationID, input)
}

func (s *stubStationService) Delete(ctx context.Context, ownerID, stationID int64) error {
	return s.deleteFn(ctx, ownerID, stationID)
}

type stubChargingService struct {
	startFn    func(ctx context.Context, userID, stationID int64) (*models.ChargingSession, error)
	stopFn     func(ctx context.Context, userID, stationID int64, minutes int) (*models.ChargingSession, int, error)
	sessionsFn func(ctx context.Context, userID int64, limit int) ([]models.ChargingSession, error)
	activeFn   func(ctx context.Context, limit int) ([]models.ChargingSession, error)
}

func (s *stubChargingService) Start(ctx context.Context, userID, stationID int64) (*models.ChargingSession, error) {
	return s.startFn(ctx, userID, stationID)
}

func (s *stubChargingService) Stop(ctx context.Context, userID, stationID int64, minutes int) (*models.ChargingSession, int, error) {
	return s.stopFn(ctx, userID, stationID, minutes)
}

func (s *stubChargingService) SessionsForUser(ctx context.Context, userID int64, limit int) ([]models.ChargingSession, error) {
	return s.sessionsFn(ctx, userID, limit)
}

func (s *stubChargingService) ActiveSessions(ctx context.Context, limit int) ([]models.ChargingSession, error) {
	return s.activeFn(ctx, limit)
}

type stubReviewService struct {
	appendFn func(ctx context.Context, reviewerID, stationID int64, rating int, comment string) (*models.Station, error)
}

func (s *stubReviewService) Append(ctx context.Context, reviewerID, stationID int64, rating int, comment string) (*models.Station, error) {
	return s.appendFn(ctx, reviewerID, stationID, rating, comment)
}

type stubAdminService struct {
	loginFn      func(username, password string) (string, error)
	dataFn       func(ctx context.Context) (*service.DataDump, error)
	usersFn      func(ctx context.Context) ([]models.User, error)
	updateUserFn func(ctx context.Context, id int64, patch service.UserPatch) (*models.User, error)
	deleteUserFn func(ctx context.Context, id int64) error
}

func (s *stubAdminService) Login(username, password string) (string, error) {
	return s.loginFn(username, password)
}

func (s *stubAdminService) Data(ctx context.Context) (*service.DataDump, error) {
	return s.dataFn(ctx)
}

func (s *stubAdminService) Users(ctx context.Context) ([]models.User, error) {
	return s.usersFn(ctx)
}

func (s *stubAdminService) UpdateUser(ctx context.Context, id int64, patch service.UserPatch) (*models.User, error) {
	return s.updateUserFn(ctx, id, patch)
}

func (s *stubAdminService) DeleteUser(ctx context.Context, id int64) error {
	return s.deleteUserFn(ctx, id)
}

var testTokenService = service.NewTokenService("test-secret", time.Hour, time.Hour)

// doAuthed runs the handler behind the user auth middleware with a token
// for userID, the way the router mounts it.
func doAuthed(t *testing.T, userID int64, handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	signed, err := testTokenService.GenerateUserToken(userID)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+signed)

	rec := httptest.NewRecorder()
	middleware.Auth(testTokenService)(handler).ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, body io.Reader, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(out))
}
