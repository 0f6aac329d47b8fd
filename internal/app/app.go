package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libdb "chargeshare/libs/db"
	libredis "chargeshare/libs/redis"

	"chargeshare/internal/config"
	httpserver "chargeshare/internal/http"
	"chargeshare/internal/http/handlers"
	"chargeshare/internal/http/middleware"
	"chargeshare/internal/password"
	redisstore "chargeshare/internal/redis"
	"chargeshare/internal/repository"
	"chargeshare/internal/service"
	"chargeshare/internal/ws"
)

// App wires the full dependency graph.
type App struct {
	server      *httpserver.Server
	hub         *ws.Hub
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New builds the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg.JWT.Secret == config.InsecureDefaultSecret {
		logger.Warn("running with the default JWT secret; set CHARGESHARE_JWT_SECRET in any real deployment")
	}

	sqlDB, err := libdb.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := libredis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	userRepo := repository.NewUserRepository(sqlDB)
	stationRepo := repository.NewStationRepository(sqlDB)
	reviewRepo := repository.NewReviewRepository(sqlDB)
	sessionRepo := repository.NewSessionRepository(sqlDB)

	occupancy := redisstore.NewStore(redisClient)
	hub := ws.NewHub(0, logger)

	hasher := password.NewBcryptHasher(0)
	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.UserTokenTTL(), cfg.AdminTokenTTL())

	authSvc := service.NewAuthService(userRepo, hasher, tokens, cfg.Charging.StartingMinutes, logger)
	userSvc := service.NewUserService(userRepo, hasher, logger)
	stationSvc := service.NewStationService(stationRepo, reviewRepo, logger)
	chargingSvc := service.NewChargingService(userRepo, stationRepo, sessionRepo, occupancy, hub, cfg.MaxSessionDuration(), logger)
	reviewSvc := service.NewReviewService(stationRepo, reviewRepo, logger)
	adminSvc := service.NewAdminService(userRepo, stationRepo, reviewRepo, hasher, tokens, cfg.Admin.Username, cfg.Admin.Password, logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Auth:     handlers.NewAuthHandlers(authSvc),
		Users:    handlers.NewUserHandlers(userSvc),
		Stations: handlers.NewStationHandlers(stationSvc),
		Sessions: handlers.NewSessionHandlers(chargingSvc),
		Reviews:  handlers.NewReviewHandlers(reviewSvc),
		Admin:    handlers.NewAdminHandlers(adminSvc),

		StationFeed: handlers.NewStationFeedHandler(hub, logger),
		Health:      handlers.NewHealthHandler(),

		AuthMiddleware:  middleware.Auth(tokens),
		AdminMiddleware: middleware.AdminOnly(tokens),
	})

	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		hub:         hub,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run serves HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.hub != nil {
		a.hub.Shutdown()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
