package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libdb "ecocharge/backend/libs/db"
	libredis "ecocharge/backend/libs/redis"
	"ecocharge/backend/services/reservation-service/internal/catalog"
	"ecocharge/backend/services/reservation-service/internal/config"
	httpserver "ecocharge/backend/services/reservation-service/internal/http"
	"ecocharge/backend/services/reservation-service/internal/http/handlers"
	"ecocharge/backend/services/reservation-service/internal/http/middleware"
	"ecocharge/backend/services/reservation-service/internal/models"
	"ecocharge/backend/services/reservation-service/internal/password"
	redisstore "ecocharge/backend/services/reservation-service/internal/redis"
	"ecocharge/backend/services/reservation-service/internal/repository"
	"ecocharge/backend/services/reservation-service/internal/service"
	"ecocharge/backend/services/reservation-service/internal/ws"
)

// App wires reservation-service dependencies.
type App struct {
	server      *httpserver.Server
	hub         *ws.Hub
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph: it loads the catalog feed, overlays persisted user
// snapshots and builds the HTTP surface.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger}
	hasher := password.NewBcryptHasher(cfg.Password.BcryptCost)

	stations, users, err := a.loadFeed(ctx, cfg, hasher)
	if err != nil {
		a.Close()
		return nil, err
	}

	var accounts service.AccountStore = service.NopAccountStore{}
	if cfg.SnapshotsEnabled() {
		a.redisClient, err = libredis.NewRedisClient(ctx, libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		snapshots := redisstore.NewUserSnapshotStore(a.redisClient, cfg.Redis.KeyPrefix)
		persisted, err := snapshots.LoadUsers(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
		users = service.OverlaySnapshots(users, persisted)
		accounts = snapshots
		logger.Info("user snapshots restored", zap.Int("count", len(persisted)))
	} else {
		logger.Warn("redis not configured, user changes will not survive restarts")
	}

	store, err := catalog.New(stations, users)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("app: build catalog: %w", err)
	}
	logger.Info("catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.Int("stations", len(stations)),
		zap.Int("users", len(users)),
	)

	a.hub = ws.NewHub(logger)
	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration())

	bookingSvc := service.NewBookingService(store, accounts, a.hub, logger)
	reviewSvc := service.NewReviewService(store, accounts, a.hub, logger)
	adminSvc := service.NewAdminService(store, a.hub, logger)
	accountSvc := service.NewAccountService(store, accounts, hasher, tokens, logger)

	feed := ws.NewServer(a.hub, tokens, adminSvc, cfg.WSWriteTimeout(), logger)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst, cfg.RateLimit.TrustProxy, logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		StationsHandlers: handlers.NewStationsHandlers(store, logger),
		BookingsHandler:  handlers.NewBookingsHandler(bookingSvc, logger),
		ReviewsHandlers:  handlers.NewReviewsHandlers(reviewSvc, logger),
		AuthHandlers:     handlers.NewAuthHandlers(accountSvc, logger),
		AdminHandlers:    handlers.NewAdminHandlers(adminSvc, logger),
		HealthHandler:    handlers.NewHealthHandler(),
		AdminFeed:        http.HandlerFunc(feed.HandleWS),
		Authenticate:     middleware.Auth(tokens),
		RateLimit:        limiter.Middleware,
	})

	a.server = httpserver.NewServer(cfg.HTTPAddress(), router, logger, middleware.Logging(logger))
	a.server.RegisterOnShutdown(a.hub.CloseAll)
	return a, nil
}

// loadFeed reads stations and users from the configured source. Seed passwords are hashed here
// so plain text never reaches the store.
func (a *App) loadFeed(ctx context.Context, cfg *config.Config, hasher password.Hasher) ([]models.Station, []models.User, error) {
	if cfg.Catalog.Source == config.SourcePostgres {
		sqlDB, err := libdb.NewPostgresDB(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		a.db = sqlDB

		stations, err := repository.NewStationRepository(sqlDB).List(ctx)
		if err != nil {
			return nil, nil, err
		}
		users, err := repository.NewUserRepository(sqlDB).List(ctx)
		if err != nil {
			return nil, nil, err
		}
		return stations, users, nil
	}

	seed, err := catalog.LoadSeedFile(cfg.Catalog.SeedFile)
	if err != nil {
		return nil, nil, err
	}
	users, err := hashSeedUsers(seed.Users, hasher)
	if err != nil {
		return nil, nil, err
	}
	return seed.Stations, users, nil
}

func hashSeedUsers(seedUsers []catalog.SeedUser, hasher password.Hasher) ([]models.User, error) {
	users := make([]models.User, 0, len(seedUsers))
	for _, su := range seedUsers {
		u := su.User
		if su.Password != "" {
			hash, err := hasher.Hash(su.Password)
			if err != nil {
				return nil, fmt.Errorf("app: hash password for %s: %w", u.ID, err)
			}
			u.PasswordHash = hash
		}
		users = append(users, u)
	}
	return users, nil
}

// Run starts HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.hub != nil {
		a.hub.CloseAll()
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
