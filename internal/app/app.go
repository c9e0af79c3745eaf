// Package app wires configuration, stores and services into a running
// Greenbook instance.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/greenbook/greenbook-api/internal/api"
	"github.com/greenbook/greenbook-api/internal/api/handler"
	"github.com/greenbook/greenbook-api/internal/core/ports"
	"github.com/greenbook/greenbook-api/internal/core/service"
	"github.com/greenbook/greenbook-api/internal/infrastructure/cache"
	mongostore "github.com/greenbook/greenbook-api/internal/infrastructure/db/mongo"
	redisstore "github.com/greenbook/greenbook-api/internal/infrastructure/db/redis"
	"github.com/greenbook/greenbook-api/internal/infrastructure/db/sqldb"
	"github.com/greenbook/greenbook-api/internal/infrastructure/storage"
	"github.com/greenbook/greenbook-api/internal/infrastructure/trefle"
	"github.com/greenbook/greenbook-api/internal/pkg/config"
)

const revocationCleanup = 10 * time.Minute

// App holds the long-lived dependencies of the service.
type App struct {
	cfg *config.Config
	log zerolog.Logger

	db    *gorm.DB
	redis *goredis.Client // nil when REDIS_ADDR is unset
	mongo *mongo.Client   // nil when MONGO_URI is unset

	Tokens    *service.TokenService
	Auth      *service.AuthService
	Plants    *service.PlantService
	Favorites *service.FavoriteService
	Ingestion *service.IngestionService
}

// OpenDatabase connects to the relational store and brings the schema up to date.
func OpenDatabase(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := sqldb.Connect(ctx, sqldb.Config{
		URL:           cfg.Database.URL,
		MaxOpenConns:  cfg.Database.MaxOpenConns,
		SlowThreshold: cfg.Database.SlowThreshold,
	}, log)
	if err != nil {
		return nil, err
	}
	if err := sqldb.Migrate(db); err != nil {
		_ = sqldb.Close(db)
		return nil, err
	}
	return db, nil
}

// New connects every configured backend and builds the services. Redis and
// MongoDB are optional; without them revocations stay in process and
// ingestion runs are not audited.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}
	if err := a.build(ctx); err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg, log := a.cfg, a.log

	db, err := OpenDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	a.db = db

	images, err := newImageStore(ctx, cfg.Images)
	if err != nil {
		return err
	}

	revocations, err := a.revocationStore(ctx)
	if err != nil {
		return err
	}

	audit, err := a.auditStore(ctx)
	if err != nil {
		return err
	}

	users := sqldb.NewUserRepository(a.db)
	plants := sqldb.NewPlantRepository(a.db)
	favorites := sqldb.NewFavoriteRepository(a.db)

	catalog := trefle.NewClient(trefle.Config{
		PlantsURL:     cfg.Trefle.URL,
		Token:         cfg.Trefle.APIKey,
		Timeout:       cfg.Trefle.Timeout,
		RateLimit:     cfg.Trefle.RateLimit,
		MaxImageBytes: cfg.Ingest.MaxImageBytes,
	}, log)

	a.Tokens = service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, users, revocations,
		log.With().Str("component", "tokens").Logger())
	a.Auth = service.NewAuthService(users, service.NewBcryptHasher(cfg.Auth.BcryptCost), a.Tokens,
		log.With().Str("component", "auth").Logger())
	a.Plants = service.NewPlantService(plants, images, log.With().Str("component", "plants").Logger())
	a.Favorites = service.NewFavoriteService(favorites, plants, log.With().Str("component", "favorites").Logger())
	a.Ingestion = service.NewIngestionService(catalog, plants, images, audit, service.IngestionConfig{
		MaxPage:          cfg.Trefle.MaxPage,
		BatchSize:        cfg.Ingest.BatchSize,
		FetchConcurrency: cfg.Ingest.FetchConcurrency,
	}, log.With().Str("component", "ingestion").Logger())

	return nil
}

// Router builds the HTTP handler for the service.
func (a *App) Router() *echo.Echo {
	return api.NewRouter(api.Deps{
		Auth:        a.Auth,
		Tokens:      a.Tokens,
		Plants:      a.Plants,
		Ingestion:   a.Ingestion,
		Favorites:   a.Favorites,
		Checks:      a.checks(),
		CORSOrigins: a.cfg.HTTP.CORSOrigins,
		Logger:      a.log,
	})
}

// Close releases every backend connection.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.mongo != nil {
		errs = append(errs, a.mongo.Disconnect(ctx))
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, sqldb.Close(a.db))
	}
	return errors.Join(errs...)
}

func (a *App) checks() map[string]handler.Check {
	checks := map[string]handler.Check{
		"sql": func(ctx context.Context) error {
			sqlDB, err := a.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if a.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
	}
	if a.mongo != nil {
		checks["mongodb"] = func(ctx context.Context) error { return a.mongo.Ping(ctx, nil) }
	}
	return checks
}

func (a *App) revocationStore(ctx context.Context) (ports.RevocationStore, error) {
	if a.cfg.Redis.Addr == "" {
		a.log.Info().Msg("REDIS_ADDR not set, token revocations are kept in process")
		return cache.NewRevocationStore(revocationCleanup), nil
	}
	client, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	a.redis = client
	return redisstore.NewRevocationStore(client), nil
}

func (a *App) auditStore(ctx context.Context) (ports.IngestionAuditRepository, error) {
	if a.cfg.Mongo.URI == "" {
		return nil, nil
	}
	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      a.cfg.Mongo.URI,
		Database: a.cfg.Mongo.Database,
	})
	if err != nil {
		return nil, err
	}
	a.mongo = client

	repo := mongostore.NewIngestionRunRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		a.log.Warn().Err(err).Msg("could not create ingestion audit indexes")
	}
	return repo, nil
}

func newImageStore(ctx context.Context, cfg config.ImagesConfig) (ports.ImageStore, error) {
	switch cfg.Store {
	case config.ImageStoreS3:
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:       cfg.S3.Bucket,
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			Prefix:       cfg.S3.Prefix,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
	case config.ImageStoreLocal:
		return storage.NewLocalStore(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown image store %q", cfg.Store)
	}
}
