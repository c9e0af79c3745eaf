// Package config loads the service configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	ImageStoreLocal = "local"
	ImageStoreS3    = "s3"
)

type Config struct {
	HTTP     HTTPConfig
	Log      LogConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Trefle   TrefleConfig
	Ingest   IngestConfig
	Images   ImagesConfig
	Redis    RedisConfig
	Mongo    MongoConfig
}

type HTTPConfig struct {
	Port            string        `env:"PORT,                 default=8000"`
	Env             string        `env:"ENV,                  default=development"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS, default=http://localhost:3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,     default=10s"`
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL,          default=info"`
	Pretty     bool   `env:"LOG_PRETTY,         default=false"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB,    default=50"`
	MaxAgeDays int    `env:"LOG_RETENTION_DAYS, default=7"`
	Compress   bool   `env:"LOG_COMPRESS,       default=true"`
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"JWT_TTL,     default=30m"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`
}

type DatabaseConfig struct {
	URL           string        `env:"DATABASE_URL,        default=sqlite://greenbook.db"`
	MaxOpenConns  int           `env:"DB_MAX_OPEN_CONNS,   default=10"`
	SlowThreshold time.Duration `env:"DB_SLOW_THRESHOLD,   default=200ms"`
}

type TrefleConfig struct {
	APIKey    string        `env:"TREFLE_API_KEY"`
	URL       string        `env:"TREFLE_API_URL,    default=https://trefle.io/api/v1/plants"`
	MaxPage   int           `env:"TREFLE_MAX_PAGE,   default=24468"`
	Timeout   time.Duration `env:"TREFLE_TIMEOUT,    default=15s"`
	RateLimit float64       `env:"TREFLE_RATE_LIMIT, default=2"`
}

type IngestConfig struct {
	BatchSize        int   `env:"INGEST_BATCH_SIZE,       default=5"`
	FetchConcurrency int   `env:"IMAGE_FETCH_CONCURRENCY, default=4"`
	MaxImageBytes    int64 `env:"IMAGE_MAX_BYTES,         default=10485760"`
}

type ImagesConfig struct {
	Store string `env:"IMAGE_STORE, default=local"`
	Dir   string `env:"IMAGE_DIR,   default=image"`
	S3    S3Config
}

type S3Config struct {
	Bucket       string `env:"S3_BUCKET"`
	Region       string `env:"S3_REGION,         default=us-east-1"`
	Endpoint     string `env:"S3_ENDPOINT"`
	AccessKey    string `env:"S3_ACCESS_KEY"`
	SecretKey    string `env:"S3_SECRET_KEY"`
	Prefix       string `env:"S3_PREFIX,         default=image/"`
	UsePathStyle bool   `env:"S3_USE_PATH_STYLE, default=false"`
}

// RedisConfig enables the shared revocation store when Addr is set. Addr may
// also be a redis:// URL.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// MongoConfig enables the ingestion audit log when URI is set.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=greenbook"`
}

// Load reads an optional .env file and then the process environment.
// Variables already present in the environment win over the file.
func Load(ctx context.Context, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// A missing file is fine; the environment alone may be complete.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	switch c.Images.Store {
	case ImageStoreLocal:
		if strings.TrimSpace(c.Images.Dir) == "" {
			errs = append(errs, errors.New("IMAGE_DIR must not be empty"))
		}
	case ImageStoreS3:
		if c.Images.S3.Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required when IMAGE_STORE=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("IMAGE_STORE must be %q or %q, got %q", ImageStoreLocal, ImageStoreS3, c.Images.Store))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.Auth.BcryptCost))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.Trefle.MaxPage < 1 {
		errs = append(errs, errors.New("TREFLE_MAX_PAGE must be at least 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// RequireServe checks the settings only the HTTP server needs.
func (c *Config) RequireServe() error {
	if len(c.Auth.JWTSecret) < 32 {
		return errors.New("config: JWT_SECRET must be at least 32 characters")
	}
	return nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.HTTP.Env, "production")
}
