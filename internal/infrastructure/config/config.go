package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Profile store backends.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	JWTSecret       string        `env:"JWT_SECRET,       required"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	TokenTTL        time.Duration `env:"TOKEN_TTL,        default=24h"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
	Workers         int           `env:"SESSION_WORKERS,  default=8"`
	MaxFootprint    float64       `env:"CARBON_MAX_FOOTPRINT, default=1000"`
	ProfileStore    string        `env:"PROFILE_STORE,    default=mongo"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Google   GoogleConfig
}

type MongoConfig struct {
	URI         string        `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string        `env:"MONGO_DB,            default=greenpath"`
	AppName     string        `env:"MONGO_APP_NAME,      default=greenpath"`
	MaxPoolSize uint64        `env:"MONGO_MAX_POOL_SIZE, default=100"`
	MinPoolSize uint64        `env:"MONGO_MIN_POOL_SIZE, default=0"`
	Timeout     time.Duration `env:"MONGO_TIMEOUT,       default=10s"`
}

// RedisConfig accepts either REDIS_URL or the discrete address settings.
type RedisConfig struct {
	URL        string        `env:"REDIS_URL"`
	Addr       string        `env:"REDIS_ADDR,        default=localhost:6379"`
	Password   string        `env:"REDIS_PASSWORD"`
	DB         int           `env:"REDIS_DB,          default=0"`
	ClientName string        `env:"REDIS_CLIENT_NAME, default=greenpath"`
	PoolSize   int           `env:"REDIS_POOL_SIZE,   default=0"`
	Timeout    time.Duration `env:"REDIS_TIMEOUT,     default=5s"`
}

type PostgresConfig struct {
	URL      string `env:"POSTGRES_URL"`
	MaxConns int32  `env:"POSTGRES_MAX_CONNS, default=10"`
}

// GoogleConfig enables Google sign-in when ClientID is set.
type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `env:"GOOGLE_REDIRECT_URL, default=http://localhost:8080/auth/oauth/google/callback"`
}

// Enabled reports whether Google sign-in is configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// Development reports whether the service runs with developer defaults.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// Load reads an optional .env file, then the environment.
func Load(ctx context.Context, dotenvFiles ...string) (*Config, error) {
	if err := godotenv.Load(dotenvFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return process(ctx, envconfig.OsLookuper())
}

func process(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.ProfileStore {
	case StoreMongo:
	case StorePostgres:
		if c.Postgres.URL == "" {
			return errors.New("POSTGRES_URL is required when PROFILE_STORE=postgres")
		}
	default:
		return fmt.Errorf("PROFILE_STORE must be %q or %q, got %q", StoreMongo, StorePostgres, c.ProfileStore)
	}
	if c.Mongo.MinPoolSize > c.Mongo.MaxPoolSize && c.Mongo.MaxPoolSize > 0 {
		return fmt.Errorf("MONGO_MIN_POOL_SIZE (%d) exceeds MONGO_MAX_POOL_SIZE (%d)", c.Mongo.MinPoolSize, c.Mongo.MaxPoolSize)
	}
	if c.MaxFootprint <= 0 {
		return fmt.Errorf("CARBON_MAX_FOOTPRINT must be > 0, got %v", c.MaxFootprint)
	}
	return nil
}
