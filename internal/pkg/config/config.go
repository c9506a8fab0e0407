package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Identity store backends.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth          AuthConfig
	IdentityStore string `env:"IDENTITY_STORE, default=mongo"`

	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig

	AuditWorkers     int    `env:"AUDIT_WORKERS,     default=4"`
	PrescriptionFile string `env:"PRESCRIPTION_FILE, default=prescriptions.json"`
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET, required"`
	JWTIssuer        string        `env:"JWT_ISSUER,         default=petcare-api"`
	TokenTTL         time.Duration `env:"TOKEN_TTL,          default=24h"`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=petcare"`
}

type PostgresConfig struct {
	URL string `env:"POSTGRES_URL"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Pretty reports whether logs should be rendered for humans.
func (c *Config) Pretty() bool {
	return c.Env == "development"
}

func (c *Config) validate() error {
	switch c.IdentityStore {
	case StoreMongo:
	case StorePostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("POSTGRES_URL is required when IDENTITY_STORE=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("IDENTITY_STORE must be %q or %q, got %q", StoreMongo, StorePostgres, c.IdentityStore)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.AuditWorkers <= 0 {
		return fmt.Errorf("AUDIT_WORKERS must be positive")
	}
	return nil
}

// Parse reads configuration from lookuper and validates it.
func Parse(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := Parse(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}
