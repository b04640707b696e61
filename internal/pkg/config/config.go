package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string `env:"PORT,        default=8080"`
	Env        string `env:"ENV,         default=development"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	CORSOrigin string `env:"CORS_ORIGIN, default=*"`

	JWT   JWTConfig
	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type JWTConfig struct {
	AccessSecret  string        `env:"JWT_ACCESS_SECRET, required"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET, required"`
	AccessTTL     time.Duration `env:"JWT_ACCESS_TTL,    default=15m"`
	RefreshTTL    time.Duration `env:"JWT_REFRESH_TTL,   default=168h"`
	Issuer        string        `env:"JWT_ISSUER,        default=creative-cluster-api"`
	Leeway        time.Duration `env:"JWT_LEEWAY,        default=0s"`
}

type AuthConfig struct {
	BcryptCost int `env:"BCRYPT_COST, default=10"`
	// RateLimit is the sustained requests per second allowed per client IP
	// on the /api/auth routes. Zero disables the limiter.
	RateLimit float64 `env:"AUTH_RATE_LIMIT, default=5"`
}

type MongoConfig struct {
	URI         string        `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string        `env:"MONGO_DB,            default=creative_cluster"`
	MaxPoolSize uint64        `env:"MONGO_MAX_POOL_SIZE, default=50"`
	Timeout     time.Duration `env:"MONGO_TIMEOUT,       default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.JWT.Leeway < 0 {
		return errors.New("JWT_LEEWAY must not be negative")
	}
	return nil
}
