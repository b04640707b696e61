package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secrets(extra map[string]string) envconfig.Lookuper {
	env := map[string]string{
		"JWT_ACCESS_SECRET":  "access",
		"JWT_REFRESH_SECRET": "refresh",
	}
	for k, v := range extra {
		env[k] = v
	}
	return envconfig.MapLookuper(env)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), secrets(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, time.Duration(0), cfg.JWT.Leeway)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), secrets(map[string]string{
		"ENV":            "production",
		"JWT_ACCESS_TTL": "5m",
		"JWT_LEEWAY":     "30s",
		"BCRYPT_COST":    "12",
		"MONGO_DB":       "studio_test",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 30*time.Second, cfg.JWT.Leeway)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "studio_test", cfg.Mongo.Database)
}

func TestLoad_MissingSecret(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_ACCESS_SECRET": "access",
	}))
	assert.Error(t, err)
}

func TestLoad_SharedSecretRejected(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_ACCESS_SECRET":  "same",
		"JWT_REFRESH_SECRET": "same",
	}))
	assert.ErrorContains(t, err, "must differ")
}
