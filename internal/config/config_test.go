package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"catalog-backend/internal/shared/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("PRODUCT_SLUG_MODE", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DriverMongo, cfg.Storage.Driver)
	assert.Equal(t, utils.SlugStrict, cfg.ProductSlugMode())
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
app:
  port: "9000"
storage:
  driver: postgres
database:
  host: db.internal
  max_conn_lifetime: 10m
catalog:
  product_slug_mode: simple
redis:
  cache_ttl: 30s
`)
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("PRODUCT_SLUG_MODE", "")
	t.Setenv("DB_HOST", "override.internal")
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "override.internal", cfg.Database.Host)
	assert.Equal(t, 10*time.Minute, cfg.Database.MaxConnLifetime)
	assert.Equal(t, time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, utils.SlugSimple, cfg.ProductSlugMode())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowOrigins)

	dbCfg := cfg.PostgresDBConfig()
	assert.Equal(t, "override.internal", dbCfg.Host)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "mysql"}},
		{"unknown slug mode", map[string]string{"PRODUCT_SLUG_MODE": "fancy"}},
		{"bad duration", map[string]string{"CACHE_TTL": "forever"}},
		{"zero ttl with redis", map[string]string{"CACHE_TTL": "0s", "REDIS_ENABLED": "true"}},
		{"production postgres without password", map[string]string{
			"STORAGE_DRIVER": "postgres",
			"APP_ENV":        "production",
			"DB_PASSWORD":    "",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORAGE_DRIVER", "")
			t.Setenv("PRODUCT_SLUG_MODE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
