package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 10080, cfg.JWT.AccessTokenMins)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxFileBytes)
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.Equal(t, "0 1 * * *", cfg.Cron.ExpirySpec)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func TestLoad_ModePrefix(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("PROD_DB_HOST", "db.internal")
	t.Setenv("PROD_JWT_SECRET", "s1")
	t.Setenv("PROD_JWT_REFRESH_SECRET", "s2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "s1", cfg.JWT.Secret)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad mode", map[string]string{"APP_MODE": "staging"}},
		{"bad driver", map[string]string{"APP_MODE": "dev", "DB_DRIVER": "oracle"}},
		{"s3 without bucket", map[string]string{"APP_MODE": "dev", "DB_DRIVER": "sqlite", "STORAGE_DRIVER": "s3"}},
		{"prod default secret", map[string]string{"APP_MODE": "prod", "DB_DRIVER": "mysql"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
