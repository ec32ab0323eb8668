package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg := FromViper(newTestViper(nil))

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, int64(5<<20), cfg.MaxImageBytes)
	assert.Empty(t, cfg.RabbitMQURL)
	require.NoError(t, cfg.Validate())
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", ":9999")
	t.Setenv("TOKEN_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.AppPort)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		wantErr   string
	}{
		{"unknown driver", map[string]any{"DATABASE_DRIVER": "mysql"}, "DATABASE_DRIVER"},
		{"unknown backend", map[string]any{"STORAGE_BACKEND": "ftp"}, "STORAGE_BACKEND"},
		{"s3 without bucket", map[string]any{"STORAGE_BACKEND": "s3", "S3_ENDPOINT": "localhost:9000"}, "S3_BUCKET"},
		{"empty secret", map[string]any{"JWT_SECRET": ""}, "JWT_SECRET"},
		{"zero ttl", map[string]any{"TOKEN_TTL": "0s"}, "TOKEN_TTL"},
		{"postgres with default secret", map[string]any{
			"DATABASE_DRIVER": "postgres",
			"DATABASE_DSN":    "host=localhost user=recipe dbname=recipe",
		}, "JWT_SECRET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromViper(newTestViper(tt.overrides)).Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("postgres with private secret", func(t *testing.T) {
		cfg := FromViper(newTestViper(map[string]any{
			"DATABASE_DRIVER": "postgres",
			"DATABASE_DSN":    "host=localhost user=recipe dbname=recipe",
			"JWT_SECRET":      "s3cr3t-signing-key",
		}))
		assert.NoError(t, cfg.Validate())
	})

	t.Run("s3 complete", func(t *testing.T) {
		cfg := FromViper(newTestViper(map[string]any{
			"STORAGE_BACKEND": "s3",
			"S3_ENDPOINT":     "localhost:9000",
			"S3_BUCKET":       "recipes",
		}))
		assert.NoError(t, cfg.Validate())
	})
}
