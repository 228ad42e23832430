package config_test

import (
	"testing"

	"ternak/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Contains(t, cfg.DatabaseURL, "dbname=ternak")
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("UPLOAD_DIR", "/var/lib/ternak/uploads")
	t.Setenv("DATABASE_URL", "host=db user=u password=p dbname=x port=5432 sslmode=disable")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, "/var/lib/ternak/uploads", cfg.UploadDir)
	assert.Contains(t, cfg.DatabaseURL, "dbname=x")
}
