package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "inventory", cfg.ServiceName)
	assert.Equal(t, "8000", cfg.HTTPPort)
	assert.NotEmpty(t, cfg.DatabaseURL)
	assert.NotEmpty(t, cfg.RabbitMQURL)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVICE_NAME", "inventory-test")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg := Load()

	assert.Equal(t, "inventory-test", cfg.ServiceName)
	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
}
