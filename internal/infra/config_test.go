package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.PGHost)
	assert.Equal(t, 8080, cfg.APIPort)
	assert.False(t, cfg.KafkaEnabled)
}

func TestConfigDSN(t *testing.T) {
	t.Run("built from parts", func(t *testing.T) {
		cfg := &Config{PGHost: "db", PGPort: 5432, PGUser: "u", PGPassword: "p", PGDatabase: "wellness"}
		assert.Equal(t, "postgres://u:p@db:5432/wellness?sslmode=disable", cfg.DSN())
	})

	t.Run("DATABASE_URL wins", func(t *testing.T) {
		cfg := &Config{DatabaseURL: "postgres://elsewhere/db", PGHost: "ignored"}
		assert.Equal(t, "postgres://elsewhere/db", cfg.DSN())
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("rejects default secret", func(t *testing.T) {
		cfg := &Config{JWTSecret: "change-me-in-production"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects short secret", func(t *testing.T) {
		cfg := &Config{JWTSecret: "short"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("insecure defaults allowed when flagged", func(t *testing.T) {
		cfg := &Config{JWTSecret: "change-me-in-production", AllowInsecureDefaults: true}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("strong secret passes", func(t *testing.T) {
		cfg := &Config{JWTSecret: "a-proper-secret-of-sufficient-length!!"}
		assert.NoError(t, cfg.Validate())
	})
}
