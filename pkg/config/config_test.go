package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.GRPCPort)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "favorite-toggled", cfg.Kafka.Topic)
	assert.Equal(t, "main-bucket", cfg.Storage.Bucket)
	assert.Equal(t, time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestValidateRequiresJWTSecret(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	cfg.Auth.JWTSecret = ""
	assert.ErrorIs(t, cfg.Validate(), ErrMissingJWTSecret)

	cfg.Auth.JWTSecret = "   "
	assert.ErrorIs(t, cfg.Validate(), ErrMissingJWTSecret)

	cfg.Auth.JWTSecret = "session-secret"
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9000"
  read_timeout: 5s
database:
  host: db.internal
  port: 5433
  name: shop
kafka:
  brokers: ["kafka-1:9092"]
storage:
  public_url: https://abc.storage.example.co
auth:
  admin_user_id: user_admin
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("STOREFRONT_SERVER__PORT", "9100")
	t.Setenv("STOREFRONT_DATABASE__PASSWORD", "secret")
	t.Setenv("STOREFRONT_CATALOG__CACHE_TTL", "30s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, []string{"kafka-1:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "https://abc.storage.example.co", cfg.Storage.PublicURL)
	assert.Equal(t, "user_admin", cfg.Auth.AdminUserID)
	assert.Equal(t, 30*time.Second, cfg.Catalog.CacheTTL)

	gormCfg := cfg.Database.GormConfig()
	assert.Equal(t, "shop", gormCfg.DBName)
	assert.Equal(t, "secret", gormCfg.Password)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "database.host", envKey("STOREFRONT_DATABASE__HOST"))
	assert.Equal(t, "auth.admin_user_id", envKey("STOREFRONT_AUTH__ADMIN_USER_ID"))
}
