package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 5433, User: "store", Password: "secret", DBName: "storefront", SSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=store password=secret dbname=storefront sslmode=require", cfg.DSN())
}

func TestSetDefaults(t *testing.T) {
	cfg := Config{}
	setDefaults(&cfg)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "disable", cfg.SSLMode)
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)
}

func TestNewRedisClientDisabled(t *testing.T) {
	client, err := NewRedisClient(RedisConfig{})
	assert.NoError(t, err)
	assert.Nil(t, client)
}
