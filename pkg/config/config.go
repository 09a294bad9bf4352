package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/tair/reclaimed-storefront/pkg/database"
)

// EnvPrefix is stripped from environment variables. Nested keys use "__",
// e.g. STOREFRONT_DATABASE__HOST.
const EnvPrefix = "STOREFRONT_"

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Kafka    KafkaConfig    `koanf:"kafka"`
	Storage  StorageConfig  `koanf:"storage"`
	Auth     AuthConfig     `koanf:"auth"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Log      LogConfig      `koanf:"log"`
	Tracing  TracingConfig  `koanf:"tracing"`
}

type ServerConfig struct {
	Port            string        `koanf:"port"`
	GRPCPort        string        `koanf:"grpc_port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name"`
	SSLMode         string        `koanf:"sslmode"`
	LogLevel        string        `koanf:"log_level"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	PoolSize int    `koanf:"pool_size"`
}

type KafkaConfig struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
	GroupID string   `koanf:"group_id"`
}

// StorageConfig describes the S3 compatible object store holding product images.
// PublicURL is the base used to build public image URLs.
type StorageConfig struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	UseSSL    bool   `koanf:"use_ssl"`
	Bucket    string `koanf:"bucket"`
	PublicURL string `koanf:"public_url"`
}

type AuthConfig struct {
	JWTSecret   string `koanf:"jwt_secret"`
	AdminUserID string `koanf:"admin_user_id"`
}

// CatalogConfig tunes the public catalogue. ToggleRateLimit caps favorite toggles
// per viewer per minute; zero disables the limit.
type CatalogConfig struct {
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	FeaturedLimit   int           `koanf:"featured_limit"`
	ToggleRateLimit int           `koanf:"toggle_rate_limit"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

type TracingConfig struct {
	ServiceName    string `koanf:"service_name"`
	JaegerEndpoint string `koanf:"jaeger_endpoint"`
	Environment    string `koanf:"environment"`
}

// Load reads .env (if present), then the yaml file at path (if present), then
// STOREFRONT_ environment variables, which override the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// ErrMissingJWTSecret is returned by Validate when no session signing secret is set
var ErrMissingJWTSecret = errors.New("auth.jwt_secret is required")

// Validate reports settings the service cannot safely start without
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.GRPCPort == "" {
		c.Server.GRPCPort = "9090"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}

	if c.Database.User == "" {
		c.Database.User = "postgres"
	}
	if c.Database.Name == "" {
		c.Database.Name = "storefront"
	}

	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "favorite-toggled"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "storefront-favorite-activity"
	}

	if c.Storage.Bucket == "" {
		c.Storage.Bucket = "main-bucket"
	}

	if c.Catalog.CacheTTL == 0 {
		c.Catalog.CacheTTL = time.Minute
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "storefront"
	}
	if c.Tracing.Environment == "" {
		c.Tracing.Environment = "development"
	}
}

// GormConfig converts the database section into the connection settings of pkg/database
func (c DatabaseConfig) GormConfig() database.Config {
	return database.Config{
		Host:            c.Host,
		Port:            c.Port,
		User:            c.User,
		Password:        c.Password,
		DBName:          c.Name,
		SSLMode:         c.SSLMode,
		LogLevel:        c.LogLevel,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	}
}

func (c RedisConfig) ClientConfig() database.RedisConfig {
	return database.RedisConfig{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
		PoolSize: c.PoolSize,
	}
}
