package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-core/pkg/enums"
	"github.com/kelseyhightower/envconfig"
)

const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

type Config struct {
	App          AppConfig
	Store        StoreConfig
	Redis        RedisConfig
	DB           DBConfig
	Credentials  CredentialsConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type StoreConfig struct {
	Backend  string `envconfig:"STOREFRONT_STORE_BACKEND" default:"file"`
	FilePath string `envconfig:"STOREFRONT_STORE_FILE_PATH" default:"data/storefront.json"`
}

// Kind returns the parsed backend. Load has already validated it.
func (s StoreConfig) Kind() enums.StoreBackend {
	return enums.StoreBackend(strings.ToLower(strings.TrimSpace(s.Backend)))
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	Namespace    string        `envconfig:"STOREFRONT_REDIS_NAMESPACE" default:"sf"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type DBConfig struct {
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
}

type CredentialsConfig struct {
	// Path to a YAML credential table. Empty uses the embedded demo table.
	Path string `envconfig:"STOREFRONT_CREDENTIALS_PATH"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"true"`
}

func (c *Config) validate() error {
	backend, err := enums.ParseStoreBackend(strings.ToLower(strings.TrimSpace(c.Store.Backend)))
	if err != nil {
		return fmt.Errorf("%s: %w", EnvStoreBackend, err)
	}
	c.Store.Backend = backend.String()

	switch backend {
	case enums.StoreBackendFile:
		if strings.TrimSpace(c.Store.FilePath) == "" {
			return fmt.Errorf("%s is required for the file backend", EnvStoreFilePath)
		}
	case enums.StoreBackendRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("either %s or %s is required for the redis backend", EnvRedisURL, EnvRedisAddr)
		}
	case enums.StoreBackendSQL:
		return c.DB.validate()
	}
	return nil
}

func (db *DBConfig) validate() error {
	driver := strings.ToLower(strings.TrimSpace(db.Driver))
	switch driver {
	case DBDriverSQLite, DBDriverPostgres:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvDBDriver, DBDriverSQLite, DBDriverPostgres, db.Driver)
	}
	db.Driver = driver
	if strings.TrimSpace(db.DSN) == "" {
		return fmt.Errorf("%s is required for the sql backend", EnvDBDSN)
	}
	return nil
}
