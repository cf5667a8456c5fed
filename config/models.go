package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/gabrieldeltasollutions/aws-office/internal/entities"
)

// Storage backends understood by repository.New.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
	Users    UsersConfig    `mapstructure:"users"`
	Licenses LicensesConfig `mapstructure:"licenses"`
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required")
	}
	if len(c.Secrets.Key) < 16 {
		return errors.New("secrets.key is required and must be at least 16 bytes")
	}
	if c.Licenses.MaxUsersLimit < 1 {
		return errors.New("licenses.max_users_limit must be positive")
	}
	if err := c.Users.EmailPolicy().Validate(); err != nil {
		return fmt.Errorf("users: %w", err)
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DBName == "" {
			return errors.New("postgres credentials are required")
		}
		if c.Postgres.Host == "" {
			return errors.New("postgres.host is required")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required")
		}
	default:
		return fmt.Errorf("storage.backend %q is not supported", c.Storage.Backend)
	}
	return nil
}

// ServerAddr returns host:port for HTTP server binding.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ServerConfig contains HTTP server options.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// HTTPConfig contains transport settings.
type HTTPConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	AllowOrigins   string        `mapstructure:"allow_origins"`
	BodyLimit      int           `mapstructure:"body_limit"`
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// StorageConfig selects the repository backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
}

// SecretsConfig holds the key material for sealing stored credentials.
type SecretsConfig struct {
	Key string `mapstructure:"key"`
}

// UsersConfig controls how user emails are accepted.
type UsersConfig struct {
	EmailMode   string `mapstructure:"email_mode"`
	EmailDomain string `mapstructure:"email_domain"`
}

// EmailPolicy builds the policy applied to user addresses.
func (u UsersConfig) EmailPolicy() entities.EmailPolicy {
	return entities.EmailPolicy{Mode: entities.EmailMode(u.EmailMode), Domain: u.EmailDomain}
}

// LicensesConfig bounds license capacity.
type LicensesConfig struct {
	MaxUsersLimit int `mapstructure:"max_users_limit"`
}

// PostgresConfig describes database connection parameters.
type PostgresConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"db_name"`
	SSLMode        string        `mapstructure:"ssl_mode"`
	MigrationsDir  string        `mapstructure:"migrations_dir"`
	MigrateTimeout time.Duration `mapstructure:"migrate_timeout"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
	MaxConns       int32         `mapstructure:"max_conns"`
	MinConns       int32         `mapstructure:"min_conns"`
}

// DSN returns a Postgres connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode,
	)
}

// RedisConfig describes the Redis backend.
type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}
