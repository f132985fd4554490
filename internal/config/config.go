package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	ErrUnknownDriver   = errors.New("unknown store driver")
	ErrMissingDatabase = errors.New("database location is not set")
	ErrInvalidValue    = errors.New("invalid config value")
)

type Config struct {
	Env    string
	DB     DB
	Server Server
	Logger Logger
	Concur Concur
	Sync   Sync
}

type DB struct {
	Driver      string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURI string `env:"DATABASE_URI"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"concursync.db"`
	Migrations  string `env:"MIGRATIONS_PATH" envDefault:"migrations"`
}

type Server struct {
	RunAddress string `env:"RUN_ADDRESS" envDefault:":8080"`
}

type Logger struct {
	// LogLevel пустой уровень означает уровень по умолчанию для окружения
	LogLevel string `env:"LOG_LEVEL"`
}

type Concur struct {
	BaseURL     string        `env:"CONCUR_BASE_URL"`
	AccessToken string        `env:"CONCUR_ACCESS_TOKEN"`
	Timeout     time.Duration `env:"CONCUR_TIMEOUT_SECONDS" envDefault:"30"`
	ListID      string        `env:"CONCUR_LIST_ID"`
}

type Sync struct {
	Concurrency int      `env:"SYNC_CONCURRENCY" envDefault:"4"`
	Schedule    string   `env:"SYNC_SCHEDULE"`
	BatchLimit  int      `env:"SYNC_BATCH_LIMIT" envDefault:"0"`
	Entities    []string `env:"SYNC_ENTITIES"`
}

// DatabaseURL адрес базы в формате golang-migrate
func (c *Config) DatabaseURL() string {
	if c.DB.Driver == DriverSQLite {
		return "sqlite3://" + c.DB.SQLitePath
	}
	return c.DB.DatabaseURI
}

// MigrationsURL источник миграций в формате golang-migrate
func (c *Config) MigrationsURL() string {
	return "file://" + c.DB.Migrations
}

// Load читает .env, окружение и, если задан path, файл конфигурации
func Load(path string) (*Config, error) {
	_ = godotenv.Load(envPath)

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Env: v.GetString("app_env"),
		DB: DB{
			Driver:      strings.ToLower(v.GetString("store_driver")),
			DatabaseURI: v.GetString("database_uri"),
			SQLitePath:  v.GetString("sqlite_path"),
			Migrations:  v.GetString("migrations_path"),
		},
		Server: Server{RunAddress: v.GetString("run_address")},
		Logger: Logger{LogLevel: strings.ToLower(v.GetString("log_level"))},
		Concur: Concur{
			BaseURL:     v.GetString("concur_base_url"),
			AccessToken: v.GetString("concur_access_token"),
			Timeout:     time.Duration(v.GetInt("concur_timeout_seconds")) * time.Second,
			ListID:      v.GetString("concur_list_id"),
		},
		Sync: Sync{
			Concurrency: v.GetInt("sync_concurrency"),
			Schedule:    v.GetString("sync_schedule"),
			BatchLimit:  v.GetInt("sync_batch_limit"),
			Entities:    splitList(v.GetString("sync_entities")),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", EnvLocal)
	v.SetDefault("log_level", "")
	v.SetDefault("store_driver", DriverPostgres)
	v.SetDefault("sqlite_path", "concursync.db")
	v.SetDefault("migrations_path", "migrations")
	v.SetDefault("run_address", ":8080")
	v.SetDefault("concur_timeout_seconds", 30)
	v.SetDefault("sync_concurrency", 4)
	v.SetDefault("sync_batch_limit", 0)
	v.SetDefault("sync_entities", "")
	v.SetDefault("sync_schedule", "")
	v.SetDefault("database_uri", "")
	v.SetDefault("concur_base_url", "")
	v.SetDefault("concur_access_token", "")
	v.SetDefault("concur_list_id", "")
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.DatabaseURI == "" {
			return fmt.Errorf("%w: DATABASE_URI", ErrMissingDatabase)
		}
	case DriverSQLite:
		if c.DB.SQLitePath == "" {
			return fmt.Errorf("%w: SQLITE_PATH", ErrMissingDatabase)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.DB.Driver)
	}

	if c.Sync.Concurrency < 1 {
		return fmt.Errorf("%w: SYNC_CONCURRENCY must be positive", ErrInvalidValue)
	}
	if c.Sync.BatchLimit < 0 {
		return fmt.Errorf("%w: SYNC_BATCH_LIMIT must not be negative", ErrInvalidValue)
	}
	if c.Concur.Timeout <= 0 {
		return fmt.Errorf("%w: CONCUR_TIMEOUT_SECONDS must be positive", ErrInvalidValue)
	}
	if c.Logger.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(c.Logger.LogLevel)); err != nil {
			return fmt.Errorf("%w: LOG_LEVEL %q", ErrInvalidValue, c.Logger.LogLevel)
		}
	}
	return nil
}

// splitList разбирает "vendor, invoice" в срез без пустых элементов
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
