package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownStorageDriver        = errors.New("unknown storage driver")
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env             string   `mapstructure:"env"`               // current application environment (local, dev, production)
	Timezone        string   `mapstructure:"timezone"`          // learner timezone, IANA name or UTC offset
	ContentJSONPath string   `mapstructure:"content_json_path"` // optional course file; built-in path when empty
	Storage         Storage  `mapstructure:"storage"`           // record store configuration section
	DB              DB       `mapstructure:"database"`          // postgres configuration section
	Redis           Redis    `mapstructure:"redis"`             // redis configuration section
	Sync            Sync     `mapstructure:"sync"`              // queue replay configuration section
	AI              AI       `mapstructure:"ai"`                // assistant configuration section
	Telegram        Telegram `mapstructure:"telegram"`          // telegram configuration section
}

// Storage selects the record store backend.
type Storage struct {
	Driver     string `mapstructure:"driver"`      // sqlite, postgres, redis or memory
	SQLitePath string `mapstructure:"sqlite_path"` // database file for the sqlite driver
	KeyPrefix  string `mapstructure:"key_prefix"`  // namespace for redis keys and postgres rows
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Redis contains redis connection parameters.
type Redis struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"-"` // loaded from environment
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Sync configures periodic queue replay.
type Sync struct {
	Cron string `mapstructure:"cron"` // standard 5-field cron spec
}

// AI configures the pronunciation and recommendation assistant.
type AI struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"-"` // loaded from environment; assistant disabled when empty
	Model       string        `mapstructure:"model"`
	AudioModel  string        `mapstructure:"audio_model"`
	AudioFormat string        `mapstructure:"audio_format"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
}

// Enabled reports whether an API key is configured.
func (a AI) Enabled() bool {
	return a.APIKey != ""
}

// Telegram configures the optional chat front end.
type Telegram struct {
	APIToken string `mapstructure:"-"`       // Telegram API token loaded from environment
	ChatID   int64  `mapstructure:"chat_id"` // the learner's chat; updates from other chats are ignored
	Debug    bool   `mapstructure:"debug"`
}

// Enabled reports whether the bot is configured.
func (t Telegram) Enabled() bool {
	return t.APIToken != ""
}

// Load reads configuration from .env, config files and environment variables.
func Load() (*Config, error) {
	return LoadFrom("./config")
}

// LoadFrom is Load with an explicit config directory.
func LoadFrom(configDir string) (*Config, error) {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("content_json_path", "")
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", "data/arabingo.db")
	v.SetDefault("storage.key_prefix", "arabingo")
	v.SetDefault("database.max_connections", 5)
	v.SetDefault("database.max_conn_lifetime", "30m")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.timeout", "3s")
	v.SetDefault("sync.cron", "*/5 * * * *")
	v.SetDefault("ai.base_url", "https://api.openai.com")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.audio_model", "gpt-4o-audio-preview")
	v.SetDefault("ai.audio_format", "wav")
	v.SetDefault("ai.timeout", "15s")
	v.SetDefault("ai.max_retries", 2)
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.debug", false)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("ai_api_key", "AI_API_KEY", "OPENAI_API_KEY")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.Telegram.APIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")
	cfg.Redis.Password = v.GetString("redis_password")
	cfg.AI.APIKey = v.GetString("ai_api_key")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverRedis, DriverMemory:
	case DriverPostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageDriver, c.Storage.Driver)
	}

	if c.Telegram.Enabled() && c.Telegram.ChatID == 0 {
		return fmt.Errorf("%w: TELEGRAM_CHAT_ID", ErrMissingEnvironmentVariables)
	}
	return nil
}
