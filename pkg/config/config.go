package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Model     ModelConfig     `mapstructure:"model"`
	Server    ServerConfig    `mapstructure:"server"`
	KeepAlive KeepAliveConfig `mapstructure:"keepalive"`
	Log       LogConfig       `mapstructure:"log"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
	// WebhookURL switches the bot from long polling to webhook delivery.
	WebhookURL string `mapstructure:"webhook_url"`
	// WebhookSecret is the last path segment of the webhook route.
	WebhookSecret string `mapstructure:"webhook_secret"`
	Debug         bool   `mapstructure:"debug"`
}

type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	DBName     string `mapstructure:"dbname"`
	SSLMode    string `mapstructure:"sslmode"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type ModelConfig struct {
	ArtifactPath      string  `mapstructure:"artifact_path"`
	KeyRate           float64 `mapstructure:"key_rate"`
	DeviationFraction float64 `mapstructure:"deviation"`
}

type ServerConfig struct {
	Port    int    `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"`
}

type KeepAliveConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	URL      string        `mapstructure:"url"`
	Interval time.Duration `mapstructure:"interval"`
}

type LogConfig struct {
	Development bool `mapstructure:"development"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return DatabaseConfig{}, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	sslMode := u.Query().Get("sslmode")
	if sslMode == "" {
		sslMode = "disable"
	}

	return DatabaseConfig{
		Driver:   DriverPostgres,
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   strings.TrimPrefix(u.Path, "/"),
		SSLMode:  sslMode,
	}, nil
}

// LoadConfig reads path (if it exists), a .env file in the working
// directory (if it exists) and the environment, in increasing priority.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	v.SetDefault("database.driver", DriverMemory)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.sqlite_path", "flatprice.db")
	v.SetDefault("model.artifact_path", "model/artifact.json")
	v.SetDefault("model.key_rate", 21.0)
	v.SetDefault("model.deviation", 0.08)
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("keepalive.enabled", false)
	v.SetDefault("keepalive.interval", "9m")
	v.SetDefault("log.development", false)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		config.Database = dbConfig
	}

	if token := v.GetString("TELEGRAM_BOT_TOKEN"); token != "" {
		config.Telegram.Token = token
	}

	if port := v.GetInt("PORT"); port > 0 {
		config.Server.Port = port
	}

	if host := v.GetString("RENDER_EXTERNAL_HOSTNAME"); host != "" {
		config.KeepAlive.Enabled = true
		if config.KeepAlive.URL == "" {
			config.KeepAlive.URL = "https://" + host
		}
		if config.Telegram.WebhookURL == "" && config.Telegram.WebhookSecret != "" {
			config.Telegram.WebhookURL = "https://" + host
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverMemory, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Model.KeyRate <= 0 {
		return fmt.Errorf("model.key_rate must be positive, got %v", c.Model.KeyRate)
	}
	if c.Model.DeviationFraction <= 0 || c.Model.DeviationFraction >= 1 {
		return fmt.Errorf("model.deviation must be in (0, 1), got %v", c.Model.DeviationFraction)
	}
	if c.KeepAlive.Enabled && c.KeepAlive.Interval <= 0 {
		return fmt.Errorf("keepalive.interval must be positive, got %v", c.KeepAlive.Interval)
	}
	if c.Telegram.WebhookURL != "" && c.Telegram.WebhookSecret == "" {
		return errors.New("telegram.webhook_secret is required in webhook mode")
	}
	return nil
}
