package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"apod-bot/internal/dates"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	APOD     APODConfig     `yaml:"apod"`
	Feed     FeedConfig     `yaml:"feed"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Admin    AdminConfig    `yaml:"admin"`
	Log      LogConfig      `yaml:"log"`
}

// TelegramConfig holds Bot API configuration
type TelegramConfig struct {
	Token       string `yaml:"token"`
	PollTimeout int    `yaml:"poll_timeout"` // seconds of long polling
}

// APODConfig holds picture feed configuration
type APODConfig struct {
	BaseURL          string        `yaml:"base_url"`
	APIKey           string        `yaml:"api_key"`
	Timeout          time.Duration `yaml:"timeout"`
	FallbackImageURL string        `yaml:"fallback_image_url"`
}

// FeedConfig holds the bounds of the picture feed
type FeedConfig struct {
	EarliestDate string `yaml:"earliest_date"`
	Timezone     string `yaml:"timezone"`
	CaptionLimit int    `yaml:"caption_limit"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// ServerConfig holds admin HTTP server configuration. Port 0 disables it.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// AdminConfig identifies the single administrator
type AdminConfig struct {
	UserID    int64         `yaml:"user_id"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used for anything left unset
func Default() *Config {
	return &Config{
		Telegram: TelegramConfig{PollTimeout: 30},
		APOD: APODConfig{
			BaseURL: "https://api.nasa.gov/planetary/apod",
			APIKey:  "DEMO_KEY",
			Timeout: 10 * time.Second,
		},
		Feed: FeedConfig{
			EarliestDate: dates.Earliest,
			Timezone:     "America/New_York",
			CaptionLimit: 1024,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
		Admin: AdminConfig{TokenTTL: 24 * time.Hour},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads configuration from .env, an optional YAML file and the
// environment, in increasing order of precedence
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	str("TELEGRAM_BOT_TOKEN", &c.Telegram.Token)
	str("NASA_TOKEN", &c.APOD.APIKey)
	str("DB_HOSTNAME", &c.Database.Host)
	str("DB_USERNAME", &c.Database.User)
	str("DB_PASSWORD", &c.Database.Password)
	str("DB_DATABASE", &c.Database.DBName)
	str("DB_SSLMODE", &c.Database.SSLMode)
	str("ADMIN_JWT_SECRET", &c.Admin.JWTSecret)
	str("LOG_LEVEL", &c.Log.Level)

	if v := strings.TrimSpace(getenv("DB_PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_PORT: %w", err)
		}
		c.Database.Port = port
	}
	if v := strings.TrimSpace(getenv("ADMIN_USER_ID")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ADMIN_USER_ID: %w", err)
		}
		c.Admin.UserID = id
	}
	return nil
}

// Validate checks the configuration for values the bot cannot run with
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return errors.New("telegram token is required")
	}
	if _, err := dates.NewCalendar(c.Feed.EarliestDate, c.Feed.Timezone); err != nil {
		return fmt.Errorf("invalid feed config: %w", err)
	}
	// The caption header alone is "Picture from DD.MM\n".
	if c.Feed.CaptionLimit < 20 {
		return fmt.Errorf("caption_limit %d is too small", c.Feed.CaptionLimit)
	}
	if c.Server.Port != 0 && c.Admin.JWTSecret == "" {
		return errors.New("admin jwt_secret is required when the admin server is enabled")
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
