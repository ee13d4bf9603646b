package config

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// CURTAILING_DB_URL.
const EnvPrefix = "CURTAILING"

type Config struct {
	DBURL         string        `mapstructure:"db_url"`
	ListenOn      string        `mapstructure:"listen_on"`
	BaseURL       string        `mapstructure:"base_url"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	TelegramToken string        `mapstructure:"telegram_api_token"`
	LogLevel      string        `mapstructure:"log_level"`
}

var listenOnPattern = regexp.MustCompile(`:[0-9]+$`)

// Load reads .env (if present) into the environment and builds a validated
// Config from it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("Error loading .env file", "error", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("db_url", ":memory:")
	v.SetDefault("listen_on", "127.0.0.1:3000")
	v.SetDefault("base_url", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("cache_ttl", 10*time.Minute)
	v.SetDefault("telegram_api_token", "")
	v.SetDefault("log_level", "info")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://" + cfg.ListenOn
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DBURL == "" {
		return errors.New("db_url must be set")
	}

	if c.ListenOn == "" {
		return errors.New("listen_on must be set (IP:port)")
	}

	if !listenOnPattern.MatchString(c.ListenOn) {
		return errors.New(`listen_on must be an "IP:port" string. Use "127.0.0.1:port" or "[::]:port" ` +
			`for localhost. Use "0.0.0.0:port" for all interfaces`)
	}

	if c.CacheTTL < 0 {
		return errors.New("cache_ttl must not be negative")
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// Level parses LogLevel as a slog level name.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
