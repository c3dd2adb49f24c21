package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseURL         string
	RedisURL            string
	NATSURL             string
	JWTSecret           string
	ProgressCacheTTL    time.Duration
	ReminderWindow      time.Duration
	ReminderInterval    time.Duration
	ReminderSuppression time.Duration
	ReminderChannelBase string
	SeedEnabled         bool
	SeedToken           string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PROGRESS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Course Progress API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("progress.cache_ttl", "5m")
	v.SetDefault("reminder.window", "48h")
	v.SetDefault("reminder.interval", "1h")
	v.SetDefault("reminder.suppression", "24h")
	v.SetDefault("reminder.channel_base", "course-progress")
	v.SetDefault("seed.enabled", false)

	cacheTTL, err := durationValue(v, "progress.cache_ttl")
	if err != nil {
		return Config{}, fmt.Errorf("invalid progress cache ttl: %w", err)
	}

	reminderWindow, err := durationValue(v, "reminder.window")
	if err != nil {
		return Config{}, fmt.Errorf("invalid reminder window: %w", err)
	}

	reminderInterval, err := durationValue(v, "reminder.interval")
	if err != nil {
		return Config{}, fmt.Errorf("invalid reminder interval: %w", err)
	}

	reminderSuppression, err := durationValue(v, "reminder.suppression")
	if err != nil {
		return Config{}, fmt.Errorf("invalid reminder suppression: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		NATSURL:             v.GetString("nats.url"),
		JWTSecret:           v.GetString("jwt.secret"),
		ProgressCacheTTL:    cacheTTL,
		ReminderWindow:      reminderWindow,
		ReminderInterval:    reminderInterval,
		ReminderSuppression: reminderSuppression,
		ReminderChannelBase: v.GetString("reminder.channel_base"),
		SeedEnabled:         v.GetBool("seed.enabled"),
		SeedToken:           v.GetString("seed.token"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}

func durationValue(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, fmt.Errorf("value must not be empty")
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("duration must be positive")
	}

	return parsed, nil
}
