package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends for the achievement profile.
const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

// Config holds the application configuration.
type Config struct {
	WaitingForEvents time.Duration `env:"SUNNYTOWN_WAITING_FOR_EVENTS" envDefault:"2500ms"`
	FeedbackWait     time.Duration `env:"SUNNYTOWN_FEEDBACK_WAIT" envDefault:"100ms"`
	AnimationWait    time.Duration `env:"SUNNYTOWN_ANIMATION_WAIT" envDefault:"3s"`
	MinorPerPlot     int           `env:"SUNNYTOWN_MINOR_PER_PLOT" envDefault:"0"`
	CardsPerDay      int           `env:"SUNNYTOWN_CARDS_PER_DAY" envDefault:"0"`

	WeatherThreshold int     `env:"SUNNYTOWN_WEATHER_THRESHOLD" envDefault:"40"`
	WeatherStep      float64 `env:"SUNNYTOWN_WEATHER_STEP" envDefault:"0.05"`

	Player   string `env:"SUNNYTOWN_PLAYER" envDefault:"Mayor"`
	DeckPath string `env:"SUNNYTOWN_DECK_PATH"`
	Seed     int64  `env:"SUNNYTOWN_SEED"`
	LogFile  string `env:"SUNNYTOWN_LOG_FILE" envDefault:"sunnytown.log"`

	SaveDir       string `env:"SUNNYTOWN_SAVE_DIR" envDefault:".saves"`
	Store         string `env:"SUNNYTOWN_STORE" envDefault:"file"`
	RedisAddr     string `env:"SUNNYTOWN_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"SUNNYTOWN_REDIS_PASSWORD"`
	RedisDB       int    `env:"SUNNYTOWN_REDIS_DB" envDefault:"0"`

	// GeminiAPIKey enables generated minor cards when set.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	// GeneratedCards is how many minor cards to ask for.
	GeneratedCards int `env:"SUNNYTOWN_GENERATED_CARDS" envDefault:"4"`
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Store != StoreFile && c.Store != StoreRedis:
		return fmt.Errorf("SUNNYTOWN_STORE must be %q or %q, got %q", StoreFile, StoreRedis, c.Store)
	case c.WaitingForEvents < 0 || c.FeedbackWait < 0 || c.AnimationWait < 0:
		return fmt.Errorf("durations must not be negative")
	case c.MinorPerPlot < 0 || c.CardsPerDay < 0:
		return fmt.Errorf("card counts must not be negative")
	case c.WeatherStep < 0 || c.WeatherStep > 1:
		return fmt.Errorf("SUNNYTOWN_WEATHER_STEP must be in [0, 1], got %v", c.WeatherStep)
	}
	return nil
}
