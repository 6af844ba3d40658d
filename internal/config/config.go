package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"quetest-service/internal/models"
)

type Config struct {
	MongoURI  string
	MongoDB   string
	Port      string
	JWTSecret string

	TokenTTL         time.Duration
	RotationInterval time.Duration

	Admins []models.AdminCredential

	RabbitURI      string
	RabbitExchange string

	// LegacyScoring reproduces the historical whole-result scoring where the
	// last question's addScore/subScore applied to every question.
	LegacyScoring bool

	// RequireTestcode makes registration verify the submitted code against
	// the question store. On by default; simpler deployments may disable it.
	RequireTestcode bool
}

func Load() (*Config, error) {
	cfg := &Config{
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "quetest"),
		Port:             getEnv("PORT", "8080"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		TokenTTL:         time.Hour,
		RotationInterval: 48 * time.Hour,
		RabbitURI:        os.Getenv("RABBITMQ_URI"),
		RabbitExchange:   os.Getenv("RABBITMQ_EXCHANGE"),
		LegacyScoring:    os.Getenv("SCORING_COMPAT_LEGACY") == "true",
		RequireTestcode:  os.Getenv("REQUIRE_TESTCODE") != "false",
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
		cfg.TokenTTL = d
	}
	if v := os.Getenv("ROTATION_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ROTATION_INTERVAL %q: %w", v, err)
		}
		cfg.RotationInterval = d
	}

	if v := os.Getenv("ADMIN_CREDENTIALS"); v != "" {
		if err := json.Unmarshal([]byte(v), &cfg.Admins); err != nil {
			return nil, fmt.Errorf("invalid ADMIN_CREDENTIALS: %w", err)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
