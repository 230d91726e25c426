package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks Config for production-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// JWT secret
	if len(c.JWT.AccessSecret) < 32 {
		errs = append(errs, "JWT_ACCESS_SECRET must be at least 32 characters")
	}

	// DB password
	if c.DB.Password == "" {
		errs = append(errs, "DB_PASSWORD is required")
	}

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1–65535, got %d", c.Server.Port))
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Sprintf("DB_PORT must be 1–65535, got %d", c.DB.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1–65535, got %d", c.Redis.Port))
	}

	// Provider credentials: warn only — each provider degrades gracefully
	// to a "not configured" answer at request time.
	if c.Providers.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY is empty — intent classification will fall back to the apology answer")
	}
	if c.Providers.SerpAPIKey == "" {
		slog.Warn("SERPAPI_API_KEY is empty — image, YouTube, and fact-check search disabled")
	}
	if c.Providers.PexelsAPIKey == "" {
		slog.Warn("PEXELS_API_KEY is empty — stock photo and video search disabled")
	}
	if c.Providers.GiphyAPIKey == "" {
		slog.Warn("GIPHY_API_KEY is empty — GIF search disabled")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
