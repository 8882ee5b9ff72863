// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string
	LogLevel slog.Level

	// DBPath enables the sqlite action journal when non-empty.
	DBPath string

	AuthMode    string // "none", "apikey", "bearer"
	APIKey      string
	BearerToken string

	RateRPS   float64
	RateBurst int

	TraceExporter string // "off", "stdout", "otlp"
	OTLPEndpoint  string
}

// Load reads the environment into a Config. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load() // absent .env is fine for CI and production

	return Config{
		Addr:          getString("ADDR", ":8080"),
		LogLevel:      parseLevel(os.Getenv("LOG_LEVEL")),
		DBPath:        os.Getenv("DB_PATH"),
		AuthMode:      getString("AUTH_MODE", "none"),
		APIKey:        os.Getenv("API_KEY"),
		BearerToken:   os.Getenv("BEARER_TOKEN"),
		RateRPS:       getFloat("RATE_RPS", 0),
		RateBurst:     getInt("RATE_BURST", 1),
		TraceExporter: getString("TRACE_EXPORTER", "off"),
		OTLPEndpoint:  os.Getenv("OTLP_ENDPOINT"),
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return parsed
}

func getFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return parsed
}
