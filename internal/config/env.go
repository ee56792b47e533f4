package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Env is the API server's environment-driven configuration.
type Env struct {
	Port        string
	Mode        string
	CORSOrigins []string
	// MarketTTL is how long an idle market stays in the registry.
	MarketTTL time.Duration
	LogLevel  string
}

func (e Env) Production() bool { return e.Mode == "production" }

// LoadEnv reads API_PORT, API_ENV, CORS_ORIGINS (comma separated), MARKET_TTL
// and LOG_LEVEL after loading any .env file.
func LoadEnv() (Env, error) {
	LoadDotenvOnce()

	e := Env{
		Port:      EnvOr("API_PORT", "8080"),
		Mode:      EnvOr("API_ENV", "development"),
		MarketTTL: time.Hour,
		LogLevel:  EnvOr("LOG_LEVEL", "info"),
	}
	for _, o := range strings.Split(EnvOr("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			e.CORSOrigins = append(e.CORSOrigins, o)
		}
	}
	if raw := os.Getenv("MARKET_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Env{}, fmt.Errorf("MARKET_TTL: %w", err)
		}
		if ttl <= 0 {
			return Env{}, fmt.Errorf("MARKET_TTL must be positive, got %s", raw)
		}
		e.MarketTTL = ttl
	}
	return e, nil
}

// EnvOr returns the trimmed value of key, or def when it is unset or blank.
func EnvOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
