// Package config reads the frontend's settings from environment variables.
//
// Every value has a default so `go run ./cmd/server` works against a backend
// on localhost:3000 with no setup. The getenv parameter is os.Getenv in
// production and a map lookup in tests.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port          int
	APIBaseURL    string
	APITimeout    time.Duration // 0 = no timeout
	APIRateLimit  float64       // requests per second, 0 = unlimited
	APIRateBurst  int
	DBPath        string
	SessionSecret string
	CookieSecure  bool
	LogLevel      slog.Level
	LogJSON       bool
}

// Default returns the configuration used when no variable is set.
func Default() Config {
	return Config{
		Port:         8080,
		APIBaseURL:   "http://localhost:3000",
		APIRateBurst: 10,
		DBPath:       "data/gitorbit.db",
		LogLevel:     slog.LevelDebug,
	}
}

// Load builds a Config from getenv and validates it.
func Load(getenv func(string) string) (Config, error) {
	cfg := Default()
	var errs []error

	if v := getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p <= 0 || p > 65535 {
			errs = append(errs, fmt.Errorf("PORT must be a port number, got %q", v))
		} else {
			cfg.Port = p
		}
	}

	if v := getenv("API_BASE_URL"); v != "" {
		cfg.APIBaseURL = strings.TrimRight(v, "/")
	}

	if v := getenv("API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			errs = append(errs, fmt.Errorf("API_TIMEOUT must be a duration like 10s, got %q", v))
		} else {
			cfg.APITimeout = d
		}
	}

	if v := getenv("API_RATE_LIMIT"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r < 0 {
			errs = append(errs, fmt.Errorf("API_RATE_LIMIT must be a non-negative number, got %q", v))
		} else {
			cfg.APIRateLimit = r
		}
	}

	if v := getenv("API_RATE_BURST"); v != "" {
		b, err := strconv.Atoi(v)
		if err != nil || b <= 0 {
			errs = append(errs, fmt.Errorf("API_RATE_BURST must be a positive integer, got %q", v))
		} else {
			cfg.APIRateBurst = b
		}
	}

	if v := getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}

	cfg.SessionSecret = getenv("SESSION_SECRET")
	cfg.CookieSecure = getenv("COOKIE_SECURE") == "true"

	if v := getenv("LOG_LEVEL"); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", v))
		} else {
			cfg.LogLevel = lvl
		}
	}

	switch f := getenv("LOG_FORMAT"); f {
	case "", "text":
	case "json":
		cfg.LogJSON = true
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", f))
	}

	if err := Validate(cfg); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate checks the cross-field rules Load cannot check one variable at a time.
func Validate(cfg Config) error {
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL, got %q", cfg.APIBaseURL)
	}
	if cfg.SessionSecret != "" && len(cfg.SessionSecret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 characters")
	}
	if cfg.DBPath == "" {
		return errors.New("DB_PATH must not be empty")
	}
	return nil
}

// Addr is the listen address for http.Server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
