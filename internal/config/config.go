package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the portal. The three remote
// API base URLs point at independent backends; each one is configured
// separately because they are deployed as separate gateways.
type Config struct {
	ListenAddr  string
	BaseURL     string
	Environment string

	API struct {
		AuthBaseURL         string
		SignupBaseURL       string
		AppointmentsBaseURL string
	}

	Session struct {
		Secret string
	}

	PrometheusEnabled bool
	TrustedProxies    []string
}

// Load reads configuration from the environment. A .env file is loaded
// first when present so local development does not need exported variables.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	cfg.ListenAddr = getenvDefault("APP_LISTEN_ADDR", ":8080")
	cfg.BaseURL = getenvDefault("APP_BASE_URL", "http://localhost:8080")
	cfg.Environment = getenvDefault("APP_ENV", "development")

	cfg.API.AuthBaseURL = os.Getenv("APP_AUTH_API_URL")
	cfg.API.SignupBaseURL = os.Getenv("APP_SIGNUP_API_URL")
	cfg.API.AppointmentsBaseURL = os.Getenv("APP_APPOINTMENTS_API_URL")

	cfg.Session.Secret = os.Getenv("APP_SESSION_SECRET")
	cfg.PrometheusEnabled = getenvBool("APP_PROMETHEUS_ENDPOINT_ENABLED", false)
	cfg.TrustedProxies = getenvList("APP_TRUSTED_PROXIES")

	var missing []string
	if cfg.API.AuthBaseURL == "" {
		missing = append(missing, "APP_AUTH_API_URL")
	}
	if cfg.API.SignupBaseURL == "" {
		missing = append(missing, "APP_SIGNUP_API_URL")
	}
	if cfg.API.AppointmentsBaseURL == "" {
		missing = append(missing, "APP_APPOINTMENTS_API_URL")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if cfg.Session.Secret == "" {
		return nil, errors.New("APP_SESSION_SECRET is required")
	}
	if len(cfg.Session.Secret) < 32 {
		return nil, fmt.Errorf("APP_SESSION_SECRET must be at least 32 characters long (got %d)", len(cfg.Session.Secret))
	}

	for _, base := range []string{cfg.API.AuthBaseURL, cfg.API.SignupBaseURL, cfg.API.AppointmentsBaseURL} {
		if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
			return nil, fmt.Errorf("API base URL %q must include a scheme", base)
		}
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return def
}

func getenvList(key string) []string {
	if v := os.Getenv(key); v != "" {
		var result []string
		for _, item := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return nil
}
