package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	AppName          string
	AgentKey         string
	VendorAPIKey     string
	VendorBaseURL    string
	CostMultiplier   float64
	AllowedOrigins   []string
	DefaultLocale    string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("PORT", "8080"),
		AppName:       getEnv("APP_NAME", "nano-banana-generator"),
		AgentKey:      os.Getenv("AGENT_KEY"),
		VendorAPIKey:  os.Getenv("MULERUN_API_KEY"),
		VendorBaseURL: strings.TrimRight(os.Getenv("MULERUN_BASE_URL"), "/"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		// The write timeout must cover the vendor poll loop's worst case
		// (60 attempts at 2s apart), otherwise the server cuts off
		// in-flight generations before they can finish.
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 150)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.AgentKey == "" {
		return nil, fmt.Errorf("AGENT_KEY is required")
	}
	if cfg.VendorAPIKey == "" {
		return nil, fmt.Errorf("MULERUN_API_KEY is required")
	}
	if cfg.VendorBaseURL == "" {
		return nil, fmt.Errorf("MULERUN_BASE_URL is required")
	}

	cfg.CostMultiplier = getEnvFloat("CREATOR_MULTIPLIER", 1.0)

	for _, origin := range strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return fallback
}
