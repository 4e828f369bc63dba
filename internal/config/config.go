package config

import (
	"os"
	"strings"
	"time"
)

// Config holds application settings read from the environment. godotenv
// populates the environment from .env before Load runs (see cmd/crmd).
type Config struct {
	Port        string
	DatabaseURL string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	DefaultCurrency     string
	SupportedCurrencies []string

	AnalyticsCacheTTL time.Duration

	AllowedOrigins []string
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

var defaultCurrencies = []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "CHF", "CNY"}

var App = Load()

func Load() Config {
	return Config{
		Port:                envString("PORT", "3000"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		AccessTokenTTL:      envDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:     envDuration("REFRESH_TOKEN_TTL", 168*time.Hour),
		DefaultCurrency:     strings.ToUpper(envString("DEFAULT_CURRENCY", "USD")),
		SupportedCurrencies: envList("SUPPORTED_CURRENCIES", defaultCurrencies),
		AnalyticsCacheTTL:   envDuration("ANALYTICS_CACHE_TTL", 5*time.Minute),
		AllowedOrigins:      initAllowedOrigins(),
	}
}

// IsSupportedCurrency reports whether code is in the configured whitelist.
// Comparison is case-insensitive; stored currencies are always uppercase.
func (c Config) IsSupportedCurrency(code string) bool {
	upper := strings.ToUpper(code)
	for _, cur := range c.SupportedCurrencies {
		if strings.ToUpper(cur) == upper {
			return true
		}
	}
	return false
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	d, err := time.ParseDuration(v)

	if err != nil {
		return fallback
	}

	return d
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	var items []string

	for _, item := range strings.Split(v, ",") {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}

	if len(items) == 0 {
		return fallback
	}

	return items
}

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		for _, origin := range strings.Split(allowedOrigins, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
