package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the places geocoding service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the monitoring server.
// - Places: Credentials and defaults for the Algolia Places API.
// - Workers: The number of concurrent workers for processing tasks.
// - Interval: The duration between polling rounds.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env        string         // Env is the current environment: local, development, production.
	Port       int            // Port is the monitoring server port.
	Places     PlacesConfig   // Places holds the Algolia Places client configuration.
	Workers    int            // The number of concurrent workers for processing tasks.
	Interval   time.Duration  // The duration between polling rounds.
	Database   PostgresConfig // Database holds the postgres database configuration.
	AddrPrefix string         // Address prefix for more accurate geocoding.
}

// PlacesConfig holds the Algolia Places credentials and client defaults.
type PlacesConfig struct {
	AppID     string        // AppID is the Algolia application id.
	APIKey    string        // APIKey is the Algolia API key.
	Timeout   time.Duration // Timeout bounds every API request.
	Language  string        // Language is sent as the default "language" parameter.
	Countries []string      // Countries restricts search results to these country codes.
	RateLimit int           // RateLimit caps requests per second, 0 disables the limit.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// MustLoad reads the configuration from the environment, after loading a .env
// file when one is present. It panics on malformed values.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PLACES_ENV", "production")
	v.SetDefault("PLACES_HEALTH_PORT", "8080")
	v.SetDefault("PLACES_TIMEOUT", "10s")
	v.SetDefault("PLACES_RATE_LIMIT", "0")
	v.SetDefault("PLACES_WORKERS", "10")
	v.SetDefault("PLACES_INTERVAL", "10m")
	v.SetDefault("DB_PORT", "5432")

	interval, err := time.ParseDuration(v.GetString("PLACES_INTERVAL"))
	if err != nil {
		panic("failed to parse interval from configuration")
	}

	timeout, err := time.ParseDuration(v.GetString("PLACES_TIMEOUT"))
	if err != nil {
		panic("failed to parse request timeout from configuration")
	}

	healthPort, err := strconv.Atoi(v.GetString("PLACES_HEALTH_PORT"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	workers, err := strconv.Atoi(v.GetString("PLACES_WORKERS"))
	if err != nil {
		panic("failed to parse workers from configuration, must be an integer types")
	}

	rateLimit, err := strconv.Atoi(v.GetString("PLACES_RATE_LIMIT"))
	if err != nil {
		panic("failed to parse rate limit from configuration, must be an integer types")
	}

	return &Config{
		Env:        v.GetString("PLACES_ENV"),
		AddrPrefix: v.GetString("PLACES_ADDRESS_PREFIX"),
		Port:       healthPort,
		Places: PlacesConfig{
			AppID:     v.GetString("PLACES_APP_ID"),
			APIKey:    v.GetString("PLACES_API_KEY"),
			Timeout:   timeout,
			Language:  v.GetString("PLACES_LANGUAGE"),
			Countries: splitList(v.GetString("PLACES_COUNTRIES")),
			RateLimit: rateLimit,
		},
		Workers:  workers,
		Interval: interval,
		Database: PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USERNAME"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
	}
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}
