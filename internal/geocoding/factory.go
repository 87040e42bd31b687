package geocoding

import (
	"errors"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/places/pkg/places"
	"golang.org/x/time/rate"
)

// ProviderConfig holds configuration for creating the Algolia Places provider.
type ProviderConfig struct {
	AppID     string          // Algolia application id
	APIKey    string          // Algolia API key
	Language  string          // Preferred result language, empty for the API default
	Countries []string        // Restricts search results to these ISO country codes
	Timeout   time.Duration   // Request timeout, places.DefaultTimeout when zero
	RateLimit int             // Requests per second, unlimited when zero
	Logger    *slog.Logger    // Logger for the provider
	Recorder  places.Recorder // Optional observer of every API call
}

// Errors returned by NewProvider for incomplete configuration.
var (
	ErrMissingAppID  = errors.New("application id is required for Algolia Places provider")
	ErrMissingAPIKey = errors.New("API key is required for Algolia Places provider")
)

// NewProvider builds a places.Client from config and wraps it in a PlacesProvider.
// The language and country restriction become client defaults.
func NewProvider(config ProviderConfig) (*PlacesProvider, error) {
	if config.AppID == "" {
		return nil, ErrMissingAppID
	}
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	opts := []places.Option{places.WithLogger(config.Logger)}
	if config.Timeout > 0 {
		opts = append(opts, places.WithTimeout(config.Timeout))
	}
	if config.Recorder != nil {
		opts = append(opts, places.WithRecorder(config.Recorder))
	}

	client := places.NewClient(config.AppID, config.APIKey, opts...)

	defaults := places.Params{}
	if config.Language != "" {
		defaults[places.ParamLanguage] = config.Language
	}
	if len(config.Countries) > 0 {
		defaults["countries"] = config.Countries
	}
	client.Defaults(defaults)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.RateLimit)
	}

	return NewPlacesProvider(client, config.Language, limiter, config.Logger), nil
}
