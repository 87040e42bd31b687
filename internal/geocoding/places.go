package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/places/internal/models"
	"github.com/UnknownOlympus/places/pkg/places"
	"golang.org/x/time/rate"
)

// PlacesAPI is the subset of places.Client used by the provider.
type PlacesAPI interface {
	Search(ctx context.Context, query string, params places.Params) (*places.Response, error)
	Reverse(ctx context.Context, lat, lon float64, params places.Params) (*places.Response, error)
}

// PlacesProvider implements geocoding using the Algolia Places API.
type PlacesProvider struct {
	client   PlacesAPI     // Algolia Places client
	language string        // Language used to pick localized names
	limiter  *rate.Limiter // Rate limiter
	log      *slog.Logger  // Logger for logging operations
}

// Common errors for the Places provider.
var (
	ErrEmptyAddress  = errors.New("places provider got empty address")
	ErrEmptyResponse = errors.New("places API returned empty response")
	ErrInvalidCoords = errors.New("places API returned invalid coordinates")
)

// placesHit is the part of an Algolia Places hit the provider reads. Localized
// fields are a plain value when a language is requested and a per-language map otherwise.
type placesHit struct {
	Geoloc *struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	} `json:"_geoloc"`
	LocaleNames json.RawMessage `json:"locale_names"`
	Country     json.RawMessage `json:"country"`
}

type placesResult struct {
	Hits []placesHit `json:"hits"`
}

// NewPlacesProvider creates a provider on top of an existing client.
func NewPlacesProvider(client PlacesAPI, language string, limiter *rate.Limiter, log *slog.Logger) *PlacesProvider {
	return &PlacesProvider{
		client:   client,
		language: language,
		limiter:  limiter,
		log:      log,
	}
}

// Geocode converts an address into the best matching place.
func (pp *PlacesProvider) Geocode(ctx context.Context, address string) (*models.Place, error) {
	if address == "" {
		return nil, ErrEmptyAddress
	}

	if err := pp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	pp.log.DebugContext(ctx, "Geocoding using Algolia Places", "address", address)

	resp, err := pp.client.Search(ctx, address, places.Params{places.ParamHitsPerPage: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}

	place, err := pp.firstPlace(resp)
	if err != nil {
		return nil, err
	}

	pp.log.DebugContext(ctx, "Places found result", "address", address, "label", place.Label,
		"lat", place.Latitude, "lon", place.Longitude)

	return place, nil
}

// Reverse returns the place closest to coords.
func (pp *PlacesProvider) Reverse(ctx context.Context, coords models.Coordinates) (*models.Place, error) {
	if err := pp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	pp.log.DebugContext(ctx, "Reverse geocoding using Algolia Places",
		"lat", coords.Latitude, "lon", coords.Longitude)

	resp, err := pp.client.Reverse(ctx, coords.Latitude, coords.Longitude, places.Params{places.ParamHitsPerPage: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to reverse geocode coordinates: %w", err)
	}

	return pp.firstPlace(resp)
}

func (pp *PlacesProvider) firstPlace(resp *places.Response) (*models.Place, error) {
	var result placesResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}

	if len(result.Hits) == 0 {
		return nil, ErrEmptyResponse
	}

	hit := result.Hits[0]
	if hit.Geoloc == nil || hit.Geoloc.Lat == nil || hit.Geoloc.Lng == nil {
		return nil, ErrInvalidCoords
	}

	return &models.Place{
		Coordinates: models.Coordinates{Latitude: *hit.Geoloc.Lat, Longitude: *hit.Geoloc.Lng},
		Label:       pp.label(hit),
	}, nil
}

func (pp *PlacesProvider) label(hit placesHit) string {
	parts := make([]string, 0, 2)
	for _, raw := range []json.RawMessage{hit.LocaleNames, hit.Country} {
		if name := localized(raw, pp.language); name != "" {
			parts = append(parts, name)
		}
	}

	return strings.Join(parts, ", ")
}

// localized extracts a single name from a localized field.
func localized(raw json.RawMessage, language string) string {
	if len(raw) == 0 {
		return ""
	}

	var single string
	if json.Unmarshal(raw, &single) == nil {
		return single
	}

	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return first(list)
	}

	var perLanguage map[string]json.RawMessage
	if json.Unmarshal(raw, &perLanguage) != nil {
		return ""
	}
	for _, key := range []string{language, "default"} {
		if value, ok := perLanguage[key]; ok {
			return localized(value, "")
		}
	}

	return ""
}

func first(list []string) string {
	if len(list) == 0 {
		return ""
	}

	return list[0]
}
