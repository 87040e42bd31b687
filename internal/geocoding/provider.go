package geocoding

import (
	"context"

	"github.com/UnknownOlympus/places/internal/models"
)

// Provider is an interface that defines geocoding in both directions.
// Geocode resolves an address to the best matching place, Reverse resolves
// a point to the closest known place.
type Provider interface {
	Geocode(ctx context.Context, address string) (*models.Place, error)
	Reverse(ctx context.Context, coords models.Coordinates) (*models.Place, error)
}
