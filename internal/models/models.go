// Package models holds the values passed between the repository, the
// geocoding provider and the service.
package models

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Place is a geocoding result: the point and a human readable label for it.
type Place struct {
	Coordinates
	Label string // Label is the localized place name, e.g. "Lviv, Ukraine".
}

// Task is a row waiting to be geocoded.
type Task struct {
	ID      int    // task_id
	Address string // free-form address sent as the search query

	// Coordinates is set for tasks that are already located but have no label yet.
	Coordinates *Coordinates
}
