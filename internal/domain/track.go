// Package domain contains the core data types for the Trackday API.
// It is imported by every other internal package (repo, service, handler)
// and depends on nothing inside the module.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Track is a motorsport venue. Tracks are the top-level aggregate;
// availability slots and events belong to a track.
//
// Distance is the lap length in kilometres. Zero means the length is unknown,
// and such tracks never match a length-bounded search.
type Track struct {
	ID           uuid.UUID
	Name         string
	Location     string
	Latitude     float64
	Longitude    float64
	Distance     float64
	Description  string
	Tags         []string
	Availability []AvailabilitySlot
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NearbyTrack is a Track annotated with its great-circle distance from the
// point a nearby search was centred on.
type NearbyTrack struct {
	Track
	DistanceKm float64
}

// GeoQuery is the centre and radius of a nearby search.
type GeoQuery struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}
