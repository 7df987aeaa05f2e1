package domain

import "context"

// Geocoder resolves a free-text place description to coordinates.
// Implementations return ErrLocationNotFound when the service has no match
// for the text.
type Geocoder interface {
	Resolve(ctx context.Context, location string) (Coordinates, error)
}

// IrradianceProvider fetches average daily irradiance for a point.
// Implementations never stamp the Source field on the reading; that is the
// orchestrator's call, since the same provider could serve either tier.
type IrradianceProvider interface {
	// Name is a short stable identifier used in logs, metrics, and results.
	Name() string

	Fetch(ctx context.Context, coords Coordinates) (IrradianceReading, error)
}
