package catalog

import (
	"errors"
	"fmt"
)

// Base classes. The API layer maps these to HTTP status codes, so every
// entity-specific error below wraps exactly one of them.
var (
	// ErrNotFound indicates a lookup by ID matched nothing.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates an ID is already registered.
	ErrConflict = errors.New("already registered")

	// ErrInvalid indicates a request that violates a catalog rule.
	ErrInvalid = errors.New("invalid request")
)

// Entity-specific errors. Checked with errors.Is against both the
// specific error and its base class.
var (
	ErrDeviceNotFound     = fmt.Errorf("device %w", ErrNotFound)
	ErrServiceNotFound    = fmt.Errorf("service %w", ErrNotFound)
	ErrGreenhouseNotFound = fmt.Errorf("greenhouse %w", ErrNotFound)
	ErrZoneNotFound       = fmt.Errorf("zone %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)

	ErrDeviceExists     = fmt.Errorf("device %w", ErrConflict)
	ErrServiceExists    = fmt.Errorf("service %w", ErrConflict)
	ErrGreenhouseExists = fmt.Errorf("greenhouse %w", ErrConflict)
	ErrZoneExists       = fmt.Errorf("zone %w", ErrConflict)
	ErrUserExists       = fmt.Errorf("user %w", ErrConflict)

	// ErrTemperatureOverlap indicates a zone's temperature range
	// intersects a sibling zone's range in the same greenhouse.
	ErrTemperatureOverlap = fmt.Errorf("%w: temperature range overlaps a sibling zone", ErrInvalid)

	// ErrMoistureOutOfRange indicates a moisture threshold outside [0, 100].
	ErrMoistureOutOfRange = fmt.Errorf("%w: moisture threshold must be between 0 and 100", ErrInvalid)

	// ErrMoistureRequired indicates a zone payload without a moisture threshold.
	ErrMoistureRequired = fmt.Errorf("%w: moisture threshold is required", ErrInvalid)

	// ErrOwnerRequired indicates a device registration naming neither a
	// greenhouse nor a zone.
	ErrOwnerRequired = fmt.Errorf("%w: device owner greenhouseID or zoneID is required", ErrInvalid)

	// ErrTemperatureRangeInverted indicates min > max.
	ErrTemperatureRangeInverted = fmt.Errorf("%w: temperature range min exceeds max", ErrInvalid)
)
