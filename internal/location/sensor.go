package location

import (
	"context"
	"fmt"
	"time"
)

// ErrorKind classifies why a position reading could not be obtained.
type ErrorKind string

const (
	ErrPermissionDenied    ErrorKind = "permission_denied"
	ErrPositionUnavailable ErrorKind = "position_unavailable"
	ErrOther               ErrorKind = "other"
)

// SensorError is the only error type a Sensor may surface.
type SensorError struct {
	Kind ErrorKind
	Err  error
}

func (e *SensorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("location sensor: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("location sensor: %s", e.Kind)
}

func (e *SensorError) Unwrap() error {
	return e.Err
}

// Reading is a raw position fix from the platform location service.
type Reading struct {
	Latitude       float64
	Longitude      float64
	AccuracyMeters float64
}

// Sensor abstracts the platform location service. CurrentPosition must
// resolve within the given timeout and may serve a cached fix no older than
// maxCacheAge instead of re-polling hardware.
type Sensor interface {
	CurrentPosition(ctx context.Context, timeout, maxCacheAge time.Duration) (Reading, error)
}

// Geocoder resolves coordinates to a human-readable place name. Best effort:
// callers must tolerate failure.
type Geocoder interface {
	Lookup(ctx context.Context, lat, lon float64) (string, error)
}
