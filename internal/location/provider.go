package location

import (
	"context"
	"errors"
	"sync"
	"time"

	"lineup/pkg/geo"
	"lineup/pkg/logger"
	"lineup/pkg/model"
)

// Status is the provider's acquisition state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusAcquiring Status = "acquiring"
	StatusReady     Status = "ready"
	StatusError     Status = "error"
)

// Provider holds a single session-scoped location slot. Acquire is
// single-flight: a second call while one is in flight is ignored and returns
// immediately (documented policy; callers observing StatusAcquiring simply
// wait for the pending result). Each acquisition bumps a sequence token; a
// background label refinement carrying a stale token is discarded rather
// than overwriting a newer reading.
type Provider struct {
	sensor      Sensor
	geocoder    Geocoder // may be nil; fallback label is then kept as-is
	log         *logger.Logger
	timeout     time.Duration
	maxCacheAge time.Duration

	mu         sync.Mutex
	status     Status
	errKind    ErrorKind
	current    *model.UserLocation
	acquiredAt time.Time
	seq        uint64
	inFlight   bool
}

func NewProvider(sensor Sensor, geocoder Geocoder, log *logger.Logger, timeout, maxCacheAge time.Duration) *Provider {
	return &Provider{
		sensor:      sensor,
		geocoder:    geocoder,
		log:         log,
		timeout:     timeout,
		maxCacheAge: maxCacheAge,
		status:      StatusIdle,
	}
}

// Acquire requests a single position reading from the sensor. On success the
// slot is set synchronously with a nearest-reference-city fallback label and
// a best-effort reverse geocode is attempted in the background; a geocoder
// failure never fails the acquisition. On sensor failure the status becomes
// StatusError with the sensor's kind, and the error is returned. If an
// acquisition is already in flight the call is a no-op and returns nil.
func (p *Provider) Acquire(ctx context.Context) error {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		p.log.Debug("Location acquisition already in flight, ignoring")
		return nil
	}
	p.inFlight = true
	p.status = StatusAcquiring
	p.seq++
	token := p.seq
	p.mu.Unlock()

	reading, err := p.sensor.CurrentPosition(ctx, p.timeout, p.maxCacheAge)

	p.mu.Lock()
	p.inFlight = false

	if err != nil {
		p.status = StatusError
		p.errKind = classifySensorError(err)
		p.mu.Unlock()
		p.log.Warn("Location acquisition failed", "kind", string(p.errKind), "error", err)
		return err
	}

	p.current = &model.UserLocation{
		Latitude:       reading.Latitude,
		Longitude:      reading.Longitude,
		Label:          NearestCityLabel(reading.Latitude, reading.Longitude),
		AccuracyMeters: reading.AccuracyMeters,
	}
	p.acquiredAt = time.Now()
	p.status = StatusReady
	p.mu.Unlock()

	p.log.Info("Location acquired",
		"latitude", reading.Latitude,
		"longitude", reading.Longitude,
		"accuracy_m", reading.AccuracyMeters,
	)

	if p.geocoder != nil {
		go p.refineLabel(token, reading.Latitude, reading.Longitude)
	}

	return nil
}

// refineLabel replaces the fallback label with the reverse geocoder's answer,
// unless a newer acquisition started in the meantime.
func (p *Provider) refineLabel(token uint64, lat, lon float64) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	label, err := p.geocoder.Lookup(ctx, lat, lon)
	if err != nil || label == "" {
		p.log.Debug("Reverse geocode lookup failed, keeping fallback label", "error", err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if token != p.seq || p.status != StatusReady || p.current == nil {
		return
	}
	p.current.Label = label
}

// Current returns the last ready reading, or nil if none is available.
func (p *Provider) Current() *model.UserLocation {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status != StatusReady || p.current == nil {
		return nil
	}
	loc := *p.current
	return &loc
}

// Fresh returns the last ready reading if it is recent enough to base a
// check-in on, along with whether such a reading exists.
func (p *Provider) Fresh() (*model.UserLocation, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status != StatusReady || p.current == nil {
		return nil, false
	}
	if p.maxCacheAge > 0 && time.Since(p.acquiredAt) > p.maxCacheAge {
		return nil, false
	}
	loc := *p.current
	return &loc, true
}

// Status returns the provider state and, when in StatusError, the error kind.
func (p *Provider) State() (Status, ErrorKind) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status, p.errKind
}

// IsWithinGeofence reports whether the last ready reading lies within
// radiusMeters of the target. Returns false, not an error, when no reading
// is available yet.
func (p *Provider) IsWithinGeofence(targetLat, targetLon, radiusMeters float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status != StatusReady || p.current == nil {
		return false
	}
	return geo.WithinGeofence(p.current.Latitude, p.current.Longitude, targetLat, targetLon, radiusMeters)
}

func classifySensorError(err error) ErrorKind {
	var sensorErr *SensorError
	if errors.As(err, &sensorErr) {
		switch sensorErr.Kind {
		case ErrPermissionDenied, ErrPositionUnavailable:
			return sensorErr.Kind
		}
	}
	return ErrOther
}
