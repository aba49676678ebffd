package location

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ReportedSensor is a Sensor fed by client-reported device positions instead
// of platform hardware. Each report replaces the previous one; a fix older
// than the caller's cache allowance counts as unavailable.
type ReportedSensor struct {
	mu         sync.Mutex
	reading    Reading
	reportedAt time.Time
}

func NewReportedSensor() *ReportedSensor {
	return &ReportedSensor{}
}

// Report records a device position pushed by a client.
func (s *ReportedSensor) Report(lat, lon, accuracyMeters float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reading = Reading{
		Latitude:       lat,
		Longitude:      lon,
		AccuracyMeters: accuracyMeters,
	}
	s.reportedAt = time.Now()
}

func (s *ReportedSensor) CurrentPosition(ctx context.Context, timeout, maxCacheAge time.Duration) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, &SensorError{Kind: ErrOther, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reportedAt.IsZero() {
		return Reading{}, &SensorError{
			Kind: ErrPositionUnavailable,
			Err:  errors.New("no position reported yet"),
		}
	}
	if maxCacheAge > 0 && time.Since(s.reportedAt) > maxCacheAge {
		return Reading{}, &SensorError{
			Kind: ErrPositionUnavailable,
			Err:  errors.New("last reported position is stale"),
		}
	}

	return s.reading, nil
}
