package location

import (
	"context"
	"sync"
	"time"

	"lineup/pkg/logger"
	"lineup/pkg/model"
)

// Slot is one user's sensor/provider pair.
type Slot struct {
	Sensor   *ReportedSensor
	Provider *Provider
}

// Registry hands out a location slot per user, so one user's reported
// position can never satisfy another user's freshness gate. Slots are
// created on first use and evicted after sitting untouched for the
// retention period.
type Registry struct {
	geocoder    Geocoder
	log         *logger.Logger
	timeout     time.Duration
	maxCacheAge time.Duration
	retention   time.Duration

	mu       sync.Mutex
	slots    map[string]*slotEntry
	stopCh   chan struct{}
	stopOnce sync.Once
}

type slotEntry struct {
	slot     *Slot
	lastUsed time.Time
}

func NewRegistry(geocoder Geocoder, log *logger.Logger, timeout, maxCacheAge time.Duration) *Registry {
	retention := 10 * maxCacheAge
	if retention < time.Hour {
		retention = time.Hour
	}

	r := &Registry{
		geocoder:    geocoder,
		log:         log,
		timeout:     timeout,
		maxCacheAge: maxCacheAge,
		retention:   retention,
		slots:       make(map[string]*slotEntry),
		stopCh:      make(chan struct{}),
	}
	go r.cleanup()
	return r
}

func (r *Registry) cleanup() {
	ticker := time.NewTicker(r.retention / 2)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-r.retention)
			r.mu.Lock()
			for userID, entry := range r.slots {
				if entry.lastUsed.Before(cutoff) {
					delete(r.slots, userID)
				}
			}
			r.mu.Unlock()
		}
	}
}

func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
	})
}

// Slot returns the user's sensor/provider pair, creating it on first use.
func (r *Registry) Slot(userID string) *Slot {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.slots[userID]
	if !ok {
		sensor := NewReportedSensor()
		entry = &slotEntry{
			slot: &Slot{
				Sensor:   sensor,
				Provider: NewProvider(sensor, r.geocoder, r.log, r.timeout, r.maxCacheAge),
			},
		}
		r.slots[userID] = entry
	}
	entry.lastUsed = time.Now()
	return entry.slot
}

// Fresh returns the user's own last reading, if recent enough.
func (r *Registry) Fresh(userID string) (*model.UserLocation, bool) {
	return r.Slot(userID).Provider.Fresh()
}

// Acquire kicks off an acquisition on the user's own provider.
func (r *Registry) Acquire(ctx context.Context, userID string) error {
	return r.Slot(userID).Provider.Acquire(ctx)
}
