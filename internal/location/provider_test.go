package location

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"lineup/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

type mockSensor struct {
	calls    atomic.Int64
	position func(ctx context.Context, timeout, maxCacheAge time.Duration) (Reading, error)
}

func (m *mockSensor) CurrentPosition(ctx context.Context, timeout, maxCacheAge time.Duration) (Reading, error) {
	m.calls.Add(1)
	if m.position != nil {
		return m.position(ctx, timeout, maxCacheAge)
	}
	return Reading{Latitude: 30.7333, Longitude: 76.7794, AccuracyMeters: 12}, nil
}

type mockGeocoder struct {
	lookup func(ctx context.Context, lat, lon float64) (string, error)
}

func (m *mockGeocoder) Lookup(ctx context.Context, lat, lon float64) (string, error) {
	if m.lookup != nil {
		return m.lookup(ctx, lat, lon)
	}
	return "", errors.New("no lookup configured")
}

func waitForLabel(t *testing.T, p *Provider, want string) bool {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if loc := p.Current(); loc != nil && loc.Label == want {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestAcquire_SuccessUsesNearestCityFallback(t *testing.T) {
	sensor := &mockSensor{}
	p := NewProvider(sensor, nil, testLogger(), 10*time.Second, time.Minute)

	if err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status, _ := p.State()
	if status != StatusReady {
		t.Errorf("expected status %s, got %s", StatusReady, status)
	}

	loc := p.Current()
	if loc == nil {
		t.Fatal("expected a current location")
	}
	if loc.Label != "Chandigarh" {
		t.Errorf("expected fallback label Chandigarh, got %q", loc.Label)
	}
	if loc.Latitude != 30.7333 || loc.Longitude != 76.7794 {
		t.Errorf("unexpected coordinates: %v, %v", loc.Latitude, loc.Longitude)
	}
}

func TestAcquire_SensorErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind ErrorKind
	}{
		{"permission denied", &SensorError{Kind: ErrPermissionDenied}, ErrPermissionDenied},
		{"position unavailable", &SensorError{Kind: ErrPositionUnavailable}, ErrPositionUnavailable},
		{"sensor other", &SensorError{Kind: ErrOther}, ErrOther},
		{"plain error", errors.New("gps exploded"), ErrOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sensor := &mockSensor{
				position: func(ctx context.Context, timeout, maxCacheAge time.Duration) (Reading, error) {
					return Reading{}, tt.err
				},
			}
			p := NewProvider(sensor, nil, testLogger(), 10*time.Second, time.Minute)

			if err := p.Acquire(context.Background()); err == nil {
				t.Fatal("expected an error")
			}

			status, kind := p.State()
			if status != StatusError {
				t.Errorf("expected status %s, got %s", StatusError, status)
			}
			if kind != tt.wantKind {
				t.Errorf("expected kind %s, got %s", tt.wantKind, kind)
			}
			if p.Current() != nil {
				t.Error("expected no current location after failure")
			}
		})
	}
}

func TestAcquire_RetryAfterFailure(t *testing.T) {
	var calls atomic.Int64
	sensor := &mockSensor{
		position: func(ctx context.Context, timeout, maxCacheAge time.Duration) (Reading, error) {
			if calls.Add(1) == 1 {
				return Reading{}, &SensorError{Kind: ErrPositionUnavailable}
			}
			return Reading{Latitude: 30.7333, Longitude: 76.7794}, nil
		},
	}
	p := NewProvider(sensor, nil, testLogger(), 10*time.Second, time.Minute)

	if err := p.Acquire(context.Background()); err == nil {
		t.Fatal("expected an error on the first acquisition")
	}

	// The failed acquisition must release the in-flight guard.
	if err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("retry after failure returned error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected the sensor to be consulted twice, got %d", got)
	}
	if status, _ := p.State(); status != StatusReady {
		t.Errorf("expected status %s, got %s", StatusReady, status)
	}
}

func TestAcquire_GeocoderRefinesLabel(t *testing.T) {
	sensor := &mockSensor{}
	geocoder := &mockGeocoder{
		lookup: func(ctx context.Context, lat, lon float64) (string, error) {
			return "Sector 17", nil
		},
	}
	p := NewProvider(sensor, geocoder, testLogger(), 10*time.Second, time.Minute)

	if err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !waitForLabel(t, p, "Sector 17") {
		t.Errorf("label was never refined, still %q", p.Current().Label)
	}
}

func TestAcquire_GeocoderFailureKeepsFallback(t *testing.T) {
	sensor := &mockSensor{}
	geocoder := &mockGeocoder{
		lookup: func(ctx context.Context, lat, lon float64) (string, error) {
			return "", errors.New("geocoder down")
		},
	}
	p := NewProvider(sensor, geocoder, testLogger(), 10*time.Second, time.Minute)

	if err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("acquisition must not fail on geocoder errors: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	loc := p.Current()
	if loc == nil || loc.Label != "Chandigarh" {
		t.Errorf("expected fallback label to survive geocoder failure, got %+v", loc)
	}
}

func TestAcquire_StaleGeocodeResultDiscarded(t *testing.T) {
	firstLookup := make(chan struct{})
	var lookups atomic.Int64

	sensor := &mockSensor{}
	geocoder := &mockGeocoder{
		lookup: func(ctx context.Context, lat, lon float64) (string, error) {
			n := lookups.Add(1)
			if n == 1 {
				<-firstLookup
				return "Stale Place", nil
			}
			return "Fresh Place", nil
		},
	}
	p := NewProvider(sensor, geocoder, testLogger(), 10*time.Second, time.Minute)

	if err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Second acquisition bumps the sequence token while the first lookup is
	// still blocked.
	if err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(firstLookup)

	if !waitForLabel(t, p, "Fresh Place") {
		t.Fatalf("label never settled, got %q", p.Current().Label)
	}

	time.Sleep(20 * time.Millisecond)
	if loc := p.Current(); loc.Label != "Fresh Place" {
		t.Errorf("stale lookup overwrote newer label: %q", loc.Label)
	}
}

func TestAcquire_IgnoredWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	sensor := &mockSensor{
		position: func(ctx context.Context, timeout, maxCacheAge time.Duration) (Reading, error) {
			<-release
			return Reading{Latitude: 30.7333, Longitude: 76.7794}, nil
		},
	}
	p := NewProvider(sensor, nil, testLogger(), 10*time.Second, time.Minute)

	done := make(chan error, 1)
	go func() { done <- p.Acquire(context.Background()) }()

	deadline := time.Now().Add(time.Second)
	for sensor.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	// Second call must be ignored while the first is pending.
	if err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("ignored call should return nil, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls := sensor.calls.Load(); calls != 1 {
		t.Errorf("expected exactly 1 sensor call, got %d", calls)
	}

	status, _ := p.State()
	if status != StatusReady {
		t.Errorf("expected status %s, got %s", StatusReady, status)
	}
}

func TestIsWithinGeofence(t *testing.T) {
	sensor := &mockSensor{}
	p := NewProvider(sensor, nil, testLogger(), 10*time.Second, time.Minute)

	// No reading yet: false, not an error.
	if p.IsWithinGeofence(30.7333, 76.7794, 100) {
		t.Error("expected false before any reading")
	}

	if err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !p.IsWithinGeofence(30.7333, 76.7794, 100) {
		t.Error("expected true at the reading's own coordinates")
	}
	if p.IsWithinGeofence(28.6139, 77.2090, 100) {
		t.Error("expected false for a target hundreds of km away")
	}
}

func TestFresh_ExpiresWithCacheAge(t *testing.T) {
	sensor := &mockSensor{}
	p := NewProvider(sensor, nil, testLogger(), 10*time.Second, 30*time.Millisecond)

	if _, ok := p.Fresh(); ok {
		t.Error("expected no fresh reading before acquisition")
	}

	if err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := p.Fresh(); !ok {
		t.Error("expected a fresh reading right after acquisition")
	}

	time.Sleep(50 * time.Millisecond)
	if _, ok := p.Fresh(); ok {
		t.Error("expected the reading to age out")
	}
}

func TestNearestCityLabel(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     string
	}{
		{"exactly chandigarh", 30.7333, 76.7794, "Chandigarh"},
		{"near delhi", 28.70, 77.10, "Delhi"},
		{"near mumbai", 19.2, 72.9, "Mumbai"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NearestCityLabel(tt.lat, tt.lon); got != tt.want {
				t.Errorf("NearestCityLabel(%v, %v) = %q, want %q", tt.lat, tt.lon, got, tt.want)
			}
		})
	}
}
