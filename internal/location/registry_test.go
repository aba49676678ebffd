package location

import (
	"context"
	"testing"
	"time"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry(nil, testLogger(), 10*time.Second, time.Minute)
	t.Cleanup(r.Stop)
	return r
}

func TestRegistryIsolatesUsers(t *testing.T) {
	r := newTestRegistry(t)

	slot := r.Slot("user-a")
	slot.Sensor.Report(30.7333, 76.7794, 12)
	if err := r.Acquire(context.Background(), "user-a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := r.Fresh("user-a"); !ok {
		t.Error("expected a fresh reading for the reporting user")
	}
	if loc, ok := r.Fresh("user-b"); ok {
		t.Errorf("another user must not see the reading, got %+v", loc)
	}

	status, _ := r.Slot("user-b").Provider.State()
	if status != StatusIdle {
		t.Errorf("expected an untouched slot for user-b, got status %s", status)
	}
}

func TestRegistryReusesSlots(t *testing.T) {
	r := newTestRegistry(t)

	if r.Slot("user-a") != r.Slot("user-a") {
		t.Error("expected the same slot on repeated lookups")
	}
	if r.Slot("user-a") == r.Slot("user-b") {
		t.Error("expected distinct slots for distinct users")
	}
}
