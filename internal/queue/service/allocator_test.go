package service

import (
	"context"
	"sort"
	"sync"
	"testing"

	queueerrors "lineup/internal/queue/errors"
	"lineup/pkg/config"
	apperrors "lineup/pkg/errors"
	"lineup/pkg/logger"
	"lineup/pkg/model"
)

// mockServiceRepository serializes increments behind a mutex, mirroring the
// store's atomic FindOneAndUpdate primitive.
type mockServiceRepository struct {
	mu       sync.Mutex
	counters map[string]int
	inactive map[string]bool
}

func newMockServiceRepository() *mockServiceRepository {
	return &mockServiceRepository{
		counters: make(map[string]int),
		inactive: make(map[string]bool),
	}
}

func (m *mockServiceRepository) FindByID(ctx context.Context, id string) (*model.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.counters[id]; !ok {
		return nil, queueerrors.ErrServiceNotFound
	}
	return &model.Service{ID: id, CurrentQueuePosition: m.counters[id], IsActive: !m.inactive[id]}, nil
}

func (m *mockServiceRepository) FindByInstitution(ctx context.Context, institutionID string, activeOnly bool) ([]*model.Service, error) {
	return nil, nil
}

func (m *mockServiceRepository) IncrementQueuePosition(ctx context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.counters[id]; !ok {
		return 0, queueerrors.ErrServiceNotFound
	}
	if m.inactive[id] {
		return 0, queueerrors.ErrServiceInactive
	}
	m.counters[id]++
	return m.counters[id], nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"}),
	}
}

func TestNextQueueNumber_Sequential(t *testing.T) {
	repo := newMockServiceRepository()
	repo.counters["svc1"] = 5

	allocator := NewQueueAllocator(repo, testConfig())

	first, err := allocator.NextQueueNumber(context.Background(), "svc1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != 6 {
		t.Errorf("expected 6, got %d", first)
	}

	second, err := allocator.NextQueueNumber(context.Background(), "svc1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != 7 {
		t.Errorf("expected 7, got %d", second)
	}
}

func TestNextQueueNumber_ConcurrentCallersGetDistinctContiguousNumbers(t *testing.T) {
	const workers = 50

	repo := newMockServiceRepository()
	repo.counters["svc1"] = 5

	allocator := NewQueueAllocator(repo, testConfig())

	var wg sync.WaitGroup
	results := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := allocator.NextQueueNumber(context.Background(), "svc1")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- n
		}()
	}
	wg.Wait()
	close(results)

	var numbers []int
	for n := range results {
		numbers = append(numbers, n)
	}
	if len(numbers) != workers {
		t.Fatalf("expected %d numbers, got %d", workers, len(numbers))
	}

	sort.Ints(numbers)
	for i, n := range numbers {
		want := 6 + i
		if n != want {
			t.Fatalf("numbers are not distinct and contiguous: position %d has %d, want %d (full set: %v)", i, n, want, numbers)
		}
	}
}

func TestNextQueueNumber_TwoNearSimultaneousJoins(t *testing.T) {
	repo := newMockServiceRepository()
	repo.counters["svc1"] = 5

	allocator := NewQueueAllocator(repo, testConfig())

	var wg sync.WaitGroup
	results := make([]int, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := allocator.NextQueueNumber(context.Background(), "svc1")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results[i] = n
		}(i)
	}
	wg.Wait()

	got := map[int]bool{results[0]: true, results[1]: true}
	if !got[6] || !got[7] {
		t.Errorf("expected queue numbers {6,7} in some order, got %v", results)
	}
}

func TestNextQueueNumber_Errors(t *testing.T) {
	repo := newMockServiceRepository()
	repo.counters["active"] = 0
	repo.counters["sleeping"] = 3
	repo.inactive["sleeping"] = true

	allocator := NewQueueAllocator(repo, testConfig())

	tests := []struct {
		name      string
		serviceID string
		wantCode  string
	}{
		{"empty id", "", apperrors.CodeInvalidInput},
		{"unknown service", "ghost", apperrors.CodeNotFound},
		{"inactive service", "sleeping", apperrors.CodeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := allocator.NextQueueNumber(context.Background(), tt.serviceID)
			if err == nil {
				t.Fatal("expected an error")
			}
			appErr := apperrors.AsAppError(err)
			if appErr.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, appErr.Code)
			}
		})
	}

	// Failed allocations must not advance the counter.
	if repo.counters["sleeping"] != 3 {
		t.Errorf("inactive service counter moved: %d", repo.counters["sleeping"])
	}
}
