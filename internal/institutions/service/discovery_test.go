package service

import (
	"context"
	"testing"

	institutionerrors "lineup/internal/institutions/errors"
	"lineup/pkg/config"
	apperrors "lineup/pkg/errors"
	"lineup/pkg/logger"
	"lineup/pkg/model"
)

type mockInstitutionRepository struct {
	findByIDFunc   func(ctx context.Context, id string) (*model.Institution, error)
	findActiveFunc func(ctx context.Context, institutionType, cityPattern string) ([]*model.Institution, error)
}

func (m *mockInstitutionRepository) FindByID(ctx context.Context, id string) (*model.Institution, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockInstitutionRepository) FindActive(ctx context.Context, institutionType, cityPattern string) ([]*model.Institution, error) {
	return m.findActiveFunc(ctx, institutionType, cityPattern)
}

type mockServiceRepository struct {
	findByInstitutionFunc func(ctx context.Context, institutionID string, activeOnly bool) ([]*model.Service, error)
}

func (m *mockServiceRepository) FindByID(ctx context.Context, id string) (*model.Service, error) {
	return nil, nil
}

func (m *mockServiceRepository) FindByInstitution(ctx context.Context, institutionID string, activeOnly bool) ([]*model.Service, error) {
	return m.findByInstitutionFunc(ctx, institutionID, activeOnly)
}

func (m *mockServiceRepository) IncrementQueuePosition(ctx context.Context, id string) (int, error) {
	return 0, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"}),
	}
}

// Chandigarh-area fixtures; distances from Sector 17 grow in listed order.
func chandigarhFixtures() []*model.Institution {
	return []*model.Institution{
		{ID: "far", Name: "Punjab National Bank Mohali", Type: "bank", City: "Mohali", Latitude: 30.7046, Longitude: 76.7179},
		{ID: "near", Name: "State Bank Sector 17", Type: "bank", City: "Chandigarh", Latitude: 30.7410, Longitude: 76.7822},
		{ID: "mid", Name: "PGI Hospital", Type: "healthcare", City: "Chandigarh", Latitude: 30.7649, Longitude: 76.7764},
	}
}

func TestSearchOrdersByDistance(t *testing.T) {
	repo := &mockInstitutionRepository{
		findActiveFunc: func(ctx context.Context, institutionType, cityPattern string) ([]*model.Institution, error) {
			return chandigarhFixtures(), nil
		},
	}
	svc := NewDiscoveryService(repo, &mockServiceRepository{}, testConfig())

	origin := &Origin{Lat: 30.7410, Lon: 76.7822}
	results, err := svc.Search(context.Background(), SearchParams{Origin: origin})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	wantOrder := []string{"near", "mid", "far"}
	for i, want := range wantOrder {
		if results[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, results[i].ID)
		}
	}
	for i := 1; i < len(results); i++ {
		if results[i].DistanceKm < results[i-1].DistanceKm {
			t.Errorf("results not sorted ascending at position %d", i)
		}
	}
}

func TestSearchRadiusCut(t *testing.T) {
	repo := &mockInstitutionRepository{
		findActiveFunc: func(ctx context.Context, institutionType, cityPattern string) ([]*model.Institution, error) {
			return chandigarhFixtures(), nil
		},
	}
	svc := NewDiscoveryService(repo, &mockServiceRepository{}, testConfig())

	origin := &Origin{Lat: 30.7410, Lon: 76.7822}
	radius := 3.0
	results, err := svc.Search(context.Background(), SearchParams{Origin: origin, RadiusKm: &radius})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	// Sector 17 itself and PGI (~2.7km) fall inside; Mohali (~7km) does not.
	if len(results) != 2 {
		t.Fatalf("expected 2 results within %.0fkm, got %d", radius, len(results))
	}
	for _, res := range results {
		if res.DistanceKm > radius {
			t.Errorf("result %s at %.2fkm exceeds radius %.0fkm", res.ID, res.DistanceKm, radius)
		}
	}
}

func TestSearchCityFallback(t *testing.T) {
	var gotPattern string
	repo := &mockInstitutionRepository{
		findActiveFunc: func(ctx context.Context, institutionType, cityPattern string) ([]*model.Institution, error) {
			gotPattern = cityPattern
			return chandigarhFixtures()[1:2], nil
		},
	}
	svc := NewDiscoveryService(repo, &mockServiceRepository{}, testConfig())

	results, err := svc.Search(context.Background(), SearchParams{City: "Chandigarh"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if gotPattern == "" {
		t.Error("expected city pattern to reach the repository")
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].DistanceKm != 0 {
		t.Errorf("expected zero distance without origin, got %.2f", results[0].DistanceKm)
	}
}

func TestSearchCityPatternEscaped(t *testing.T) {
	var gotPattern string
	repo := &mockInstitutionRepository{
		findActiveFunc: func(ctx context.Context, institutionType, cityPattern string) ([]*model.Institution, error) {
			gotPattern = cityPattern
			return nil, nil
		},
	}
	svc := NewDiscoveryService(repo, &mockServiceRepository{}, testConfig())

	if _, err := svc.Search(context.Background(), SearchParams{City: "a(b|c)+.*"}); err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if gotPattern == "a(b|c)+.*" {
		t.Error("expected regex metacharacters to be escaped before reaching the repository")
	}
}

func TestSearchIgnoresCityWhenOriginPresent(t *testing.T) {
	var gotPattern string
	repo := &mockInstitutionRepository{
		findActiveFunc: func(ctx context.Context, institutionType, cityPattern string) ([]*model.Institution, error) {
			gotPattern = cityPattern
			return nil, nil
		},
	}
	svc := NewDiscoveryService(repo, &mockServiceRepository{}, testConfig())

	origin := &Origin{Lat: 30.7410, Lon: 76.7822}
	if _, err := svc.Search(context.Background(), SearchParams{Origin: origin, City: "Chandigarh"}); err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if gotPattern != "" {
		t.Errorf("expected no city filter with origin present, repository got %q", gotPattern)
	}
}

func TestGetWithServices(t *testing.T) {
	repo := &mockInstitutionRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Institution, error) {
			return &model.Institution{ID: id, Name: "State Bank Sector 17"}, nil
		},
	}
	serviceRepo := &mockServiceRepository{
		findByInstitutionFunc: func(ctx context.Context, institutionID string, activeOnly bool) ([]*model.Service, error) {
			if !activeOnly {
				t.Error("expected activeOnly filter on service lookup")
			}
			return []*model.Service{{ID: "svc1", InstitutionID: institutionID, Name: "Account Opening"}}, nil
		},
	}
	svc := NewDiscoveryService(repo, serviceRepo, testConfig())

	institution, services, err := svc.GetWithServices(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("GetWithServices returned error: %v", err)
	}
	if institution.ID != "abc123" {
		t.Errorf("expected institution abc123, got %s", institution.ID)
	}
	if len(services) != 1 || services[0].InstitutionID != "abc123" {
		t.Errorf("expected one service for abc123, got %+v", services)
	}
}

func TestGetWithServicesErrors(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		repoErr  error
		wantCode string
	}{
		{
			name:     "empty id",
			id:       "",
			wantCode: apperrors.CodeInvalidInput,
		},
		{
			name:     "not found",
			id:       "missing",
			repoErr:  institutionerrors.ErrNotFound,
			wantCode: apperrors.CodeNotFound,
		},
		{
			name:     "invalid id format",
			id:       "not-hex",
			repoErr:  institutionerrors.ErrInvalidID,
			wantCode: apperrors.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockInstitutionRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Institution, error) {
					return nil, tt.repoErr
				},
			}
			svc := NewDiscoveryService(repo, &mockServiceRepository{}, testConfig())

			_, _, err := svc.GetWithServices(context.Background(), tt.id)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			appErr := apperrors.AsAppError(err)
			if appErr.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, appErr.Code)
			}
		})
	}
}
