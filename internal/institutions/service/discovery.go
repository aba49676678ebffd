package service

import (
	"context"
	"errors"
	"sort"

	institutionerrors "lineup/internal/institutions/errors"
	"lineup/internal/institutions/repository"
	queuerepo "lineup/internal/queue/repository"
	"lineup/pkg/config"
	apperrors "lineup/pkg/errors"
	"lineup/pkg/geo"
	"lineup/pkg/model"
	"lineup/pkg/sanitizer"
)

// Origin is the customer's search position.
type Origin struct {
	Lat float64
	Lon float64
}

// SearchParams narrows discovery. With no Origin, City falls back to a
// substring match and no radius filtering applies.
type SearchParams struct {
	Origin   *Origin
	RadiusKm *float64
	Type     string
	City     string
}

type DiscoveryService interface {
	Search(ctx context.Context, params SearchParams) ([]*model.NearbyInstitution, error)
	GetWithServices(ctx context.Context, id string) (*model.Institution, []*model.Service, error)
}

type discoveryService struct {
	repo        repository.InstitutionRepository
	serviceRepo queuerepo.ServiceRepository
	cfg         *config.Config
}

func NewDiscoveryService(repo repository.InstitutionRepository, serviceRepo queuerepo.ServiceRepository, cfg *config.Config) DiscoveryService {
	return &discoveryService{
		repo:        repo,
		serviceRepo: serviceRepo,
		cfg:         cfg,
	}
}

// Search ranks active institutions by distance from the origin. Every call
// recomputes from current data; nothing is cached across calls.
func (s *discoveryService) Search(ctx context.Context, params SearchParams) ([]*model.NearbyInstitution, error) {
	cityPattern := ""
	if params.Origin == nil && params.City != "" {
		cityPattern = sanitizer.SafeCityPattern(params.City)
	}

	candidates, err := s.repo.FindActive(ctx, params.Type, cityPattern)
	if err != nil {
		s.cfg.Log.Error("Failed to search institutions", "error", err)
		return nil, apperrors.Internal("Failed to search institutions", err)
	}

	results := make([]*model.NearbyInstitution, 0, len(candidates))
	for _, inst := range candidates {
		distanceKm := 0.0
		if params.Origin != nil {
			distanceKm = geo.DistanceKm(params.Origin.Lat, params.Origin.Lon, inst.Latitude, inst.Longitude)
			if params.RadiusKm != nil && distanceKm > *params.RadiusKm {
				continue
			}
		}

		results = append(results, &model.NearbyInstitution{
			ID:                     inst.ID,
			Name:                   inst.Name,
			Description:            inst.Description,
			Type:                   inst.Type,
			Address:                inst.Address,
			City:                   inst.City,
			Latitude:               inst.Latitude,
			Longitude:              inst.Longitude,
			DistanceKm:             distanceKm,
			AverageWaitTimeMinutes: inst.AverageWaitTimeMinutes,
			CurrentQueueSize:       inst.CurrentQueueSize,
			OpeningTime:            inst.OpeningTime,
			ClosingTime:            inst.ClosingTime,
		})
	}

	if params.Origin != nil {
		// Stable sort keeps ties in input order; there is no secondary key.
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].DistanceKm < results[j].DistanceKm
		})
	}

	s.cfg.Log.Debug("Institution search completed",
		"count", len(results),
		"has_origin", params.Origin != nil,
		"type", params.Type,
	)
	return results, nil
}

func (s *discoveryService) GetWithServices(ctx context.Context, id string) (*model.Institution, []*model.Service, error) {
	if id == "" {
		return nil, nil, apperrors.InvalidInput("Institution ID cannot be empty")
	}

	institution, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, institutionerrors.ErrNotFound) {
			return nil, nil, apperrors.NotFoundWithID("Institution", id)
		}
		if errors.Is(err, institutionerrors.ErrInvalidID) {
			return nil, nil, apperrors.InvalidInput("Invalid institution ID format")
		}
		return nil, nil, apperrors.Internal("Failed to retrieve institution", err)
	}

	services, err := s.serviceRepo.FindByInstitution(ctx, id, true)
	if err != nil {
		s.cfg.Log.Error("Failed to list institution services", "institution_id", id, "error", err)
		return nil, nil, apperrors.Internal("Failed to retrieve institution services", err)
	}

	return institution, services, nil
}
