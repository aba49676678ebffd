package service

import (
	"context"
	"errors"

	queueerrors "lineup/internal/queue/errors"
	"lineup/internal/queue/repository"
	"lineup/pkg/config"
	apperrors "lineup/pkg/errors"
)

// QueueAllocator mints queue numbers for walk-in joins. Numbers are
// monotonically increasing per service and never reused; resets are an
// administrative concern outside this component.
type QueueAllocator interface {
	NextQueueNumber(ctx context.Context, serviceID string) (int, error)
}

type queueAllocator struct {
	repo repository.ServiceRepository
	cfg  *config.Config
}

func NewQueueAllocator(repo repository.ServiceRepository, cfg *config.Config) QueueAllocator {
	return &queueAllocator{
		repo: repo,
		cfg:  cfg,
	}
}

func (a *queueAllocator) NextQueueNumber(ctx context.Context, serviceID string) (int, error) {
	if serviceID == "" {
		return 0, apperrors.InvalidInput("Service ID cannot be empty")
	}

	number, err := a.repo.IncrementQueuePosition(ctx, serviceID)
	if err != nil {
		switch {
		case errors.Is(err, queueerrors.ErrServiceNotFound):
			return 0, apperrors.NotFoundWithID("Service", serviceID)
		case errors.Is(err, queueerrors.ErrServiceInactive):
			return 0, apperrors.Unavailable("Service")
		case errors.Is(err, queueerrors.ErrInvalidID):
			return 0, apperrors.InvalidInput("Invalid service ID format")
		default:
			a.cfg.Log.Error("Failed to allocate queue number", "service_id", serviceID, "error", err)
			return 0, apperrors.Internal("Failed to allocate queue number", err)
		}
	}

	a.cfg.Log.Info("Queue number allocated", "service_id", serviceID, "queue_number", number)
	return number, nil
}
