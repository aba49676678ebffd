package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "lineup/internal/bookings/errors"
	"lineup/internal/bookings/notify"
	"lineup/internal/bookings/repository"
	"lineup/internal/bookings/validator"
	institutionerrors "lineup/internal/institutions/errors"
	institutionrepo "lineup/internal/institutions/repository"
	queueerrors "lineup/internal/queue/errors"
	queuerepo "lineup/internal/queue/repository"
	queueservice "lineup/internal/queue/service"
	"lineup/pkg/config"
	apperrors "lineup/pkg/errors"
	"lineup/pkg/geo"
	"lineup/pkg/model"
	"lineup/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// LocationSource is the slice of the location registry the lifecycle needs:
// a freshness-checked last reading and a way to kick off a new acquisition,
// both scoped to the booking owner's own slot.
type LocationSource interface {
	Fresh(userID string) (*model.UserLocation, bool)
	Acquire(ctx context.Context, userID string) error
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error)
	CheckIn(ctx context.Context, id string, lat, lon float64) (*model.Booking, error)
	Cancel(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) error
	MarkNoShow(ctx context.Context, id string) error
}

type bookingService struct {
	repo            repository.BookingRepository
	institutionRepo institutionrepo.InstitutionRepository
	serviceRepo     queuerepo.ServiceRepository
	allocator       queueservice.QueueAllocator
	validator       *validator.BookingValidator
	location        LocationSource
	notifier        notify.Notifier
	cfg             *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	institutionRepo institutionrepo.InstitutionRepository,
	serviceRepo queuerepo.ServiceRepository,
	allocator queueservice.QueueAllocator,
	bookingValidator *validator.BookingValidator,
	location LocationSource,
	notifier notify.Notifier,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:            repo,
		institutionRepo: institutionRepo,
		serviceRepo:     serviceRepo,
		allocator:       allocator,
		validator:       bookingValidator,
		location:        location,
		notifier:        notifier,
		cfg:             cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	if booking.UserID == "" {
		return apperrors.Unauthorized("Sign in to create a booking")
	}

	booking.Notes = sanitizer.NormalizeNotes(booking.Notes)
	booking.CheckInTime = nil
	booking.CheckInLatitude = nil
	booking.CheckInLongitude = nil
	booking.CompletedAt = nil
	booking.EstimatedWaitMinutes = nil

	svc, err := s.loadService(ctx, booking.ServiceID)
	if err != nil {
		return err
	}
	if !svc.IsActive {
		return apperrors.Unavailable("Service")
	}
	if svc.InstitutionID != booking.InstitutionID {
		return apperrors.InvalidInput("Service does not belong to the given institution")
	}
	if !svc.SupportsMode(booking.Mode) {
		return apperrors.Validation("Service does not support the requested booking mode", map[string]any{
			"service_type": svc.Mode,
			"booking_type": booking.Mode,
		})
	}

	institution, err := s.loadInstitution(ctx, booking.InstitutionID)
	if err != nil {
		return err
	}
	if !institution.IsActive {
		return apperrors.Unavailable("Institution")
	}

	switch booking.Mode {
	case model.ModeQueue:
		booking.Status = model.StatusConfirmed
	case model.ModeAppointment:
		booking.Status = model.StatusPending
		if err := s.validateSchedule(booking, institution, svc); err != nil {
			return err
		}
	}

	if err := s.validate(booking); err != nil {
		return err
	}

	if booking.Mode == model.ModeQueue {
		number, err := s.allocator.NextQueueNumber(ctx, booking.ServiceID)
		if err != nil {
			return err
		}
		booking.QueueNumber = &number
		wait := number * svc.DurationMinutes
		booking.EstimatedWaitMinutes = &wait
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	s.notifier.Notify(ctx, notify.EventBookingCreated, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"user_id", booking.UserID,
		"service_id", booking.ServiceID,
		"booking_type", booking.Mode,
		"status", booking.Status,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.Unauthorized("Sign in to list bookings")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByUser(ctx, userID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "user_id", userID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByUser(ctx, userID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "user_id", userID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) CheckIn(ctx context.Context, id string, lat, lon float64) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, ok := nextStatus(booking.Status, EventCheckIn); !ok {
		return nil, apperrors.InvalidTransition(string(booking.Status), string(EventCheckIn))
	}

	if _, fresh := s.location.Fresh(booking.UserID); !fresh {
		// Kick off a re-acquisition so an immediate retry can succeed.
		go func() {
			if err := s.location.Acquire(context.Background(), booking.UserID); err != nil {
				s.cfg.Log.Warn("Background location acquisition failed", "user_id", booking.UserID, "error", err)
			}
		}()
		return nil, apperrors.LocationUnavailable("Current location is not available, acquiring a fresh reading")
	}

	institution, err := s.loadInstitution(ctx, booking.InstitutionID)
	if err != nil {
		return nil, err
	}

	radius := institution.GeofenceRadiusMeters
	if radius <= 0 {
		radius = s.cfg.GeofenceRadiusMeters
	}

	distanceM := geo.DistanceKm(lat, lon, institution.Latitude, institution.Longitude) * 1000
	if distanceM > radius {
		s.cfg.Log.Info("Check-in rejected outside geofence",
			"booking_id", id,
			"distance_m", distanceM,
			"radius_m", radius,
		)
		return nil, apperrors.OutOfRange(distanceM, radius)
	}

	now := time.Now().UTC()
	if err := s.transition(ctx, booking, EventCheckIn, repository.TransitionStamp{
		CheckInTime:      &now,
		CheckInLatitude:  &lat,
		CheckInLongitude: &lon,
	}); err != nil {
		return nil, err
	}

	booking.Status = model.StatusCheckedIn
	booking.CheckInTime = &now
	booking.CheckInLatitude = &lat
	booking.CheckInLongitude = &lon

	s.notifier.Notify(ctx, notify.EventBookingCheckedIn, booking)

	s.cfg.Log.Info("Booking checked in", "id", id, "distance_m", distanceM)
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.transition(ctx, booking, EventCancel, repository.TransitionStamp{}); err != nil {
		return err
	}

	booking.Status = model.StatusCancelled
	s.notifier.Notify(ctx, notify.EventBookingCancelled, booking)

	s.cfg.Log.Info("Booking cancelled", "id", id)
	return nil
}

func (s *bookingService) Complete(ctx context.Context, id string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.transition(ctx, booking, EventComplete, repository.TransitionStamp{
		CompletedAt: &now,
	}); err != nil {
		return err
	}

	booking.Status = model.StatusCompleted
	booking.CompletedAt = &now
	s.notifier.Notify(ctx, notify.EventBookingCompleted, booking)

	s.cfg.Log.Info("Booking completed", "id", id)
	return nil
}

func (s *bookingService) MarkNoShow(ctx context.Context, id string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.transition(ctx, booking, EventMarkNoShow, repository.TransitionStamp{}); err != nil {
		return err
	}

	booking.Status = model.StatusNoShow
	s.notifier.Notify(ctx, notify.EventBookingNoShow, booking)

	s.cfg.Log.Info("Booking marked as no-show", "id", id)
	return nil
}

// --- Helpers ---

// transition applies the lifecycle table and persists the change with a
// status guard, so a booking raced into another status fails the same way an
// invalid transition does.
func (s *bookingService) transition(ctx context.Context, booking *model.Booking, event Event, stamp repository.TransitionStamp) error {
	target, ok := nextStatus(booking.Status, event)
	if !ok {
		return apperrors.InvalidTransition(string(booking.Status), string(event))
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return s.repo.Transition(sessCtx, booking.ID, allowedFrom(event), target, stamp)
	})
	if err == nil {
		return nil
	}

	if errors.Is(err, bookingserrors.ErrStatusConflict) {
		current, findErr := s.repo.FindByID(ctx, booking.ID)
		if findErr == nil {
			return apperrors.InvalidTransition(string(current.Status), string(event))
		}
		return apperrors.InvalidTransition(string(booking.Status), string(event))
	}
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", booking.ID)
	}
	if apperrors.IsAppError(err) {
		return err
	}

	s.cfg.Log.Error("Failed to persist booking transition", "id", booking.ID, "event", string(event), "error", err)
	return apperrors.Internal("Failed to update booking", err)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// validateSchedule checks the appointment slot: a future date, a time on the
// configured slot grid, and room for the full service duration inside the
// institution's opening window.
func (s *bookingService) validateSchedule(booking *model.Booking, institution *model.Institution, svc *model.Service) error {
	if booking.ScheduledDate == "" || booking.ScheduledTime == "" {
		return apperrors.Validation("Appointments require scheduled_date and scheduled_time", nil)
	}

	date, err := time.Parse("2006-01-02", booking.ScheduledDate)
	if err != nil {
		return apperrors.Validation("scheduled_date must be in YYYY-MM-DD format", map[string]any{
			"scheduled_date": booking.ScheduledDate,
		})
	}

	slot, err := time.Parse("15:04", booking.ScheduledTime)
	if err != nil {
		return apperrors.Validation("scheduled_time must be in HH:MM format", map[string]any{
			"scheduled_time": booking.ScheduledTime,
		})
	}
	slotMinutes := slot.Hour()*60 + slot.Minute()

	startsAt := date.Add(time.Duration(slotMinutes) * time.Minute)
	if !startsAt.After(time.Now().UTC()) {
		return apperrors.Validation("Appointment must be scheduled in the future", map[string]any{
			"scheduled_date": booking.ScheduledDate,
			"scheduled_time": booking.ScheduledTime,
		})
	}

	increment := s.cfg.SlotIncrementMin
	if increment <= 0 {
		increment = config.DefaultSlotIncrementMin
	}
	if slotMinutes%increment != 0 {
		return apperrors.Validation(fmt.Sprintf("scheduled_time must fall on a %d-minute slot boundary", increment), map[string]any{
			"scheduled_time": booking.ScheduledTime,
		})
	}

	opening, err := time.Parse("15:04", institution.OpeningTime)
	if err != nil {
		return apperrors.Internal("Institution has a malformed opening time", err)
	}
	closing, err := time.Parse("15:04", institution.ClosingTime)
	if err != nil {
		return apperrors.Internal("Institution has a malformed closing time", err)
	}
	openMinutes := opening.Hour()*60 + opening.Minute()
	closeMinutes := closing.Hour()*60 + closing.Minute()

	// A closing time at or before the opening time means the window wraps
	// past midnight (e.g. 20:00 to 02:00). Unwrap onto a single axis so one
	// comparison covers both shapes.
	if closeMinutes <= openMinutes {
		closeMinutes += 24 * 60
	}
	if slotMinutes < openMinutes {
		slotMinutes += 24 * 60
	}

	if slotMinutes < openMinutes || slotMinutes+svc.DurationMinutes > closeMinutes {
		return apperrors.Validation("Appointment falls outside the institution's opening hours", map[string]any{
			"scheduled_time": booking.ScheduledTime,
			"opening_time":   institution.OpeningTime,
			"closing_time":   institution.ClosingTime,
		})
	}

	return nil
}

func (s *bookingService) loadService(ctx context.Context, serviceID string) (*model.Service, error) {
	svc, err := s.serviceRepo.FindByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, queueerrors.ErrServiceNotFound) {
			return nil, apperrors.NotFoundWithID("Service", serviceID)
		}
		if errors.Is(err, queueerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid service ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve service", err)
	}
	return svc, nil
}

func (s *bookingService) loadInstitution(ctx context.Context, institutionID string) (*model.Institution, error) {
	institution, err := s.institutionRepo.FindByID(ctx, institutionID)
	if err != nil {
		if errors.Is(err, institutionerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Institution", institutionID)
		}
		if errors.Is(err, institutionerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid institution ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve institution", err)
	}
	return institution, nil
}
