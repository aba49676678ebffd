package model

import "time"

const (
	ServiceModeQueue       = "queue"
	ServiceModeAppointment = "appointment"
	ServiceModeBoth        = "both"
)

type Service struct {
	ID                   string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	InstitutionID        string    `json:"institution_id" bson:"institution_id" validate:"required,mongodb"`
	Name                 string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description          string    `json:"description,omitempty" bson:"description" validate:"omitempty,max=500"`
	Mode                 string    `json:"service_type" bson:"service_type" validate:"required,oneof=queue appointment both"`
	DurationMinutes      int       `json:"duration_minutes" bson:"duration_minutes" validate:"required,gt=0,max=480"`
	Price                *float64  `json:"price,omitempty" bson:"price,omitempty" validate:"omitempty,min=0"`
	IsActive             bool      `json:"is_active" bson:"is_active"`
	MaxQueueSize         *int      `json:"max_queue_size,omitempty" bson:"max_queue_size,omitempty" validate:"omitempty,min=1"`
	CurrentQueuePosition int       `json:"current_queue_position" bson:"current_queue_position" validate:"min=0"`
	CreatedAt            time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt            time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// SupportsMode reports whether a booking of the given mode may be made
// against this service.
func (s *Service) SupportsMode(mode BookingMode) bool {
	switch s.Mode {
	case ServiceModeBoth:
		return mode == ModeQueue || mode == ModeAppointment
	case ServiceModeQueue:
		return mode == ModeQueue
	case ServiceModeAppointment:
		return mode == ModeAppointment
	default:
		return false
	}
}
