package model

import "time"

// BookingMode selects between joining a live walk-in queue and scheduling a
// timed appointment.
type BookingMode string

const (
	ModeQueue       BookingMode = "queue"
	ModeAppointment BookingMode = "appointment"
)

// BookingStatus is the closed set of lifecycle states. Transitions between
// them are governed exclusively by the bookings service transition table;
// completed, cancelled and no_show are terminal.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCheckedIn BookingStatus = "checked_in"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// Terminal reports whether no further transitions may leave the status.
func (s BookingStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

type Booking struct {
	ID                   string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID               string        `json:"user_id" bson:"user_id" validate:"required"`
	InstitutionID        string        `json:"institution_id" bson:"institution_id" validate:"required,mongodb"`
	ServiceID            string        `json:"service_id" bson:"service_id" validate:"required,mongodb"`
	Mode                 BookingMode   `json:"booking_type" bson:"booking_type" validate:"required,oneof=queue appointment"`
	Status               BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending confirmed checked_in completed cancelled no_show"`
	QueueNumber          *int          `json:"queue_number,omitempty" bson:"queue_number,omitempty" validate:"omitempty,min=1"`
	ScheduledDate        string        `json:"scheduled_date,omitempty" bson:"scheduled_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ScheduledTime        string        `json:"scheduled_time,omitempty" bson:"scheduled_time,omitempty" validate:"omitempty"`
	EstimatedWaitMinutes *int          `json:"estimated_wait_minutes,omitempty" bson:"estimated_wait_minutes,omitempty" validate:"omitempty,min=0"`
	CheckInTime          *time.Time    `json:"check_in_time,omitempty" bson:"check_in_time,omitempty"`
	CheckInLatitude      *float64      `json:"check_in_latitude,omitempty" bson:"check_in_latitude,omitempty"`
	CheckInLongitude     *float64      `json:"check_in_longitude,omitempty" bson:"check_in_longitude,omitempty"`
	CompletedAt          *time.Time    `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	Notes                string        `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	CreatedAt            time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt            time.Time     `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}
