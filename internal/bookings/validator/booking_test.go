package validator

import (
	"testing"

	"lineup/pkg/logger"
	"lineup/pkg/model"
)

func newTestValidator(t *testing.T) *BookingValidator {
	t.Helper()
	return NewBookingValidator(logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"}))
}

func validQueueBooking() *model.Booking {
	number := 4
	return &model.Booking{
		UserID:        "user-1",
		InstitutionID: "64b000000000000000000001",
		ServiceID:     "64b000000000000000000002",
		Mode:          model.ModeQueue,
		Status:        model.StatusConfirmed,
		QueueNumber:   &number,
	}
}

func validAppointmentBooking() *model.Booking {
	return &model.Booking{
		UserID:        "user-1",
		InstitutionID: "64b000000000000000000001",
		ServiceID:     "64b000000000000000000002",
		Mode:          model.ModeAppointment,
		Status:        model.StatusPending,
		ScheduledDate: "2026-09-15",
		ScheduledTime: "10:30",
	}
}

func TestValidateAcceptsWellFormedBookings(t *testing.T) {
	v := newTestValidator(t)

	if err := v.Validate(validQueueBooking()); err != nil {
		t.Errorf("queue booking rejected: %v", err)
	}
	if err := v.Validate(validAppointmentBooking()); err != nil {
		t.Errorf("appointment booking rejected: %v", err)
	}
}

func TestValidateModeCoherence(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *model.Booking)
		base   func() *model.Booking
	}{
		{
			name: "queue with schedule",
			base: validQueueBooking,
			mutate: func(b *model.Booking) {
				b.ScheduledDate = "2026-09-15"
				b.ScheduledTime = "10:30"
			},
		},
		{
			name: "appointment with queue number",
			base: validAppointmentBooking,
			mutate: func(b *model.Booking) {
				number := 2
				b.QueueNumber = &number
			},
		},
		{
			name: "appointment without schedule",
			base: validAppointmentBooking,
			mutate: func(b *model.Booking) {
				b.ScheduledDate = ""
				b.ScheduledTime = ""
			},
		},
		{
			name: "appointment with malformed time",
			base: validAppointmentBooking,
			mutate: func(b *model.Booking) {
				b.ScheduledTime = "25:99"
			},
		},
	}

	v := newTestValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := tt.base()
			tt.mutate(booking)
			if err := v.Validate(booking); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidateTagConstraints(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *model.Booking)
	}{
		{
			name:   "missing user",
			mutate: func(b *model.Booking) { b.UserID = "" },
		},
		{
			name:   "bad institution id",
			mutate: func(b *model.Booking) { b.InstitutionID = "not-an-object-id" },
		},
		{
			name:   "unknown mode",
			mutate: func(b *model.Booking) { b.Mode = "walk_by" },
		},
		{
			name:   "unknown status",
			mutate: func(b *model.Booking) { b.Status = "limbo" },
		},
		{
			name:   "bad scheduled date",
			mutate: func(b *model.Booking) { b.Mode = model.ModeAppointment; b.QueueNumber = nil; b.ScheduledDate = "15-09-2026"; b.ScheduledTime = "10:30" },
		},
	}

	v := newTestValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validQueueBooking()
			tt.mutate(booking)
			if err := v.Validate(booking); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
