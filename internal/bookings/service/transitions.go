package service

import "lineup/pkg/model"

// Event is a lifecycle action applied to a booking.
type Event string

const (
	EventCheckIn    Event = "check_in"
	EventCancel     Event = "cancel"
	EventComplete   Event = "complete"
	EventMarkNoShow Event = "mark_no_show"
)

// transitions is the complete lifecycle table. Any (status, event) pair
// absent here is invalid; there are no silent no-ops and nothing leaves a
// terminal status.
var transitions = map[model.BookingStatus]map[Event]model.BookingStatus{
	model.StatusPending: {
		EventCheckIn:    model.StatusCheckedIn,
		EventCancel:     model.StatusCancelled,
		EventMarkNoShow: model.StatusNoShow,
	},
	model.StatusConfirmed: {
		EventCheckIn:    model.StatusCheckedIn,
		EventCancel:     model.StatusCancelled,
		EventMarkNoShow: model.StatusNoShow,
	},
	model.StatusCheckedIn: {
		EventComplete: model.StatusCompleted,
	},
}

// nextStatus resolves the target status for an event applied in the current
// status. The second return is false for invalid pairs.
func nextStatus(current model.BookingStatus, event Event) (model.BookingStatus, bool) {
	targets, ok := transitions[current]
	if !ok {
		return "", false
	}
	target, ok := targets[event]
	return target, ok
}

// allowedFrom lists every status an event may legally fire from, in a fixed
// order suitable for a store-level status guard.
func allowedFrom(event Event) []model.BookingStatus {
	ordered := []model.BookingStatus{
		model.StatusPending,
		model.StatusConfirmed,
		model.StatusCheckedIn,
	}
	var from []model.BookingStatus
	for _, status := range ordered {
		if _, ok := transitions[status][event]; ok {
			from = append(from, status)
		}
	}
	return from
}
