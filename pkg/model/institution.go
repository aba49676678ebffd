package model

import "time"

const (
	InstitutionTypeBank       = "bank"
	InstitutionTypeGovernment = "government"
	InstitutionTypeHealthcare = "healthcare"
	InstitutionTypeRetail     = "retail"
	InstitutionTypeRestaurant = "restaurant"
	InstitutionTypeSalon      = "salon"
	InstitutionTypeOther      = "other"
)

type Institution struct {
	ID                     string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name                   string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description            string    `json:"description,omitempty" bson:"description" validate:"omitempty,max=500"`
	Type                   string    `json:"institution_type" bson:"institution_type" validate:"required,oneof=bank government healthcare retail restaurant salon other"`
	Address                string    `json:"address" bson:"address" validate:"required,min=2,max=200"`
	City                   string    `json:"city" bson:"city" validate:"required,min=2,max=50"`
	State                  string    `json:"state,omitempty" bson:"state" validate:"omitempty,max=50"`
	Country                string    `json:"country" bson:"country" validate:"required,min=2,max=50"`
	PostalCode             string    `json:"postal_code,omitempty" bson:"postal_code" validate:"omitempty,max=20"`
	Latitude               float64   `json:"latitude" bson:"latitude" validate:"latitude"`
	Longitude              float64   `json:"longitude" bson:"longitude" validate:"longitude"`
	GeofenceRadiusMeters   float64   `json:"geofence_radius_meters" bson:"geofence_radius_meters" validate:"required,gt=0"`
	OpeningTime            string    `json:"opening_time" bson:"opening_time" validate:"required"`
	ClosingTime            string    `json:"closing_time" bson:"closing_time" validate:"required"`
	WorkingDays            []string  `json:"working_days" bson:"working_days" validate:"required,min=1,max=7,dive,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	IsActive               bool      `json:"is_active" bson:"is_active"`
	AverageWaitTimeMinutes *int      `json:"average_wait_time_minutes,omitempty" bson:"average_wait_time_minutes,omitempty" validate:"omitempty,min=0"`
	CurrentQueueSize       *int      `json:"current_queue_size,omitempty" bson:"current_queue_size,omitempty" validate:"omitempty,min=0"`
	OwnerID                string    `json:"owner_id,omitempty" bson:"owner_id,omitempty" validate:"omitempty"`
	CreatedAt              time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt              time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// NearbyInstitution is a discovery result: the customer-facing slice of an
// institution plus its computed distance from the search origin.
type NearbyInstitution struct {
	ID                     string  `json:"id"`
	Name                   string  `json:"name"`
	Description            string  `json:"description,omitempty"`
	Type                   string  `json:"institution_type"`
	Address                string  `json:"address"`
	City                   string  `json:"city"`
	Latitude               float64 `json:"latitude"`
	Longitude              float64 `json:"longitude"`
	DistanceKm             float64 `json:"distance_km"`
	AverageWaitTimeMinutes *int    `json:"average_wait_time_minutes,omitempty"`
	CurrentQueueSize       *int    `json:"current_queue_size,omitempty"`
	OpeningTime            string  `json:"opening_time"`
	ClosingTime            string  `json:"closing_time"`
}
