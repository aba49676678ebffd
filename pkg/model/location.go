package model

// UserLocation is a single ephemeral device reading. It is never persisted;
// each new reading supersedes the previous one wholesale.
type UserLocation struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Label          string  `json:"label,omitempty"`
	AccuracyMeters float64 `json:"accuracy_meters,omitempty"`
}
