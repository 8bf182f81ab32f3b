package models

const (
	TripStatusActive    = "active"
	TripStatusCompleted = "completed"
)

type Trip struct {
	ID            int64    `json:"id"`
	VehicleID     int64    `json:"vehicle_id"`
	Driver        string   `json:"driver,omitempty"`
	StartLocation string   `json:"start_location,omitempty"`
	Destination   string   `json:"destination,omitempty"`
	StartLat      *float64 `json:"start_latitude"`
	StartLng      *float64 `json:"start_longitude"`
	CurrentLat    *float64 `json:"current_latitude"`
	CurrentLng    *float64 `json:"current_longitude"`
	DestLat       *float64 `json:"dest_latitude"`
	DestLng       *float64 `json:"dest_longitude"`
	Status        string   `json:"status"` // "active", "completed"
}

// ActiveRoute is the live spatial state of an in-progress trip: origin (if
// known), live position and optional destination. It exists only while the
// trip status is "active".
type ActiveRoute struct {
	VehicleID     int64    `json:"vehicle_id"`
	StartLat      *float64 `json:"start_latitude"`
	StartLng      *float64 `json:"start_longitude"`
	CurrentLat    float64  `json:"current_latitude"`
	CurrentLng    float64  `json:"current_longitude"`
	DestLat       *float64 `json:"dest_latitude"`
	DestLng       *float64 `json:"dest_longitude"`
	Destination   string   `json:"destination,omitempty"`
	StartLocation string   `json:"start_location,omitempty"`
}
