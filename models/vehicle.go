package models

// Vehicle operational states as stored on the vehicle record.
const (
	VehicleStatusActive      = "active"
	VehicleStatusIdle        = "idle"
	VehicleStatusMaintenance = "maintenance"
	VehicleStatusAlert       = "alert"
)

// Vehicle is the last known position and operational state of one fleet
// vehicle. Latitude/Longitude are pointers: both nil means "unknown location"
// and such vehicles are excluded from map rendering.
type Vehicle struct {
	ID        int64    `json:"id"`
	Plate     string   `json:"plate"`
	Driver    string   `json:"driver,omitempty"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Geohash   string   `json:"geohash,omitempty"`
	Status    string   `json:"status"` // "active", "idle", "maintenance", "alert"
}

// HasLocation reports whether the vehicle carries a usable coordinate pair.
func (v Vehicle) HasLocation() bool {
	return v.Latitude != nil && v.Longitude != nil
}
