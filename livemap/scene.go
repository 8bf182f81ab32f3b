package livemap

import (
	"fleet-tracking-system/models"
)

// Marker kinds drawn on the map surface.
const (
	MarkerKindVehicle     = "vehicle"
	MarkerKindDestination = "destination"
)

// Marker is one point object on the map surface.
type Marker struct {
	ID          string  `json:"id"`
	VehicleID   int64   `json:"vehicle_id"`
	Kind        string  `json:"kind"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Plate       string  `json:"plate,omitempty"`
	Driver      string  `json:"driver,omitempty"`
	Status      string  `json:"status,omitempty"`
	Label       string  `json:"label,omitempty"`
	Size        int     `json:"size"`
	Highlighted bool    `json:"highlighted"`
	Popup       string  `json:"popup,omitempty"`
}

// Polyline is one route segment on the map surface.
type Polyline struct {
	ID        string               `json:"id"`
	VehicleID int64                `json:"vehicle_id"`
	Points    []models.Coordinates `json:"points"`
	Dashed    bool                 `json:"dashed"`
	Color     string               `json:"color"`
}

// Bounds is a lat/lng box the dashboard fits into view.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// Viewport tells the dashboard where to look: either a bounds-fit with
// padding, or a fixed center and zoom.
type Viewport struct {
	Bounds  *Bounds             `json:"bounds,omitempty"`
	Padding int                 `json:"padding,omitempty"`
	Center  *models.Coordinates `json:"center,omitempty"`
	Zoom    int                 `json:"zoom,omitempty"`
}

// Scene is the JSON snapshot of the map surface served to the dashboard.
type Scene struct {
	Markers         []Marker   `json:"markers"`
	Polylines       []Polyline `json:"polylines"`
	Viewport        *Viewport  `json:"viewport,omitempty"`
	SelectedVehicle int64      `json:"selected_vehicle,omitempty"`
}
