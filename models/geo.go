package models

// Coordinates is a resolved geographic point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteInfo is the result of route reconstruction between two points.
// Geometry is a polyline in drawing order; the first point is the origin.
// Service-produced geometry has at least two points; the straight-line
// fallback has exactly two.
type RouteInfo struct {
	DistanceKM  float64       `json:"distance_km"`
	DurationMin float64       `json:"duration_min"`
	Geometry    []Coordinates `json:"geometry"`
}
