package database

import (
	"context"
	"database/sql"

	"fleet-tracking-system/models"
)

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// ListVehicles returns every vehicle record, including those without a known
// location (the renderer filters those out).
func ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	rows, err := DB.QueryContext(ctx,
		`SELECT id, plate, COALESCE(driver, ''), latitude, longitude, COALESCE(geohash, ''), status FROM vehicles`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&v.ID, &v.Plate, &v.Driver, &lat, &lng, &v.Geohash, &v.Status); err != nil {
			return nil, err
		}
		v.Latitude = floatPtr(lat)
		v.Longitude = floatPtr(lng)
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// ListActiveRoutes returns the spatial state of every trip whose status is
// 'active'. Trips without a current position are skipped: there is nothing to
// draw for them yet.
func ListActiveRoutes(ctx context.Context) ([]models.ActiveRoute, error) {
	rows, err := DB.QueryContext(ctx,
		`SELECT vehicle_id, start_latitude, start_longitude, current_latitude, current_longitude,
		        dest_latitude, dest_longitude, COALESCE(destination, ''), COALESCE(start_location, '')
		 FROM trips WHERE status = 'active'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []models.ActiveRoute
	for rows.Next() {
		var r models.ActiveRoute
		var startLat, startLng, curLat, curLng, destLat, destLng sql.NullFloat64
		if err := rows.Scan(&r.VehicleID, &startLat, &startLng, &curLat, &curLng,
			&destLat, &destLng, &r.Destination, &r.StartLocation); err != nil {
			return nil, err
		}
		if !curLat.Valid || !curLng.Valid {
			continue
		}
		r.CurrentLat = curLat.Float64
		r.CurrentLng = curLng.Float64
		r.StartLat = floatPtr(startLat)
		r.StartLng = floatPtr(startLng)
		r.DestLat = floatPtr(destLat)
		r.DestLng = floatPtr(destLng)
		routes = append(routes, r)
	}
	return routes, rows.Err()
}

// Fleet adapts the package-level queries to the poller's snapshot source.
type Fleet struct{}

func (Fleet) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return ListVehicles(ctx)
}

func (Fleet) ListActiveRoutes(ctx context.Context) ([]models.ActiveRoute, error) {
	return ListActiveRoutes(ctx)
}
