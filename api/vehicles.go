package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"fleet-tracking-system/cache"
	"fleet-tracking-system/database"
	"fleet-tracking-system/geoindex"
	"fleet-tracking-system/models"

	"github.com/gorilla/mux"
	"github.com/lib/pq"
)

// CreateVehicle registers a new fleet vehicle
func CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var vehicle models.Vehicle
	err := json.NewDecoder(r.Body).Decode(&vehicle)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if vehicle.Status == "" {
		vehicle.Status = models.VehicleStatusIdle
	}
	if vehicle.HasLocation() {
		vehicle.Geohash = cache.EncodeCell(*vehicle.Latitude, *vehicle.Longitude)
	}

	err = database.DB.QueryRow(
		`INSERT INTO vehicles (plate, driver, latitude, longitude, geohash, status) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		vehicle.Plate, vehicle.Driver, vehicle.Latitude, vehicle.Longitude, vehicle.Geohash, vehicle.Status,
	).Scan(&vehicle.ID)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			http.Error(w, "Vehicle already exists", http.StatusConflict)
		} else {
			http.Error(w, "Failed to create vehicle", http.StatusInternalServerError)
		}
		return
	}

	if vehicle.HasLocation() {
		if err := cache.IndexVehicle(r.Context(), vehicle); err == nil {
			Index.Upsert(geoindex.Entry{VehicleID: vehicle.ID, Lat: *vehicle.Latitude, Lng: *vehicle.Longitude})
		}
	}

	writeJSON(w, http.StatusOK, vehicle)
}

// ListVehicles returns all vehicle records
func ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := database.ListVehicles(r.Context())
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// GetVehicle fetches one vehicle by ID
func GetVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := strconv.ParseInt(mux.Vars(r)["vehicle_id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid vehicle ID", http.StatusBadRequest)
		return
	}

	vehicle, err := loadVehicle(r.Context(), vehicleID)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
		} else {
			http.Error(w, "Database error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, vehicle)
}

// UpdateVehicleLocation handles manual location updates for a vehicle
func UpdateVehicleLocation(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := strconv.ParseInt(mux.Vars(r)["vehicle_id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid vehicle ID", http.StatusBadRequest)
		return
	}

	var update struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Status    string  `json:"status"` // Optional
	}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := mirrorVehiclePosition(r.Context(), vehicleID, update.Latitude, update.Longitude, update.Status); err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
		} else {
			http.Error(w, "Failed to update vehicle", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Vehicle location updated"})
}

// NearbyVehicles answers "which vehicles are around this point" from the
// in-memory geoindex.
func NearbyVehicles(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil {
		http.Error(w, "Invalid coordinates", http.StatusBadRequest)
		return
	}

	technique := geoindex.Technique(r.URL.Query().Get("technique"))
	entries, err := Index.SearchNearby(lat, lng, technique, 3)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func loadVehicle(ctx context.Context, vehicleID int64) (models.Vehicle, error) {
	var vehicle models.Vehicle
	var lat, lng sql.NullFloat64
	err := database.DB.QueryRowContext(ctx,
		`SELECT id, plate, COALESCE(driver, ''), latitude, longitude, COALESCE(geohash, ''), status FROM vehicles WHERE id=$1`,
		vehicleID,
	).Scan(&vehicle.ID, &vehicle.Plate, &vehicle.Driver, &lat, &lng, &vehicle.Geohash, &vehicle.Status)
	if err != nil {
		return vehicle, err
	}
	if lat.Valid {
		v := lat.Float64
		vehicle.Latitude = &v
	}
	if lng.Valid {
		v := lng.Float64
		vehicle.Longitude = &v
	}
	return vehicle, nil
}

// mirrorVehiclePosition writes a new position (and optionally status) onto
// the vehicle record and keeps the redis cell sets and the geoindex in step.
func mirrorVehiclePosition(ctx context.Context, vehicleID int64, lat, lng float64, status string) error {
	current, err := loadVehicle(ctx, vehicleID)
	if err != nil {
		return err
	}

	newGeohash := cache.EncodeCell(lat, lng)
	if status == "" {
		status = current.Status
	}

	_, err = database.DB.ExecContext(ctx,
		`UPDATE vehicles SET latitude=$1, longitude=$2, geohash=$3, status=$4 WHERE id=$5`,
		lat, lng, newGeohash, status, vehicleID,
	)
	if err != nil {
		return err
	}

	// Remove the stale snapshot from its old cell, then index the new one.
	cache.UnindexVehicle(ctx, current)
	updated := models.Vehicle{
		ID:        vehicleID,
		Plate:     current.Plate,
		Driver:    current.Driver,
		Latitude:  &lat,
		Longitude: &lng,
		Geohash:   newGeohash,
		Status:    status,
	}
	cache.IndexVehicle(ctx, updated)
	Index.Upsert(geoindex.Entry{VehicleID: vehicleID, Lat: lat, Lng: lng})
	return nil
}

// refreshVehicleIndex rewrites the vehicle's cached snapshot after a field
// change that doesn't move it, such as a status flip when a trip starts or
// ends, so dispatch never reads a stale status.
func refreshVehicleIndex(ctx context.Context, vehicleID int64) {
	vehicle, err := loadVehicle(ctx, vehicleID)
	if err != nil {
		return
	}
	cache.IndexVehicle(ctx, vehicle)
}
