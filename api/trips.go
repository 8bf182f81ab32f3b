package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"fleet-tracking-system/database"
	"fleet-tracking-system/models"

	"github.com/gorilla/mux"
)

// CreateTrip starts a trip for a vehicle. Missing start/destination
// coordinates are resolved from their text descriptions via the geocoding
// fallback chain; when resolution fails the trip still starts, it just cannot
// be drawn until a GPS fix arrives.
func CreateTrip(w http.ResponseWriter, r *http.Request) {
	var trip models.Trip
	if err := json.NewDecoder(r.Body).Decode(&trip); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if trip.VehicleID == 0 {
		http.Error(w, "vehicle_id is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if (trip.StartLat == nil || trip.StartLng == nil) && trip.StartLocation != "" {
		if coords, ok := Resolver.Resolve(ctx, trip.StartLocation); ok {
			trip.StartLat = &coords.Lat
			trip.StartLng = &coords.Lng
		}
	}
	if (trip.DestLat == nil || trip.DestLng == nil) && trip.Destination != "" {
		if coords, ok := Resolver.Resolve(ctx, trip.Destination); ok {
			trip.DestLat = &coords.Lat
			trip.DestLng = &coords.Lng
		}
	}

	// Until the first GPS fix the current position is the start point.
	trip.CurrentLat = trip.StartLat
	trip.CurrentLng = trip.StartLng
	trip.Status = models.TripStatusActive

	err := database.DB.QueryRowContext(ctx,
		`INSERT INTO trips (vehicle_id, driver, start_location, destination,
		                    start_latitude, start_longitude, current_latitude, current_longitude,
		                    dest_latitude, dest_longitude, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'active') RETURNING id`,
		trip.VehicleID, trip.Driver, trip.StartLocation, trip.Destination,
		trip.StartLat, trip.StartLng, trip.CurrentLat, trip.CurrentLng,
		trip.DestLat, trip.DestLng,
	).Scan(&trip.ID)
	if err != nil {
		http.Error(w, "Failed to create trip", http.StatusInternalServerError)
		return
	}

	_, err = database.DB.ExecContext(ctx,
		`UPDATE vehicles SET status='active' WHERE id=$1`, trip.VehicleID)
	if err != nil {
		http.Error(w, "Failed to update vehicle status", http.StatusInternalServerError)
		return
	}
	refreshVehicleIndex(ctx, trip.VehicleID)

	writeJSON(w, http.StatusOK, trip)
}

// ListTrips returns trips, optionally filtered by status (?status=active)
func ListTrips(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := r.URL.Query().Get("status")

	query := `SELECT id, vehicle_id, COALESCE(driver, ''), COALESCE(start_location, ''), COALESCE(destination, ''),
	                 start_latitude, start_longitude, current_latitude, current_longitude,
	                 dest_latitude, dest_longitude, status
	          FROM trips`
	var rows *sql.Rows
	var err error
	if status != "" {
		rows, err = database.DB.QueryContext(ctx, query+` WHERE status=$1`, status)
	} else {
		rows, err = database.DB.QueryContext(ctx, query)
	}
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	trips := []models.Trip{}
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		trips = append(trips, trip)
	}

	writeJSON(w, http.StatusOK, trips)
}

// GetTrip fetches one trip by ID
func GetTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := strconv.ParseInt(mux.Vars(r)["trip_id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid trip ID", http.StatusBadRequest)
		return
	}

	row := database.DB.QueryRowContext(r.Context(),
		`SELECT id, vehicle_id, COALESCE(driver, ''), COALESCE(start_location, ''), COALESCE(destination, ''),
		        start_latitude, start_longitude, current_latitude, current_longitude,
		        dest_latitude, dest_longitude, status
		 FROM trips WHERE id=$1`, tripID)
	trip, err := scanTrip(row)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Trip not found", http.StatusNotFound)
		} else {
			http.Error(w, "Database error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

// UpdateTripPosition receives a throttled GPS fix from the driver portal,
// persists it on the trip, and mirrors it onto the vehicle record.
func UpdateTripPosition(w http.ResponseWriter, r *http.Request) {
	tripID, err := strconv.ParseInt(mux.Vars(r)["trip_id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid trip ID", http.StatusBadRequest)
		return
	}

	var update struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	var vehicleID int64
	var status string
	err = database.DB.QueryRowContext(ctx,
		`SELECT vehicle_id, status FROM trips WHERE id=$1`, tripID,
	).Scan(&vehicleID, &status)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Trip not found", http.StatusNotFound)
		} else {
			http.Error(w, "Database error", http.StatusInternalServerError)
		}
		return
	}
	if status != models.TripStatusActive {
		http.Error(w, "Trip is not active", http.StatusConflict)
		return
	}

	_, err = database.DB.ExecContext(ctx,
		`UPDATE trips SET current_latitude=$1, current_longitude=$2 WHERE id=$3`,
		update.Latitude, update.Longitude, tripID,
	)
	if err != nil {
		http.Error(w, "Failed to update trip", http.StatusInternalServerError)
		return
	}

	if err := mirrorVehiclePosition(ctx, vehicleID, update.Latitude, update.Longitude, ""); err != nil {
		http.Error(w, "Failed to update vehicle", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Trip position updated"})
}

// CompleteTrip marks a trip as completed and frees its vehicle. The trip
// drops out of the active set, so its route lines disappear from the live map
// on the next reconciliation pass.
func CompleteTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := strconv.ParseInt(mux.Vars(r)["trip_id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid trip ID", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	var vehicleID int64
	err = database.DB.QueryRowContext(ctx,
		`UPDATE trips SET status='completed', completed_at=now() WHERE id=$1 RETURNING vehicle_id`,
		tripID,
	).Scan(&vehicleID)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Trip not found", http.StatusNotFound)
		} else {
			http.Error(w, "Failed to update trip", http.StatusInternalServerError)
		}
		return
	}

	_, err = database.DB.ExecContext(ctx,
		`UPDATE vehicles SET status='idle' WHERE id=$1`, vehicleID)
	if err != nil {
		http.Error(w, "Failed to update vehicle status", http.StatusInternalServerError)
		return
	}
	refreshVehicleIndex(ctx, vehicleID)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Trip completed"})
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrip(row rowScanner) (models.Trip, error) {
	var trip models.Trip
	var startLat, startLng, curLat, curLng, destLat, destLng sql.NullFloat64
	err := row.Scan(&trip.ID, &trip.VehicleID, &trip.Driver, &trip.StartLocation, &trip.Destination,
		&startLat, &startLng, &curLat, &curLng, &destLat, &destLng, &trip.Status)
	if err != nil {
		return trip, err
	}
	trip.StartLat = nullableFloat(startLat)
	trip.StartLng = nullableFloat(startLng)
	trip.CurrentLat = nullableFloat(curLat)
	trip.CurrentLng = nullableFloat(curLng)
	trip.DestLat = nullableFloat(destLat)
	trip.DestLng = nullableFloat(destLng)
	return trip, nil
}

func nullableFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
