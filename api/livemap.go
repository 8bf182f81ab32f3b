package api

import (
	"encoding/json"
	"net/http"

	"fleet-tracking-system/dispatch"
	"fleet-tracking-system/models"
)

// Geocode resolves a free-text location for the manual-entry fallback in the
// driver portal.
func Geocode(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "Missing query", http.StatusBadRequest)
		return
	}

	coords, ok := Resolver.Resolve(r.Context(), query)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "could not determine coordinates"})
		return
	}

	writeJSON(w, http.StatusOK, coords)
}

// RoutePreview reconstructs the driving route between two points. It always
// answers with a drawable route: the straight-line fallback covers routing
// service failures.
func RoutePreview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Origin      models.Coordinates `json:"origin"`
		Destination models.Coordinates `json:"destination"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	route := RouteBuilder.Route(r.Context(), req.Origin, req.Destination)
	writeJSON(w, http.StatusOK, route)
}

// LiveScene serves the current map snapshot; the dashboard polls this every
// few seconds.
func LiveScene(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Renderer.Scene())
}

// SelectVehicle highlights a vehicle on the map and refits the viewport to
// its active route.
func SelectVehicle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehicleID int64 `json:"vehicle_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	Renderer.Select(req.VehicleID)
	writeJSON(w, http.StatusOK, Renderer.Scene())
}

// DispatchNearest finds the nearest idle vehicle to a pickup point
func DispatchNearest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	vehicle, err := dispatch.NearestAvailableVehicle(r.Context(), req.Latitude, req.Longitude)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Vehicle assigned",
		"vehicle": vehicle,
	})
}
