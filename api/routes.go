package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func RegisterRoutes() http.Handler {
	router := mux.NewRouter()

	// Vehicle endpoints
	router.HandleFunc("/vehicles", CreateVehicle).Methods("POST")
	router.HandleFunc("/vehicles", ListVehicles).Methods("GET")
	router.HandleFunc("/vehicles/nearby", NearbyVehicles).Methods("GET")
	router.HandleFunc("/vehicles/{vehicle_id}", GetVehicle).Methods("GET")
	router.HandleFunc("/vehicles/{vehicle_id}/location", UpdateVehicleLocation).Methods("PUT")

	// Trip endpoints
	router.HandleFunc("/trips", CreateTrip).Methods("POST")
	router.HandleFunc("/trips", ListTrips).Methods("GET")
	router.HandleFunc("/trips/{trip_id}", GetTrip).Methods("GET")
	router.HandleFunc("/trips/{trip_id}/position", UpdateTripPosition).Methods("PATCH")
	router.HandleFunc("/trips/{trip_id}/complete", CompleteTrip).Methods("PUT")

	// Geocoding and routing
	router.HandleFunc("/geocode", Geocode).Methods("GET")
	router.HandleFunc("/route", RoutePreview).Methods("POST")

	// Live map
	router.HandleFunc("/livemap/scene", LiveScene).Methods("GET")
	router.HandleFunc("/livemap/selection", SelectVehicle).Methods("PUT")

	// Dispatch
	router.HandleFunc("/dispatch/nearest", DispatchNearest).Methods("POST")

	// Add CORS support
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	return cors(router)
}
