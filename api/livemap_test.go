package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fleet-tracking-system/geocoding"
	"fleet-tracking-system/geoindex"
	"fleet-tracking-system/livemap"
	"fleet-tracking-system/models"
	"fleet-tracking-system/routing"
)

func ptr(v float64) *float64 { return &v }

// setupAPI wires the handlers against stub geocoding/routing services and an
// in-memory scene; no database or redis needed for these endpoints.
func setupAPI(t *testing.T) http.Handler {
	t.Helper()

	geocodeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"lat":"-8.8390","lon":"13.2894"}]`)
	}))
	t.Cleanup(geocodeSrv.Close)

	routeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":"Ok","routes":[{"distance":350200,"duration":16200,"geometry":{"coordinates":[[13.2894,-8.8390],[13.5361,-12.3644]]}}]}`)
	}))
	t.Cleanup(routeSrv.Close)

	renderer := livemap.NewRenderer(geocoding.DefaultGazetteer())
	renderer.Reconcile(
		[]models.Vehicle{{ID: 1, Plate: "LD-01-23-AB", Latitude: ptr(-8.84), Longitude: ptr(13.29), Status: models.VehicleStatusActive}},
		[]models.ActiveRoute{{
			VehicleID:     1,
			StartLocation: "Luanda",
			CurrentLat:    -9.5,
			CurrentLng:    13.3,
			Destination:   "Lobito",
		}},
	)
	t.Cleanup(renderer.Close)

	index := geoindex.New(geoindex.GeohashingTechnique)
	index.Upsert(geoindex.Entry{VehicleID: 1, Lat: -8.84, Lng: 13.29})

	Init(
		renderer,
		geocoding.NewResolver(geocodeSrv.URL, "Angola", 1, geocodeSrv.Client()),
		routing.NewBuilder(routeSrv.URL, routeSrv.Client()),
		index,
	)
	return RegisterRoutes()
}

func TestGeocodeEndpoint(t *testing.T) {
	router := setupAPI(t)

	req := httptest.NewRequest("GET", "/geocode?q=Luanda", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var coords models.Coordinates
	if err := json.NewDecoder(rec.Body).Decode(&coords); err != nil {
		t.Fatal(err)
	}
	if coords.Lat != -8.8390 || coords.Lng != 13.2894 {
		t.Errorf("unexpected coordinates %+v", coords)
	}
}

func TestGeocodeEndpointMissingQuery(t *testing.T) {
	router := setupAPI(t)

	req := httptest.NewRequest("GET", "/geocode", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestRoutePreviewEndpoint(t *testing.T) {
	router := setupAPI(t)

	body := `{"origin":{"lat":-8.8390,"lng":13.2894},"destination":{"lat":-12.3644,"lng":13.5361}}`
	req := httptest.NewRequest("POST", "/route", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var route models.RouteInfo
	if err := json.NewDecoder(rec.Body).Decode(&route); err != nil {
		t.Fatal(err)
	}
	if route.DistanceKM != 350.2 || route.DurationMin != 270 {
		t.Errorf("unexpected route %+v", route)
	}
	if len(route.Geometry) != 2 {
		t.Errorf("expected 2 geometry points, got %d", len(route.Geometry))
	}
}

func TestLiveSceneEndpoint(t *testing.T) {
	router := setupAPI(t)

	req := httptest.NewRequest("GET", "/livemap/scene", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var scene livemap.Scene
	if err := json.NewDecoder(rec.Body).Decode(&scene); err != nil {
		t.Fatal(err)
	}
	if len(scene.Markers) != 2 { // vehicle + destination
		t.Errorf("expected 2 markers, got %d", len(scene.Markers))
	}
	if len(scene.Polylines) != 2 { // completed + remaining segments
		t.Errorf("expected 2 polylines, got %d", len(scene.Polylines))
	}
}

func TestSelectVehicleEndpoint(t *testing.T) {
	router := setupAPI(t)

	req := httptest.NewRequest("PUT", "/livemap/selection", strings.NewReader(`{"vehicle_id":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var scene livemap.Scene
	if err := json.NewDecoder(rec.Body).Decode(&scene); err != nil {
		t.Fatal(err)
	}
	if scene.SelectedVehicle != 1 {
		t.Errorf("expected vehicle 1 selected, got %d", scene.SelectedVehicle)
	}
	if scene.Viewport == nil || scene.Viewport.Bounds == nil {
		t.Error("expected a bounds-fit viewport for the selected route")
	}
}

func TestNearbyVehiclesEndpoint(t *testing.T) {
	router := setupAPI(t)

	req := httptest.NewRequest("GET", "/vehicles/nearby?lat=-8.84&lng=13.29", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var entries []geoindex.Entry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].VehicleID != 1 {
		t.Errorf("unexpected entries %+v", entries)
	}
}

func TestNearbyVehiclesBadCoordinates(t *testing.T) {
	router := setupAPI(t)

	req := httptest.NewRequest("GET", "/vehicles/nearby?lat=abc&lng=13.29", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
