package routing

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleet-tracking-system/models"
)

var (
	luanda = models.Coordinates{Lat: -8.8390, Lng: 13.2894}
	lobito = models.Coordinates{Lat: -12.3644, Lng: 13.5361}
)

func TestRouteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// OSRM geometry is in lng,lat order.
		fmt.Fprint(w, `{
			"code": "Ok",
			"routes": [{
				"distance": 350200,
				"duration": 16200,
				"geometry": {"coordinates": [[13.2894, -8.8390], [13.5361, -12.3644]]}
			}]
		}`)
	}))
	defer srv.Close()

	builder := NewBuilder(srv.URL, srv.Client())
	route := builder.Route(context.Background(), luanda, lobito)

	if math.Abs(route.DistanceKM-350.2) > 1e-9 {
		t.Errorf("expected 350.2 km, got %g", route.DistanceKM)
	}
	if math.Abs(route.DurationMin-270) > 1e-9 {
		t.Errorf("expected 270 min, got %g", route.DurationMin)
	}
	if len(route.Geometry) != 2 {
		t.Fatalf("expected 2 geometry points, got %d", len(route.Geometry))
	}
	if route.Geometry[0] != luanda || route.Geometry[1] != lobito {
		t.Errorf("geometry not reordered to lat,lng: %+v", route.Geometry)
	}
}

func TestRouteFallback(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-success code",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"code": "NoRoute", "routes": []}`)
			},
		},
		{
			name: "zero routes",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"code": "Ok", "routes": []}`)
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{`)
			},
		},
		{
			name: "degenerate geometry",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"code": "Ok", "routes": [{"distance": 1, "duration": 1, "geometry": {"coordinates": [[13.0, -8.0]]}}]}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			builder := NewBuilder(srv.URL, srv.Client())
			route := builder.Route(context.Background(), luanda, lobito)

			expectedDist := Haversine(luanda, lobito)
			if math.Abs(route.DistanceKM-expectedDist) > 1e-9 {
				t.Errorf("expected great-circle distance %g, got %g", expectedDist, route.DistanceKM)
			}
			if math.Abs(route.DurationMin-expectedDist*FallbackMinutesPerKM) > 1e-9 {
				t.Errorf("expected duration = distance * %g, got %g", FallbackMinutesPerKM, route.DurationMin)
			}
			if len(route.Geometry) != 2 {
				t.Fatalf("fallback geometry must have exactly 2 points, got %d", len(route.Geometry))
			}
			if route.Geometry[0] != luanda || route.Geometry[1] != lobito {
				t.Errorf("fallback geometry must be [origin, destination], got %+v", route.Geometry)
			}
		})
	}
}

func TestRouteUnreachableService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	builder := NewBuilder(srv.URL, nil)
	route := builder.Route(context.Background(), luanda, lobito)
	if len(route.Geometry) != 2 {
		t.Fatalf("expected straight-line fallback, got %d points", len(route.Geometry))
	}
}

func TestHaversine(t *testing.T) {
	tests := []struct {
		name      string
		a, b      models.Coordinates
		expected  float64
		tolerance float64
	}{
		{
			name:      "one degree of longitude at the equator",
			a:         models.Coordinates{Lat: 0, Lng: 0},
			b:         models.Coordinates{Lat: 0, Lng: 1},
			expected:  111.19,
			tolerance: 0.5,
		},
		{
			name:      "same point",
			a:         luanda,
			b:         luanda,
			expected:  0,
			tolerance: 1e-9,
		},
		{
			name:      "luanda to lobito",
			a:         luanda,
			b:         lobito,
			expected:  392,
			tolerance: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.a, tt.b)
			if math.Abs(got-tt.expected) > tt.tolerance {
				t.Errorf("expected ~%g km, got %g", tt.expected, got)
			}
		})
	}
}

func TestMidpoint(t *testing.T) {
	mid := Midpoint(models.Coordinates{Lat: -8, Lng: 12}, models.Coordinates{Lat: -10, Lng: 14})
	if mid.Lat != -9 || mid.Lng != 13 {
		t.Errorf("unexpected midpoint: %+v", mid)
	}
}
