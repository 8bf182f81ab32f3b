// Package routing reconstructs driving routes between coordinate pairs
// against an OSRM-style routing service, degrading to a straight line when no
// route can be obtained.
package routing

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fleet-tracking-system/models"
)

// FallbackMinutesPerKM estimates duration when the routing service yields
// nothing, implying a 40 km/h average. Kept for parity with the production
// dashboards; not a traffic model.
const FallbackMinutesPerKM = 1.5

type Builder struct {
	baseURL string
	client  *http.Client
}

func NewBuilder(baseURL string, client *http.Client) *Builder {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Builder{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"` // [lng, lat] pairs
		} `json:"geometry"`
	} `json:"routes"`
}

// Route returns the driving route between origin and destination. Every
// failure mode resolves to the straight-line fallback, so the caller always
// receives a drawable result.
func (b *Builder) Route(ctx context.Context, origin, dest models.Coordinates) models.RouteInfo {
	route, ok := b.fetch(ctx, origin, dest)
	if !ok {
		return StraightLine(origin, dest)
	}
	return route
}

func (b *Builder) fetch(ctx context.Context, origin, dest models.Coordinates) (models.RouteInfo, bool) {
	// OSRM takes coordinates in lng,lat order.
	u := b.baseURL + "/route/v1/driving/" +
		coord(origin.Lng) + "," + coord(origin.Lat) + ";" +
		coord(dest.Lng) + "," + coord(dest.Lat) +
		"?overview=full&geometries=geojson"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models.RouteInfo{}, false
	}

	resp, err := b.client.Do(req)
	if err != nil {
		log.Printf("routing: request failed: %v", err)
		return models.RouteInfo{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.RouteInfo{}, false
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.RouteInfo{}, false
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return models.RouteInfo{}, false
	}

	best := body.Routes[0]
	geometry := make([]models.Coordinates, 0, len(best.Geometry.Coordinates))
	for _, pair := range best.Geometry.Coordinates {
		if len(pair) < 2 {
			continue
		}
		geometry = append(geometry, models.Coordinates{Lat: pair[1], Lng: pair[0]})
	}
	if len(geometry) < 2 {
		return models.RouteInfo{}, false
	}

	return models.RouteInfo{
		DistanceKM:  best.Distance / 1000,
		DurationMin: best.Duration / 60,
		Geometry:    geometry,
	}, true
}

// StraightLine synthesizes the fallback route: a two-point geometry with the
// great-circle distance and the average-speed duration estimate.
func StraightLine(origin, dest models.Coordinates) models.RouteInfo {
	distance := Haversine(origin, dest)
	return models.RouteInfo{
		DistanceKM:  distance,
		DurationMin: distance * FallbackMinutesPerKM,
		Geometry:    []models.Coordinates{origin, dest},
	}
}

func coord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
