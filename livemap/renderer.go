// Package livemap keeps a server-side map scene consistent with
// periodically-refreshed vehicle and active-trip snapshots. The scene is
// reconciled in place: existing markers and route lines are updated rather
// than recreated, stale ones are pruned, and the dashboard polls the result
// as JSON.
package livemap

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"fleet-tracking-system/geocoding"
	"fleet-tracking-system/models"
	"fleet-tracking-system/routing"
)

const (
	markerSizeDefault  = 32
	markerSizeSelected = 44

	// sameSpotThresholdKM is the distance under which a bounds-fit over a
	// route's endpoints would zoom in degenerately; below it the viewport
	// centers on the midpoint at a fixed zoom instead.
	sameSpotThresholdKM = 0.1
	midpointZoom        = 15
	boundsPadding       = 48

	colorCompleted = "#2563eb"
	colorRemaining = "#f59e0b"
)

// Segment tags distinguish the lines drawn concurrently for one vehicle.
const (
	segmentCompleted = "completed" // solid, start -> current position
	segmentRemaining = "route"     // dashed, current position -> destination
	segmentPath      = "path"      // solid, start -> current, no destination known
)

// Renderer owns one scene instance for its lifetime. Registries are keyed by
// vehicle ID (plus a segment tag for lines) so re-renders update objects in
// place instead of creating duplicates.
type Renderer struct {
	mu        sync.Mutex
	gazetteer geocoding.Gazetteer

	markers     map[int64]*Marker
	routeLines  map[string]*Polyline
	destMarkers map[int64]*Marker

	routes   map[int64]models.ActiveRoute
	selected int64
	viewport *Viewport
	closed   bool
}

func NewRenderer(gazetteer geocoding.Gazetteer) *Renderer {
	return &Renderer{
		gazetteer:   gazetteer,
		markers:     make(map[int64]*Marker),
		routeLines:  make(map[string]*Polyline),
		destMarkers: make(map[int64]*Marker),
		routes:      make(map[int64]models.ActiveRoute),
	}
}

// Close tears the scene down. Further reconciles are no-ops.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.markers = make(map[int64]*Marker)
	r.routeLines = make(map[string]*Polyline)
	r.destMarkers = make(map[int64]*Marker)
	r.routes = make(map[int64]models.ActiveRoute)
	r.viewport = nil
}

// Reconcile diffs a fresh snapshot against the registries. Vehicles without
// coordinates and routes without a resolvable start are silently excluded;
// that is a data-quality gap, not an error.
func (r *Renderer) Reconcile(vehicles []models.Vehicle, routes []models.ActiveRoute) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.reconcileMarkers(vehicles)
	r.reconcileRoutes(routes)
}

func (r *Renderer) reconcileMarkers(vehicles []models.Vehicle) {
	seen := make(map[int64]bool, len(vehicles))
	for _, v := range vehicles {
		if !v.HasLocation() {
			continue
		}
		seen[v.ID] = true

		m, ok := r.markers[v.ID]
		if !ok {
			m = &Marker{
				ID:        strconv.FormatInt(v.ID, 10),
				VehicleID: v.ID,
				Kind:      MarkerKindVehicle,
			}
			r.markers[v.ID] = m
		}
		m.Lat = *v.Latitude
		m.Lng = *v.Longitude
		m.Plate = v.Plate
		m.Driver = v.Driver
		m.Status = v.Status
		m.Popup = vehiclePopup(v)
		r.applySelection(m)
	}

	for id := range r.markers {
		if !seen[id] {
			delete(r.markers, id)
		}
	}
}

func (r *Renderer) reconcileRoutes(routes []models.ActiveRoute) {
	drawn := make(map[int64]bool, len(routes))
	wantLines := make(map[string]bool, len(routes)*2)
	r.routes = make(map[int64]models.ActiveRoute, len(routes))

	for _, route := range routes {
		start, ok := r.resolveStart(route)
		if !ok {
			// No way to anchor a line for this trip; skip it entirely.
			continue
		}
		drawn[route.VehicleID] = true
		r.routes[route.VehicleID] = route

		current := models.Coordinates{Lat: route.CurrentLat, Lng: route.CurrentLng}
		dest, hasDest := r.resolveDestination(route)

		if hasDest {
			completedKey := segmentKey(route.VehicleID, segmentCompleted)
			remainingKey := segmentKey(route.VehicleID, segmentRemaining)
			r.upsertLine(completedKey, route.VehicleID, []models.Coordinates{start, current}, false, colorCompleted)
			r.upsertLine(remainingKey, route.VehicleID, []models.Coordinates{current, dest}, true, colorRemaining)
			wantLines[completedKey] = true
			wantLines[remainingKey] = true
			r.upsertDestMarker(route, dest)
		} else {
			pathKey := segmentKey(route.VehicleID, segmentPath)
			r.upsertLine(pathKey, route.VehicleID, []models.Coordinates{start, current}, false, colorCompleted)
			wantLines[pathKey] = true
			delete(r.destMarkers, route.VehicleID)
		}
	}

	for key := range r.routeLines {
		if !wantLines[key] {
			delete(r.routeLines, key)
		}
	}
	for id := range r.destMarkers {
		if !drawn[id] {
			delete(r.destMarkers, id)
		}
	}
}

func (r *Renderer) upsertLine(key string, vehicleID int64, points []models.Coordinates, dashed bool, color string) {
	line, ok := r.routeLines[key]
	if !ok {
		line = &Polyline{ID: key, VehicleID: vehicleID}
		r.routeLines[key] = line
	}
	line.Points = points
	line.Dashed = dashed
	line.Color = color
}

func (r *Renderer) upsertDestMarker(route models.ActiveRoute, dest models.Coordinates) {
	m, ok := r.destMarkers[route.VehicleID]
	if !ok {
		m = &Marker{
			ID:        fmt.Sprintf("%d-destination", route.VehicleID),
			VehicleID: route.VehicleID,
			Kind:      MarkerKindDestination,
			Size:      markerSizeDefault,
		}
		r.destMarkers[route.VehicleID] = m
	}
	m.Lat = dest.Lat
	m.Lng = dest.Lng
	m.Label = route.Destination
	m.Popup = route.Destination
}

// vehiclePopup is the text the dashboard shows when a vehicle marker is
// clicked.
func vehiclePopup(v models.Vehicle) string {
	if v.Driver != "" {
		return fmt.Sprintf("%s (%s)", v.Plate, v.Driver)
	}
	return v.Plate
}

// resolveStart anchors a route line: explicit coordinates win, otherwise the
// gazetteer extracts a point from the start-location text.
func (r *Renderer) resolveStart(route models.ActiveRoute) (models.Coordinates, bool) {
	if route.StartLat != nil && route.StartLng != nil {
		return models.Coordinates{Lat: *route.StartLat, Lng: *route.StartLng}, true
	}
	if route.StartLocation != "" && r.gazetteer != nil {
		return r.gazetteer.Lookup(route.StartLocation)
	}
	return models.Coordinates{}, false
}

func (r *Renderer) resolveDestination(route models.ActiveRoute) (models.Coordinates, bool) {
	if route.DestLat != nil && route.DestLng != nil {
		return models.Coordinates{Lat: *route.DestLat, Lng: *route.DestLng}, true
	}
	if route.Destination != "" && r.gazetteer != nil {
		return r.gazetteer.Lookup(route.Destination)
	}
	return models.Coordinates{}, false
}

// Select marks a vehicle as selected, resizes its marker and, when it has an
// active route, recomputes the viewport around that route.
func (r *Renderer) Select(vehicleID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.selected == vehicleID {
		return
	}
	r.selected = vehicleID
	for _, m := range r.markers {
		r.applySelection(m)
	}
	r.viewport = r.focusViewport(vehicleID)
}

func (r *Renderer) applySelection(m *Marker) {
	m.Highlighted = m.VehicleID == r.selected
	if m.Highlighted {
		m.Size = markerSizeSelected
	} else {
		m.Size = markerSizeDefault
	}
}

// focusViewport fits the selected route's endpoints and current position with
// padding. When start and end sit within the same-spot threshold, a bounds
// fit would produce a degenerate zoom; center on their midpoint at a fixed
// zoom instead.
func (r *Renderer) focusViewport(vehicleID int64) *Viewport {
	route, ok := r.routes[vehicleID]
	if !ok {
		return nil
	}
	start, ok := r.resolveStart(route)
	if !ok {
		return nil
	}
	current := models.Coordinates{Lat: route.CurrentLat, Lng: route.CurrentLng}

	end := current
	points := []models.Coordinates{start, current}
	if dest, hasDest := r.resolveDestination(route); hasDest {
		end = dest
		points = append(points, dest)
	}

	if routing.Haversine(start, end) < sameSpotThresholdKM {
		mid := routing.Midpoint(start, end)
		return &Viewport{Center: &mid, Zoom: midpointZoom}
	}

	b := Bounds{MinLat: points[0].Lat, MinLng: points[0].Lng, MaxLat: points[0].Lat, MaxLng: points[0].Lng}
	for _, p := range points[1:] {
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
		if p.Lng < b.MinLng {
			b.MinLng = p.Lng
		}
		if p.Lng > b.MaxLng {
			b.MaxLng = p.Lng
		}
	}
	return &Viewport{Bounds: &b, Padding: boundsPadding}
}

// Scene returns a deep copy of the current map state, ordered
// deterministically.
func (r *Renderer) Scene() Scene {
	r.mu.Lock()
	defer r.mu.Unlock()

	scene := Scene{SelectedVehicle: r.selected}

	for _, m := range r.markers {
		scene.Markers = append(scene.Markers, *m)
	}
	for _, m := range r.destMarkers {
		scene.Markers = append(scene.Markers, *m)
	}
	sort.Slice(scene.Markers, func(a, b int) bool {
		if scene.Markers[a].VehicleID != scene.Markers[b].VehicleID {
			return scene.Markers[a].VehicleID < scene.Markers[b].VehicleID
		}
		return scene.Markers[a].ID < scene.Markers[b].ID
	})

	for _, line := range r.routeLines {
		copied := *line
		copied.Points = append([]models.Coordinates(nil), line.Points...)
		scene.Polylines = append(scene.Polylines, copied)
	}
	sort.Slice(scene.Polylines, func(a, b int) bool {
		return scene.Polylines[a].ID < scene.Polylines[b].ID
	})

	if r.viewport != nil {
		v := *r.viewport
		if v.Bounds != nil {
			b := *v.Bounds
			v.Bounds = &b
		}
		if v.Center != nil {
			c := *v.Center
			v.Center = &c
		}
		scene.Viewport = &v
	}
	return scene
}

func segmentKey(vehicleID int64, tag string) string {
	return fmt.Sprintf("%d-%s", vehicleID, tag)
}
