// Package geoindex maintains an in-memory spatial index of live vehicle
// positions for nearby-vehicle queries. Three interchangeable indexing
// techniques are supported; all of them answer the same widening-radius
// nearby search.
package geoindex

import (
	"errors"
	"sort"
	"sync"

	"github.com/mmcloughlin/geohash"
)

type Technique string

const (
	GeohashingTechnique Technique = "geohashing"
	RTreeTechnique      Technique = "rtree"
	QuadtreeTechnique   Technique = "quadtree"
)

// cellPrecision trades cell size against neighbor fan-out; precision 5 cells
// are about 5km across.
const cellPrecision = 5

// ringCoverageDeg is the guaranteed reach of a neighbor-ring scan. The ring
// extends one full cell beyond the query's own cell in every direction, and
// when the query point sits on a cell edge that is all the coverage there is.
// A precision-5 cell is 0.0439 degrees on each axis (360/2^13 lng, 180/2^12
// lat).
const ringCoverageDeg = 0.0439

// Entry is one indexed vehicle position.
type Entry struct {
	VehicleID int64   `json:"vehicle_id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

// Index is owned by one process instance; it is rebuilt from the database on
// startup and updated on every location commit.
type Index struct {
	mu        sync.Mutex
	technique Technique
	byID      map[int64]Entry
	cells     map[string]map[int64]Entry
	rt        *rtreeIndex
	qt        *quadtree
	qtStale   bool
}

func New(defaultTechnique Technique) *Index {
	if defaultTechnique == "" {
		defaultTechnique = GeohashingTechnique
	}
	return &Index{
		technique: defaultTechnique,
		byID:      make(map[int64]Entry),
		cells:     make(map[string]map[int64]Entry),
		rt:        newRTreeIndex(),
	}
}

// Upsert replaces the indexed position of one vehicle.
func (ix *Index) Upsert(e Entry) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.removeLocked(e.VehicleID)

	ix.byID[e.VehicleID] = e

	cell := geohash.EncodeWithPrecision(e.Lat, e.Lng, cellPrecision)
	if ix.cells[cell] == nil {
		ix.cells[cell] = make(map[int64]Entry)
	}
	ix.cells[cell][e.VehicleID] = e

	ix.rt.insert(e)
	ix.qtStale = true
}

// Remove drops a vehicle from the index, e.g. when its location becomes
// unknown.
func (ix *Index) Remove(vehicleID int64) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.removeLocked(vehicleID)
}

func (ix *Index) removeLocked(vehicleID int64) {
	old, ok := ix.byID[vehicleID]
	if !ok {
		return
	}
	delete(ix.byID, vehicleID)

	cell := geohash.EncodeWithPrecision(old.Lat, old.Lng, cellPrecision)
	if set := ix.cells[cell]; set != nil {
		delete(set, vehicleID)
		if len(set) == 0 {
			delete(ix.cells, cell)
		}
	}

	ix.rt.remove(vehicleID)
	ix.qtStale = true
}

// SearchNearby finds indexed vehicles around a point, doubling the search
// radius (in degrees) on each empty attempt. Results are ordered nearest
// first.
func (ix *Index) SearchNearby(lat, lng float64, technique Technique, maxRetries int) ([]Entry, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if technique == "" {
		technique = ix.technique
	}
	if maxRetries <= 0 {
		maxRetries = 1
	}

	radius := 0.04 // degrees, ~4.4km at the equator; within ring coverage
	var results []Entry

	for i := 0; i < maxRetries; i++ {
		switch technique {
		case GeohashingTechnique:
			results = ix.searchCells(lat, lng, radius)
		case RTreeTechnique:
			results = ix.rt.searchNearby(lat, lng, radius)
		case QuadtreeTechnique:
			if ix.qt == nil || ix.qtStale {
				ix.rebuildQuadtree()
			}
			results = ix.qt.searchNearby(lat, lng, radius)
		default:
			return nil, errors.New("unsupported geo-indexing technique")
		}

		if len(results) > 0 {
			break
		}
		radius *= 2
	}

	if len(results) == 0 {
		return nil, errors.New("no nearby vehicles found after maximum retries")
	}

	sort.Slice(results, func(a, b int) bool {
		return sqDist(results[a], lat, lng) < sqDist(results[b], lat, lng)
	})
	return results, nil
}

// searchCells scans the center geohash cell and its neighbors, then filters
// by radius. Once the radius outgrows what the neighbor ring is guaranteed to
// cover it degrades to a full scan, which is fine at fleet sizes.
func (ix *Index) searchCells(lat, lng float64, radius float64) []Entry {
	var out []Entry
	if radius <= ringCoverageDeg {
		center := geohash.EncodeWithPrecision(lat, lng, cellPrecision)
		for _, cell := range append(geohash.Neighbors(center), center) {
			for _, e := range ix.cells[cell] {
				if sqDist(e, lat, lng) <= radius*radius {
					out = append(out, e)
				}
			}
		}
		return out
	}
	for _, e := range ix.byID {
		if sqDist(e, lat, lng) <= radius*radius {
			out = append(out, e)
		}
	}
	return out
}

func (ix *Index) rebuildQuadtree() {
	ix.qt = newQuadtree(bounds{MinLat: -90, MinLng: -180, MaxLat: 90, MaxLng: 180})
	for _, e := range ix.byID {
		ix.qt.insert(e)
	}
	ix.qtStale = false
}

func sqDist(e Entry, lat, lng float64) float64 {
	dLat := e.Lat - lat
	dLng := e.Lng - lng
	return dLat*dLat + dLng*dLng
}
