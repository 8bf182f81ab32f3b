package geoindex

import (
	"github.com/dhconnelly/rtreego"
)

// pointTolerance is the tiny bounding box used to store a point in the
// r-tree.
const pointTolerance = 0.0001

// spatialEntry wraps an Entry to satisfy rtreego.Spatial. Entries are stored
// by pointer so deletion can match on object identity.
type spatialEntry struct {
	entry Entry
	point rtreego.Point
}

func (s *spatialEntry) Bounds() rtreego.Rect {
	return s.point.ToRect(pointTolerance)
}

type rtreeIndex struct {
	tree    *rtreego.Rtree
	entries map[int64]*spatialEntry
}

func newRTreeIndex() *rtreeIndex {
	return &rtreeIndex{
		tree:    rtreego.NewTree(2, 25, 50),
		entries: make(map[int64]*spatialEntry),
	}
}

func (r *rtreeIndex) insert(e Entry) {
	s := &spatialEntry{entry: e, point: rtreego.Point{e.Lat, e.Lng}}
	r.tree.Insert(s)
	r.entries[e.VehicleID] = s
}

func (r *rtreeIndex) remove(vehicleID int64) {
	s, ok := r.entries[vehicleID]
	if !ok {
		return
	}
	r.tree.Delete(s)
	delete(r.entries, vehicleID)
}

func (r *rtreeIndex) searchNearby(lat, lng, radius float64) []Entry {
	point := rtreego.Point{lat, lng}
	var out []Entry
	for _, spatial := range r.tree.SearchIntersect(point.ToRect(radius)) {
		s, ok := spatial.(*spatialEntry)
		if !ok {
			continue
		}
		if sqDist(s.entry, lat, lng) <= radius*radius {
			out = append(out, s.entry)
		}
	}
	return out
}
