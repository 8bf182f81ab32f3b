package geoindex

// A point-region quadtree over vehicle entries. Rebuilt lazily from the
// authoritative byID map, so it needs no deletion support.

const nodeCapacity = 4

type bounds struct {
	MinLat, MinLng, MaxLat, MaxLng float64
}

type quadtreeNode struct {
	bounds   bounds
	entries  []Entry
	children [4]*quadtreeNode
}

type quadtree struct {
	root *quadtreeNode
}

func newQuadtree(b bounds) *quadtree {
	return &quadtree{root: &quadtreeNode{bounds: b}}
}

func (qt *quadtree) insert(e Entry) {
	qt.root.insert(e)
}

func (node *quadtreeNode) insert(e Entry) {
	if !node.contains(e.Lat, e.Lng) {
		return
	}
	if len(node.entries) < nodeCapacity && node.children[0] == nil {
		node.entries = append(node.entries, e)
		return
	}
	if node.children[0] == nil {
		node.subdivide()
	}
	for i := 0; i < 4; i++ {
		node.children[i].insert(e)
	}
}

func (node *quadtreeNode) contains(lat, lng float64) bool {
	return lat >= node.bounds.MinLat && lat <= node.bounds.MaxLat &&
		lng >= node.bounds.MinLng && lng <= node.bounds.MaxLng
}

func (node *quadtreeNode) subdivide() {
	midLat := (node.bounds.MinLat + node.bounds.MaxLat) / 2
	midLng := (node.bounds.MinLng + node.bounds.MaxLng) / 2
	node.children[0] = &quadtreeNode{bounds: bounds{node.bounds.MinLat, node.bounds.MinLng, midLat, midLng}}
	node.children[1] = &quadtreeNode{bounds: bounds{node.bounds.MinLat, midLng, midLat, node.bounds.MaxLng}}
	node.children[2] = &quadtreeNode{bounds: bounds{midLat, node.bounds.MinLng, node.bounds.MaxLat, midLng}}
	node.children[3] = &quadtreeNode{bounds: bounds{midLat, midLng, node.bounds.MaxLat, node.bounds.MaxLng}}
}

func (qt *quadtree) searchNearby(lat, lng, radius float64) []Entry {
	return qt.root.searchNearby(lat, lng, radius)
}

func (node *quadtreeNode) searchNearby(lat, lng, radius float64) []Entry {
	if !node.intersectsCircle(lat, lng, radius) {
		return nil
	}
	var result []Entry
	for _, e := range node.entries {
		if sqDist(e, lat, lng) <= radius*radius {
			result = append(result, e)
		}
	}
	if node.children[0] != nil {
		for i := 0; i < 4; i++ {
			result = append(result, node.children[i].searchNearby(lat, lng, radius)...)
		}
	}
	return result
}

func (node *quadtreeNode) intersectsCircle(lat, lng, radius float64) bool {
	closestLat := clamp(lat, node.bounds.MinLat, node.bounds.MaxLat)
	closestLng := clamp(lng, node.bounds.MinLng, node.bounds.MaxLng)
	dLat := closestLat - lat
	dLng := closestLng - lng
	return (dLat*dLat + dLng*dLng) <= (radius * radius)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
