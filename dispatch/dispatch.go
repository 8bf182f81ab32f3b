// Package dispatch finds the nearest available vehicle for a pickup point
// using the redis geohash index of live positions.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"fleet-tracking-system/cache"
	"fleet-tracking-system/models"
)

// NearestAvailableVehicle scans the requester's geohash cell and its
// neighbors for an idle vehicle. Cell members are vehicle IDs; the current
// snapshot is loaded per ID, so a vehicle whose status changed since it was
// indexed is never mis-assigned.
func NearestAvailableVehicle(ctx context.Context, lat, lng float64) (*models.Vehicle, error) {
	hash := cache.EncodeCell(lat, lng)

	for _, cell := range cache.NeighborCells(hash) {
		members, err := cache.Rdb.SMembers(ctx, cache.CellKey(cell)).Result()
		if err != nil {
			continue
		}
		for _, member := range members {
			id, err := strconv.ParseInt(member, 10, 64)
			if err != nil {
				continue
			}
			data, err := cache.Rdb.Get(ctx, cache.VehicleKey(id)).Result()
			if err != nil {
				continue
			}
			var vehicle models.Vehicle
			if err := json.Unmarshal([]byte(data), &vehicle); err != nil {
				continue
			}
			if vehicle.Status == models.VehicleStatusIdle {
				return &vehicle, nil
			}
		}
	}
	return nil, fmt.Errorf("no available vehicles nearby")
}
