package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"fleet-tracking-system/config"
	"fleet-tracking-system/models"

	"github.com/go-redis/redis/v8"
	"github.com/mmcloughlin/geohash"
)

// GeohashPrecision is the cell size used for the live position index.
// Precision 5 cells are roughly 5km x 5km, a reasonable dispatch radius.
const GeohashPrecision = 5

var Rdb *redis.Client

func InitRedis() error {
	cfg := config.Cfg.Redis
	Rdb = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx := context.Background()
	if _, err := Rdb.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	log.Println("Connected to Redis successfully.")
	return nil
}

// CellKey is the redis set holding the vehicles currently inside one
// geohash cell.
func CellKey(hash string) string {
	return fmt.Sprintf("vehicles:%s", hash)
}

// EncodeCell returns the geohash cell for a coordinate pair at the index
// precision.
func EncodeCell(lat, lng float64) string {
	return geohash.EncodeWithPrecision(lat, lng, GeohashPrecision)
}

// NeighborCells returns the cells adjacent to hash, plus hash itself.
func NeighborCells(hash string) []string {
	return append(geohash.Neighbors(hash), hash)
}

// VehicleKey is the redis key holding one vehicle's JSON snapshot.
func VehicleKey(id int64) string {
	return fmt.Sprintf("vehicle:%d", id)
}

// IndexVehicle writes the vehicle's snapshot and adds its ID to its geohash
// cell set. Cell members are IDs, not snapshots, so re-indexing after a field
// change (new position, new status) is idempotent. Vehicles without a known
// location are not indexed.
func IndexVehicle(ctx context.Context, v models.Vehicle) error {
	if !v.HasLocation() || v.Geohash == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := Rdb.Set(ctx, VehicleKey(v.ID), data, 0).Err(); err != nil {
		return err
	}
	return Rdb.SAdd(ctx, CellKey(v.Geohash), v.ID).Err()
}

// UnindexVehicle removes the vehicle's ID from its cell set and deletes its
// snapshot.
func UnindexVehicle(ctx context.Context, v models.Vehicle) error {
	if v.Geohash == "" {
		return nil
	}
	if err := Rdb.SRem(ctx, CellKey(v.Geohash), v.ID).Err(); err != nil {
		return err
	}
	return Rdb.Del(ctx, VehicleKey(v.ID)).Err()
}
