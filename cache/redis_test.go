package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"fleet-tracking-system/models"
)

func setupRedis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	Rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func ptr(v float64) *float64 { return &v }

func cellMembers(t *testing.T, hash string) []string {
	t.Helper()
	members, err := Rdb.SMembers(context.Background(), CellKey(hash)).Result()
	if err != nil {
		t.Fatal(err)
	}
	return members
}

func snapshot(t *testing.T, id int64) models.Vehicle {
	t.Helper()
	data, err := Rdb.Get(context.Background(), VehicleKey(id)).Result()
	if err != nil {
		t.Fatal(err)
	}
	var v models.Vehicle
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		t.Fatal(err)
	}
	return v
}

// A vehicle goes through a full trip lifecycle: indexed while idle, status
// flipped to active at trip start, moved mid-trip, flipped back to idle on
// completion. The cell sets must hold exactly one membership for it at every
// step and the snapshot must track the latest state.
func TestIndexLifecycleKeepsOneMembershipPerVehicle(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	v := models.Vehicle{
		ID:       7,
		Plate:    "LD-01-23-AB",
		Driver:   "Domingos",
		Latitude: ptr(-8.8390), Longitude: ptr(13.2894),
		Status: models.VehicleStatusIdle,
	}
	v.Geohash = EncodeCell(*v.Latitude, *v.Longitude)
	if err := IndexVehicle(ctx, v); err != nil {
		t.Fatal(err)
	}

	// Trip starts: status changes but the vehicle hasn't moved yet.
	v.Status = models.VehicleStatusActive
	if err := IndexVehicle(ctx, v); err != nil {
		t.Fatal(err)
	}
	if got := cellMembers(t, v.Geohash); len(got) != 1 {
		t.Fatalf("expected 1 member after status change, got %v", got)
	}
	if got := snapshot(t, v.ID); got.Status != models.VehicleStatusActive {
		t.Errorf("snapshot status = %q, want active", got.Status)
	}

	// Mid-trip the vehicle moves to another cell.
	oldCell := v.Geohash
	moved := v
	moved.Latitude, moved.Longitude = ptr(-12.3644), ptr(13.5361)
	moved.Geohash = EncodeCell(*moved.Latitude, *moved.Longitude)
	if moved.Geohash == oldCell {
		t.Fatal("test points must fall in different cells")
	}
	if err := UnindexVehicle(ctx, v); err != nil {
		t.Fatal(err)
	}
	if err := IndexVehicle(ctx, moved); err != nil {
		t.Fatal(err)
	}
	if got := cellMembers(t, oldCell); len(got) != 0 {
		t.Errorf("old cell still holds %v", got)
	}
	if got := cellMembers(t, moved.Geohash); len(got) != 1 {
		t.Fatalf("expected 1 member in new cell, got %v", got)
	}

	// Trip completes: status flips back without a move.
	moved.Status = models.VehicleStatusIdle
	if err := IndexVehicle(ctx, moved); err != nil {
		t.Fatal(err)
	}
	if got := cellMembers(t, moved.Geohash); len(got) != 1 {
		t.Fatalf("expected 1 member after completion, got %v", got)
	}
	if got := snapshot(t, moved.ID); got.Status != models.VehicleStatusIdle {
		t.Errorf("snapshot status = %q, want idle", got.Status)
	}
}

func TestIndexVehicleSkipsUnlocatedVehicles(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	v := models.Vehicle{ID: 3, Plate: "LD-99-00-ZZ", Status: models.VehicleStatusIdle}
	if err := IndexVehicle(ctx, v); err != nil {
		t.Fatal(err)
	}
	if err := Rdb.Get(ctx, VehicleKey(v.ID)).Err(); err != redis.Nil {
		t.Errorf("expected no snapshot for unlocated vehicle, got %v", err)
	}
}
