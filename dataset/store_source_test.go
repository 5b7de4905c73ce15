package dataset

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/ibcf/core"
	"github.com/rushteam/ibcf/store"
)

func TestStoreSource_SeedLoad(t *testing.T) {
	ctx := context.Background()
	src := NewStoreSource(store.NewMemoryStore(), "")

	seed := []core.Rating{
		{UserID: "b", ItemID: "z", Rating: 5},
		{UserID: "a", ItemID: "y", Rating: 3},
		{UserID: "a", ItemID: "x", Rating: 5},
	}
	if err := src.Seed(ctx, seed); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	got, err := src.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	// users sorted by Seed, items sorted by Load: order is canonical
	want := []core.Rating{
		{UserID: "a", ItemID: "x", Rating: 5},
		{UserID: "a", ItemID: "y", Rating: 3},
		{UserID: "b", ItemID: "z", Rating: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %v, want %v", got, want)
	}

	again, err := src.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, again) {
		t.Error("repeated Load() must produce an identical rating stream")
	}
}

func TestStoreSource_EmptyStore(t *testing.T) {
	src := NewStoreSource(store.NewMemoryStore(), "cf")

	got, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() on empty store error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Load() = %v, want empty", got)
	}
}

func TestStoreSource_SkipsUserWithoutInteractions(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	src := NewStoreSource(ms, "cf")

	if err := ms.Set(ctx, "cf:users", []byte(`["a","ghost"]`)); err != nil {
		t.Fatal(err)
	}
	if err := ms.Set(ctx, "cf:user:a", []byte(`{"x":4}`)); err != nil {
		t.Fatal(err)
	}

	got, err := src.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 || got[0].UserID != "a" {
		t.Errorf("Load() = %v, want only user a", got)
	}
}
