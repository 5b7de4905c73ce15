package matrix

import (
	"reflect"
	"testing"

	"github.com/rushteam/ibcf/core"
)

func TestBuilder_IndexLayout(t *testing.T) {
	ratings := []core.Rating{
		{UserID: "b", ItemID: "y", Rating: 3},
		{UserID: "a", ItemID: "x", Rating: 5},
		{UserID: "b", ItemID: "x", Rating: 4},
	}

	rm, err := (&Builder{}).Build(ratings)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// index assignment is the sorted unique id set, input order irrelevant
	if !reflect.DeepEqual(rm.UserIDs, []string{"a", "b"}) {
		t.Errorf("UserIDs = %v, want [a b]", rm.UserIDs)
	}
	if !reflect.DeepEqual(rm.ItemIDs, []string{"x", "y"}) {
		t.Errorf("ItemIDs = %v, want [x y]", rm.ItemIDs)
	}

	if i, ok := rm.UserIndex("b"); !ok || i != 1 {
		t.Errorf("UserIndex(b) = %d, %v", i, ok)
	}
	if j, ok := rm.ItemIndex("y"); !ok || j != 1 {
		t.Errorf("ItemIndex(y) = %d, %v", j, ok)
	}
	if _, ok := rm.UserIndex("unknown"); ok {
		t.Error("UserIndex(unknown) should not resolve")
	}

	if got := rm.R.At(0, 0); got != 5 {
		t.Errorf("R[a][x] = %v, want 5", got)
	}
	if !rm.Rated.At(0, 0) || rm.Rated.At(0, 1) {
		t.Errorf("Rated mask wrong: a rated only x")
	}
	if got := rm.RatedCount(1); got != 2 {
		t.Errorf("RatedCount(b) = %d, want 2", got)
	}
}

func TestBuilder_Determinism(t *testing.T) {
	ratings := []core.Rating{
		{UserID: "u2", ItemID: "i3", Rating: 1},
		{UserID: "u1", ItemID: "i1", Rating: 2},
		{UserID: "u3", ItemID: "i2", Rating: 3},
	}
	// shuffled copy of the same records
	shuffled := []core.Rating{ratings[2], ratings[0], ratings[1]}

	a, _ := (&Builder{}).Build(ratings)
	b, _ := (&Builder{}).Build(shuffled)

	if !reflect.DeepEqual(a.UserIDs, b.UserIDs) || !reflect.DeepEqual(a.ItemIDs, b.ItemIDs) {
		t.Errorf("identical input sets must yield identical index layout")
	}
	if !reflect.DeepEqual(a.R.Data, b.R.Data) {
		t.Errorf("identical (duplicate-free) inputs must yield identical matrices")
	}
}

func TestBuilder_AggregatePolicies(t *testing.T) {
	dup := []core.Rating{
		{UserID: "u", ItemID: "i", Rating: 2},
		{UserID: "u", ItemID: "i", Rating: 4},
	}

	tests := []struct {
		name    string
		policy  AggregatePolicy
		want    float64
		wantErr bool
	}{
		{name: "last write wins by default", policy: "", want: 4},
		{name: "last", policy: AggregateLast, want: 4},
		{name: "mean", policy: AggregateMean, want: 3},
		{name: "reject", policy: AggregateReject, wantErr: true},
		{name: "unknown policy", policy: "median", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm, err := (&Builder{Aggregate: tt.policy}).Build(dup)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Build() expected error")
				}
				if !core.IsInvalidInput(err) {
					t.Errorf("Build() error = %v, want INVALID_INPUT", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if got := rm.R.At(0, 0); got != tt.want {
				t.Errorf("R[u][i] = %v, want %v", got, tt.want)
			}
			// duplicates collapse to one rated cell either way
			if got := rm.RatedCount(0); got != 1 {
				t.Errorf("RatedCount = %d, want 1", got)
			}
		})
	}
}

func TestBuilder_Empty(t *testing.T) {
	rm, err := (&Builder{}).Build(nil)
	if err != nil {
		t.Fatalf("Build(nil) error = %v", err)
	}
	if len(rm.UserIDs) != 0 || len(rm.ItemIDs) != 0 {
		t.Errorf("empty input must yield empty layout")
	}
}
