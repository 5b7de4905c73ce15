package matrix

import (
	"testing"

	"github.com/rushteam/ibcf/core"
)

func TestNormalize(t *testing.T) {
	// a: x=5 y=3 → mean 4; b: x=4 z=5 → mean 4.5; c: y=2 z=4 → mean 3
	ratings := []core.Rating{
		{UserID: "a", ItemID: "x", Rating: 5},
		{UserID: "a", ItemID: "y", Rating: 3},
		{UserID: "b", ItemID: "x", Rating: 4},
		{UserID: "b", ItemID: "z", Rating: 5},
		{UserID: "c", ItemID: "y", Rating: 2},
		{UserID: "c", ItemID: "z", Rating: 4},
	}
	rm, err := (&Builder{}).Build(ratings)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	nm := Normalize(rm)

	wantMeans := []float64{4, 4.5, 3}
	for u, want := range wantMeans {
		if got := nm.UserMean[u]; got != want {
			t.Errorf("UserMean[%d] = %v, want %v", u, got, want)
		}
	}

	wantValues := [][]float64{
		{1, -1, 0},    // a
		{-0.5, 0, 0.5}, // b
		{0, -1, 1},    // c
	}
	for u := range wantValues {
		for j, want := range wantValues[u] {
			if got := nm.Values.At(u, j); got != want {
				t.Errorf("Values[%d][%d] = %v, want %v", u, j, got, want)
			}
		}
	}

	// unrated cells are exactly zero and stay unrated in the mask
	if nm.Values.At(0, 2) != 0 || nm.Rated.At(0, 2) {
		t.Error("a/z must be unrated with exact zero value")
	}
}

func TestNormalize_ZeroCenteredCellStaysRated(t *testing.T) {
	// equal ratings center to exactly zero; the mask must still say "rated"
	rm, err := (&Builder{}).Build([]core.Rating{
		{UserID: "u", ItemID: "x", Rating: 3},
		{UserID: "u", ItemID: "y", Rating: 3},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	nm := Normalize(rm)
	for j := 0; j < 2; j++ {
		if nm.Values.At(0, j) != 0 {
			t.Errorf("centered value [%d] = %v, want 0", j, nm.Values.At(0, j))
		}
		if !nm.Rated.At(0, j) {
			t.Errorf("cell [%d] must stay rated despite zero centered value", j)
		}
	}
}

func TestNormalize_UserWithoutRatings(t *testing.T) {
	rm, err := (&Builder{}).Build([]core.Rating{
		{UserID: "a", ItemID: "x", Rating: 5},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	// fabricate an all-unrated row: denominators are floored at 1
	rm.Rated.Set(0, 0, false)
	rm.R.Set(0, 0, 0)

	nm := Normalize(rm)
	if nm.UserMean[0] != 0 {
		t.Errorf("mean of user without ratings = %v, want 0", nm.UserMean[0])
	}
	if nm.Values.At(0, 0) != 0 {
		t.Errorf("unrated cell = %v, want 0", nm.Values.At(0, 0))
	}
}
