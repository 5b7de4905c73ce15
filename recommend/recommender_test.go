package recommend

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/rushteam/ibcf/core"
)

// 3 users, 3 items, each user rated 2 of the 3 items.
// Means: a=4, b=4.5, c=3. Centered:
//
//	a: ( 1.0, -1.0,  0  )
//	b: (-0.5,    0, 0.5 )
//	c: (   0, -1.0, 1.0 )
var scenarioRatings = []core.Rating{
	{UserID: "a", ItemID: "x", Rating: 5},
	{UserID: "a", ItemID: "y", Rating: 3},
	{UserID: "b", ItemID: "x", Rating: 4},
	{UserID: "b", ItemID: "z", Rating: 5},
	{UserID: "c", ItemID: "y", Rating: 2},
	{UserID: "c", ItemID: "z", Rating: 4},
}

func fitScenario(t *testing.T) *Recommender {
	t.Helper()
	rec := &Recommender{}
	if err := rec.Fit(context.Background(), scenarioRatings, nil); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	return rec
}

func TestRecommend_NotTrained(t *testing.T) {
	rec := &Recommender{}
	_, err := rec.Recommend("a", 5)
	if !core.IsNotTrained(err) {
		t.Fatalf("Recommend() error = %v, want NOT_TRAINED", err)
	}
}

func TestRecommend_InvalidK(t *testing.T) {
	rec := fitScenario(t)
	for _, k := range []int{0, -3} {
		if _, err := rec.Recommend("a", k); !core.IsInvalidInput(err) {
			t.Errorf("Recommend(k=%d) error = %v, want INVALID_INPUT", k, err)
		}
	}
}

func TestRecommend_KnownUser(t *testing.T) {
	rec := fitScenario(t)

	// user a rated x and y, so z is the only eligible candidate
	got, err := rec.Recommend("a", 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Recommend() returned %d items, want 1", len(got))
	}
	if got[0].ItemID != "z" {
		t.Errorf("ItemID = %q, want z", got[0].ItemID)
	}
	if math.IsNaN(got[0].Score) || math.IsInf(got[0].Score, 0) {
		t.Errorf("Score = %v, want finite", got[0].Score)
	}
	// numer = sim(z,x)*1 + sim(z,y)*(-1), denom = |sim(z,x)| + |sim(z,y)|
	if want := 0.5195; math.Abs(got[0].Score-want) > 1e-4 {
		t.Errorf("Score = %v, want ~%v", got[0].Score, want)
	}
	// no item metadata loaded, explanation falls back to raw ids
	if want := "Because you liked items similar to: x, y."; got[0].Explanation != want {
		t.Errorf("Explanation = %q, want %q", got[0].Explanation, want)
	}
}

func TestRecommend_RatedItemsNeverReturned(t *testing.T) {
	rec := fitScenario(t)

	// k far beyond the candidate pool must not surface rated items
	got, err := rec.Recommend("a", 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for _, r := range got {
		if r.ItemID == "x" || r.ItemID == "y" {
			t.Errorf("rated item %q surfaced in results", r.ItemID)
		}
	}
	if len(got) != 1 {
		t.Errorf("Recommend(a, 10) returned %d items, want 1", len(got))
	}
}

func TestRecommend_ColdStart(t *testing.T) {
	rec := fitScenario(t)

	got, err := rec.Recommend("stranger", 2)
	if err != nil {
		t.Fatalf("cold start must never error, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("cold start returned %d items, want 2", len(got))
	}
	// x and z tie on similarity row sum, index order breaks the tie
	if got[0].ItemID != "x" || got[1].ItemID != "z" {
		t.Errorf("cold start order = [%s %s], want [x z]", got[0].ItemID, got[1].ItemID)
	}
	for _, r := range got {
		if r.Explanation != "Cold start fallback." {
			t.Errorf("Explanation = %q, want cold start text", r.Explanation)
		}
	}

	// k beyond catalog clamps instead of erroring
	all, err := rec.Recommend("stranger", 100)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("cold start with oversized k returned %d items, want 3", len(all))
	}
}

func TestRecommend_Deterministic(t *testing.T) {
	rec := fitScenario(t)

	first, err := rec.Recommend("b", 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := rec.Recommend("b", 3)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("repeated call diverged: %v vs %v", first, again)
		}
	}
}

func TestRecommend_ExplanationUsesTitles(t *testing.T) {
	rec := &Recommender{}
	items := []core.ItemMeta{
		{ItemID: "x", Title: "Item X"},
		{ItemID: "y", Title: "Item Y"},
	}
	if err := rec.Fit(context.Background(), scenarioRatings, items); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	got, err := rec.Recommend("a", 1)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if want := "Because you liked items similar to: Item X, Item Y."; got[0].Explanation != want {
		t.Errorf("Explanation = %q, want %q", got[0].Explanation, want)
	}
}
