package recall

import (
	"context"
	"testing"

	"github.com/rushteam/ibcf/core"
	"github.com/rushteam/ibcf/recommend"
	"github.com/rushteam/ibcf/store"
)

func fitModel(t *testing.T) *recommend.Recommender {
	t.Helper()
	rec := &recommend.Recommender{}
	ratings := []core.Rating{
		{UserID: "a", ItemID: "x", Rating: 5},
		{UserID: "a", ItemID: "y", Rating: 3},
		{UserID: "b", ItemID: "x", Rating: 4},
		{UserID: "b", ItemID: "z", Rating: 5},
		{UserID: "c", ItemID: "y", Rating: 2},
		{UserID: "c", ItemID: "z", Rating: 4},
	}
	if err := rec.Fit(context.Background(), ratings, nil); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	return rec
}

func TestIBCF_Process(t *testing.T) {
	node := &IBCF{Model: fitModel(t)}
	rctx := &core.RecommendContext{UserID: "a", K: 2}

	out, err := node.Process(context.Background(), rctx, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 1 || out[0].ID != "z" {
		t.Fatalf("Process() = %v, want only item z", out)
	}
	if l, ok := out[0].Labels["recall_source"]; !ok || l.Value != "i2i" {
		t.Errorf("recall_source = %v, want i2i", l)
	}
	if l, ok := out[0].Labels["explanation"]; !ok || l.Value == "" {
		t.Errorf("explanation label missing: %v", l)
	}
}

func TestIBCF_DefaultK(t *testing.T) {
	node := &IBCF{Model: fitModel(t), TopK: 2}

	// unknown user triggers the cold start path with the node default K
	out, err := node.Process(context.Background(), &core.RecommendContext{UserID: "stranger"}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 2 {
		t.Errorf("Process() returned %d items, want TopK=2", len(out))
	}
}

func TestIBCF_NilModel(t *testing.T) {
	node := &IBCF{}
	out, err := node.Process(context.Background(), &core.RecommendContext{UserID: "a"}, nil)
	if err != nil || out != nil {
		t.Errorf("nil model: got %v, %v; want nil, nil", out, err)
	}
}

func TestHot_FromZSet(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	for member, score := range map[string]float64{"i1": 10, "i2": 30, "i3": 20} {
		if err := ms.ZAdd(ctx, "hot:items", score, member); err != nil {
			t.Fatal(err)
		}
	}

	node := &Hot{Store: ms, Key: "hot:items", TopK: 2}
	out, err := node.Process(ctx, nil, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 2 || out[0].ID != "i2" || out[1].ID != "i3" {
		t.Fatalf("Process() = %v, want [i2 i3] by score desc", out)
	}
	if l, ok := out[0].Labels["recall_source"]; !ok || l.Value != "hot" {
		t.Errorf("recall_source = %v, want hot", l)
	}
}

func TestHot_Fallback(t *testing.T) {
	node := &Hot{IDs: []string{"f1", "f2"}}

	out, err := node.Process(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 2 || out[0].ID != "f1" {
		t.Errorf("Process() = %v, want fallback ids", out)
	}
}
