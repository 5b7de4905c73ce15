package filter

import (
	"context"
	"testing"

	"github.com/rushteam/ibcf/core"
	"github.com/rushteam/ibcf/pkg/utils"
	"github.com/rushteam/ibcf/store"
)

func TestExpr_ShouldFilter(t *testing.T) {
	rctx := &core.RecommendContext{UserID: "u1"}

	low := core.NewItem("low")
	low.Score = 0.05
	high := core.NewItem("high")
	high.Score = 0.9
	hot := core.NewItem("hot")
	hot.PutLabel("recall_source", utils.Label{Value: "hot", Source: "recall"})

	tests := []struct {
		name string
		expr string
		item *core.Item
		want bool
	}{
		{name: "low score filtered", expr: "item.score < 0.1", item: low, want: true},
		{name: "high score kept", expr: "item.score < 0.1", item: high, want: false},
		{name: "label match", expr: `label.recall_source == "hot"`, item: hot, want: true},
		{name: "empty expression keeps all", expr: "", item: low, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Expr{Expression: tt.expr}
			got, err := f.ShouldFilter(context.Background(), rctx, tt.item)
			if err != nil {
				t.Fatalf("ShouldFilter() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlacklist_ShouldFilter(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	if err := ms.Set(ctx, "blacklist:u1", []byte(`["bad1","bad2"]`)); err != nil {
		t.Fatal(err)
	}

	f := &Blacklist{Store: ms}
	rctx := &core.RecommendContext{UserID: "u1"}

	if got, _ := f.ShouldFilter(ctx, rctx, core.NewItem("bad1")); !got {
		t.Error("blacklisted item must be filtered")
	}
	if got, _ := f.ShouldFilter(ctx, rctx, core.NewItem("ok")); got {
		t.Error("clean item must pass")
	}

	// user without a blacklist key filters nothing
	other := &core.RecommendContext{UserID: "u2"}
	if got, err := f.ShouldFilter(ctx, other, core.NewItem("bad1")); err != nil || got {
		t.Errorf("missing key: got %v, err %v; want pass-through", got, err)
	}
}

func TestNode_Process(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	if err := ms.Set(ctx, "blacklist:u1", []byte(`["banned"]`)); err != nil {
		t.Fatal(err)
	}

	node := &Node{Filters: []Filter{
		&Expr{Expression: "item.score < 0.1"},
		&Blacklist{Store: ms},
	}}

	low := core.NewItem("low")
	low.Score = 0.01
	banned := core.NewItem("banned")
	banned.Score = 0.8
	keep := core.NewItem("keep")
	keep.Score = 0.5

	out, err := node.Process(ctx, &core.RecommendContext{UserID: "u1"},
		[]*core.Item{low, banned, keep, nil})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 1 || out[0].ID != "keep" {
		t.Fatalf("Process() = %v, want only keep", out)
	}

	// filtered items are tagged with the filter that removed them
	if l, ok := low.Labels["filtered_by"]; !ok || l.Value != "filter.expr" {
		t.Errorf("low filtered_by = %v, want filter.expr", l)
	}
	if l, ok := banned.Labels["filtered_by"]; !ok || l.Value != "filter.blacklist" {
		t.Errorf("banned filtered_by = %v, want filter.blacklist", l)
	}
}

type failingFilter struct{}

func (failingFilter) Name() string { return "failing" }
func (failingFilter) ShouldFilter(context.Context, *core.RecommendContext, *core.Item) (bool, error) {
	return true, context.Canceled
}

func TestNode_SkipsErroringFilter(t *testing.T) {
	node := &Node{Filters: []Filter{failingFilter{}}}

	item := core.NewItem("x")
	out, err := node.Process(context.Background(), &core.RecommendContext{}, []*core.Item{item})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 1 {
		t.Error("erroring filter must be skipped, not applied")
	}
}
