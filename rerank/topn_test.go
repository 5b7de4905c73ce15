package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/ibcf/core"
)

func TestTopN_Process(t *testing.T) {
	items := []*core.Item{
		core.NewItem("a"), core.NewItem("b"), core.NewItem("c"),
	}

	tests := []struct {
		name string
		n    int
		want int
	}{
		{name: "truncate", n: 2, want: 2},
		{name: "exact size", n: 3, want: 3},
		{name: "larger than input", n: 10, want: 3},
		{name: "disabled", n: 0, want: 3},
		{name: "negative", n: -1, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopN{N: tt.n}
			out, err := node.Process(context.Background(), nil, items)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if len(out) != tt.want {
				t.Errorf("len = %d, want %d", len(out), tt.want)
			}
			// truncation keeps the head of the list
			for i := range out {
				if out[i] != items[i] {
					t.Errorf("out[%d] reordered", i)
				}
			}
		})
	}
}
