// Package filter 提供服务链路的候选过滤 Node。
package filter

import (
	"context"

	"github.com/rushteam/ibcf/core"
	"github.com/rushteam/ibcf/pipeline"
	"github.com/rushteam/ibcf/pkg/utils"
)

// Filter 是单个过滤器：返回 true 表示该物品应被剔除。
type Filter interface {
	Name() string
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}

// Node 是过滤 Node，可以组合多个过滤器。
// 任何一个过滤器命中，该物品就会被剔除；
// 单个过滤器出错时跳过该过滤器，不中断整个链路。
type Node struct {
	Filters []Filter
}

func (n *Node) Name() string        { return "filter" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		filtered := false
		for _, f := range n.Filters {
			hit, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				continue
			}
			if hit {
				filtered = true
				item.PutLabel("filtered_by", utils.Label{Value: f.Name(), Source: "filter"})
				break
			}
		}
		if !filtered {
			out = append(out, item)
		}
	}
	return out, nil
}
